// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept in the file; the session token goes to the
// OS keychain. Environment variables (and a .env file in the working directory)
// override the file, and command-line flags override both.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bizdesk/cli/internal/apiclient"
	"bizdesk/cli/internal/xdg"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultAPIURL is where the business API listens in a local setup.
const DefaultAPIURL = "http://localhost:5000/api"

// Output formats accepted by list commands.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Config holds non-sensitive CLI settings plus env-only secrets that are never saved.
type Config struct {
	APIURL         string              `json:"api_url" env:"BIZDESK_API_URL"`
	Timeout        Duration            `json:"timeout" env:"BIZDESK_TIMEOUT"`
	LogLevel       string              `json:"log_level" env:"BIZDESK_LOG_LEVEL"`
	Output         string              `json:"output" env:"BIZDESK_OUTPUT"`
	RequireFields  bool                `json:"require_fields" env:"BIZDESK_REQUIRE_FIELDS"`
	KeyringBackend string              `json:"keyring_backend" env:"BIZDESK_KEYRING_BACKEND"`
	Endpoints      apiclient.Endpoints `json:"endpoints"`

	// FilePassword unlocks the encrypted file keyring backend.
	FilePassword string `json:"-" env:"BIZDESK_FILE_PASSWORD"`
	Verbose      bool   `json:"-" env:"BIZDESK_VERBOSE"`
}

// Duration is a time.Duration stored as text ("10s") in JSON and env.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = 0
		return nil
	}
	// Bare integers are seconds.
	if n, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		Timeout:        Duration(apiclient.DefaultTimeout),
		LogLevel:       "info",
		Output:         OutputTable,
		RequireFields:  true,
		KeyringBackend: "auto",
		Endpoints:      apiclient.DefaultEndpoints(),
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load() (Config, error) {
	c, err := LoadFile()
	if err != nil {
		return c, err
	}
	if err := ApplyEnv(&c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// LoadFile reads only the config file; missing file returns defaults.
func LoadFile() (Config, error) {
	c := Default()
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", p, err)
	}
	return c, nil
}

// ApplyEnv overrides c with BIZDESK_* variables. Values from a .env file in the
// working directory are used only when the variable is not already set.
func ApplyEnv(c *Config) error {
	// The .env file is optional.
	_ = godotenv.Load()
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api_url must not be empty")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	switch c.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", c.Output)
	}
	return nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Keys lists the settings accepted by Set, in display order.
func Keys() []string {
	return []string{"api_url", "timeout", "log_level", "output", "require_fields", "keyring_backend"}
}

// Set assigns one setting by its file key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_url":
		c.APIURL = apiclient.NormalizeBaseURL(value)
	case "timeout":
		var d Duration
		if err := d.UnmarshalText([]byte(value)); err != nil {
			return err
		}
		c.Timeout = d
	case "log_level":
		c.LogLevel = value
	case "output":
		c.Output = strings.ToLower(value)
	case "require_fields":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("require_fields: %w", err)
		}
		c.RequireFields = b
	case "keyring_backend":
		c.KeyringBackend = value
	default:
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return c.Validate()
}

// Get returns one setting by its file key as text.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "timeout":
		return c.Timeout.Std().String(), nil
	case "log_level":
		return c.LogLevel, nil
	case "output":
		return c.Output, nil
	case "require_fields":
		return strconv.FormatBool(c.RequireFields), nil
	case "keyring_backend":
		return c.KeyringBackend, nil
	}
	return "", fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys(), ", "))
}
