// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"bizdesk/cli/internal/apiclient"
	"bizdesk/cli/internal/config"
	"bizdesk/cli/internal/guard"
	"bizdesk/cli/internal/keychain"
	"bizdesk/cli/internal/logging"
	"bizdesk/cli/internal/notify"
	"bizdesk/cli/internal/output"
	"bizdesk/cli/internal/resources"
	"bizdesk/cli/internal/session"
	"bizdesk/cli/internal/terminal"
	"bizdesk/cli/internal/xdg"

	"github.com/pterm/pterm"
)

// App holds the process-wide collaborators. It is built once per invocation by
// the root command and handed to every subcommand constructor.
type App struct {
	cfg      config.Config
	logger   *pterm.Logger
	store    session.Store
	client   *apiclient.Client
	sessions *session.Manager
	guard    *guard.Guard
	res      *resources.Service
	notifier notify.Notifier
	prompt   *terminal.Prompter

	out    io.Writer
	errOut io.Writer

	flags globalFlags
	ready bool
}

type globalFlags struct {
	apiURL  string
	output  string
	verbose bool
}

// NewApp returns an App writing to the process's stdout and stderr.
func NewApp() *App {
	return &App{
		out:      os.Stdout,
		errOut:   os.Stderr,
		notifier: notify.Terminal{},
		prompt:   terminal.Stdio(),
	}
}

// loadConfig reads file and env settings and applies command-line flags on top.
func (a *App) loadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.flags.apiURL != "" {
		cfg.APIURL = a.flags.apiURL
	}
	if a.flags.output != "" {
		cfg.Output = a.flags.output
	}
	if a.flags.verbose {
		cfg.Verbose = true
	}
	cfg.APIURL = apiclient.NormalizeBaseURL(cfg.APIURL)
	a.cfg = cfg
	a.logger = logging.New(cfg.Verbose)
	return nil
}

// setup opens the credential store, builds the shared API client and the
// session manager, and hydrates the session. Safe to call more than once.
func (a *App) setup(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.logger == nil {
		if err := a.loadConfig(); err != nil {
			return err
		}
	}

	if a.store == nil {
		store, err := a.openStore()
		if err != nil {
			return err
		}
		a.store = store
	}

	a.client = apiclient.New(a.cfg.APIURL,
		apiclient.WithTimeout(a.cfg.Timeout.Std()),
		apiclient.WithEndpoints(a.cfg.Endpoints),
		apiclient.WithUserAgent("bizdesk-cli/"+Version),
		apiclient.WithLogger(a.logger),
	)
	a.sessions = session.New(a.store, a.client, a.client,
		session.WithNotifier(a.notifier),
		session.WithLogger(a.logger),
		session.WithRequiredFields(a.cfg.RequireFields),
	)
	a.client.OnUnauthorized(func(ctx context.Context, err *apiclient.APIError) {
		a.sessions.Expire(ctx, err.Message)
	})
	a.guard = guard.New(a.sessions, "login")
	a.res = resources.New(a.client)
	a.ready = true

	if err := a.sessions.Hydrate(ctx); err != nil {
		// The session stays unauthenticated; protected commands will ask for a login.
		a.logger.Warn("could not load stored session", a.logger.Args("error", logging.Mask(err.Error())))
	}
	return nil
}

func (a *App) openStore() (*keychain.Manager, error) {
	opts := keychain.Options{
		Backend:      a.cfg.KeyringBackend,
		FilePassword: a.cfg.FilePassword,
	}
	if opts.Backend == keychain.BackendFile {
		dir, err := xdg.DataDir()
		if err != nil {
			return nil, err
		}
		opts.FileDir = filepath.Join(dir, "keyring")
	}
	return keychain.New(opts)
}

// formatter returns the formatter for the configured --output.
func (a *App) formatter() (output.Formatter, error) {
	f, err := output.ParseFormat(a.cfg.Output)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(f), nil
}

// render writes data in the configured output format.
func (a *App) render(data any) error {
	f, err := a.formatter()
	if err != nil {
		return err
	}
	return f.Format(a.out, data)
}
