// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides the structured logger and secret masking used across bizdesk.
// Log lines go through pterm's logger so they share styling with the rest of the
// terminal output, and every value that may contain a session token or password is
// passed through Mask before it is printed.
package logging

import (
	"regexp"
	"strconv"
)

var (
	rePassword  = regexp.MustCompile(`(?i)("?password"?\s*[=:]\s*"?)([^\s;",}]+)`)
	reToken     = regexp.MustCompile(`(?i)("?token"?\s*[=:]\s*"?|bearer\s+)([A-Za-z0-9._-]+)`)
	reAuthToken = regexp.MustCompile(`(?i)(x-auth-token:\s*)(\S+)`)
	reURLCreds  = regexp.MustCompile(`(?i)(://)([^:/@]+):([^@]+)(@)`)
)

// Mask replaces sensitive values in the input string with "*".
// For URLs with embedded credentials, both username and password are masked.
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reAuthToken.ReplaceAllString(out, "$1***")
	out = reURLCreds.ReplaceAllString(out, "$1*:*$4")
	return out
}

// Fingerprint returns a short, non-reversible hint of a token for debug output:
// the first four characters followed by the length.
func Fingerprint(token string) string {
	if token == "" {
		return "<none>"
	}
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "…(" + strconv.Itoa(len(token)) + ")"
}
