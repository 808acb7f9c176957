// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport and HTTP failures into short, actionable
// hints for the terminal.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	"bizdesk/cli/internal/apiclient"

	"github.com/pterm/pterm"
)

// Class is a coarse category of network failure.
type Class int

const (
	ClassUnknown Class = iota
	ClassTimeout
	ClassDNS
	ClassRefused
	ClassTLS
	ClassServer
)

// Classify inspects err and reports which kind of failure it is.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassUnknown
	case isTimeout(err):
		return ClassTimeout
	case isDNS(err):
		return ClassDNS
	case isRefused(err):
		return ClassRefused
	case isTLS(err):
		return ClassTLS
	case isServer(err):
		return ClassServer
	}
	return ClassUnknown
}

// Hint is a headline plus suggestions.
type Hint struct {
	Title string
	Lines []string
}

// Describe builds the hint for err raised while doing action against host.
func Describe(err error, action, host string) Hint {
	if host == "" {
		host = "the API server"
	}
	switch Classify(err) {
	case ClassTimeout:
		return Hint{
			Title: fmt.Sprintf("Request timed out while %s", action),
			Lines: []string{
				host + " took too long to respond.",
				"Raise the limit with 'bizdesk config set timeout 30s' if the server is slow.",
			},
		}
	case ClassDNS:
		return Hint{
			Title: fmt.Sprintf("Cannot resolve %s while %s", host, action),
			Lines: []string{
				"Check the api_url setting and your network connection.",
			},
		}
	case ClassRefused:
		return Hint{
			Title: fmt.Sprintf("Connection refused while %s", action),
			Lines: []string{
				"Nothing is listening at " + host + ". Is the API server running?",
				"Point the CLI elsewhere with --api-url or BIZDESK_API_URL.",
			},
		}
	case ClassTLS:
		return Hint{
			Title: fmt.Sprintf("Secure connection failed while %s", action),
			Lines: []string{
				"The server certificate could not be verified.",
				"Check the system clock and any HTTPS proxy in between.",
			},
		}
	case ClassServer:
		return Hint{
			Title: fmt.Sprintf("Server error while %s", action),
			Lines: []string{
				host + " failed to handle the request. Try again in a moment.",
			},
		}
	}
	return Hint{Title: fmt.Sprintf("Cannot reach %s while %s", host, action)}
}

// Print writes the hint for err to w with pterm styling.
func Print(w io.Writer, err error, action, host string) {
	h := Describe(err, action, host)
	pterm.Error.WithWriter(w).Println(h.Title)
	for _, line := range h.Lines {
		pterm.Fprintln(w, "  "+line)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded")
}

func isDNS(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLS(err error) bool {
	s := strings.ToLower(err.Error())
	for _, needle := range []string{"tls", "x509", "certificate", "handshake"} {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func isServer(err error) bool {
	var apiErr *apiclient.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 500
}

// HostOf extracts the host from a URL for messages.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
