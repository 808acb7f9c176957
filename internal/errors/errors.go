// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure the session layer can surface carries a machine-readable Kind and a
// human-facing Message, so callers can branch on the category while the terminal
// shows the message verbatim.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Validation indicates a caller-side pre-condition failed (e.g. empty credentials).
	Validation Kind = "validation"
	// AuthFailed indicates the remote auth endpoint rejected the request.
	AuthFailed Kind = "auth_failed"
	// Network indicates the request could not complete at the transport level.
	Network Kind = "network"
	// Busy indicates a sign-in is already in flight.
	Busy Kind = "busy"
	// Storage indicates the credential store could not be read or written.
	Storage Kind = "storage"
	// Unauthorized indicates an authenticated call was rejected with 401.
	Unauthorized Kind = "unauthorized"
	// API indicates a resource endpoint rejected the request (4xx/5xx other than 401).
	API Kind = "api"
	// LoginRequired indicates a protected command ran without a session.
	LoginRequired Kind = "login_required"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
