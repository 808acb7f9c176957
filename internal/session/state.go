// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

// Status is the authentication status derived from the token.
type Status int

const (
	// StatusUnauthenticated is the initial status: no token anywhere.
	StatusUnauthenticated Status = iota
	// StatusAuthenticated means a token is held in memory, in the store and on the client.
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// State is a snapshot of the session as seen by consumers.
type State struct {
	// Token is the opaque session token; empty means absent.
	Token  string
	Status Status
	// Ready turns true once hydration from the credential store finished.
	// Consumers must treat the session as loading until then.
	Ready bool
}

// Authenticated reports whether the snapshot holds a session.
func (s State) Authenticated() bool { return s.Status == StatusAuthenticated }

// Result is the outcome of a sign-in operation: a boolean plus a message fit
// for the user. Failures are never returned as errors.
type Result struct {
	OK      bool
	Message string
	// Kind categorizes failures (validation, auth_failed, network, busy, storage).
	// Empty on success.
	Kind string
}
