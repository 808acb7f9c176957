// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard decides whether a command may run given the current session.
// Protected commands carry the Protected annotation; everything else is public.
package guard

import (
	"context"
	"fmt"

	bizerrors "bizdesk/cli/internal/errors"
	"bizdesk/cli/internal/session"

	"github.com/spf13/cobra"
)

// Protected is the cobra annotation key marking a command as requiring a session.
const Protected = "bizdesk/protected"

// ErrLoginRequired is returned for protected commands run without a session.
var ErrLoginRequired = bizerrors.New(bizerrors.LoginRequired, "login required")

// Source is the read side of the session manager.
type Source interface {
	WaitReady(ctx context.Context) (session.State, error)
	EnsureFresh(ctx context.Context) session.State
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allow bool
	// RedirectTo names the route to send the user to when Allow is false.
	RedirectTo string
	// Target is the route that was requested.
	Target string
}

// Guard gates protected routes on session presence.
type Guard struct {
	sessions   Source
	loginRoute string
}

// New returns a Guard redirecting unauthenticated users to loginRoute.
func New(sessions Source, loginRoute string) *Guard {
	if loginRoute == "" {
		loginRoute = "login"
	}
	return &Guard{sessions: sessions, loginRoute: loginRoute}
}

// Check blocks until the session finished hydrating, so a stored session is
// never mistaken for a missing one. The error is non-nil only when ctx ends first.
func (g *Guard) Check(ctx context.Context, target string) (Decision, error) {
	if _, err := g.sessions.WaitReady(ctx); err != nil {
		return Decision{Target: target}, fmt.Errorf("wait for session: %w", err)
	}
	if g.sessions.EnsureFresh(ctx).Authenticated() {
		return Decision{Allow: true, Target: target}, nil
	}
	return Decision{Allow: false, RedirectTo: g.loginRoute, Target: target}, nil
}

// Require is Check folded into a single error suitable for a cobra pre-run hook.
func (g *Guard) Require(ctx context.Context, target string) error {
	d, err := g.Check(ctx, target)
	if err != nil {
		return err
	}
	if !d.Allow {
		return fmt.Errorf("%w: run 'bizdesk %s' first", ErrLoginRequired, d.RedirectTo)
	}
	return nil
}

// Protect marks cmd as requiring a session and returns it.
func Protect(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[Protected] = "true"
	return cmd
}

// IsProtected reports whether cmd or any of its parents is marked Protected.
func IsProtected(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[Protected] == "true" {
			return true
		}
	}
	return false
}
