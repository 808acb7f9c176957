package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	bizerrors "bizdesk/cli/internal/errors"
	"bizdesk/cli/internal/session"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	ready chan struct{}
	state session.State
}

func newSource(st session.State) *fakeSource {
	return &fakeSource{ready: make(chan struct{}), state: st}
}

func (f *fakeSource) WaitReady(ctx context.Context) (session.State, error) {
	select {
	case <-f.ready:
		return f.state, nil
	case <-ctx.Done():
		return session.State{}, ctx.Err()
	}
}

func (f *fakeSource) EnsureFresh(context.Context) session.State { return f.state }

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		state session.State
		want  Decision
	}{
		{
			name:  "authenticated",
			state: session.State{Token: "tok", Status: session.StatusAuthenticated, Ready: true},
			want:  Decision{Allow: true, Target: "customers"},
		},
		{
			name:  "unauthenticated",
			state: session.State{Ready: true},
			want:  Decision{Allow: false, RedirectTo: "login", Target: "customers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSource(tt.state)
			close(src.ready)

			got, err := New(src, "").Check(context.Background(), "customers")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheck_WaitsForHydration(t *testing.T) {
	src := newSource(session.State{Token: "tok", Status: session.StatusAuthenticated, Ready: true})
	g := New(src, "login")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	d, err := g.Check(ctx, "items")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, d.Allow)

	done := make(chan Decision)
	go func() {
		d, _ := g.Check(context.Background(), "items")
		done <- d
	}()
	close(src.ready)
	assert.True(t, (<-done).Allow)
}

func TestRequire(t *testing.T) {
	src := newSource(session.State{Ready: true})
	close(src.ready)

	err := New(src, "login").Require(context.Background(), "orders")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoginRequired))
	assert.True(t, bizerrors.Is(err, bizerrors.LoginRequired))
	assert.Contains(t, err.Error(), "bizdesk login")

	src.state = session.State{Token: "tok", Status: session.StatusAuthenticated, Ready: true}
	assert.NoError(t, New(src, "login").Require(context.Background(), "orders"))
}

func TestIsProtected(t *testing.T) {
	root := &cobra.Command{Use: "bizdesk"}
	customers := Protect(&cobra.Command{Use: "customers"})
	list := &cobra.Command{Use: "list"}
	login := &cobra.Command{Use: "login"}
	customers.AddCommand(list)
	root.AddCommand(customers, login)

	assert.False(t, IsProtected(root))
	assert.True(t, IsProtected(customers))
	assert.True(t, IsProtected(list), "subcommands inherit protection")
	assert.False(t, IsProtected(login))
}
