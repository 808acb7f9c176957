// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session owns the authentication state of the running process.
//
// A Manager keeps three locations consistent: the in-memory token, the token in
// the persistent credential store, and the token attached as a default header on
// the shared API client. Either all three hold the same token (authenticated) or
// none does (unauthenticated). Login and Register acquire a token from the remote
// auth endpoints; Logout and Expire drop it. Consumers read snapshots through
// State/WaitReady or subscribe to changes; they never touch the store or the
// header directly.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"bizdesk/cli/internal/apiclient"
	bizerrors "bizdesk/cli/internal/errors"
	"bizdesk/cli/internal/logging"
	"bizdesk/cli/internal/notify"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pterm/pterm"
)

// Store is the persistent credential store holding the single session token.
type Store interface {
	// LoadToken returns ("", false, nil) when no token is stored.
	LoadToken() (token string, ok bool, err error)
	SaveToken(token string) error
	// ClearToken must succeed when no token is stored.
	ClearToken() error
}

// HeaderSetter is the part of the API client the manager mutates.
type HeaderSetter interface {
	SetDefaultHeader(name, value string)
	DeleteDefaultHeader(name string)
}

// Authenticator calls the remote credential endpoints.
type Authenticator interface {
	Login(ctx context.Context, creds apiclient.Credentials) (string, error)
	Register(ctx context.Context, creds apiclient.Credentials) (string, error)
}

// Messages shown to the user.
const (
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
	MsgLoginSucceeded     = "Logged in successfully"
	MsgRegistered         = "Account created, you are now logged in"
	MsgFieldsRequired     = "username and password are required"
	MsgBusy               = "another sign-in is already in progress"
	MsgSessionExpired     = "Your session has expired. Please log in again."
)

// Manager is the session state machine.
type Manager struct {
	store    Store
	headers  HeaderSetter
	auth     Authenticator
	notifier notify.Notifier
	logger   *pterm.Logger

	headerName    string
	requireFields bool
	now           func() time.Time

	// mu guards state; transition serializes the multi-step commits so a
	// logout cannot interleave with a login's store/header/memory writes.
	mu         sync.RWMutex
	state      State
	transition sync.Mutex

	busy atomic.Bool

	hydrateOnce sync.Once
	hydrateErr  error
	ready       chan struct{}

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sets where (outcome, message) pairs are delivered.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *pterm.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRequiredFields toggles the empty-credentials pre-condition (default on).
// When off, empty values are sent to the server as-is.
func WithRequiredFields(required bool) Option {
	return func(m *Manager) { m.requireFields = required }
}

// WithHeaderName changes the header the token travels in.
func WithHeaderName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.headerName = name
		}
	}
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New builds an unhydrated Manager. Call Hydrate once before serving consumers.
func New(store Store, headers HeaderSetter, auth Authenticator, opts ...Option) *Manager {
	m := &Manager{
		store:         store,
		headers:       headers,
		auth:          auth,
		notifier:      notify.Nop{},
		logger:        logging.Discard(),
		headerName:    apiclient.TokenHeader,
		requireFields: true,
		now:           time.Now,
		ready:         make(chan struct{}),
		subs:          make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Hydrate reads the credential store into memory. It runs once per Manager;
// later calls return the first call's error without touching any state.
//
// A stored token that is a JWT past its exp claim is discarded and cleared from
// the store. Opaque tokens are trusted until the API rejects them.
func (m *Manager) Hydrate(ctx context.Context) error {
	m.hydrateOnce.Do(func() {
		m.hydrateErr = m.hydrate(ctx)
		m.mu.Lock()
		m.state.Ready = true
		snapshot := m.state
		m.mu.Unlock()
		close(m.ready)
		m.publish(snapshot)
	})
	return m.hydrateErr
}

func (m *Manager) hydrate(ctx context.Context) error {
	m.transition.Lock()
	defer m.transition.Unlock()

	token, ok, err := m.store.LoadToken()
	if err != nil {
		m.logger.Warn("could not read stored session", m.logger.Args("error", logging.Mask(err.Error())))
		return bizerrors.Wrap(bizerrors.Storage, "read stored session", err)
	}
	if !ok || token == "" {
		m.logger.Debug("hydrated without session")
		return nil
	}

	if m.expired(token) {
		m.logger.Info("stored session expired, discarding", m.logger.Args("token", logging.Fingerprint(token)))
		if err := m.store.ClearToken(); err != nil {
			// The stale token stays in the store but is never attached; the next
			// start finds it expired again and retries the delete.
			m.logger.Warn("could not remove expired session from store", m.logger.Args(
				"token", logging.Fingerprint(token), "error", logging.Mask(err.Error()),
			))
			return bizerrors.Wrap(bizerrors.Storage, "clear expired session", err)
		}
		m.notifier.Info(MsgSessionExpired)
		return nil
	}

	m.headers.SetDefaultHeader(m.headerName, token)
	m.mu.Lock()
	m.state.Token = token
	m.state.Status = StatusAuthenticated
	m.mu.Unlock()
	m.logger.Debug("hydrated session", m.logger.Args("token", logging.Fingerprint(token)))
	return nil
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// WaitReady blocks until hydration finished or ctx is done.
func (m *Manager) WaitReady(ctx context.Context) (State, error) {
	select {
	case <-m.ready:
		return m.State(), nil
	case <-ctx.Done():
		return m.State(), ctx.Err()
	}
}

// Login exchanges credentials for a session token via the login endpoint.
func (m *Manager) Login(ctx context.Context, username, password string) Result {
	return m.signIn(ctx, signInLogin, username, password)
}

// Register creates an account and signs in with the token the server returns.
func (m *Manager) Register(ctx context.Context, username, password string) Result {
	return m.signIn(ctx, signInRegister, username, password)
}

type signInKind int

const (
	signInLogin signInKind = iota
	signInRegister
)

func (k signInKind) String() string {
	if k == signInRegister {
		return "register"
	}
	return "login"
}

func (k signInKind) messages() (fallback, success string) {
	if k == signInRegister {
		return MsgRegistrationFailed, MsgRegistered
	}
	return MsgLoginFailed, MsgLoginSucceeded
}

func (m *Manager) signIn(ctx context.Context, kind signInKind, username, password string) Result {
	fallback, success := kind.messages()

	if !m.busy.CompareAndSwap(false, true) {
		return m.fail(kind, bizerrors.Busy, MsgBusy, nil)
	}
	defer m.busy.Store(false)

	if m.requireFields && (strings.TrimSpace(username) == "" || password == "") {
		return m.fail(kind, bizerrors.Validation, MsgFieldsRequired, nil)
	}

	creds := apiclient.Credentials{Username: username, Password: password}
	var (
		token string
		err   error
	)
	if kind == signInRegister {
		token, err = m.auth.Register(ctx, creds)
	} else {
		token, err = m.auth.Login(ctx, creds)
	}
	if err != nil {
		k := bizerrors.Network
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			k = bizerrors.AuthFailed
		}
		return m.fail(kind, k, apiclient.AuthMessageFrom(err, fallback), err)
	}

	if err := m.commit(token); err != nil {
		return m.fail(kind, bizerrors.Storage, fallback+": could not save the session", err)
	}

	m.logger.Info(kind.String()+" succeeded", m.logger.Args("user", username, "token", logging.Fingerprint(token)))
	m.notifier.Success(success)
	return Result{OK: true, Message: success}
}

func (m *Manager) fail(kind signInKind, k bizerrors.Kind, msg string, cause error) Result {
	args := []any{"kind", string(k), "message", msg}
	if cause != nil {
		args = append(args, "error", logging.Mask(cause.Error()))
	}
	m.logger.Debug(kind.String()+" failed", m.logger.Args(args...))
	m.notifier.Error(msg)
	return Result{OK: false, Message: msg, Kind: string(k)}
}

// commit installs token in all three locations: store first, then the client
// header, then memory. A reader that sees Authenticated can rely on the header.
func (m *Manager) commit(token string) error {
	m.transition.Lock()
	if err := m.store.SaveToken(token); err != nil {
		m.transition.Unlock()
		return err
	}
	m.headers.SetDefaultHeader(m.headerName, token)
	m.mu.Lock()
	m.state.Token = token
	m.state.Status = StatusAuthenticated
	snapshot := m.state
	m.mu.Unlock()
	m.transition.Unlock()

	m.publish(snapshot)
	return nil
}

// Logout drops the session everywhere. It makes no network call and is
// idempotent: from any state it ends unauthenticated with store and header cleared.
// The returned error only reports a credential store that refused the delete.
func (m *Manager) Logout(ctx context.Context) error {
	_, err := m.clear(false)
	if err != nil {
		m.logger.Warn("logout could not clear stored token", m.logger.Args("error", logging.Mask(err.Error())))
		return bizerrors.Wrap(bizerrors.Storage, "clear stored session", err)
	}
	m.logger.Debug("logged out")
	return nil
}

// Expire is Logout triggered by the API rejecting the token. It notifies the
// user only when a session was actually dropped.
func (m *Manager) Expire(ctx context.Context, reason string) {
	dropped, err := m.clear(true)
	if !dropped {
		return
	}
	m.logger.Info("session expired", m.logger.Args("reason", reason))
	if err != nil {
		m.logger.Warn("expire could not clear stored token", m.logger.Args("error", logging.Mask(err.Error())))
	}
	m.notifier.Error(MsgSessionExpired)
}

// EnsureFresh expires a JWT session whose exp claim has passed and returns the
// resulting snapshot. Opaque tokens are returned unchanged.
func (m *Manager) EnsureFresh(ctx context.Context) State {
	st := m.State()
	if st.Authenticated() && m.expired(st.Token) {
		m.Expire(ctx, "token past exp claim")
	}
	return m.State()
}

// clear drops the token in the reverse order of commit: memory, header, store.
// With onlyIfAuthenticated it does nothing unless a session is held. It reports
// whether a session was dropped.
func (m *Manager) clear(onlyIfAuthenticated bool) (bool, error) {
	m.transition.Lock()
	m.mu.Lock()
	was := m.state.Status == StatusAuthenticated
	if onlyIfAuthenticated && !was {
		m.mu.Unlock()
		m.transition.Unlock()
		return false, nil
	}
	m.state.Token = ""
	m.state.Status = StatusUnauthenticated
	snapshot := m.state
	m.mu.Unlock()
	m.headers.DeleteDefaultHeader(m.headerName)
	err := m.store.ClearToken()
	m.transition.Unlock()

	m.publish(snapshot)
	return was, err
}

// Subscribe registers fn to receive every new snapshot after a transition.
// fn runs synchronously on the goroutine that caused the change.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) publish(st State) {
	m.subMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// expired reports whether token is a JWT whose exp claim is in the past.
// Signatures are not verified; the server remains the authority.
func (m *Manager) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !m.now().Before(exp.Time)
}
