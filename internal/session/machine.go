// Package session implements the client-side authorization state machine
// that route-level consumers drive. Each consumer constructs its own Machine;
// there is no shared global instance.
package session

import (
	"context"
	"strings"
	"sync"
)

// Status is the resolution state of the current session fetch.
type Status string

const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Session is the authenticated user as reported by the session endpoint.
type Session struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Image  string `json:"image"`
}

// Fetcher loads the current session. A nil session with a nil error means
// no one is signed in. Any error is treated the same as no session.
type Fetcher func(ctx context.Context) (*Session, error)

// RoutePolicy classifies routes and names the two redirect destinations.
// A route is matched by exact path or by a registered prefix ending in "/".
type RoutePolicy struct {
	Protected  []string
	GuestOnly  []string
	LoginRoute string
	FeedRoute  string
}

func matchRoute(patterns []string, path string) bool {
	for _, p := range patterns {
		if p == path {
			return true
		}
		if strings.HasSuffix(p, "/") && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Machine resolves the session on every route change. A newer route change
// or refetch supersedes any in-flight fetch: the old fetch's context is
// cancelled and its result, if it still arrives, is discarded.
type Machine struct {
	fetch    Fetcher
	policy   RoutePolicy
	redirect func(path string)

	mu         sync.Mutex
	status     Status
	session    *Session
	path       string
	generation uint64
	cancel     context.CancelFunc
}

// NewMachine creates a machine. redirect is invoked at most once per
// resolution, with the destination route. It may be nil.
func NewMachine(fetch Fetcher, policy RoutePolicy, redirect func(path string)) *Machine {
	if redirect == nil {
		redirect = func(string) {}
	}
	return &Machine{
		fetch:    fetch,
		policy:   policy,
		redirect: redirect,
		status:   StatusLoading,
	}
}

// Status returns the current resolution status.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Current returns the resolved session, or nil while loading or when no one
// is signed in.
func (m *Machine) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// HandleRouteChange re-enters loading and resolves the session for the new
// route. It returns once the fetch has been started; resolution happens in
// the background.
func (m *Machine) HandleRouteChange(ctx context.Context, path string) {
	m.mu.Lock()
	m.path = path
	m.begin(ctx, path)
	m.mu.Unlock()
}

// Refetch re-resolves the session for the current route, superseding any
// fetch still in flight.
func (m *Machine) Refetch(ctx context.Context) {
	m.mu.Lock()
	m.begin(ctx, m.path)
	m.mu.Unlock()
}

// begin must be called with the lock held.
func (m *Machine) begin(ctx context.Context, path string) {
	if m.cancel != nil {
		m.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.generation++
	m.status = StatusLoading
	m.session = nil
	gen := m.generation

	go func() {
		sess, err := m.fetch(fetchCtx)
		if err != nil {
			// Fail closed: an unreachable session endpoint means no session.
			sess = nil
		}
		m.resolve(gen, path, sess)
	}()
}

func (m *Machine) resolve(gen uint64, path string, sess *Session) {
	m.mu.Lock()
	if gen != m.generation {
		// A newer route change or refetch superseded this fetch.
		m.mu.Unlock()
		return
	}

	var destination string
	if sess != nil {
		m.status = StatusAuthenticated
		m.session = sess
		if matchRoute(m.policy.GuestOnly, path) {
			destination = m.policy.FeedRoute
		}
	} else {
		m.status = StatusUnauthenticated
		m.session = nil
		if matchRoute(m.policy.Protected, path) {
			destination = m.policy.LoginRoute
		}
	}
	m.mu.Unlock()

	if destination != "" {
		m.redirect(destination)
	}
}
