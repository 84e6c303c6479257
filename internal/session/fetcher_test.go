package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionEndpoint(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/session", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_AuthenticatedUser(t *testing.T) {
	var gotAuth string
	srv := sessionEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"userId":7,"name":"Ada","email":"ada@example.com"}}`))
	})

	fetch := HTTPFetcher(srv.URL, func() string { return "tok-123" }, srv.Client())

	sess, err := fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, uint(7), sess.UserID)
	assert.Equal(t, "Ada", sess.Name)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestHTTPFetcher_GuestIsNilSession(t *testing.T) {
	var gotAuth string
	srv := sessionEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":null}`))
	})

	fetch := HTTPFetcher(srv.URL+"/", func() string { return "" }, srv.Client())

	sess, err := fetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Empty(t, gotAuth, "guests send no Authorization header")
}

func TestHTTPFetcher_Non200IsAnError(t *testing.T) {
	srv := sessionEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	fetch := HTTPFetcher(srv.URL, func() string { return "" }, srv.Client())

	sess, err := fetch(context.Background())
	assert.Error(t, err)
	assert.Nil(t, sess)
}

// The machine and the HTTP fetcher compose end to end: a resolved session
// drives the route policy the same way a stubbed fetcher does.
func TestHTTPFetcher_DrivesMachine(t *testing.T) {
	srv := sessionEndpoint(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"userId":3,"name":"Ben"}}`))
	})

	rec := &redirectRecorder{}
	m := NewMachine(HTTPFetcher(srv.URL, func() string { return "tok" }, srv.Client()), testPolicy, rec.fn())

	m.HandleRouteChange(context.Background(), "/login")
	waitForStatus(t, m, StatusAuthenticated)

	// Signed-in visitors leave guest-only routes for the feed.
	require.Eventually(t, func() bool {
		last, _ := rec.last.Load().(string)
		return last == "/"
	}, time.Second, time.Millisecond)
}
