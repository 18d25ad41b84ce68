package screen

import (
	"context"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tracker/internal/api"
	"github.com/mesh-intelligence/tracker/internal/devserver"
	"github.com/mesh-intelligence/tracker/internal/store"
)

// recorder is a Notifier that keeps what it was told.
type recorder struct {
	mu      sync.Mutex
	alerts  []error
	banners []string
}

func (r *recorder) Alert(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, err)
}

func (r *recorder) Banner(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banners = append(r.banners, msg)
}

func (r *recorder) Alerts() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.alerts...)
}

func (r *recorder) Banners() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.banners...)
}

// countingClient counts the requests that reach the wire.
type countingClient struct {
	inner store.Requester
	n     atomic.Int32
}

func (c *countingClient) Do(ctx context.Context, method, path string, body, out any) error {
	c.n.Add(1)
	return c.inner.Do(ctx, method, path, body, out)
}

func (c *countingClient) Requests() int { return int(c.n.Load()) }

type env struct {
	backend  *devserver.Backend
	client   *countingClient
	notifier *recorder
	nav      *Navigator
}

func (e *env) deps() Deps {
	return Deps{Client: e.client, Notifier: e.notifier}
}

// newEnv starts an in-memory backend behind an httptest server.
func newEnv(t *testing.T) *env {
	t.Helper()
	b := devserver.NewBackend(nil)
	require.NoError(t, b.Attach(""))
	t.Cleanup(func() { _ = b.Detach() })

	srv := httptest.NewServer(devserver.NewHandler(b, nil))
	t.Cleanup(srv.Close)

	return &env{
		backend:  b,
		client:   &countingClient{inner: api.New(srv.URL)},
		notifier: &recorder{},
		nav:      NewNavigator(nil),
	}
}

// newDownEnv points at a server that is no longer listening.
func newDownEnv(t *testing.T) *env {
	t.Helper()
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()
	return &env{
		client:   &countingClient{inner: api.New(url)},
		notifier: &recorder{},
		nav:      NewNavigator(nil),
	}
}
