package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tracker/internal/devserver"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "s3cret"
)

// Result holds the output of one CLI invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// TestEnv is an isolated config directory pointed at an in-memory backend.
type TestEnv struct {
	t         *testing.T
	ConfigDir string
	APIURL    string
	Backend   *devserver.Backend
}

// NewTestEnv starts a dev backend with one admin and clears TRACKER_*
// variables that would leak into configuration.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	for _, k := range []string{"TRACKER_API_URL", "TRACKER_TIMEOUT", "TRACKER_LOG_LEVEL", "TRACKER_LOG_FORMAT", "TRACKER_CONFIG_DIR"} {
		t.Setenv(k, "")
	}

	b := devserver.NewBackend(nil)
	require.NoError(t, b.Attach(""))
	t.Cleanup(func() { _ = b.Detach() })
	_, err := b.SeedAdmin(context.Background(), testAdminEmail, "Admin", testAdminPassword)
	require.NoError(t, err)

	srv := httptest.NewServer(devserver.NewHandler(b, nil))
	t.Cleanup(srv.Close)

	return &TestEnv{t: t, ConfigDir: t.TempDir(), APIURL: srv.URL, Backend: b}
}

// NewDownEnv points at a server that is already closed.
func NewDownEnv(t *testing.T) *TestEnv {
	t.Helper()
	env := NewTestEnv(t)
	srv := httptest.NewServer(nil)
	env.APIURL = srv.URL
	srv.Close()
	return env
}

// Run invokes the CLI in-process against the environment.
func (e *TestEnv) Run(args ...string) Result {
	e.t.Helper()
	full := append([]string{"--config-dir", e.ConfigDir, "--api-url", e.APIURL, "--log-level", "error"}, args...)
	var stdout, stderr bytes.Buffer
	code := run(full, &stdout, &stderr)
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}

// MustRun invokes the CLI and fails the test on a non-zero exit.
func (e *TestEnv) MustRun(args ...string) Result {
	e.t.Helper()
	r := e.Run(args...)
	require.Equal(e.t, exitSuccess, r.ExitCode, "tracker %v\nstdout: %s\nstderr: %s", args, r.Stdout, r.Stderr)
	return r
}

// ParseJSON decodes the --json output of a command.
func ParseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}
