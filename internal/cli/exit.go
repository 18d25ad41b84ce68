package cli

import (
	"errors"
	"net/http"
	"sync"

	"github.com/mesh-intelligence/tracker/internal/api"
	"github.com/mesh-intelligence/tracker/internal/screen"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// systemError marks failures of the local environment: configuration,
// logging, storage, listeners.
type systemError struct{ err error }

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysErr(err error) error {
	if err == nil {
		return nil
	}
	return &systemError{err: err}
}

// exitCode maps an error to the process exit code. Unreachable backends,
// 5xx responses, and local system failures exit 2; everything the operator
// can fix by changing the command line exits 1.
func exitCode(err error) int {
	var se *systemError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &se):
		return exitSysError
	case errors.Is(err, types.ErrTransport):
		return exitSysError
	case api.StatusOf(err) >= http.StatusInternalServerError:
		return exitSysError
	default:
		return exitUserError
	}
}

// alertNotifier forwards to the screen notifier and remembers which errors
// it has already shown.
type alertNotifier struct {
	inner screen.Notifier

	mu        sync.Mutex
	shownErrs []error
}

func (n *alertNotifier) Alert(err error) {
	n.mu.Lock()
	n.shownErrs = append(n.shownErrs, err)
	n.mu.Unlock()
	n.inner.Alert(err)
}

func (n *alertNotifier) Banner(msg string) { n.inner.Banner(msg) }

// shown reports whether err, or an error it wraps, was already alerted.
func (n *alertNotifier) shown(err error) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, s := range n.shownErrs {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}
