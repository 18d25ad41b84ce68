package screen

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tracker/internal/store"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// UnavailableBanner is shown when a list load fails.
const UnavailableBanner = "Server is unavailable. Please try again later."

// Notifier surfaces failures to the operator.
type Notifier interface {
	// Alert reports a failed action.
	Alert(err error)
	// Banner shows a persistent page-level message.
	Banner(msg string)
}

// WriterNotifier prints alerts and banners to w, typically stderr, and logs
// them.
type WriterNotifier struct {
	w      io.Writer
	logger *zap.Logger
}

// NewWriterNotifier returns a Notifier that writes to w.
func NewWriterNotifier(w io.Writer, logger *zap.Logger) *WriterNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WriterNotifier{w: w, logger: logger}
}

// Alert implements Notifier.
func (n *WriterNotifier) Alert(err error) {
	n.logger.Warn("alert", zap.Error(err))
	fmt.Fprintf(n.w, "Error: %v\n", err)
}

// Banner implements Notifier.
func (n *WriterNotifier) Banner(msg string) {
	n.logger.Warn("banner", zap.String("message", msg))
	fmt.Fprintln(n.w, msg)
}

type discard struct{}

func (discard) Alert(error)   {}
func (discard) Banner(string) {}

// Deps are the collaborators every screen needs.
type Deps struct {
	Client   store.Requester
	Notifier Notifier
	Logger   *zap.Logger
}

func (d Deps) withDefaults(page string) Deps {
	if d.Notifier == nil {
		d.Notifier = discard{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	d.Logger = d.Logger.With(zap.String("screen", page))
	return d
}

// fail alerts a failed action and returns it wrapped with the action. Stale
// responses are dropped silently: the page they belong to is gone.
func (d Deps) fail(action string, err error) error {
	if errors.Is(err, types.ErrStale) {
		d.Logger.Debug("stale response dropped", zap.String("action", action))
		return err
	}
	err = fmt.Errorf("failed to %s: %w", action, err)
	d.Notifier.Alert(err)
	return err
}

// loadFailed shows the unavailable banner for a failed list load.
func (d Deps) loadFailed(err error) error {
	if errors.Is(err, types.ErrStale) {
		return err
	}
	d.Notifier.Banner(UnavailableBanner)
	return err
}
