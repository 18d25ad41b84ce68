// Package form holds the draft state of create and edit dialogs. A dialog is
// either Closed or Open with a mode (Create, or Edit of one target) and a
// draft. Drafts are private copies: editing them never touches a cached
// entity, and only a successful submit closes the dialog.
package form

import (
	"context"
	"fmt"
	"sync"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// Mode distinguishes create dialogs from edit dialogs.
type Mode int

// Dialog modes. The zero value means the dialog is closed.
const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Handlers perform the network call for a submitted draft. Update is only
// required for dialogs opened in edit mode, Create for create mode.
type Handlers[D any] struct {
	Create func(ctx context.Context, draft D) error
	Update func(ctx context.Context, id int, draft D) error
}

// State is a snapshot of a dialog.
type State[D any] struct {
	Mode       Mode
	TargetID   int
	Draft      D
	Submitting bool
}

// Open reports whether the dialog is open.
func (s State[D]) Open() bool { return s.Mode != ModeClosed }

// Dialog is the state machine behind one create/edit modal.
type Dialog[D any] struct {
	mu         sync.Mutex
	mode       Mode
	target     int
	draft      D
	submitting bool
	generation int
}

// NewDialog returns a closed dialog.
func NewDialog[D any]() *Dialog[D] {
	return &Dialog[D]{}
}

// OpenCreate opens the dialog in create mode with the given defaults.
func (d *Dialog[D]) OpenCreate(defaults D) error {
	return d.open(ModeCreate, 0, defaults)
}

// OpenEdit opens the dialog in edit mode for target id. draft must be a copy
// of the entity's fields.
func (d *Dialog[D]) OpenEdit(id int, draft D) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	return d.open(ModeEdit, id, draft)
}

func (d *Dialog[D]) open(mode Mode, id int, draft D) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.submitting {
		return types.ErrBusy
	}
	d.mode, d.target, d.draft = mode, id, draft
	d.generation++
	return nil
}

// Edit applies a field change to the draft.
func (d *Dialog[D]) Edit(change func(draft *D)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == ModeClosed {
		return types.ErrDialogClosed
	}
	change(&d.draft)
	return nil
}

// State returns a snapshot of the dialog.
func (d *Dialog[D]) State() State[D] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State[D]{Mode: d.mode, TargetID: d.target, Draft: d.draft, Submitting: d.submitting}
}

// Cancel closes the dialog and discards the draft. A submit still in flight
// will not reopen it.
func (d *Dialog[D]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
}

// Submit validates the draft and hands it to the handler that matches the
// dialog's mode. Validation failures never reach the handler. On success the
// dialog closes; on failure it stays open with the draft intact. A second
// Submit while one is outstanding returns types.ErrBusy.
func (d *Dialog[D]) Submit(ctx context.Context, h Handlers[D]) error {
	d.mu.Lock()
	if d.mode == ModeClosed {
		d.mu.Unlock()
		return types.ErrDialogClosed
	}
	if d.submitting {
		d.mu.Unlock()
		return types.ErrBusy
	}
	if err := Validate(d.draft); err != nil {
		d.mu.Unlock()
		return err
	}
	mode, target, draft, gen := d.mode, d.target, d.draft, d.generation
	d.submitting = true
	d.mu.Unlock()

	var err error
	switch mode {
	case ModeCreate:
		if h.Create == nil {
			err = fmt.Errorf("create: no handler")
			break
		}
		err = h.Create(ctx, draft)
	case ModeEdit:
		if h.Update == nil {
			err = fmt.Errorf("update %d: no handler", target)
			break
		}
		err = h.Update(ctx, target, draft)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitting = false
	if err != nil {
		return err
	}
	if d.generation == gen {
		d.closeLocked()
	}
	return nil
}

func (d *Dialog[D]) closeLocked() {
	var zero D
	d.mode, d.target, d.draft = ModeClosed, 0, zero
	d.generation++
}
