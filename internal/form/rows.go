package form

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// Rows tracks inline edit toggles for the items of a nested list, such as the
// criteria shown inside a milestone dialog. Each row is Closed or Open(Edit)
// on its own; opening, editing, cancelling, or submitting one row never
// affects another row or the parent dialog.
type Rows[D any] struct {
	mu   sync.Mutex
	rows map[int]*row[D]
}

type row[D any] struct {
	draft      D
	submitting bool
}

// NewRows returns a set of rows that are all closed.
func NewRows[D any]() *Rows[D] {
	return &Rows[D]{rows: make(map[int]*row[D])}
}

// Begin opens the row for id with a copy of the entity's fields.
func (r *Rows[D]) Begin(id int, draft D) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.rows[id]; ok && cur.submitting {
		return types.ErrBusy
	}
	r.rows[id] = &row[D]{draft: draft}
	return nil
}

// Edit applies a change to the open row's draft.
func (r *Rows[D]) Edit(id int, change func(draft *D)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[id]
	if !ok {
		return types.ErrDialogClosed
	}
	change(&cur.draft)
	return nil
}

// Draft returns the open row's draft.
func (r *Rows[D]) Draft(id int) (D, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.rows[id]; ok {
		return cur.draft, true
	}
	var zero D
	return zero, false
}

// Editing reports whether the row for id is open.
func (r *Rows[D]) Editing(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok
}

// Open returns the ids of all open rows.
func (r *Rows[D]) Open() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	return ids
}

// Cancel closes the row and discards its draft.
func (r *Rows[D]) Cancel(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
}

// Submit validates the row's draft and calls update. The row closes on
// success and stays open with its draft on failure.
func (r *Rows[D]) Submit(ctx context.Context, id int, update func(ctx context.Context, id int, draft D) error) error {
	r.mu.Lock()
	cur, ok := r.rows[id]
	if !ok {
		r.mu.Unlock()
		return types.ErrDialogClosed
	}
	if cur.submitting {
		r.mu.Unlock()
		return types.ErrBusy
	}
	if err := Validate(cur.draft); err != nil {
		r.mu.Unlock()
		return err
	}
	cur.submitting = true
	draft := cur.draft
	r.mu.Unlock()

	err := update(ctx, id, draft)

	r.mu.Lock()
	defer r.mu.Unlock()
	cur.submitting = false
	if err != nil {
		return err
	}
	if r.rows[id] == cur {
		delete(r.rows, id)
	}
	return nil
}
