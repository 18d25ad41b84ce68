package types

import "errors"

// Request failures. HTTP errors from the api package match one of these
// under errors.Is.
var (
	ErrTransport = errors.New("request did not reach the server")
	ErrServer    = errors.New("server rejected the request")
)

// Client-side failures.
var (
	ErrValidation   = errors.New("required field is empty")
	ErrBusy         = errors.New("request already in flight")
	ErrStale        = errors.New("response arrived after its screen was left")
	ErrDialogClosed = errors.New("dialog is not open")
	ErrNotLoaded    = errors.New("nothing loaded yet")
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidID    = errors.New("invalid entity ID")
)
