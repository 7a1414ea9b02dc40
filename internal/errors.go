package internal

import (
	"errors"
	"fmt"
)

// Guard errors returned by SessionController operations. These are
// preconditions, not failures: an operation returning one of them has not
// mutated any state, so callers can disable affordances instead of handling
// exceptions.
var (
	ErrEmptyPrompt   = errors.New("no prompt")
	ErrBusy          = errors.New("already generating")
	ErrNoAssistant   = errors.New("no assistant message to continue")
	ErrSessionClosed = errors.New("session closed")
)

// IsGuard reports whether err is one of the controller precondition errors.
func IsGuard(err error) bool {
	return errors.Is(err, ErrEmptyPrompt) ||
		errors.Is(err, ErrBusy) ||
		errors.Is(err, ErrNoAssistant) ||
		errors.Is(err, ErrSessionClosed)
}

// StorageError represents errors accessing the chat store
type StorageError struct {
	Key string
	Op  string // "open", "get", "put", "delete"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// RequestError represents failures talking to the generation service
type RequestError struct {
	Op         string // "generate", "improve"
	StatusCode int    // 0 when the request never completed
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("request error [%s] status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request error [%s]: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// CredentialError represents a missing API key or model identifier; no
// request is sent when it is returned.
type CredentialError struct {
	Missing string // "api key", "model"
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("missing credential: %s", e.Missing)
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
