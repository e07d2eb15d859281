package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrBackend matches every failure of the durable side of a store
	ErrBackend = errors.New("storage backend failure")

	ErrNotFound   = errors.New("entity not found")
	ErrNoRelation = errors.New("no relation between kinds")
)

// BackendError wraps I/O, codec and database failures. errors.Is matches both ErrBackend and the cause.
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s storage: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

func backendError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Backend: backend, Op: op, Err: err}
}
