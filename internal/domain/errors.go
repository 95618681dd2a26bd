package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	ErrNotJoined          = errors.New("connection has not joined a room")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrBackpressure       = errors.New("send queue is full")
)

// ValidationError - запрос отклонён из-за отсутствующего или некорректного поля.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}

	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// StorageError wraps a failed ledger read or write. Callers must not retry it blindly:
// the failed operation may be a non-idempotent insert.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
