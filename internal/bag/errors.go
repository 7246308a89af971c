package bag

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by strict lookups and presence-requiring removals.
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyAlreadyExists is returned when adding a key that is already present.
	ErrKeyAlreadyExists = errors.New("key already exists")
	// ErrMethodNotSupported is returned by the convenience resolver for unknown names.
	ErrMethodNotSupported = errors.New("method not supported")
)

// KeyError records a failed key operation.
type KeyError struct {
	Op  string
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// MethodError records a convenience name that could not be resolved.
type MethodError struct {
	Method string
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("%q: %v", e.Method, ErrMethodNotSupported)
}

func (e *MethodError) Unwrap() error {
	return ErrMethodNotSupported
}

// NewKeyNotFound builds the error returned when op requires key to be present.
func NewKeyNotFound(op, key string) error {
	return &KeyError{Op: op, Key: key, Err: ErrKeyNotFound}
}

// NewKeyAlreadyExists builds the error returned when op requires key to be absent.
func NewKeyAlreadyExists(op, key string) error {
	return &KeyError{Op: op, Key: key, Err: ErrKeyAlreadyExists}
}
