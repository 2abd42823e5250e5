// Package blob defines the key-value blob store the repositories
// persist into. It provides a memory backend for development and
// tests, a pebble backend for embedded deployments, and an OxiDB
// backend for a shared server, all interchangeable behind Store.
package blob

import (
	"context"
	"errors"
	"fmt"
)

// Entry is one listed key-value pair.
type Entry struct {
	Key   string
	Value []byte
}

// Store is the blob backend contract. Each operation can fail
// transiently and independently; the caller decides retry policy.
type Store interface {
	// Get returns the value at key and whether it exists. Absence is
	// reported via the bool, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes value at key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every entry whose key starts with prefix, in
	// backend order.
	List(ctx context.Context, prefix string) ([]Entry, error)
}

// TransientError wraps a backend failure that is worth retrying, such
// as a timeout or a dropped connection.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("blob: transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as retryable. Returns nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err was classified as retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
