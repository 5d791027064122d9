// Package kv is the key-value blob store backing all persistence: whole
// JSON-serialized collections stored under fixed keys. Last write wins;
// there are no transactional guarantees.
package kv

import "github.com/pkg/errors"

// ErrKeyNotFound is returned by Get for keys that were never set.
var ErrKeyNotFound = errors.New("key not found")

type Store interface {
	// Get returns the blob stored under key, or ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Set stores the blob under key, replacing any previous value.
	Set(key string, value []byte) error

	Close() error
}
