package db

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a StateStore when a key has never been written
var ErrNotFound = errors.New("key not found")

// StateStore persists raw collection blobs by key.
// Both the badger-backed db.DB and postgres.DB implement this interface.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
