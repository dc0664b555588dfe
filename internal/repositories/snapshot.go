package repositories

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by Get when nothing is stored under the key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore holds serialized values under fixed keys. Put replaces the
// whole value; readers see either the previous value or the new one.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
