package kv

import (
	"context"
	"errors"
)

// AnyRevision makes a Write unconditional.
const AnyRevision int64 = -1

// ErrRevisionMismatch is returned when a conditional write observes a
// revision other than the one it expected. Nothing from the batch is applied.
var ErrRevisionMismatch = errors.New("revision mismatch")

// Record is a stored value together with its current revision.
// Revisions start at 1 and increase by one on every write.
type Record struct {
	Key      string
	Value    []byte
	Revision int64
}

// Write is one entry of an Apply batch. Revision semantics:
//
//	AnyRevision — write regardless of current state
//	0           — the key must not exist yet
//	n > 0       — the key's current revision must equal n
type Write struct {
	Key      string
	Value    []byte
	Revision int64
}

// Store is the keyspace the storefront persists into. Keys are namespaced by
// the callers ("product:", "cart:", "order:"). Apply is atomic: either every
// write in the batch lands or none do.
type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	GetByPrefix(ctx context.Context, prefix string) ([]Record, error)
	Apply(ctx context.Context, writes ...Write) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
