package order

import (
	"context"
	"encoding/json"
	"sort"

	"EcoStore/internal/cart"
	"EcoStore/internal/kv"
)

const keyPrefix = "order:"

// Store is the typed view of the "order:" keyspace. Orders are write-once.
type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Checkout persists the order and resets the owner's cart in one atomic
// batch. The cart write is conditional on cartRevision, so a concurrent cart
// mutation fails the whole batch with kv.ErrRevisionMismatch and nothing is
// written. The order write requires its key to be absent.
func (s *Store) Checkout(ctx context.Context, o Order, cartRevision int64) error {
	val, err := json.Marshal(o)
	if err != nil {
		return err
	}

	resetWrite, err := cart.SaveWrite(o.UserID, cart.New(), cartRevision)
	if err != nil {
		return err
	}

	return s.kv.Apply(ctx,
		kv.Write{Key: keyPrefix + o.ID, Value: val, Revision: 0},
		resetWrite,
	)
}

// ListByUser returns the caller's orders, newest first. The keyspace is
// scanned and filtered by owner, matching the store's flat order namespace.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	recs, err := s.kv.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(recs))
	for _, rec := range recs {
		var o Order
		if err := json.Unmarshal(rec.Value, &o); err != nil {
			return nil, err
		}
		if o.UserID != userID {
			continue
		}
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
