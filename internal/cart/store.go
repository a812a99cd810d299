package cart

import (
	"context"
	"encoding/json"

	"EcoStore/internal/kv"
)

const keyPrefix = "cart:"

func Key(userID string) string {
	return keyPrefix + userID
}

// Store is the typed view of the "cart:" keyspace, one record per user.
type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Get loads the user's cart and the revision to save against. A user with no
// cart record yet gets an empty cart at revision 0 (the record is created
// lazily by the first save).
func (s *Store) Get(ctx context.Context, userID string) (Cart, int64, error) {
	rec, ok, err := s.kv.Get(ctx, Key(userID))
	if err != nil {
		return Cart{}, 0, err
	}
	if !ok {
		return New(), 0, nil
	}

	var c Cart
	if err := json.Unmarshal(rec.Value, &c); err != nil {
		return Cart{}, 0, err
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c, rec.Revision, nil
}

// Save writes the cart conditionally on the revision returned by Get. A
// concurrent write in between surfaces as kv.ErrRevisionMismatch.
func (s *Store) Save(ctx context.Context, userID string, c Cart, revision int64) error {
	w, err := SaveWrite(userID, c, revision)
	if err != nil {
		return err
	}
	return s.kv.Apply(ctx, w)
}

// SaveWrite builds the conditional kv write for a cart, for callers that
// batch it with other writes (checkout resets the cart in the same Apply
// that persists the order).
func SaveWrite(userID string, c Cart, revision int64) (kv.Write, error) {
	val, err := json.Marshal(c)
	if err != nil {
		return kv.Write{}, err
	}
	return kv.Write{
		Key:      Key(userID),
		Value:    val,
		Revision: revision,
	}, nil
}
