package catalog

import (
	"context"
	"encoding/json"

	"EcoStore/internal/kv"
)

const keyPrefix = "product:"

// Store is the typed view of the "product:" keyspace.
type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// List returns the catalog sorted by product id. A non-empty category keeps
// only exact matches.
func (s *Store) List(ctx context.Context, category string) ([]Product, error) {
	recs, err := s.kv.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, err
	}

	out := make([]Product, 0, len(recs))
	for _, rec := range recs {
		var p Product
		if err := json.Unmarshal(rec.Value, &p); err != nil {
			return nil, err
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (Product, bool, error) {
	rec, ok, err := s.kv.Get(ctx, keyPrefix+id)
	if err != nil || !ok {
		return Product{}, false, err
	}

	var p Product
	if err := json.Unmarshal(rec.Value, &p); err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *Store) Put(ctx context.Context, p Product) error {
	val, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.kv.Apply(ctx, kv.Write{
		Key:      keyPrefix + p.ID,
		Value:    val,
		Revision: kv.AnyRevision,
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, keyPrefix+id)
}

// Seed writes the demo catalog in one batch and reports how many products it
// wrote. Safe to run repeatedly.
func (s *Store) Seed(ctx context.Context) (int, error) {
	products := seedProducts()

	writes := make([]kv.Write, 0, len(products))
	for _, p := range products {
		val, err := json.Marshal(p)
		if err != nil {
			return 0, err
		}
		writes = append(writes, kv.Write{
			Key:      keyPrefix + p.ID,
			Value:    val,
			Revision: kv.AnyRevision,
		})
	}

	if err := s.kv.Apply(ctx, writes...); err != nil {
		return 0, err
	}
	return len(products), nil
}
