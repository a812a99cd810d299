package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCreateAndGet(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Write{Key: "k", Value: []byte(`1`), Revision: 0}))

	rec, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`1`), rec.Value)
	assert.Equal(t, int64(1), rec.Revision)
}

func TestApplyCreateFailsWhenKeyExists(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Write{Key: "k", Value: []byte(`1`), Revision: 0}))

	err := s.Apply(ctx, Write{Key: "k", Value: []byte(`2`), Revision: 0})
	assert.ErrorIs(t, err, ErrRevisionMismatch)
}

func TestApplyConditionalUpdate(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Write{Key: "k", Value: []byte(`1`), Revision: 0}))
	require.NoError(t, s.Apply(ctx, Write{Key: "k", Value: []byte(`2`), Revision: 1}))

	err := s.Apply(ctx, Write{Key: "k", Value: []byte(`3`), Revision: 1})
	assert.ErrorIs(t, err, ErrRevisionMismatch)

	rec, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`2`), rec.Value)
	assert.Equal(t, int64(2), rec.Revision)
}

func TestApplyUnconditionalOverwrites(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Write{Key: "k", Value: []byte(`1`), Revision: AnyRevision}))
	require.NoError(t, s.Apply(ctx, Write{Key: "k", Value: []byte(`2`), Revision: AnyRevision}))

	rec, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`2`), rec.Value)
	assert.Equal(t, int64(2), rec.Revision)
}

func TestApplyBatchIsAtomic(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Write{Key: "a", Value: []byte(`1`), Revision: 0}))

	// Second write's condition fails, so the first must not land either.
	err := s.Apply(ctx,
		Write{Key: "b", Value: []byte(`1`), Revision: 0},
		Write{Key: "a", Value: []byte(`2`), Revision: 99},
	)
	require.ErrorIs(t, err, ErrRevisionMismatch)

	_, ok, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	rec, _, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte(`1`), rec.Value)
}

func TestGetByPrefixSortedByKey(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx,
		Write{Key: "product:2", Value: []byte(`2`), Revision: AnyRevision},
		Write{Key: "product:1", Value: []byte(`1`), Revision: AnyRevision},
		Write{Key: "cart:u1", Value: []byte(`c`), Revision: AnyRevision},
	))

	recs, err := s.GetByPrefix(ctx, "product:")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "product:1", recs[0].Key)
	assert.Equal(t, "product:2", recs[1].Key)
}

func TestDelete(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Write{Key: "k", Value: []byte(`1`), Revision: 0}))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
