package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoStore/internal/kv"
)

func TestStoreGetLazyEmptyCart(t *testing.T) {
	s := NewStore(kv.NewMemStore())

	c, rev, err := s.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Empty(t, c.Items)
	assert.NotNil(t, c.Items)
	assert.Equal(t, int64(0), rev)
}

func TestStoreSaveRoundTrip(t *testing.T) {
	s := NewStore(kv.NewMemStore())
	ctx := context.Background()

	c := New()
	c.Add(product("p1", "10.00"), 2)

	require.NoError(t, s.Save(ctx, "u1", c, 0))

	got, rev, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p1", got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.Items[0].Product.Price.Equal(c.Items[0].Product.Price))
}

func TestStoreSaveRejectsStaleRevision(t *testing.T) {
	s := NewStore(kv.NewMemStore())
	ctx := context.Background()

	c := New()
	c.Add(product("p1", "10.00"), 1)
	require.NoError(t, s.Save(ctx, "u1", c, 0))

	// Two writers read revision 1; only the first save lands.
	first, rev, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	second := first

	first.Add(product("p2", "5.00"), 1)
	require.NoError(t, s.Save(ctx, "u1", first, rev))

	second.SetQuantity("p1", 9)
	err = s.Save(ctx, "u1", second, rev)
	assert.ErrorIs(t, err, kv.ErrRevisionMismatch)
}

func TestStoreCartsAreIsolatedPerUser(t *testing.T) {
	s := NewStore(kv.NewMemStore())
	ctx := context.Background()

	c := New()
	c.Add(product("p1", "10.00"), 1)
	require.NoError(t, s.Save(ctx, "alice", c, 0))

	got, _, err := s.Get(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, got.Empty())
}
