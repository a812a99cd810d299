package order

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoStore/internal/cart"
	"EcoStore/internal/catalog"
	"EcoStore/internal/kv"
)

func testCart(t *testing.T) cart.Cart {
	t.Helper()

	c := cart.New()
	c.Add(catalog.Product{ID: "p1", Name: "one", Price: decimal.RequireFromString("10.00")}, 2)
	c.Add(catalog.Product{ID: "p2", Name: "two", Price: decimal.RequireFromString("5.00")}, 1)
	return c
}

func TestNewFreezesCartIntoConfirmedOrder(t *testing.T) {
	c := testCart(t)

	o := New("u1", c, ShippingInfo{Name: "Alice", City: "Berlin"}, PaymentInfo{Method: "card"})

	assert.True(t, strings.HasPrefix(o.ID, "order_"))
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Len(t, o.Items, 2)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("25.00")), "total = %s", o.Total)
	assert.False(t, o.CreatedAt.IsZero())
}

func TestNewGeneratesUniqueIDs(t *testing.T) {
	c := testCart(t)

	a := New("u1", c, ShippingInfo{}, PaymentInfo{})
	b := New("u1", c, ShippingInfo{}, PaymentInfo{})

	assert.NotEqual(t, a.ID, b.ID)
}

func TestRedactStripsCredentials(t *testing.T) {
	pay := PaymentInfo{
		Method:     "card",
		CardNumber: "4111111111111111",
		CardHolder: "Alice Example",
		CVV:        "123",
	}

	o := New("u1", testCart(t), ShippingInfo{}, pay)

	assert.Equal(t, "****", o.Payment.CardNumber)
	assert.Equal(t, "card", o.Payment.Method)
	assert.Equal(t, "Alice Example", o.Payment.CardHolder)

	raw, err := json.Marshal(o)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "4111111111111111")
	assert.NotContains(t, string(raw), "cvv")
}

func TestCheckoutPersistsOrderAndResetsCart(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemStore()
	carts := cart.NewStore(store)
	orders := NewStore(store)

	c := testCart(t)
	require.NoError(t, carts.Save(ctx, "u1", c, 0))

	loaded, rev, err := carts.Get(ctx, "u1")
	require.NoError(t, err)

	o := New("u1", loaded, ShippingInfo{}, PaymentInfo{CardNumber: "4111111111111111"})
	require.NoError(t, orders.Checkout(ctx, o, rev))

	got, err := orders.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, o.ID, got[0].ID)
	assert.True(t, got[0].Total.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, "****", got[0].Payment.CardNumber)

	after, _, err := carts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, after.Empty())
}

func TestCheckoutFailsOnStaleCartRevision(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemStore()
	carts := cart.NewStore(store)
	orders := NewStore(store)

	require.NoError(t, carts.Save(ctx, "u1", testCart(t), 0))

	loaded, rev, err := carts.Get(ctx, "u1")
	require.NoError(t, err)

	// Cart mutated after the checkout read.
	loaded.SetQuantity("p1", 9)
	require.NoError(t, carts.Save(ctx, "u1", loaded, rev))

	o := New("u1", loaded, ShippingInfo{}, PaymentInfo{})
	err = orders.Checkout(ctx, o, rev)
	require.ErrorIs(t, err, kv.ErrRevisionMismatch)

	// Nothing from the failed batch may be visible.
	got, err := orders.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)

	after, _, err := carts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, after.Empty())
}

func TestListByUserFiltersToOwner(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemStore()
	carts := cart.NewStore(store)
	orders := NewStore(store)

	for _, user := range []string{"alice", "bob", "alice"} {
		require.NoError(t, carts.Save(ctx, user, testCart(t), kv.AnyRevision))

		loaded, rev, err := carts.Get(ctx, user)
		require.NoError(t, err)

		o := New(user, loaded, ShippingInfo{}, PaymentInfo{})
		require.NoError(t, orders.Checkout(ctx, o, rev))
	}

	got, err := orders.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, o := range got {
		assert.Equal(t, "alice", o.UserID)
	}
}
