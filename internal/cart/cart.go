package cart

import (
	"github.com/shopspring/decimal"

	"EcoStore/internal/catalog"
)

// Item is one line of a cart. Product is the catalog snapshot taken when the
// line was first added; later catalog changes do not affect pending carts.
type Item struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   catalog.Product `json:"product"`
}

// Cart holds at most one line per product id. Every line's quantity is >= 1;
// a line driven to zero or below is dropped, never kept at zero.
type Cart struct {
	Items []Item `json:"items"`
}

func New() Cart {
	return Cart{Items: []Item{}}
}

// Add accumulates qty onto an existing line for the product, or appends a new
// line with the given snapshot.
func (c *Cart) Add(p catalog.Product, qty int) {
	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			c.Items[i].Quantity += qty
			return
		}
	}

	c.Items = append(c.Items, Item{
		ProductID: p.ID,
		Quantity:  qty,
		Product:   p,
	})
}

// SetQuantity replaces the quantity of the line for productID. A quantity of
// zero or below removes the line. No line for productID is a no-op.
func (c *Cart) SetQuantity(productID string, qty int) {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = qty
		}
		return
	}
}

// Remove drops the line for productID if present. Idempotent.
func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// Subtotal sums embedded snapshot price times quantity over all lines.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
