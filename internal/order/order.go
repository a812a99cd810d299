package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"EcoStore/internal/cart"
)

// StatusConfirmed is the only status an order ever has; there is no further
// lifecycle.
const StatusConfirmed = "confirmed"

// redactedCard replaces any card number before an order is persisted.
const redactedCard = "****"

type ShippingInfo struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentInfo is accepted at the request boundary only. It never reaches a
// store: Redact strips the credential fields first.
type PaymentInfo struct {
	Method     string `json:"method"`
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	CVV        string `json:"cvv"`
}

// PaymentSummary is the only payment data an order carries.
type PaymentSummary struct {
	Method     string `json:"method"`
	CardHolder string `json:"cardHolder"`
	CardNumber string `json:"cardNumber"`
}

// Redact drops the CVV and replaces the card number with a fixed placeholder.
func (p PaymentInfo) Redact() PaymentSummary {
	return PaymentSummary{
		Method:     p.Method,
		CardHolder: p.CardHolder,
		CardNumber: redactedCard,
	}
}

// Order is the immutable snapshot created at checkout.
type Order struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Items        []cart.Item     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	ShippingInfo ShippingInfo    `json:"shippingInfo"`
	Payment      PaymentSummary  `json:"payment"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// New freezes the cart into a confirmed order. The total comes from the
// embedded price snapshots, so catalog changes after add-to-cart do not move
// pending carts.
func New(userID string, c cart.Cart, ship ShippingInfo, pay PaymentInfo) Order {
	items := make([]cart.Item, len(c.Items))
	copy(items, c.Items)

	return Order{
		ID:           "order_" + uuid.NewString(),
		UserID:       userID,
		Items:        items,
		Total:        c.Subtotal(),
		ShippingInfo: ship,
		Payment:      pay.Redact(),
		Status:       StatusConfirmed,
		CreatedAt:    time.Now().UTC(),
	}
}
