package catalog

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}

// seedProducts is the demo catalog written by the seed operation. Seeding is
// idempotent: records are overwritten with identical content.
func seedProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Organic Cotton T-Shirt",
			Price:       decimal.RequireFromString("29.99"),
			Description: "Comfortable organic cotton t-shirt in forest green",
			Image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400",
			Category:    "clothing",
		},
		{
			ID:          "2",
			Name:        "Bamboo Water Bottle",
			Price:       decimal.RequireFromString("24.99"),
			Description: "Eco-friendly bamboo water bottle with steel interior",
			Image:       "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=400",
			Category:    "accessories",
		},
		{
			ID:          "3",
			Name:        "Hemp Backpack",
			Price:       decimal.RequireFromString("79.99"),
			Description: "Durable hemp backpack perfect for outdoor adventures",
			Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400",
			Category:    "bags",
		},
		{
			ID:          "4",
			Name:        "Recycled Yoga Mat",
			Price:       decimal.RequireFromString("49.99"),
			Description: "High-quality yoga mat made from recycled materials",
			Image:       "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=400",
			Category:    "fitness",
		},
		{
			ID:          "5",
			Name:        "Natural Soap Set",
			Price:       decimal.RequireFromString("19.99"),
			Description: "Set of 3 handmade natural soaps with essential oils",
			Image:       "https://images.unsplash.com/photo-1556228578-8c89e6adf883?w=400",
			Category:    "personal-care",
		},
		{
			ID:          "6",
			Name:        "Wooden Phone Case",
			Price:       decimal.RequireFromString("34.99"),
			Description: "Handcrafted wooden phone case for iPhone and Android",
			Image:       "https://images.unsplash.com/photo-1556656793-08538906a9f8?w=400",
			Category:    "accessories",
		},
	}
}
