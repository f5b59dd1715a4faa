package catalog

import "garmentgrid/internal/domain"

const placeholderImage = "/api/placeholder/400/500"

// SampleProducts returns the bundled catalogue used when no database
// catalogue is configured. A fresh slice is returned on every call.
func SampleProducts() []domain.Product {
	rows := []struct {
		name     string
		category string
		price    float64
		quantity int
		minOrder int
	}{
		{"Premium Cotton T-Shirt", "Shirt", 29.99, 150, 10},
		{"Denim Jacket", "Jacket", 89.99, 80, 5},
		{"Formal Pant", "Pant", 59.99, 200, 10},
		{"Casual Hoodie", "Jacket", 49.99, 120, 8},
		{"Round Neck Tee", "Shirt", 19.99, 300, 20},
		{"Cargo Pant", "Pant", 69.99, 90, 6},
		{"Leather Belt", "Accessories", 39.99, 180, 15},
		{"Winter Scarf", "Accessories", 24.99, 250, 25},
		{"Polo Shirt", "Shirt", 34.99, 140, 12},
		{"Slim Fit Jeans", "Pant", 79.99, 100, 5},
		{"Summer Cap", "Accessories", 15.99, 400, 30},
		{"Windbreaker", "Jacket", 99.99, 60, 4},
	}
	out := make([]domain.Product, 0, len(rows))
	for i, r := range rows {
		out = append(out, domain.Product{
			ID:       int64(i + 1),
			Name:     r.name,
			Category: r.category,
			Price:    r.price,
			Quantity: r.quantity,
			MinOrder: r.minOrder,
			Images:   []string{placeholderImage},
		})
	}
	out[0].Description = "High-quality 100% cotton t-shirt with perfect fit and comfort. Available in multiple colors and sizes. Ideal for casual wear and customization."
	return out
}
