package domain

// Product is a read-only catalogue entry.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	MinOrder    int      `json:"min_order"`
	Images      []string `json:"images"`
}
