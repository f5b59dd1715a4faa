// Package catalog implements product search and pagination.
package catalog

import (
	"strings"

	"garmentgrid/internal/domain"
)

// DefaultPerPage is the storefront grid size.
const DefaultPerPage = 9

// Page is one slice of a result set.
type Page struct {
	Items      []domain.Product `json:"items"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
}

// Search returns the products whose name or category contains term, ignoring
// case. An empty term matches everything.
func Search(products []domain.Product, term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if term == "" ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out
}

// Paginate slices products into pages of perPage items. Pages are 1-based;
// out-of-range pages are clamped.
func Paginate(products []domain.Product, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(products)
	totalPages := (total + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page{
		Items:      products[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Total:      total,
	}
}
