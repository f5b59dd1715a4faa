package catalog

import (
	"context"

	"garmentgrid/internal/domain"
)

// Searcher is implemented by repositories that can filter and window the
// catalogue themselves.
type Searcher interface {
	Search(ctx context.Context, term string, limit, offset int) ([]domain.Product, int, error)
}

// Service answers storefront queries over a product repository.
type Service struct {
	products domain.ProductRepository
}

func NewService(products domain.ProductRepository) *Service {
	return &Service{products: products}
}

// Browse returns one page of the products matching term. Pages are clamped the
// same way Paginate clamps them.
func (s *Service) Browse(ctx context.Context, term string, page, perPage int) (Page, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}

	searcher, ok := s.products.(Searcher)
	if !ok {
		all, err := s.products.List(ctx)
		if err != nil {
			return Page{}, err
		}
		return Paginate(Search(all, term), page, perPage), nil
	}

	items, total, err := searcher.Search(ctx, term, perPage, (page-1)*perPage)
	if err != nil {
		return Page{}, err
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages > 0 && page > totalPages {
		page = totalPages
		items, total, err = searcher.Search(ctx, term, perPage, (page-1)*perPage)
		if err != nil {
			return Page{}, err
		}
	}
	return Page{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// Product returns a single product or domain.ErrNotFound.
func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}
