package catalog

import (
	"context"
	"testing"

	"garmentgrid/internal/domain"
)

type listRepo struct{ products []domain.Product }

func (r listRepo) List(context.Context) ([]domain.Product, error) { return r.products, nil }

func (r listRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type searchRepo struct {
	listRepo
	offsets []int
}

func (r *searchRepo) Search(_ context.Context, term string, limit, offset int) ([]domain.Product, int, error) {
	r.offsets = append(r.offsets, offset)
	matched := Search(r.products, term)
	end := offset + limit
	if offset > len(matched) {
		offset = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], len(matched), nil
}

func TestBrowseInMemory(t *testing.T) {
	svc := NewService(listRepo{products: SampleProducts()})

	page, err := svc.Browse(context.Background(), "", 2, 0)
	if err != nil {
		t.Fatalf("Browse error: %v", err)
	}
	if page.Page != 2 || len(page.Items) != 3 || page.TotalPages != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestBrowseClampsWithSearcher(t *testing.T) {
	repo := &searchRepo{listRepo: listRepo{products: SampleProducts()}}
	svc := NewService(repo)

	page, err := svc.Browse(context.Background(), "pant", 5, DefaultPerPage)
	if err != nil {
		t.Fatalf("Browse error: %v", err)
	}
	if page.Page != 1 || page.Total != 3 || len(page.Items) != 3 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if len(repo.offsets) != 2 || repo.offsets[1] != 0 {
		t.Fatalf("expected a clamped re-query at offset 0, got %v", repo.offsets)
	}
}

func TestBrowseNoMatches(t *testing.T) {
	repo := &searchRepo{listRepo: listRepo{products: SampleProducts()}}
	page, err := NewService(repo).Browse(context.Background(), "ball gown", 1, 0)
	if err != nil {
		t.Fatalf("Browse error: %v", err)
	}
	if page.Total != 0 || page.TotalPages != 0 || len(page.Items) != 0 {
		t.Fatalf("unexpected page: %+v", page)
	}
}
