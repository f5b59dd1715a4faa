package booking

import (
	"context"
	"errors"
	"testing"

	"garmentgrid/internal/adapter/repo"
	"garmentgrid/internal/catalog"
	"garmentgrid/internal/domain"
	"garmentgrid/internal/validation"
)

func newService() (*Service, *repo.MemoryBookingRepository) {
	bookings := repo.NewMemoryBookingRepository()
	svc := NewService(repo.NewMemoryProductRepository(catalog.SampleProducts()), bookings, validation.New())
	return svc, bookings
}

func validForm(qty int) validation.BookingForm {
	return validation.BookingForm{
		FirstName:       "Rahim",
		LastName:        "Uddin",
		Quantity:        qty,
		ContactNumber:   "+8801700000000",
		DeliveryAddress: "House 1, Road 2, Dhaka",
	}
}

func TestPlaceQuantityBounds(t *testing.T) {
	// Product 1: min order 10, 150 available.
	tests := []struct {
		qty    int
		wantOK bool
	}{
		{qty: 10, wantOK: true},
		{qty: 150, wantOK: true},
		{qty: 9, wantOK: false},
		{qty: 151, wantOK: false},
	}
	for _, tc := range tests {
		svc, bookings := newService()
		b, err := svc.Place(context.Background(), "u1", 1, validForm(tc.qty))
		stored, _ := bookings.ListByUser(context.Background(), "u1")
		if tc.wantOK {
			if err != nil {
				t.Fatalf("Place(%d) error: %v", tc.qty, err)
			}
			if b.Status != domain.BookingStatusPending || b.ProductName != "Premium Cotton T-Shirt" {
				t.Fatalf("unexpected booking %+v", b)
			}
			if len(stored) != 1 {
				t.Fatalf("expected one stored booking, got %d", len(stored))
			}
			continue
		}
		fields, ok := validation.AsErrors(err)
		if !ok || fields["quantity"] == "" {
			t.Fatalf("Place(%d) err = %v, want quantity field error", tc.qty, err)
		}
		if len(stored) != 0 {
			t.Fatalf("Place(%d) stored a rejected booking", tc.qty)
		}
	}
}

func TestPlaceComputesTotal(t *testing.T) {
	svc, _ := newService()
	b, err := svc.Place(context.Background(), "u1", 1, validForm(10))
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	if b.TotalPrice != 299.9 || b.UnitPrice != 29.99 {
		t.Fatalf("unexpected price: unit %v total %v", b.UnitPrice, b.TotalPrice)
	}
}

func TestPlaceUnknownProduct(t *testing.T) {
	svc, _ := newService()
	if _, err := svc.Place(context.Background(), "u1", 999, validForm(10)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Place err = %v, want ErrNotFound", err)
	}
}

func TestQuote(t *testing.T) {
	svc, _ := newService()
	q, err := svc.Quote(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("Quote error: %v", err)
	}
	if q.TotalPrice != 449.95 || q.MinOrder != 5 || q.Available != 80 {
		t.Fatalf("unexpected quote %+v", q)
	}
	zero, _ := svc.Quote(context.Background(), 2, -1)
	if zero.TotalPrice != 0 {
		t.Fatalf("negative quantity should price at zero, got %v", zero.TotalPrice)
	}
}
