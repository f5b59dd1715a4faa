// Package booking places and prices product orders.
package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"garmentgrid/internal/domain"
	"garmentgrid/internal/validation"
)

// Quote is the live price of a quantity of one product.
type Quote struct {
	ProductID  int64   `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	MinOrder   int     `json:"min_order"`
	Available  int     `json:"available"`
}

// Service validates booking forms against the product they target.
type Service struct {
	products  domain.ProductRepository
	bookings  domain.BookingRepository
	validator *validation.Validator
}

func NewService(products domain.ProductRepository, bookings domain.BookingRepository, v *validation.Validator) *Service {
	return &Service{products: products, bookings: bookings, validator: v}
}

// Quote prices quantity units of a product. Non-positive quantities price at zero.
func (s *Service) Quote(ctx context.Context, productID int64, quantity int) (Quote, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		ProductID:  p.ID,
		Quantity:   quantity,
		UnitPrice:  p.Price,
		TotalPrice: domain.TotalPrice(p.Price, quantity),
		MinOrder:   p.MinOrder,
		Available:  p.Quantity,
	}, nil
}

// Place validates form against the product bounds and stores a pending
// booking for userID. Validation failures are returned as validation.Errors
// and nothing is stored.
func (s *Service) Place(ctx context.Context, userID string, productID int64, form validation.BookingForm) (*domain.Booking, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	form.MinOrder = p.MinOrder
	form.Available = p.Quantity
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}

	b, err := s.bookings.Create(ctx, &domain.Booking{
		ID:              uuid.NewString(),
		ProductID:       p.ID,
		ProductName:     p.Name,
		UserID:          userID,
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		Quantity:        form.Quantity,
		UnitPrice:       p.Price,
		TotalPrice:      domain.TotalPrice(p.Price, form.Quantity),
		ContactNumber:   form.ContactNumber,
		DeliveryAddress: form.DeliveryAddress,
		Notes:           form.Notes,
		Status:          domain.BookingStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	b.ProductName = p.Name
	return b, nil
}

// Mine lists the bookings placed by userID.
func (s *Service) Mine(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// ByStatus lists bookings in one state, for managers and admins.
func (s *Service) ByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	return s.bookings.ListByStatus(ctx, status)
}
