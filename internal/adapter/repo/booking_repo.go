package repo

import (
	"context"

	"garmentgrid/internal/domain"
	"garmentgrid/internal/infra"
	"garmentgrid/internal/sqlinline"
)

// BookingRepositoryPG implements domain.BookingRepository using PostgreSQL.
type BookingRepositoryPG struct {
	db infra.SQLExecutor
}

// NewBookingRepository creates a new booking repo.
func NewBookingRepository(db infra.SQLExecutor) *BookingRepositoryPG {
	return &BookingRepositoryPG{db: db}
}

// Create inserts a booking and returns it with the stored timestamp.
func (r *BookingRepositoryPG) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	out := *b
	err := r.db.QueryRow(ctx, sqlinline.QInsertBooking,
		b.ID,
		b.ProductID,
		b.UserID,
		b.FirstName,
		b.LastName,
		b.Quantity,
		b.UnitPrice,
		b.TotalPrice,
		b.ContactNumber,
		b.DeliveryAddress,
		b.Notes,
		string(b.Status),
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser returns a buyer's bookings, newest first.
func (r *BookingRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.list(ctx, sqlinline.QListBookingsByUser, userID)
}

// ListByStatus returns every booking in the given state, newest first.
func (r *BookingRepositoryPG) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	return r.list(ctx, sqlinline.QListBookingsByStatus, string(status))
}

func (r *BookingRepositoryPG) list(ctx context.Context, query string, arg any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Booking, 0)
	for rows.Next() {
		var (
			b      domain.Booking
			status string
		)
		if err := rows.Scan(&b.ID, &b.ProductID, &b.ProductName, &b.UserID, &b.FirstName, &b.LastName, &b.Quantity,
			&b.UnitPrice, &b.TotalPrice, &b.ContactNumber, &b.DeliveryAddress, &b.Notes, &status, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Status = domain.BookingStatus(status)
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var _ domain.BookingRepository = (*BookingRepositoryPG)(nil)
