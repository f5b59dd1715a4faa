package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	UpdateProfile(ctx context.Context, id, displayName, photoURL string, role UserRole) (*User, error)
	UpsertByGoogleSub(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// ProductRepository exposes the read-only catalogue.
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}

// BookingRepository persists bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	ListByStatus(ctx context.Context, status BookingStatus) ([]Booking, error)
}
