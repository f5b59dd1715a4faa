package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"garmentgrid/internal/domain"
)

// MemoryUserRepository keeps users in process memory. It backs development
// runs without DATABASE_URL and the tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return nil, domain.ErrConflict
	}
	u := *user
	u.CreatedAt = r.now()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return &u, nil
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, id, displayName, photoURL string, role domain.UserRole) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.DisplayName = displayName
	u.PhotoURL = photoURL
	u.Role = role
	u.UpdatedAt = r.now()
	r.byID[id] = u
	return &u, nil
}

func (r *MemoryUserRepository) UpsertByGoogleSub(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(user.Email)
	if id, ok := r.byEmail[email]; ok {
		u := r.byID[id]
		if u.DisplayName == "" {
			u.DisplayName = user.DisplayName
		}
		if u.PhotoURL == "" {
			u.PhotoURL = user.PhotoURL
		}
		u.GoogleSub = user.GoogleSub
		u.UpdatedAt = r.now()
		r.byID[id] = u
		return &u, nil
	}
	u := *user
	u.CreatedAt = r.now()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return &u, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

// MemoryProductRepository serves a fixed catalogue.
type MemoryProductRepository struct {
	products []domain.Product
}

func NewMemoryProductRepository(products []domain.Product) *MemoryProductRepository {
	sorted := append([]domain.Product(nil), products...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &MemoryProductRepository{products: sorted}
}

func (r *MemoryProductRepository) List(context.Context) ([]domain.Product, error) {
	return append([]domain.Product(nil), r.products...), nil
}

func (r *MemoryProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// MemoryBookingRepository keeps bookings in insertion order.
type MemoryBookingRepository struct {
	mu    sync.RWMutex
	items []domain.Booking
	now   func() time.Time
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{now: time.Now}
}

func (r *MemoryBookingRepository) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *b
	out.CreatedAt = r.now()
	r.items = append(r.items, out)
	return &out, nil
}

func (r *MemoryBookingRepository) ListByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.UserID == userID }), nil
}

func (r *MemoryBookingRepository) ListByStatus(_ context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.Status == status }), nil
}

// filter returns matches newest first.
func (r *MemoryBookingRepository) filter(keep func(domain.Booking) bool) []domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Booking, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if keep(r.items[i]) {
			out = append(out, r.items[i])
		}
	}
	return out
}

var (
	_ domain.UserRepository    = (*MemoryUserRepository)(nil)
	_ domain.ProductRepository = (*MemoryProductRepository)(nil)
	_ domain.BookingRepository = (*MemoryBookingRepository)(nil)
)
