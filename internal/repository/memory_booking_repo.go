package repository

import (
	"context"
	"sort"
	"sync"

	"sharespot/internal/domain"
)

// MemoryBookingRepository keeps the booking collection in process memory.
// Records are copied in and out so callers never alias stored state.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
}

func NewMemoryBookingRepository(seed ...domain.Booking) *MemoryBookingRepository {
	r := &MemoryBookingRepository{bookings: make(map[string]*domain.Booking, len(seed))}
	for i := range seed {
		r.bookings[seed[i].ID] = seed[i].Clone()
	}
	return r
}

func (r *MemoryBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bookings[b.ID]; exists {
		return ErrConflict
	}
	r.bookings[b.ID] = b.Clone()
	return nil
}

func (r *MemoryBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bookings[b.ID]; !exists {
		return ErrNotFound
	}
	r.bookings[b.ID] = b.Clone()
	return nil
}

func (r *MemoryBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b.Clone(), nil
}

func (r *MemoryBookingRepository) ListByItem(ctx context.Context, itemID string) ([]domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool { return b.ItemID == itemID }), nil
}

func (r *MemoryBookingRepository) ListByBorrower(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool { return b.BorrowerID == userID }), nil
}

func (r *MemoryBookingRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool { return b.OwnerID == userID }), nil
}

// filter returns matches newest first, ties broken by id for a stable order.
func (r *MemoryBookingRepository) filter(keep func(*domain.Booking) bool) []domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Booking, 0)
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, *b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
