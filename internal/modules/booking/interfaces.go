package booking

import (
	"context"

	"sharespot/internal/domain"
	"sharespot/internal/pkg/dates"
)

// BookingStore owns the booking collection. GetByID and Update return
// repository.ErrNotFound for unknown ids.
type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByItem(ctx context.Context, itemID string) ([]domain.Booking, error)
	ListByBorrower(ctx context.Context, userID string) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Booking, error)
}

// ItemCatalog is the read side of the item listings service.
type ItemCatalog interface {
	GetByID(ctx context.Context, id string) (*domain.Item, error)
}

type ItemLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// NotificationSender receives lifecycle events. NotifyBookingRequested also carries the
// trigger for the messaging service to open a conversation between owner and borrower.
type NotificationSender interface {
	NotifyBookingRequested(ctx context.Context, b *domain.Booking) error
	NotifyBookingStatusChanged(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error
	NotifyBookingExtended(ctx context.Context, b *domain.Booking, previousEnd dates.Date) error
}
