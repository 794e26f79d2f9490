package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"sharespot/internal/domain"
	"sharespot/internal/pkg/dates"
)

// Store is the persistence the service needs; *Repository implements it.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, id int64, userID string, at time.Time) error
	MarkAllAsRead(ctx context.Context, userID string, at time.Time) (int64, error)
}

// Pusher delivers events to connected clients; *Hub implements it.
type Pusher interface {
	SendToUser(userID string, message any) bool
}

type Service struct {
	store  Store
	pusher Pusher
	now    func() time.Time
}

func NewService(store Store, pusher Pusher) *Service {
	return &Service{store: store, pusher: pusher, now: time.Now}
}

// NotifyBookingRequested tells the owner about a new request and asks the messaging
// service to open a conversation between the two parties.
func (s *Service) NotifyBookingRequested(ctx context.Context, b *domain.Booking) error {
	data := bookingData(b)
	data.ConversationRequested = true

	who := b.BorrowerName
	if who == "" {
		who = "Someone"
	}
	return s.create(ctx, b.OwnerID, TypeBookingRequested,
		"New booking request",
		fmt.Sprintf("%s wants to borrow %s from %s to %s", who, itemName(b), b.StartDate, b.EndDate),
		data,
	)
}

func (s *Service) NotifyBookingStatusChanged(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error {
	data := bookingData(b)
	data.Status = string(b.Status)
	data.PreviousStatus = string(from)

	item := itemName(b)
	switch b.Status {
	case domain.BookingApproved:
		return s.create(ctx, b.BorrowerID, TypeBookingApproved, "Booking approved",
			fmt.Sprintf("Your request for %s was approved", item), data)
	case domain.BookingRejected:
		return s.create(ctx, b.BorrowerID, TypeBookingRejected, "Booking rejected",
			fmt.Sprintf("Your request for %s was declined", item), data)
	case domain.BookingCancelled:
		return s.create(ctx, b.OwnerID, TypeBookingCancelled, "Booking cancelled",
			fmt.Sprintf("The booking for %s from %s to %s was cancelled", item, b.StartDate, b.EndDate), data)
	case domain.BookingActive:
		return s.create(ctx, b.BorrowerID, TypeBookingStarted, "Booking started",
			fmt.Sprintf("Your booking for %s is now active", item), data)
	case domain.BookingCompleted:
		msg := fmt.Sprintf("The booking for %s is completed", item)
		if err := s.create(ctx, b.BorrowerID, TypeBookingCompleted, "Booking completed", msg, data); err != nil {
			return err
		}
		return s.create(ctx, b.OwnerID, TypeBookingCompleted, "Booking completed", msg, data)
	}
	return nil
}

// NotifyBookingExtended tells both parties; the one who asked already knows but keeps a record.
func (s *Service) NotifyBookingExtended(ctx context.Context, b *domain.Booking, previousEnd dates.Date) error {
	data := bookingData(b)
	data.PreviousEndDate = previousEnd.String()

	msg := fmt.Sprintf("The booking for %s now ends on %s (was %s), total %.2f", itemName(b), b.EndDate, previousEnd, b.TotalPrice)
	if err := s.create(ctx, b.OwnerID, TypeBookingExtended, "Booking extended", msg, data); err != nil {
		return err
	}
	return s.create(ctx, b.BorrowerID, TypeBookingExtended, "Booking extended", msg, data)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, int64, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	list, total, err := s.store.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return list, unread, total, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkAsRead(ctx context.Context, id int64, userID string) error {
	return s.store.MarkAsRead(ctx, id, userID, s.now().UTC())
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllAsRead(ctx, userID, s.now().UTC())
}

func (s *Service) create(ctx context.Context, userID string, t Type, title, message string, data *Data) error {
	n := &Notification{
		UserID:    userID,
		Type:      t,
		Title:     title,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	if err := n.SetData(data); err != nil {
		return fmt.Errorf("encode notification data: %w", err)
	}
	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	delivered := false
	if s.pusher != nil {
		delivered = s.pusher.SendToUser(userID, Event{Type: "notification", Notification: n})
	}
	log.Printf("notification_created id=%d user_id=%s type=%s delivered=%t", n.ID, userID, t, delivered)
	return nil
}

func bookingData(b *domain.Booking) *Data {
	return &Data{
		BookingID:  b.ID,
		ItemID:     b.ItemID,
		OwnerID:    b.OwnerID,
		BorrowerID: b.BorrowerID,
		StartDate:  b.StartDate.String(),
		EndDate:    b.EndDate.String(),
	}
}

func itemName(b *domain.Booking) string {
	if b.ItemTitle != "" {
		return b.ItemTitle
	}
	return "item " + b.ItemID
}
