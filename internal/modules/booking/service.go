package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"sharespot/internal/domain"
	"sharespot/internal/pkg/dates"
	"sharespot/internal/pkg/itemlock"
	"sharespot/internal/pkg/metrics"
	"sharespot/internal/pkg/tracing"
	"sharespot/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Service is the booking lifecycle manager. All mutations of the booking collection go
// through it; availability is re-checked under a per-item lock before every write that
// could create an overlap.
type Service struct {
	bookings BookingStore
	notifs   NotificationSender
	locks    ItemLocker
	windows  ItemCatalog // non-nil enables availability window checks
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

func WithLocker(l ItemLocker) Option {
	return func(s *Service) { s.locks = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithWindowEnforcement makes create and extend also require the dates to fall inside
// one of the item's declared availability windows, read from catalog.
func WithWindowEnforcement(catalog ItemCatalog) Option {
	return func(s *Service) { s.windows = catalog }
}

func NewService(bookings BookingStore, notifs NotificationSender, opts ...Option) *Service {
	s := &Service{
		bookings: bookings,
		notifs:   notifs,
		locks:    itemlock.NewLocal(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (_ *domain.Booking, err error) {
	ctx, span := tracing.Start(ctx, "booking.create", attribute.String("item.id", req.ItemID))
	defer func() { observe("create", span, err) }()

	if err := validateCreate(req); err != nil {
		return nil, err
	}
	r, err := dates.NewRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	if err := s.checkWindows(ctx, req.ItemID, r); err != nil {
		return nil, err
	}

	unlock, err := s.locks.Lock(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("lock item %s: %w", req.ItemID, err)
	}
	defer unlock()

	existing, err := s.bookings.ListByItem(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for item %s: %w", req.ItemID, err)
	}
	ok, err := IsAvailable(req.ItemID, r.Start, r.End, existing)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, r)
	}

	total := roundPrice(req.PricePerDay * float64(r.Days()))
	if !validAmount(total) {
		return nil, fmt.Errorf("%w: total price for %s is out of range", ErrValidation, r)
	}

	now := s.now().UTC()
	b := &domain.Booking{
		ID:           s.newID(),
		ItemID:       req.ItemID,
		OwnerID:      req.OwnerID,
		BorrowerID:   req.BorrowerID,
		ItemTitle:    req.ItemTitle,
		ItemImage:    req.ItemImage,
		OwnerName:    req.OwnerName,
		BorrowerName: req.BorrowerName,
		StartDate:    r.Start,
		EndDate:      r.End,
		Status:       domain.BookingPending,
		TotalPrice:   total,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Deposit != nil {
		v := *req.Deposit
		b.Deposit = &v
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, r)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	span.SetAttributes(attribute.String("booking.id", b.ID))

	log.Printf("booking_created id=%s item_id=%s owner_id=%s borrower_id=%s range=%s total_price=%.2f",
		b.ID, b.ItemID, b.OwnerID, b.BorrowerID, r, b.TotalPrice)

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingRequested(ctx, b.Clone()); err != nil {
			log.Printf("booking_notify_failed id=%s event=requested error=%v", b.ID, err)
		}
	}
	return b, nil
}

// UpdateStatus moves a booking along the state machine on behalf of actingUserID.
// Only the status (and updated_at) changes.
func (s *Service) UpdateStatus(ctx context.Context, bookingID string, to domain.BookingStatus, actingUserID string) (_ *domain.Booking, err error) {
	ctx, span := tracing.Start(ctx, "booking.update_status",
		attribute.String("booking.id", bookingID),
		attribute.String("booking.status.to", string(to)),
	)
	defer func() { observe("update_status", span, err) }()

	b, unlock, err := s.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := checkTransition(b, to, actingUserID); err != nil {
		return nil, err
	}

	from := b.Status
	b.Status = to
	b.UpdatedAt = s.now().UTC()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking %s: %w", b.ID, err)
	}

	log.Printf("booking_status_changed id=%s from=%s to=%s actor=%s", b.ID, from, to, actingUserID)

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingStatusChanged(ctx, b.Clone(), from); err != nil {
			log.Printf("booking_notify_failed id=%s event=%s error=%v", b.ID, to, err)
		}
	}
	return b, nil
}

func (s *Service) Approve(ctx context.Context, bookingID, ownerID string) (*domain.Booking, error) {
	return s.UpdateStatus(ctx, bookingID, domain.BookingApproved, ownerID)
}

func (s *Service) Reject(ctx context.Context, bookingID, ownerID string) (*domain.Booking, error) {
	return s.UpdateStatus(ctx, bookingID, domain.BookingRejected, ownerID)
}

// Start marks the handover of the item to the borrower.
func (s *Service) Start(ctx context.Context, bookingID, ownerID string) (*domain.Booking, error) {
	return s.UpdateStatus(ctx, bookingID, domain.BookingActive, ownerID)
}

func (s *Service) Complete(ctx context.Context, bookingID, ownerID string) (*domain.Booking, error) {
	return s.UpdateStatus(ctx, bookingID, domain.BookingCompleted, ownerID)
}

func (s *Service) CancelBooking(ctx context.Context, bookingID, borrowerID string) (*domain.Booking, error) {
	return s.UpdateStatus(ctx, bookingID, domain.BookingCancelled, borrowerID)
}

// ExtendBooking moves the end date of an approved or active booking to newEnd, keeping the
// per-day rate the booking was made at even if the item's price has changed since.
func (s *Service) ExtendBooking(ctx context.Context, bookingID string, newEnd dates.Date, actingUserID string) (_ *domain.Booking, err error) {
	ctx, span := tracing.Start(ctx, "booking.extend",
		attribute.String("booking.id", bookingID),
		attribute.String("booking.end_date", newEnd.String()),
	)
	defer func() { observe("extend", span, err) }()

	b, unlock, err := s.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := checkExtension(b, actingUserID); err != nil {
		return nil, err
	}
	if newEnd.IsZero() || !newEnd.After(b.EndDate) {
		return nil, fmt.Errorf("%w: new end %s must be after %s", ErrInvalidRange, newEnd, b.EndDate)
	}

	extended := dates.Range{Start: b.StartDate, End: newEnd}
	if err := s.checkWindows(ctx, b.ItemID, extended); err != nil {
		return nil, err
	}

	existing, err := s.bookings.ListByItem(ctx, b.ItemID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for item %s: %w", b.ItemID, err)
	}
	ok, err := IsAvailableExcluding(b.ItemID, extended.Start, extended.End, existing, b.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, extended)
	}

	total := ExtendedPrice(b.TotalPrice, b.Range(), extended)
	if !validAmount(total) {
		return nil, fmt.Errorf("%w: total price for %s is out of range", ErrValidation, extended)
	}

	previousEnd := b.EndDate
	b.TotalPrice = total
	b.EndDate = newEnd
	b.UpdatedAt = s.now().UTC()
	if err := s.bookings.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, extended)
		}
		return nil, fmt.Errorf("update booking %s: %w", b.ID, err)
	}

	log.Printf("booking_extended id=%s previous_end=%s end=%s total_price=%.2f", b.ID, previousEnd, b.EndDate, b.TotalPrice)

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingExtended(ctx, b.Clone(), previousEnd); err != nil {
			log.Printf("booking_notify_failed id=%s event=extended error=%v", b.ID, err)
		}
	}
	return b, nil
}

func (s *Service) CheckAvailability(ctx context.Context, itemID string, start, end dates.Date) (_ bool, err error) {
	ctx, span := tracing.Start(ctx, "booking.check_availability", attribute.String("item.id", itemID))
	defer func() { observe("check_availability", span, err) }()

	existing, err := s.bookings.ListByItem(ctx, itemID)
	if err != nil {
		return false, fmt.Errorf("list bookings for item %s: %w", itemID, err)
	}
	return IsAvailable(itemID, start, end, existing)
}

// GetBookingByID reports absence as (nil, false, nil); only store failures are errors.
func (s *Service) GetBookingByID(ctx context.Context, id string) (*domain.Booking, bool, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, true, nil
}

func (s *Service) ListBookingsForBorrower(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByBorrower(ctx, userID)
}

func (s *Service) ListBookingsForOwner(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByOwner(ctx, userID)
}

func (s *Service) ListBookingsForItem(ctx context.Context, itemID string) ([]domain.Booking, error) {
	return s.bookings.ListByItem(ctx, itemID)
}

// lockBooking locks the booking's item and returns a fresh read taken under the lock.
func (s *Service) lockBooking(ctx context.Context, bookingID string) (*domain.Booking, func(), error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}

	unlock, err := s.locks.Lock(ctx, b.ItemID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock item %s: %w", b.ItemID, err)
	}

	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		unlock()
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, bookingID)
		}
		return nil, nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	return b, unlock, nil
}

func (s *Service) checkWindows(ctx context.Context, itemID string, r dates.Range) error {
	if s.windows == nil {
		return nil
	}
	item, err := s.windows.GetByID(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: unknown item %s", ErrValidation, itemID)
	}
	if err != nil {
		return fmt.Errorf("get item %s: %w", itemID, err)
	}
	if !WithinWindows(r, item.AvailableDates) {
		return fmt.Errorf("%w: %s is outside the item's availability windows", ErrUnavailable, r)
	}
	return nil
}

func validateCreate(req CreateBookingRequest) error {
	switch {
	case req.ItemID == "" || req.OwnerID == "" || req.BorrowerID == "":
		return fmt.Errorf("%w: item, owner and borrower are required", ErrValidation)
	case req.OwnerID == req.BorrowerID:
		return fmt.Errorf("%w: owner cannot book their own item", ErrValidation)
	case !validAmount(req.PricePerDay):
		return fmt.Errorf("%w: price per day must be a non-negative number", ErrValidation)
	case req.Deposit != nil && !validAmount(*req.Deposit):
		return fmt.Errorf("%w: deposit must be a non-negative number", ErrValidation)
	case req.StartDate.IsZero() || req.EndDate.IsZero():
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidRange)
	}
	return nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ExtendedPrice rescales total from the old range to the new one at the same per-day rate.
func ExtendedPrice(total float64, old, extended dates.Range) float64 {
	rate := total / float64(old.Days())
	return roundPrice(rate * float64(extended.Days()))
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

func observe(operation string, span trace.Span, err error) {
	metrics.ObserveBooking(operation, errorCode(err))
	tracing.End(span, err)
}
