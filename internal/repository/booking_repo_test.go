package repository

import (
	"context"
	"testing"
	"time"

	"sharespot/internal/database"
	"sharespot/internal/domain"
	"sharespot/internal/pkg/dates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteBookingRepo(t *testing.T) *BookingRepository {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	repo := NewBookingRepository(db)
	require.NoError(t, repo.Migrate())
	return repo
}

func sampleBooking(id, itemID string, created time.Time) *domain.Booking {
	deposit := 50.0
	return &domain.Booking{
		ID:           id,
		ItemID:       itemID,
		OwnerID:      "101",
		BorrowerID:   "102",
		ItemTitle:    "Power Drill - Cordless",
		OwnerName:    "Alex Johnson",
		BorrowerName: "Maria Garcia",
		StartDate:    dates.MustParse("2023-11-10"),
		EndDate:      dates.MustParse("2023-11-12"),
		Status:       domain.BookingApproved,
		TotalPrice:   15,
		Deposit:      &deposit,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

// bookingStore is the shape both implementations share.
type bookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByItem(ctx context.Context, itemID string) ([]domain.Booking, error)
	ListByBorrower(ctx context.Context, userID string) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Booking, error)
}

func TestBookingStores(t *testing.T) {
	stores := map[string]func(t *testing.T) bookingStore{
		"memory": func(t *testing.T) bookingStore { return NewMemoryBookingRepository() },
		"sqlite": func(t *testing.T) bookingStore { return newSQLiteBookingRepo(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			base := time.Date(2023, 11, 5, 14, 30, 0, 0, time.UTC)

			require.NoError(t, store.Create(ctx, sampleBooking("b1", "item-1", base)))
			require.NoError(t, store.Create(ctx, sampleBooking("b2", "item-1", base.Add(time.Hour))))
			require.NoError(t, store.Create(ctx, sampleBooking("b3", "item-2", base.Add(2*time.Hour))))

			got, err := store.GetByID(ctx, "b1")
			require.NoError(t, err)
			assert.Equal(t, "2023-11-10", got.StartDate.String())
			assert.Equal(t, "2023-11-12", got.EndDate.String())
			require.NotNil(t, got.Deposit)
			assert.Equal(t, 50.0, *got.Deposit)

			_, err = store.GetByID(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			byItem, err := store.ListByItem(ctx, "item-1")
			require.NoError(t, err)
			require.Len(t, byItem, 2)
			assert.Equal(t, "b2", byItem[0].ID, "newest first")

			byOwner, err := store.ListByOwner(ctx, "101")
			require.NoError(t, err)
			assert.Len(t, byOwner, 3)

			byBorrower, err := store.ListByBorrower(ctx, "nobody")
			require.NoError(t, err)
			assert.Empty(t, byBorrower)

			got.Status = domain.BookingActive
			got.EndDate = dates.MustParse("2023-11-15")
			got.TotalPrice = 30
			require.NoError(t, store.Update(ctx, got))

			again, err := store.GetByID(ctx, "b1")
			require.NoError(t, err)
			assert.Equal(t, domain.BookingActive, again.Status)
			assert.Equal(t, "2023-11-15", again.EndDate.String())
			assert.Equal(t, 30.0, again.TotalPrice)

			assert.ErrorIs(t, store.Update(ctx, sampleBooking("ghost", "item-1", base)), ErrNotFound)
		})
	}
}

func TestMemoryBookingRepository_NoAliasing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepository()
	b := sampleBooking("b1", "item-1", time.Now())
	require.NoError(t, repo.Create(ctx, b))

	*b.Deposit = 999
	b.Status = domain.BookingCancelled

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingApproved, got.Status)
	assert.Equal(t, 50.0, *got.Deposit)

	assert.ErrorIs(t, repo.Create(ctx, sampleBooking("b1", "item-1", time.Now())), ErrConflict)
}

func TestItemRepository_RoundTripsWindows(t *testing.T) {
	ctx := context.Background()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	repo := NewItemRepository(db)
	require.NoError(t, repo.Migrate())

	deposit := 75.0
	item := &domain.Item{
		ID:          "3",
		OwnerID:     "103",
		OwnerName:   "David Kim",
		Title:       "Camping Tent - 4 Person",
		RentalType:  domain.RentalRent,
		PricePerDay: 10,
		Deposit:     &deposit,
		AvailableDates: []dates.Range{
			{Start: dates.MustParse("2023-11-01"), End: dates.MustParse("2023-11-30")},
		},
	}
	require.NoError(t, repo.Upsert(ctx, item))

	item.PricePerDay = 12
	require.NoError(t, repo.Upsert(ctx, item))

	got, err := repo.GetByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.PricePerDay)
	require.Len(t, got.AvailableDates, 1)
	assert.Equal(t, "2023-11-30", got.AvailableDates[0].End.String())

	_, err = repo.GetByID(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)
}
