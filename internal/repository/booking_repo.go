package repository

import (
	"context"
	"time"

	"sharespot/internal/domain"
	"sharespot/internal/pkg/dates"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID           string     `gorm:"column:id;primaryKey;size:36"`
	ItemID       string     `gorm:"column:item_id;index:idx_bookings_item;not null"`
	OwnerID      string     `gorm:"column:owner_id;index;not null"`
	BorrowerID   string     `gorm:"column:borrower_id;index;not null"`
	ItemTitle    string     `gorm:"column:item_title"`
	ItemImage    *string    `gorm:"column:item_image"`
	OwnerName    string     `gorm:"column:owner_name"`
	BorrowerName string     `gorm:"column:borrower_name"`
	StartDate    dates.Date `gorm:"column:start_date;not null"`
	EndDate      dates.Date `gorm:"column:end_date;not null"`
	Status       string     `gorm:"column:status;size:16;not null"`
	TotalPrice   float64    `gorm:"column:total_price;not null"`
	Deposit      *float64   `gorm:"column:deposit"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

// Migrate creates or updates the bookings table.
func (r *BookingRepository) Migrate() error {
	return r.db.AutoMigrate(&bookingModel{})
}

func toDomainBooking(m bookingModel) *domain.Booking {
	var image string
	if m.ItemImage != nil {
		image = *m.ItemImage
	}

	b := &domain.Booking{
		ID:           m.ID,
		ItemID:       m.ItemID,
		OwnerID:      m.OwnerID,
		BorrowerID:   m.BorrowerID,
		ItemTitle:    m.ItemTitle,
		ItemImage:    image,
		OwnerName:    m.OwnerName,
		BorrowerName: m.BorrowerName,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Status:       domain.BookingStatus(m.Status),
		TotalPrice:   m.TotalPrice,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Deposit != nil {
		v := *m.Deposit
		b.Deposit = &v
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	var image *string
	if b.ItemImage != "" {
		v := b.ItemImage
		image = &v
	}

	m := bookingModel{
		ID:           b.ID,
		ItemID:       b.ItemID,
		OwnerID:      b.OwnerID,
		BorrowerID:   b.BorrowerID,
		ItemTitle:    b.ItemTitle,
		ItemImage:    image,
		OwnerName:    b.OwnerName,
		BorrowerName: b.BorrowerName,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		Status:       string(b.Status),
		TotalPrice:   b.TotalPrice,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.Deposit != nil {
		v := *b.Deposit
		m.Deposit = &v
	}
	return m
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

// Update persists the mutable fields: status, end date, price and updated_at.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"status":      string(b.Status),
			"end_date":    b.EndDate,
			"total_price": b.TotalPrice,
			"updated_at":  b.UpdatedAt,
		})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListByItem(ctx context.Context, itemID string) ([]domain.Booking, error) {
	return r.list(ctx, "item_id = ?", itemID)
}

func (r *BookingRepository) ListByBorrower(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.list(ctx, "borrower_id = ?", userID)
}

func (r *BookingRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.list(ctx, "owner_id = ?", userID)
}

func (r *BookingRepository) list(ctx context.Context, where string, arg any) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where(where, arg).
		Order("created_at DESC").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
