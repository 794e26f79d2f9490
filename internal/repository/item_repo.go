package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"sharespot/internal/domain"
	"sharespot/internal/pkg/dates"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

type itemModel struct {
	ID             string   `gorm:"column:id;primaryKey;size:36"`
	OwnerID        string   `gorm:"column:owner_id;index;not null"`
	OwnerName      string   `gorm:"column:owner_name"`
	Title          string   `gorm:"column:title;not null"`
	Image          *string  `gorm:"column:image"`
	RentalType     string   `gorm:"column:rental_type;size:8"`
	PricePerDay    float64  `gorm:"column:price_per_day;not null"`
	Deposit        *float64 `gorm:"column:deposit"`
	AvailableDates []byte   `gorm:"column:available_dates"` // JSON [{"start","end"}]
}

func (itemModel) TableName() string { return "items" }

func (r *ItemRepository) Migrate() error {
	return r.db.AutoMigrate(&itemModel{})
}

func toDomainItem(m itemModel) (*domain.Item, error) {
	it := &domain.Item{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		OwnerName:   m.OwnerName,
		Title:       m.Title,
		RentalType:  domain.RentalType(m.RentalType),
		PricePerDay: m.PricePerDay,
		Deposit:     m.Deposit,
	}
	if m.Image != nil {
		it.Image = *m.Image
	}
	if len(m.AvailableDates) > 0 {
		var windows []dates.Range
		if err := json.Unmarshal(m.AvailableDates, &windows); err != nil {
			return nil, fmt.Errorf("item %s available_dates: %w", m.ID, err)
		}
		it.AvailableDates = windows
	}
	return it, nil
}

func toItemModel(it *domain.Item) (itemModel, error) {
	m := itemModel{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		OwnerName:   it.OwnerName,
		Title:       it.Title,
		RentalType:  string(it.RentalType),
		PricePerDay: it.PricePerDay,
		Deposit:     it.Deposit,
	}
	if it.Image != "" {
		v := it.Image
		m.Image = &v
	}
	if len(it.AvailableDates) > 0 {
		raw, err := json.Marshal(it.AvailableDates)
		if err != nil {
			return itemModel{}, err
		}
		m.AvailableDates = raw
	}
	return m, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	var m itemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainItem(m)
}

// Upsert is used by the seeder; the catalog itself is owned by another service.
func (r *ItemRepository) Upsert(ctx context.Context, it *domain.Item) error {
	m, err := toItemModel(it)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&m).Error
}

// MemoryItemRepository serves a fixed catalog, used when no database is configured for items.
type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Item
}

func NewMemoryItemRepository(items ...domain.Item) *MemoryItemRepository {
	r := &MemoryItemRepository{items: make(map[string]domain.Item, len(items))}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *MemoryItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &it, nil
}

func (r *MemoryItemRepository) Upsert(ctx context.Context, it *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = *it
	return nil
}
