package domain

import "sharespot/internal/pkg/dates"

type RentalType string

const (
	RentalLoan RentalType = "loan"
	RentalRent RentalType = "rent"
	RentalSwap RentalType = "swap"
)

// Item is the catalog record the booking engine reads; listings are managed elsewhere.
type Item struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	OwnerName   string     `json:"owner_name"`
	Title       string     `json:"title"`
	Image       string     `json:"image,omitempty"`
	RentalType  RentalType `json:"rental_type"`
	PricePerDay float64    `json:"price_per_day"` // 0 for free loans
	Deposit     *float64   `json:"deposit,omitempty"`

	// Owner-declared windows in which the item may be booked at all.
	AvailableDates []dates.Range `json:"available_dates,omitempty"`
}
