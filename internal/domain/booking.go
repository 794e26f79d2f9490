package domain

import (
	"time"

	"sharespot/internal/pkg/dates"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingActive, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingRejected
}

// HoldsDates reports whether a booking in status s still occupies its date range.
// Completed bookings keep their dates as history.
func (s BookingStatus) HoldsDates() bool {
	return s != BookingCancelled && s != BookingRejected
}

type Booking struct {
	ID         string `json:"id"`
	ItemID     string `json:"item_id"`
	OwnerID    string `json:"owner_id"`
	BorrowerID string `json:"borrower_id"`

	// Display copies from the item and user records; never authoritative.
	ItemTitle    string `json:"item_title,omitempty"`
	ItemImage    string `json:"item_image,omitempty"`
	OwnerName    string `json:"owner_name,omitempty"`
	BorrowerName string `json:"borrower_name,omitempty"`

	StartDate  dates.Date    `json:"start_date"`
	EndDate    dates.Date    `json:"end_date"`
	Status     BookingStatus `json:"status"`
	TotalPrice float64       `json:"total_price"`
	Deposit    *float64      `json:"deposit,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (b *Booking) Range() dates.Range {
	return dates.Range{Start: b.StartDate, End: b.EndDate}
}

// Clone returns a copy that shares no pointers with b.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.Deposit != nil {
		v := *b.Deposit
		c.Deposit = &v
	}
	return &c
}
