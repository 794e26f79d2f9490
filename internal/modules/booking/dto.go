package booking

import "sharespot/internal/pkg/dates"

// CreateBookingRequest is the service input. Display fields are copied onto the booking as-is.
type CreateBookingRequest struct {
	ItemID      string
	OwnerID     string
	BorrowerID  string
	StartDate   dates.Date
	EndDate     dates.Date
	PricePerDay float64
	Deposit     *float64

	ItemTitle    string
	ItemImage    string
	OwnerName    string
	BorrowerName string
}

// createBookingBody is the HTTP body; the borrower comes from the token and the
// owner, price and deposit from the item catalog.
type createBookingBody struct {
	ItemID       string `json:"item_id" binding:"required"`
	StartDate    string `json:"start_date" binding:"required" validate:"isodate"`
	EndDate      string `json:"end_date" binding:"required" validate:"isodate"`
	BorrowerName string `json:"borrower_name"`
}

type updateStatusBody struct {
	Status string `json:"status" binding:"required" validate:"oneof=approved rejected active completed cancelled"`
}

type extendBody struct {
	EndDate string `json:"end_date" binding:"required" validate:"isodate"`
}

type AvailabilityResponse struct {
	ItemID    string     `json:"item_id"`
	StartDate dates.Date `json:"start_date"`
	EndDate   dates.Date `json:"end_date"`
	Available bool       `json:"available"`
}
