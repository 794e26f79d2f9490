package booking

import (
	"fmt"

	"sharespot/internal/domain"
	"sharespot/internal/pkg/dates"
)

// Overlaps reports whether two closed date ranges share at least one calendar day.
// It is symmetric: Overlaps(a, b) == Overlaps(b, a).
func Overlaps(a, b dates.Range) bool {
	return a.Overlaps(b)
}

// IsAvailable decides whether itemID is free on every day of [start, end] given the
// bookings in existing. Bookings of other items and cancelled or rejected ones are ignored.
func IsAvailable(itemID string, start, end dates.Date, existing []domain.Booking) (bool, error) {
	return IsAvailableExcluding(itemID, start, end, existing, "")
}

// IsAvailableExcluding is IsAvailable that also ignores the booking with id excludeID,
// so a booking can be re-checked against everything but itself.
func IsAvailableExcluding(itemID string, start, end dates.Date, existing []domain.Booking, excludeID string) (bool, error) {
	candidate, err := dates.NewRange(start, end)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	for i := range existing {
		b := &existing[i]
		if b.ItemID != itemID || !b.Status.HoldsDates() {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if Overlaps(candidate, b.Range()) {
			return false, nil
		}
	}
	return true, nil
}

// WithinWindows reports whether r lies entirely inside one of the owner-declared windows.
// An item without declared windows is always open.
func WithinWindows(r dates.Range, windows []dates.Range) bool {
	if len(windows) == 0 {
		return true
	}
	for _, w := range windows {
		if w.Contains(r) {
			return true
		}
	}
	return false
}
