package dates

import (
	"errors"
	"fmt"
)

var ErrInvertedRange = errors.New("end date is before start date")

// Range is a closed interval of calendar days: both Start and End are included.
type Range struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

func NewRange(start, end Date) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

func ParseRange(start, end string) (Range, error) {
	s, err := Parse(start)
	if err != nil {
		return Range{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Range{}, err
	}
	return NewRange(s, e)
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: missing bound", ErrInvalidDate)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: %s..%s", ErrInvertedRange, r.Start, r.End)
	}
	return nil
}

// Days counts both ends, so a single-day range is 1 day.
func (r Range) Days() int {
	return DaysBetween(r.Start, r.End) + 1
}

// Overlaps reports whether the two ranges share at least one calendar day.
func (r Range) Overlaps(o Range) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

func (r Range) Contains(o Range) bool {
	return !o.Start.Before(r.Start) && !o.End.After(r.End)
}

func (r Range) String() string {
	return r.Start.String() + ".." + r.End.String()
}
