package booking

import (
	"fmt"

	"sharespot/internal/domain"
)

type party int

const (
	partyOwner party = iota + 1
	partyBorrower
)

func (p party) String() string {
	if p == partyOwner {
		return "owner"
	}
	return "borrower"
}

type edge struct {
	from domain.BookingStatus
	to   domain.BookingStatus
}

// transitions is the complete state machine: an edge absent here is never allowed.
// pending -> active is deliberately missing; a booking must be approved before handover.
var transitions = map[edge]party{
	{domain.BookingPending, domain.BookingApproved}:   partyOwner,
	{domain.BookingPending, domain.BookingRejected}:   partyOwner,
	{domain.BookingPending, domain.BookingCancelled}:  partyBorrower,
	{domain.BookingApproved, domain.BookingCancelled}: partyBorrower,
	{domain.BookingApproved, domain.BookingActive}:    partyOwner,
	{domain.BookingActive, domain.BookingCompleted}:   partyOwner,
}

// CanTransition reports whether the state machine has an edge from -> to, ignoring actors.
func CanTransition(from, to domain.BookingStatus) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// checkTransition validates both the edge and who is asking for it.
func checkTransition(b *domain.Booking, to domain.BookingStatus, actingUserID string) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	who, ok := transitions[edge{b.Status, to}]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}

	var actor string
	switch who {
	case partyOwner:
		actor = b.OwnerID
	case partyBorrower:
		actor = b.BorrowerID
	}
	if actingUserID == "" || actingUserID != actor {
		return fmt.Errorf("%w: %w: %s -> %s requires the %s", ErrInvalidTransition, ErrForbidden, b.Status, to, who)
	}
	return nil
}

// checkExtension validates that b may be lengthened by actingUserID.
// An empty actingUserID is an internal caller and skips the actor check.
func checkExtension(b *domain.Booking, actingUserID string) error {
	if b.Status != domain.BookingApproved && b.Status != domain.BookingActive {
		return fmt.Errorf("%w: cannot extend a %s booking", ErrInvalidTransition, b.Status)
	}
	if actingUserID != "" && actingUserID != b.BorrowerID && actingUserID != b.OwnerID {
		return fmt.Errorf("%w: %w: only the borrower or owner may extend", ErrInvalidTransition, ErrForbidden)
	}
	return nil
}
