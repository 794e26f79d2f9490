package booking

import (
	"testing"

	"sharespot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []domain.BookingStatus{
	domain.BookingPending,
	domain.BookingApproved,
	domain.BookingRejected,
	domain.BookingActive,
	domain.BookingCompleted,
	domain.BookingCancelled,
}

func TestCanTransition_Edges(t *testing.T) {
	allowed := map[[2]domain.BookingStatus]bool{
		{domain.BookingPending, domain.BookingApproved}:   true,
		{domain.BookingPending, domain.BookingRejected}:   true,
		{domain.BookingPending, domain.BookingCancelled}:  true,
		{domain.BookingApproved, domain.BookingCancelled}: true,
		{domain.BookingApproved, domain.BookingActive}:    true,
		{domain.BookingActive, domain.BookingCompleted}:   true,
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			assert.Equal(t, allowed[[2]domain.BookingStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_NothingReturnsToPending(t *testing.T) {
	for _, from := range allStatuses {
		assert.False(t, CanTransition(from, domain.BookingPending), from)
	}
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range allStatuses {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range allStatuses {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_PendingCannotStart(t *testing.T) {
	assert.False(t, CanTransition(domain.BookingPending, domain.BookingActive))
}

func TestCheckTransition_Actors(t *testing.T) {
	b := &domain.Booking{ID: "1", OwnerID: "owner", BorrowerID: "borrower", Status: domain.BookingPending}

	require.NoError(t, checkTransition(b, domain.BookingApproved, "owner"))
	require.NoError(t, checkTransition(b, domain.BookingCancelled, "borrower"))

	err := checkTransition(b, domain.BookingApproved, "borrower")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = checkTransition(b, domain.BookingCancelled, "owner")
	assert.ErrorIs(t, err, ErrForbidden)

	err = checkTransition(b, domain.BookingApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)

	err = checkTransition(b, domain.BookingApproved, "stranger")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCheckTransition_UnknownStatus(t *testing.T) {
	b := &domain.Booking{OwnerID: "owner", BorrowerID: "borrower", Status: domain.BookingPending}
	err := checkTransition(b, domain.BookingStatus("paid"), "owner")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckTransition_MissingEdgeIsNotForbidden(t *testing.T) {
	b := &domain.Booking{OwnerID: "owner", BorrowerID: "borrower", Status: domain.BookingPending}
	err := checkTransition(b, domain.BookingActive, "owner")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestCheckExtension(t *testing.T) {
	b := &domain.Booking{OwnerID: "owner", BorrowerID: "borrower", Status: domain.BookingApproved}

	assert.NoError(t, checkExtension(b, "borrower"))
	assert.NoError(t, checkExtension(b, "owner"))
	assert.NoError(t, checkExtension(b, ""))
	assert.ErrorIs(t, checkExtension(b, "stranger"), ErrForbidden)

	b.Status = domain.BookingActive
	assert.NoError(t, checkExtension(b, "borrower"))

	for _, s := range []domain.BookingStatus{domain.BookingPending, domain.BookingCompleted, domain.BookingCancelled, domain.BookingRejected} {
		b.Status = s
		assert.ErrorIs(t, checkExtension(b, "borrower"), ErrInvalidTransition, s)
	}
}
