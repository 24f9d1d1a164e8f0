package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_TerminalStatesHaveNoExits(t *testing.T) {
	all := []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}
	for _, from := range []BookingStatus{BookingCancelled, BookingCompleted} {
		assert.True(t, from.IsTerminal())
		for _, to := range all {
			err := from.Transition(to)
			require.Error(t, err, "%s -> %s", from, to)
			assert.True(t, IsInvalidTransition(err))
			assert.True(t, IsConflict(err))
		}
	}
}

func TestBookingStatus_Transitions(t *testing.T) {
	assert.NoError(t, BookingPending.Transition(BookingConfirmed))
	assert.NoError(t, BookingPending.Transition(BookingCancelled))
	assert.NoError(t, BookingPending.Transition(BookingCompleted))
	assert.NoError(t, BookingConfirmed.Transition(BookingCompleted))
	assert.Error(t, BookingConfirmed.Transition(BookingCancelled))
	assert.Error(t, BookingConfirmed.Transition(BookingPending))

	err := BookingPending.Transition("archived")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAuthorizeStatusChange(t *testing.T) {
	tourist := Actor{UserID: 7, Role: RoleTourist}
	other := Actor{UserID: 8, Role: RoleTourist}
	agent := Actor{UserID: 1, Role: RoleAgent}

	assert.NoError(t, AuthorizeStatusChange(tourist, 7, BookingPending, BookingCancelled))
	assert.True(t, IsForbidden(AuthorizeStatusChange(other, 7, BookingPending, BookingCancelled)))
	assert.True(t, IsForbidden(AuthorizeStatusChange(tourist, 7, BookingPending, BookingConfirmed)))
	assert.NoError(t, AuthorizeStatusChange(agent, 7, BookingPending, BookingConfirmed))
	assert.NoError(t, AuthorizeStatusChange(agent, 7, BookingPending, BookingCancelled))
	assert.True(t, IsForbidden(AuthorizeStatusChange(agent, 7, BookingConfirmed, BookingCompleted)))
	assert.NoError(t, AuthorizeStatusChange(SystemActor, 7, BookingConfirmed, BookingCompleted))

	// transition errors win over role errors
	assert.True(t, IsInvalidTransition(AuthorizeStatusChange(tourist, 7, BookingCancelled, BookingCancelled)))
}

func TestPaymentStatus_Transitions(t *testing.T) {
	assert.True(t, PaymentUnpaid.AcceptsProof())
	assert.True(t, PaymentRejected.AcceptsProof())
	assert.False(t, PaymentPendingVerification.AcceptsProof())
	assert.False(t, PaymentVerified.AcceptsProof())

	assert.NoError(t, PaymentPendingVerification.Transition(PaymentVerified))
	assert.NoError(t, PaymentPendingVerification.Transition(PaymentRejected))
	assert.True(t, PaymentVerified.IsTerminal())
	assert.True(t, IsInvalidTransition(PaymentUnpaid.Transition(PaymentVerified)))
	assert.True(t, IsInvalidTransition(PaymentVerified.Transition(PaymentRejected)))

	_, err := ParsePaymentStatus("paid")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
