package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingStatusPending, BookingStatusPaid, true},
		{BookingStatusPending, BookingStatusPendingConfirmation, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPendingConfirmation, BookingStatusPaid, true},
		{BookingStatusPendingConfirmation, BookingStatusPending, true},
		{BookingStatusPendingConfirmation, BookingStatusCancelled, true},
		{BookingStatusPaid, BookingStatusCancelled, false},
		{BookingStatusPaid, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusPending, BookingStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleOwner, ParseRole("owner"))
	assert.Equal(t, RoleUser, ParseRole("superuser"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.True(t, RoleOwner.IsPrivileged())
	assert.False(t, RoleUser.IsPrivileged())
}

func TestPaymentEnums_Valid(t *testing.T) {
	assert.True(t, PaymentTypeDeposit.Valid())
	assert.True(t, PaymentTypeFull.Valid())
	assert.False(t, PaymentType("refund").Valid())
	assert.False(t, PaymentType("").Valid())

	assert.True(t, PaymentMethodCash.Valid())
	assert.True(t, PaymentMethodTransfer.Valid())
	assert.False(t, PaymentMethod("card").Valid())
}
