package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyReportedStatus_FailsClosed(t *testing.T) {
	assert.Equal(t, PaymentSuccess, ClassifyReportedStatus("SUCCESS"))
	assert.Equal(t, PaymentSuccess, ClassifyReportedStatus("PAYMENT_SUCCESS"))
	assert.Equal(t, PaymentPending, ClassifyReportedStatus("PAYMENT_PENDING"))

	// Anything unrecognised must never confirm a seat.
	assert.Equal(t, PaymentFailed, ClassifyReportedStatus("INTERNAL_SERVER_ERROR"))
	assert.Equal(t, PaymentFailed, ClassifyReportedStatus(""))
}

func TestBookingStatus_Terminality(t *testing.T) {
	assert.False(t, BookingPending.IsTerminal())
	assert.True(t, BookingConfirmed.IsTerminal())
	assert.True(t, BookingFailed.IsTerminal())
	assert.True(t, BookingCancelled.IsTerminal())
}
