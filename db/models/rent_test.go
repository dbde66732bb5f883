package models

import (
	"testing"
	"time"

	"github.com/messhub/messhub.go/common"
	"github.com/stretchr/testify/assert"
)

func TestDeriveStatusUnpaid(t *testing.T) {
	rent := &Rent{
		RentAmount:     3000,
		ExternalAmount: 500,
		PreviousDue:    200,
	}

	assert.Equal(t, common.RentStatusUnpaid, rent.DeriveStatus())
}

func TestDeriveStatusPartial(t *testing.T) {
	rent := &Rent{
		RentAmount: 3000,
		RentPaid:   1000,
	}

	assert.Equal(t, common.RentStatusPartial, rent.DeriveStatus())
}

func TestDeriveStatusPaid(t *testing.T) {
	rent := &Rent{
		RentAmount:      3000,
		ExternalAmount:  500,
		PreviousDue:     200,
		RentPaid:        3000,
		ExternalPaid:    500,
		PreviousDuePaid: 200,
	}

	assert.Equal(t, common.RentStatusPaid, rent.DeriveStatus())
}

func TestDeriveStatusAdvanceDoesNotCount(t *testing.T) {
	// a deposit alone must not flip an unpaid rent to partial or paid
	rent := &Rent{
		RentAmount:    3000,
		AdvanceAmount: 1000,
		AdvancePaid:   1000,
	}

	assert.Equal(t, common.RentStatusUnpaid, rent.DeriveStatus())
}

func TestDeriveStatusOverpaymentStaysPaid(t *testing.T) {
	rent := &Rent{
		RentAmount: 3000,
		RentPaid:   3500,
	}

	assert.Equal(t, common.RentStatusPaid, rent.DeriveStatus())
}

func TestDeriveStatusIsIdempotent(t *testing.T) {
	rent := &Rent{
		RentAmount: 3000,
		RentPaid:   1500,
	}

	first := rent.DeriveStatus()
	rent.Status = first
	assert.Equal(t, first, rent.DeriveStatus())
}

func TestApplyPaymentAccumulates(t *testing.T) {
	now := time.Now()
	rent := &Rent{
		RentAmount:     3000,
		ExternalAmount: 500,
	}

	rent.ApplyPayment(1000, 0, 0, 0, common.PaymentMethodOnline, now)
	assert.Equal(t, float64(1000), rent.RentPaid)
	assert.Equal(t, common.RentStatusPartial, rent.Status)

	rent.ApplyPayment(2000, 0, 500, 0, common.PaymentMethodOnline, now)
	assert.Equal(t, float64(3000), rent.RentPaid)
	assert.Equal(t, float64(500), rent.ExternalPaid)
	assert.Equal(t, common.RentStatusPaid, rent.Status)
	assert.Equal(t, common.PaymentMethodOnline, rent.PaidType)
	assert.Equal(t, now, rent.PaidDate.Time)
}

func TestApplyPaymentZeroAmountsKeepStatus(t *testing.T) {
	rent := &Rent{
		RentAmount: 3000,
	}

	rent.ApplyPayment(0, 0, 0, 0, common.PaymentMethodOnHand, time.Now())
	assert.Equal(t, common.RentStatusUnpaid, rent.Status)
}

func TestSettleInFull(t *testing.T) {
	now := time.Now()
	rent := &Rent{
		RentAmount:     3000,
		ExternalAmount: 500,
		PreviousDue:    200,
		RentPaid:       1000,
	}

	rent.SettleInFull(common.PaymentMethodOnHand, now)
	assert.Equal(t, rent.RentAmount, rent.RentPaid)
	assert.Equal(t, rent.ExternalAmount, rent.ExternalPaid)
	assert.Equal(t, rent.PreviousDue, rent.PreviousDuePaid)
	assert.Equal(t, common.RentStatusPaid, rent.Status)
	assert.Equal(t, rent.TotalDue(), rent.TotalPaid())
}
