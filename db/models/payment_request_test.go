package models

import (
	"testing"

	"github.com/messhub/messhub.go/common"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotalIncludesAllComponents(t *testing.T) {
	request := &PaymentRequest{
		RentAmount:        3000,
		AdvanceAmount:     1000,
		ExternalAmount:    500,
		PreviousDueAmount: 200,
	}

	assert.Equal(t, float64(4700), request.ComputeTotal())
}

func TestComputeTotalIgnoresClientTotal(t *testing.T) {
	request := &PaymentRequest{
		RentAmount:  3000,
		TotalAmount: 99999,
	}

	assert.Equal(t, float64(3000), request.ComputeTotal())
}

func TestCanBeEditedByOwnerWhilePending(t *testing.T) {
	request := &PaymentRequest{
		StudentID: 7,
		Status:    common.RequestStatusPending,
	}

	assert.True(t, request.CanBeEditedBy(7))
	assert.False(t, request.CanBeEditedBy(8))
}

func TestApprovedAndRejectedAreTerminal(t *testing.T) {
	approved := &PaymentRequest{StudentID: 7, Status: common.RequestStatusApproved}
	rejected := &PaymentRequest{StudentID: 7, Status: common.RequestStatusRejected}

	assert.False(t, approved.IsPending())
	assert.False(t, approved.CanBeEditedBy(7))
	assert.False(t, rejected.IsPending())
	assert.False(t, rejected.CanBeEditedBy(7))
}
