package service

import (
	"testing"

	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/db/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateRequestRejectsNonPositiveTotal(t *testing.T) {
	request := &models.PaymentRequest{
		PaymentMethod: common.PaymentMethodOnHand,
	}
	request.TotalAmount = request.ComputeTotal()

	assert.ErrorIs(t, validateRequest(request), ErrInvalidAmount)
}

func TestValidateRequestRequiresTrxIdForOnline(t *testing.T) {
	request := &models.PaymentRequest{
		PaymentMethod: common.PaymentMethodOnline,
		RentAmount:    1000,
		TotalAmount:   1000,
	}

	assert.ErrorIs(t, validateRequest(request), ErrTrxIdRequired)

	request.TrxID = "TRX123"
	assert.NoError(t, validateRequest(request))
}

func TestValidateRequestOnHandNeedsNoTrxId(t *testing.T) {
	request := &models.PaymentRequest{
		PaymentMethod: common.PaymentMethodOnHand,
		RentAmount:    500,
		TotalAmount:   500,
	}

	assert.NoError(t, validateRequest(request))
}
