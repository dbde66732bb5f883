package service

import (
	"testing"

	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/db/models"
	"github.com/messhub/messhub.go/sms"
	"github.com/stretchr/testify/assert"
)

func TestSenderMatchesExact(t *testing.T) {
	assert.True(t, SenderMatches("01712345678", "01712345678"))
}

func TestSenderMatchesIgnoresWhitespace(t *testing.T) {
	assert.True(t, SenderMatches(" 017 123 45678 ", "01712345678"))
	assert.True(t, SenderMatches("01712345678", "017 1234 5678"))
}

func TestSenderMatchesSubstringEitherDirection(t *testing.T) {
	// feeds often report a prefixed or truncated identifier
	assert.True(t, SenderMatches("01712345678", "bkash/01712345678/ref123"))
	assert.True(t, SenderMatches("bkash 01712345678", "01712345678"))
}

func TestSenderMatchesRejectsDifferentNumber(t *testing.T) {
	assert.False(t, SenderMatches("01712345678", "01898765432"))
}

func TestAmountMatchesWithinTolerance(t *testing.T) {
	assert.True(t, AmountMatches(3000, 3000))
	assert.True(t, AmountMatches(3000, 2999))
	assert.True(t, AmountMatches(3000, 3001))
	assert.True(t, AmountMatches(3000, 3000.5))
}

func TestAmountMatchesBeyondTolerance(t *testing.T) {
	assert.False(t, AmountMatches(3000, 3001.01))
	assert.False(t, AmountMatches(3000, 2998.99))
}

func TestMatchPaymentApproved(t *testing.T) {
	request := &models.PaymentRequest{
		SenderNumber: "01712345678",
		TotalAmount:  3000,
	}
	payment := &models.Payment{
		FromDetails: "01712345678",
		Amount:      3000,
	}

	assert.Equal(t, common.ReconcileResultApproved, MatchPayment(request, payment))
}

func TestMatchPaymentNumberMismatchCheckedFirst(t *testing.T) {
	// a wrong sender must be reported even when the amount also differs
	request := &models.PaymentRequest{
		SenderNumber: "01712345678",
		TotalAmount:  3000,
	}
	payment := &models.Payment{
		FromDetails: "01898765432",
		Amount:      5000,
	}

	assert.Equal(t, common.ReconcileResultNumberMismatch, MatchPayment(request, payment))
}

func TestMatchPaymentAmountMismatch(t *testing.T) {
	request := &models.PaymentRequest{
		SenderNumber: "01712345678",
		TotalAmount:  3000,
	}
	payment := &models.Payment{
		FromDetails: "01712345678",
		Amount:      2500,
	}

	assert.Equal(t, common.ReconcileResultAmountMismatch, MatchPayment(request, payment))
}

func TestMatchPaymentSkipsSenderCheckWithoutNumber(t *testing.T) {
	request := &models.PaymentRequest{
		TotalAmount: 3000,
	}
	payment := &models.Payment{
		FromDetails: "01898765432",
		Amount:      3000,
	}

	assert.Equal(t, common.ReconcileResultApproved, MatchPayment(request, payment))
}

func TestPaymentConfirmationMessage(t *testing.T) {
	message := PaymentConfirmationMessage(sms.Recipient{
		PaymentMethod: common.PaymentMethodOnline,
		TotalAmount:   3500.5,
		RentHistoryID: 42,
	})

	assert.Contains(t, message, "online")
	assert.Contains(t, message, "3500.50")
	assert.Contains(t, message, "RH-42")
}
