package models

import (
	"context"
	"time"

	"github.com/messhub/messhub.go/common"
	"github.com/uptrace/bun"
)

// PaymentRequest : a student's claim that some amount against a rent has
// been (or will be) paid, pending adjudication.
type PaymentRequest struct {
	ID         int64    `json:"id" bun:",pk,autoincrement"`
	StudentID  int64    `json:"student_id" bun:",notnull"`
	Student    *Student `json:"-" bun:"rel:belongs-to,join:student_id=id"`
	CategoryID int64    `json:"category_id" bun:",notnull"`
	RentID     int64    `json:"rent_id" bun:",notnull"`
	Rent       *Rent    `json:"-" bun:"rel:belongs-to,join:rent_id=id"`

	Status        string `json:"status" bun:",default:'pending'"`
	PaymentMethod string `json:"payment_method" bun:",notnull" validate:"required,oneof='on hand' online"`
	SenderNumber  string `json:"sender_number" bun:",nullzero"`
	TrxID         string `json:"trx_id" bun:",nullzero"`

	RentAmount        float64 `json:"rent_amount" validate:"gte=0"`
	AdvanceAmount     float64 `json:"advance_amount" validate:"gte=0"`
	ExternalAmount    float64 `json:"external_amount" validate:"gte=0"`
	PreviousDueAmount float64 `json:"previous_due_amount" validate:"gte=0"`
	TotalAmount       float64 `json:"total_amount"`

	RentHistoryID int64 `json:"rent_history_id" bun:",nullzero"`

	CreatedAt time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt bun.NullTime `json:"updated_at"`
}

func (pr *PaymentRequest) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		pr.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*PaymentRequest)(nil)

// ComputeTotal recalculates the total from the component amounts. The total
// is never trusted from the client.
func (pr *PaymentRequest) ComputeTotal() float64 {
	return pr.RentAmount + pr.AdvanceAmount + pr.ExternalAmount + pr.PreviousDueAmount
}

func (pr *PaymentRequest) IsPending() bool {
	return pr.Status == common.RequestStatusPending
}

// CanBeEditedBy reports whether the given student may still change or
// delete the request. Approved and rejected are terminal.
func (pr *PaymentRequest) CanBeEditedBy(studentID int64) bool {
	return pr.StudentID == studentID && pr.IsPending()
}
