package models

import (
	"context"
	"time"

	"github.com/messhub/messhub.go/common"
	"github.com/uptrace/bun"
)

// Rent : one student's monthly obligation record.
// Advance is tracked separately and does not count towards the due/paid
// totals used for status derivation.
type Rent struct {
	ID         int64     `json:"id" bun:",pk,autoincrement"`
	StudentID  int64     `json:"student_id" bun:",notnull"`
	Student    *Student  `json:"-" bun:"rel:belongs-to,join:student_id=id"`
	CategoryID int64     `json:"category_id" bun:",notnull"`
	Category   *Category `json:"-" bun:"rel:belongs-to,join:category_id=id"`
	Month      string    `json:"month" bun:",notnull" validate:"required"`

	RentAmount     float64 `json:"rent_amount" validate:"gte=0"`
	AdvanceAmount  float64 `json:"advance_amount" validate:"gte=0"`
	ExternalAmount float64 `json:"external_amount" validate:"gte=0"`
	PreviousDue    float64 `json:"previous_due" validate:"gte=0"`
	DiscountAmount float64 `json:"discount_amount" validate:"gte=0"`

	RentPaid        float64 `json:"rent_paid"`
	AdvancePaid     float64 `json:"advance_paid"`
	ExternalPaid    float64 `json:"external_paid"`
	PreviousDuePaid float64 `json:"previous_due_paid"`

	Status   string       `json:"status" bun:",default:'unpaid'"`
	PaidDate bun.NullTime `json:"paid_date"`
	PaidType string       `json:"paid_type" bun:",nullzero"`

	CreatedAt time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt bun.NullTime `json:"updated_at"`
}

func (r *Rent) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		r.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Rent)(nil)

// TotalDue excludes the advance, which is a deposit rather than a due.
func (r *Rent) TotalDue() float64 {
	return r.RentAmount + r.ExternalAmount + r.PreviousDue
}

func (r *Rent) TotalPaid() float64 {
	return r.RentPaid + r.ExternalPaid + r.PreviousDuePaid
}

// DeriveStatus recomputes the status from the current due/paid fields.
func (r *Rent) DeriveStatus() string {
	switch {
	case r.TotalPaid() >= r.TotalDue():
		return common.RentStatusPaid
	case r.TotalPaid() > 0:
		return common.RentStatusPartial
	default:
		return common.RentStatusUnpaid
	}
}

// ApplyPayment credits the given amounts against the rent and refreshes the
// derived fields. Amounts are expected to be non-negative; zero amounts are
// a no-op on their field.
func (r *Rent) ApplyPayment(rentAmt, advanceAmt, externalAmt, previousDueAmt float64, paidType string, paidAt time.Time) {
	r.RentPaid += rentAmt
	r.AdvancePaid += advanceAmt
	r.ExternalPaid += externalAmt
	r.PreviousDuePaid += previousDueAmt
	r.Status = r.DeriveStatus()
	r.PaidDate = bun.NullTime{Time: paidAt}
	r.PaidType = paidType
}

// SettleInFull marks every due component as fully paid in one step.
func (r *Rent) SettleInFull(paidType string, paidAt time.Time) {
	r.RentPaid = r.RentAmount
	r.ExternalPaid = r.ExternalAmount
	r.PreviousDuePaid = r.PreviousDue
	r.Status = common.RentStatusPaid
	r.PaidDate = bun.NullTime{Time: paidAt}
	r.PaidType = paidType
}
