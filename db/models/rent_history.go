package models

import (
	"time"
)

// SettlementDetails carries the provenance of one settlement event.
type SettlementDetails struct {
	RequestID    int64     `json:"request_id,omitempty"`
	PaymentID    int64     `json:"payment_id,omitempty"`
	TrxID        string    `json:"trx_id,omitempty"`
	SenderNumber string    `json:"sender_number,omitempty"`
	AutoApproved bool      `json:"auto_approved,omitempty"`
	ReportedAt   time.Time `json:"reported_at"`
}

// RentHistory : immutable record of one completed settlement. Rows are
// only ever inserted; there is no update path.
type RentHistory struct {
	ID         int64    `json:"id" bun:",pk,autoincrement"`
	RentID     int64    `json:"rent_id" bun:",notnull"`
	Rent       *Rent    `json:"-" bun:"rel:belongs-to,join:rent_id=id"`
	StudentID  int64    `json:"student_id" bun:",notnull"`
	Student    *Student `json:"-" bun:"rel:belongs-to,join:student_id=id"`
	CategoryID int64    `json:"category_id" bun:",notnull"`

	RentMonth   string    `json:"rent_month" bun:",notnull"`
	PaidDate    time.Time `json:"paid_date" bun:",notnull"`
	Status      string    `json:"status" bun:",notnull"`
	PaymentType string    `json:"payment_type" bun:",notnull"`

	// dues at the time of payment
	DueRent        float64 `json:"due_rent"`
	DueAdvance     float64 `json:"due_advance"`
	DueExternal    float64 `json:"due_external"`
	DuePreviousDue float64 `json:"due_previous_due"`

	// amounts settled by this event
	PaidRent        float64 `json:"paid_rent"`
	PaidAdvance     float64 `json:"paid_advance"`
	PaidExternal    float64 `json:"paid_external"`
	PaidPreviousDue float64 `json:"paid_previous_due"`

	Details SettlementDetails `json:"details" bun:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

func (h *RentHistory) TotalPaid() float64 {
	return h.PaidRent + h.PaidAdvance + h.PaidExternal + h.PaidPreviousDue
}
