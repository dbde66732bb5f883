package models

import (
	"time"
)

// Category : rent pricing tier. Static reference data.
type Category struct {
	ID             int64     `json:"id" bun:",pk,autoincrement"`
	Title          string    `json:"title" bun:",unique,notnull" validate:"required"`
	RentAmount     float64   `json:"rent_amount" validate:"gte=0"`
	ExternalAmount float64   `json:"external_amount" validate:"gte=0"`
	Description    string    `json:"description" bun:",nullzero"`
	CreatedAt      time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

// Discount : a fee waiver applied when generating a student's monthly rent.
type Discount struct {
	ID         int64     `json:"id" bun:",pk,autoincrement"`
	StudentID  int64     `json:"student_id" bun:",notnull"`
	Student    *Student  `json:"-" bun:"rel:belongs-to,join:student_id=id"`
	CategoryID int64     `json:"category_id" bun:",nullzero"`
	Amount     float64   `json:"amount" validate:"gte=0"`
	Reason     string    `json:"reason" bun:",nullzero"`
	Active     bool      `json:"active" bun:",default:true"`
	CreatedAt  time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
