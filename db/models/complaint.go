package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Complaint : a student-filed issue tracked on both dashboards.
type Complaint struct {
	ID        int64    `json:"id" bun:",pk,autoincrement"`
	StudentID int64    `json:"student_id" bun:",notnull"`
	Student   *Student `json:"-" bun:"rel:belongs-to,join:student_id=id"`
	Title     string   `json:"title" bun:",notnull" validate:"required"`
	Details   string   `json:"details" bun:",nullzero"`
	Status    string   `json:"status" bun:",default:'open'"`

	CreatedAt time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt bun.NullTime `json:"updated_at"`
}

func (c *Complaint) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		c.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Complaint)(nil)
