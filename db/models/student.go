package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Student : a hostel resident with a login for the student dashboard.
type Student struct {
	ID         int64     `json:"id" bun:",pk,autoincrement"`
	Login      string    `json:"login" bun:",unique,notnull"`
	Password   string    `json:"-" bun:",notnull"`
	Name       string    `json:"name" bun:",notnull" validate:"required"`
	Phone      string    `json:"phone" bun:",nullzero"`
	SmsPhone   string    `json:"sms_phone" bun:",nullzero"`
	RoomNo     string    `json:"room_no" bun:",nullzero"`
	CategoryID int64     `json:"category_id" bun:",notnull"`
	Category   *Category `json:"-" bun:"rel:belongs-to,join:category_id=id"`
	Active     bool      `json:"active" bun:",default:true"`

	CreatedAt time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt bun.NullTime `json:"updated_at"`
}

func (s *Student) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		s.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Student)(nil)

// NotificationPhone returns the number SMS notifications should go to,
// preferring the dedicated SMS number when one is set.
func (s *Student) NotificationPhone() string {
	if s.SmsPhone != "" {
		return s.SmsPhone
	}
	return s.Phone
}

// Admin : a staff login for the admin dashboard.
type Admin struct {
	ID        int64     `json:"id" bun:",pk,autoincrement"`
	Login     string    `json:"login" bun:",unique,notnull"`
	Password  string    `json:"-" bun:",notnull"`
	Name      string    `json:"name" bun:",nullzero"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
