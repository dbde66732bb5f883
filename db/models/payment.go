package models

import (
	"time"
)

// Payment : a raw transaction record ingested from the bank/wallet feed.
// Read-only input to reconciliation, keyed uniquely by trx_id.
type Payment struct {
	ID          int64     `json:"id" bun:",pk,autoincrement"`
	TrxID       string    `json:"trx_id" bun:",unique,notnull" validate:"required"`
	Amount      float64   `json:"amount" validate:"gte=0"`
	FromDetails string    `json:"from_details" bun:",nullzero"`
	IngestedAt  time.Time `json:"ingested_at" bun:",nullzero,notnull,default:current_timestamp"`
}
