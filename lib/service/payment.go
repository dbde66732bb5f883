package service

import (
	"context"
	"errors"

	"github.com/messhub/messhub.go/db/models"
)

var ErrDuplicateTrxId = errors.New("a payment with this transaction id already exists")

// IngestPayment stores one raw wallet feed row. Rows are keyed uniquely
// by trx_id; replays of the feed are rejected with a conflict.
func (svc *MesshubService) IngestPayment(ctx context.Context, payment *models.Payment) error {
	exists, err := svc.DB.NewSelect().Model((*models.Payment)(nil)).
		Where("trx_id = ?", payment.TrxID).Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateTrxId
	}
	_, err = svc.DB.NewInsert().Model(payment).Exec(ctx)
	return err
}

func (svc *MesshubService) ListPayments(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	payments := []models.Payment{}
	err := svc.DB.NewSelect().Model(&payments).
		OrderExpr("id DESC").Limit(limit).Offset(offset).Scan(ctx)
	return payments, err
}
