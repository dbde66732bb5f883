package migrations

import (
	"context"

	"github.com/messhub/messhub.go/db/models"
	"github.com/uptrace/bun"
)

/* This init reflects the latest model fields when run on a fresh db.
When adding/removing columns in subsequent migrations use
IfNotExists/IfExists, otherwise re-running on old databases errors. */
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		for _, model := range []interface{}{
			(*models.Admin)(nil),
			(*models.Category)(nil),
			(*models.Student)(nil),
			(*models.Discount)(nil),
			(*models.Rent)(nil),
			(*models.RentHistory)(nil),
			(*models.PaymentRequest)(nil),
			(*models.Payment)(nil),
			(*models.Complaint)(nil),
		} {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}
