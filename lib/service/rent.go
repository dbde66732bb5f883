package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/db/models"
	"github.com/messhub/messhub.go/sms"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

var (
	ErrNoPositiveAmount = errors.New("at least one payment amount must be greater than zero")
	ErrBadMonth         = errors.New("month must be in YYYY-MM format")
)

func (svc *MesshubService) FindRent(ctx context.Context, id int64) (*models.Rent, error) {
	var rent models.Rent
	err := svc.DB.NewSelect().Model(&rent).Where("rent.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &rent, nil
}

type RentList struct {
	Rents []models.Rent `json:"rents"`
	Total int           `json:"total"`
}

func (svc *MesshubService) ListRents(ctx context.Context, studentID int64, month, status string, limit, offset int) (*RentList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	list := &RentList{Rents: []models.Rent{}}
	query := svc.DB.NewSelect().Model(&list.Rents)
	if studentID != 0 {
		query = query.Where("student_id = ?", studentID)
	}
	if month != "" {
		query = query.Where("month = ?", month)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	total, err := query.OrderExpr("id DESC").Limit(limit).Offset(offset).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	list.Total = total
	return list, nil
}

// PayRentPartial applies a walk-in payment directly to a rent, without a
// payment request. At least one increment must be positive. A RentHistory
// row is written so the settlement log stays the single source of truth
// for all collections, including cash taken outside the request flow.
func (svc *MesshubService) PayRentPartial(ctx context.Context, rentID int64, rentAmt, advanceAmt, externalAmt, previousDueAmt float64, paidType string) (*models.RentHistory, error) {
	if rentAmt <= 0 && advanceAmt <= 0 && externalAmt <= 0 && previousDueAmt <= 0 {
		return nil, ErrNoPositiveAmount
	}
	return svc.settleDirect(ctx, rentID, paidType, func(rent *models.Rent, now time.Time) (float64, float64, float64, float64) {
		rent.ApplyPayment(rentAmt, advanceAmt, externalAmt, previousDueAmt, paidType, now)
		return rentAmt, advanceAmt, externalAmt, previousDueAmt
	})
}

// PayRentFull settles every outstanding due component in one step.
// Deltas are clamped at zero so an already-overpaid component never
// records a negative settlement in the history log.
func (svc *MesshubService) PayRentFull(ctx context.Context, rentID int64, paidType string) (*models.RentHistory, error) {
	return svc.settleDirect(ctx, rentID, paidType, func(rent *models.Rent, now time.Time) (float64, float64, float64, float64) {
		paidRent := outstanding(rent.RentAmount, rent.RentPaid)
		paidExternal := outstanding(rent.ExternalAmount, rent.ExternalPaid)
		paidPreviousDue := outstanding(rent.PreviousDue, rent.PreviousDuePaid)
		rent.SettleInFull(paidType, now)
		return paidRent, 0, paidExternal, paidPreviousDue
	})
}

func outstanding(due, paid float64) float64 {
	if paid >= due {
		return 0
	}
	return due - paid
}

// apply mutates the locked rent and returns the paid deltas for the
// history snapshot.
func (svc *MesshubService) settleDirect(ctx context.Context, rentID int64, paidType string, apply func(rent *models.Rent, now time.Time) (paidRent, paidAdvance, paidExternal, paidPreviousDue float64)) (*models.RentHistory, error) {
	now := time.Now()
	history := &models.RentHistory{}

	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		rent := &models.Rent{}
		rentQuery := tx.NewSelect().Model(rent).Where("rent.id = ?", rentID)
		if tx.Dialect().Name() == dialect.PG {
			rentQuery = rentQuery.For("UPDATE")
		}
		if err := rentQuery.Scan(ctx); err != nil {
			return err
		}

		paidRent, paidAdvance, paidExternal, paidPreviousDue := apply(rent, now)

		*history = models.RentHistory{
			RentID:          rent.ID,
			StudentID:       rent.StudentID,
			CategoryID:      rent.CategoryID,
			RentMonth:       rent.Month,
			PaidDate:        now,
			Status:          rent.Status,
			PaymentType:     paidType,
			DueRent:         rent.RentAmount,
			DueAdvance:      rent.AdvanceAmount,
			DueExternal:     rent.ExternalAmount,
			DuePreviousDue:  rent.PreviousDue,
			PaidRent:        paidRent,
			PaidAdvance:     paidAdvance,
			PaidExternal:    paidExternal,
			PaidPreviousDue: paidPreviousDue,
			Details:         models.SettlementDetails{ReportedAt: now},
		}
		if _, err := tx.NewInsert().Model(history).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewUpdate().Model(rent).WherePK().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.SettlementPubSub.Publish(common.TopicSettlement, *history)

	if student, err := svc.FindStudent(ctx, history.StudentID); err == nil {
		recipient := sms.Recipient{
			StudentID:     student.ID,
			Phone:         student.NotificationPhone(),
			TotalAmount:   history.TotalPaid(),
			PaymentMethod: paidType,
			RentHistoryID: history.ID,
		}
		svc.SmsClient.SendBatch(ctx, []sms.Recipient{recipient}, PaymentConfirmationMessage)
	}
	return history, nil
}

type GenerateRentsResult struct {
	Month   string `json:"month"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

// GenerateRentsForMonth creates one rent per active student for the given
// month from the category pricing, carrying over any unpaid balance from
// the previous month and applying active discounts. The operation is
// idempotent: students who already have a rent for the month are skipped.
func (svc *MesshubService) GenerateRentsForMonth(ctx context.Context, month string) (*GenerateRentsResult, error) {
	if _, err := time.Parse(common.RentMonthLayout, month); err != nil {
		return nil, ErrBadMonth
	}
	var students []models.Student
	err := svc.DB.NewSelect().Model(&students).
		Relation("Category").
		Where("active = TRUE").
		Order("student.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := &GenerateRentsResult{Month: month}
	for i := range students {
		student := &students[i]
		exists, err := svc.DB.NewSelect().Model((*models.Rent)(nil)).
			Where("student_id = ? AND month = ?", student.ID, month).
			Exists(ctx)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		previousDue, err := svc.outstandingBalance(ctx, student.ID, month)
		if err != nil {
			return nil, err
		}
		discount, err := svc.activeDiscountFor(ctx, student.ID)
		if err != nil {
			return nil, err
		}

		rentAmount := student.Category.RentAmount - discount
		if rentAmount < 0 {
			rentAmount = 0
		}
		rent := &models.Rent{
			StudentID:      student.ID,
			CategoryID:     student.CategoryID,
			Month:          month,
			RentAmount:     rentAmount,
			ExternalAmount: student.Category.ExternalAmount,
			PreviousDue:    previousDue,
			DiscountAmount: discount,
			Status:         common.RentStatusUnpaid,
		}
		if _, err := svc.DB.NewInsert().Model(rent).Exec(ctx); err != nil {
			return nil, err
		}
		result.Created++
	}
	svc.Logger.Infof("Generated rents for %s: %d created, %d skipped", month, result.Created, result.Skipped)
	return result, nil
}

// outstandingBalance sums what the student still owes across all months
// before the given one.
func (svc *MesshubService) outstandingBalance(ctx context.Context, studentID int64, beforeMonth string) (float64, error) {
	var rents []models.Rent
	err := svc.DB.NewSelect().Model(&rents).
		Where("student_id = ? AND month < ?", studentID, beforeMonth).
		Scan(ctx)
	if err != nil {
		return 0, err
	}
	var due float64
	for i := range rents {
		if balance := rents[i].TotalDue() - rents[i].TotalPaid(); balance > 0 {
			due += balance
		}
	}
	return due, nil
}

func (svc *MesshubService) activeDiscountFor(ctx context.Context, studentID int64) (float64, error) {
	var total sql.NullFloat64
	err := svc.DB.NewSelect().Model((*models.Discount)(nil)).
		ColumnExpr("sum(amount)").
		Where("student_id = ? AND active = TRUE", studentID).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
