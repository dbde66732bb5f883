package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/db/models"
	"github.com/messhub/messhub.go/sms"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// ReconcileItemResult is the outcome for one pending request in a batch.
type ReconcileItemResult struct {
	RequestID     int64  `json:"request_id"`
	StudentID     int64  `json:"student_id"`
	Result        string `json:"result"`
	Message       string `json:"message,omitempty"`
	RentHistoryID int64  `json:"rent_history_id,omitempty"`
}

// ReconcileBatchResult is the full batch outcome. Partial success is
// normal; callers inspect Results rather than the HTTP status.
type ReconcileBatchResult struct {
	BatchID   string                `json:"batch_id"`
	Processed int                   `json:"processed"`
	Approved  int                   `json:"approved"`
	Results   []ReconcileItemResult `json:"results"`
	Sms       sms.BatchResult       `json:"sms"`
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// SenderMatches compares the sender number on a request against the
// from-details string of a feed payment. Both sides are stripped of
// whitespace and one must contain the other, since feeds report partial
// or prefixed sender identifiers.
func SenderMatches(senderNumber, fromDetails string) bool {
	a := stripWhitespace(senderNumber)
	b := stripWhitespace(fromDetails)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// AmountMatches allows a discrepancy of up to one currency unit between
// the claimed and the reported amount.
func AmountMatches(claimed, actual float64) bool {
	return math.Abs(claimed-actual) <= common.AmountTolerance
}

// MatchPayment runs the automatic-approval checks in order against an
// already-located feed payment and returns the first failing result code,
// or ReconcileResultApproved when all checks pass.
func MatchPayment(request *models.PaymentRequest, payment *models.Payment) string {
	if request.SenderNumber != "" && !SenderMatches(request.SenderNumber, payment.FromDetails) {
		return common.ReconcileResultNumberMismatch
	}
	if !AmountMatches(request.TotalAmount, payment.Amount) {
		return common.ReconcileResultAmountMismatch
	}
	return common.ReconcileResultApproved
}

func (svc *MesshubService) FindPaymentByTrxId(ctx context.Context, trxId string) (*models.Payment, error) {
	var payment models.Payment
	err := svc.DB.NewSelect().Model(&payment).Where("trx_id = ?", trxId).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ReconcilePendingRequests runs the automatic reconciliation batch over
// all pending online requests, strictly sequentially. One request's
// failure never blocks the rest of the batch.
func (svc *MesshubService) ReconcilePendingRequests(ctx context.Context) (*ReconcileBatchResult, error) {
	var pending []models.PaymentRequest
	err := svc.DB.NewSelect().Model(&pending).
		Where("status = ? AND payment_method = ?", common.RequestStatusPending, common.PaymentMethodOnline).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	batch := &ReconcileBatchResult{
		BatchID: uuid.NewString(),
		Results: make([]ReconcileItemResult, 0, len(pending)),
	}
	recipients := []sms.Recipient{}

	svc.Logger.Infof("Reconciliation batch %s: found %d pending online requests", batch.BatchID, len(pending))

	for i := range pending {
		request := &pending[i]
		item := ReconcileItemResult{RequestID: request.ID, StudentID: request.StudentID}

		history, result, err := svc.reconcileOne(ctx, request)
		switch {
		case err != nil:
			item.Result = common.ReconcileResultError
			item.Message = err.Error()
			svc.Logger.Errorf("Reconciliation error: request_id:%d error: %v", request.ID, err)
		case result != common.ReconcileResultApproved:
			item.Result = result
		default:
			item.Result = common.ReconcileResultApproved
			item.RentHistoryID = history.ID
			batch.Approved++
			if recipient, ok := svc.recipientFor(ctx, request, history); ok {
				recipients = append(recipients, recipient)
			}
		}
		batch.Results = append(batch.Results, item)
		batch.Processed++
	}

	// Notifications are best-effort; a gateway failure never rolls back a
	// settlement.
	batch.Sms = svc.SmsClient.SendBatch(ctx, recipients, PaymentConfirmationMessage)
	svc.Logger.Infof("Reconciliation batch %s done: %d approved, sms sent:%d failed:%d",
		batch.BatchID, batch.Approved, batch.Sms.Sent, batch.Sms.Failed)
	return batch, nil
}

// reconcileOne matches one pending online request against the payment
// feed and settles it on success.
func (svc *MesshubService) reconcileOne(ctx context.Context, request *models.PaymentRequest) (*models.RentHistory, string, error) {
	payment, err := svc.FindPaymentByTrxId(ctx, request.TrxID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ReconcileResultPaymentNotFound, nil
		}
		return nil, "", err
	}

	if result := MatchPayment(request, payment); result != common.ReconcileResultApproved {
		return nil, result, nil
	}

	history, err := svc.SettleRequest(ctx, request, true, payment.ID)
	if err != nil {
		return nil, "", err
	}
	return history, common.ReconcileResultApproved, nil
}

// SettleRequest performs the settlement for an approved request: one
// RentHistory row, the request flipped to approved, and the rent ledger
// credited, all inside a single transaction. The rent row is locked for
// the duration so concurrent approvals cannot lose updates, and the
// request update is guarded on its status so a stale pending copy (an
// admin racing the cron batch) cannot settle the same request twice.
func (svc *MesshubService) SettleRequest(ctx context.Context, request *models.PaymentRequest, autoApproved bool, paymentID int64) (*models.RentHistory, error) {
	if !request.IsPending() {
		return nil, ErrRequestNotPending
	}

	paymentType := request.PaymentMethod
	if autoApproved {
		paymentType = common.PaymentMethodOnline
	}
	now := time.Now()
	history := &models.RentHistory{}

	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		rent := &models.Rent{}
		rentQuery := tx.NewSelect().Model(rent).Where("rent.id = ?", request.RentID)
		// sqlite serializes writers and has no row locks
		if tx.Dialect().Name() == dialect.PG {
			rentQuery = rentQuery.For("UPDATE")
		}
		if err := rentQuery.Scan(ctx); err != nil {
			return err
		}

		rent.ApplyPayment(request.RentAmount, request.AdvanceAmount, request.ExternalAmount, request.PreviousDueAmount, paymentType, now)

		*history = models.RentHistory{
			RentID:          rent.ID,
			StudentID:       request.StudentID,
			CategoryID:      request.CategoryID,
			RentMonth:       rent.Month,
			PaidDate:        now,
			Status:          rent.Status,
			PaymentType:     paymentType,
			DueRent:         rent.RentAmount,
			DueAdvance:      rent.AdvanceAmount,
			DueExternal:     rent.ExternalAmount,
			DuePreviousDue:  rent.PreviousDue,
			PaidRent:        request.RentAmount,
			PaidAdvance:     request.AdvanceAmount,
			PaidExternal:    request.ExternalAmount,
			PaidPreviousDue: request.PreviousDueAmount,
			Details: models.SettlementDetails{
				RequestID:    request.ID,
				PaymentID:    paymentID,
				TrxID:        request.TrxID,
				SenderNumber: request.SenderNumber,
				AutoApproved: autoApproved,
				ReportedAt:   now,
			},
		}
		if _, err := tx.NewInsert().Model(history).Exec(ctx); err != nil {
			return err
		}

		request.Status = common.RequestStatusApproved
		request.RentHistoryID = history.ID
		res, err := tx.NewUpdate().Model(request).
			WherePK().
			Where("status = ?", common.RequestStatusPending).
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrRequestNotPending
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
	return history, nil
}

// ApproveRequest settles a pending request on behalf of an admin and
// queues the confirmation sms, best-effort.
func (svc *MesshubService) ApproveRequest(ctx context.Context, request *models.PaymentRequest) (*models.RentHistory, error) {
	history, err := svc.SettleRequest(ctx, request, false, 0)
	if err != nil {
		return nil, err
	}
	if recipient, ok := svc.recipientFor(ctx, request, history); ok {
		svc.SmsClient.SendBatch(ctx, []sms.Recipient{recipient}, PaymentConfirmationMessage)
	}
	return history, nil
}

// RejectRequest flips a pending request to rejected. No settlement is
// performed and the transition is terminal. The update carries the same
// status guard as settlement.
func (svc *MesshubService) RejectRequest(ctx context.Context, request *models.PaymentRequest) error {
	if !request.IsPending() {
		return ErrRequestNotPending
	}
	request.Status = common.RequestStatusRejected
	res, err := svc.DB.NewUpdate().Model(request).
		WherePK().
		Where("status = ?", common.RequestStatusPending).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRequestNotPending
	}
	return nil
}

func (svc *MesshubService) recipientFor(ctx context.Context, request *models.PaymentRequest, history *models.RentHistory) (sms.Recipient, bool) {
	student, err := svc.FindStudent(ctx, request.StudentID)
	if err != nil {
		svc.Logger.Errorf("Could not load student %d for sms notification: %v", request.StudentID, err)
		return sms.Recipient{}, false
	}
	return sms.Recipient{
		StudentID:     student.ID,
		Phone:         student.NotificationPhone(),
		TotalAmount:   request.TotalAmount,
		PaymentMethod: history.PaymentType,
		RentHistoryID: history.ID,
	}, true
}

// PaymentConfirmationMessage renders the sms body for one settlement.
func PaymentConfirmationMessage(r sms.Recipient) string {
	return fmt.Sprintf("Your %s payment of %.2f has been received and applied to your rent. Ref: RH-%d", r.PaymentMethod, r.TotalAmount, r.RentHistoryID)
}

// ReconcileSnapshot is the read-only status view of the automatic path.
type ReconcileSnapshot struct {
	RecentAutoApproved []models.RentHistory `json:"recent_auto_approved"`
	PendingCount       int                  `json:"pending_count"`
	PaymentCount       int                  `json:"payment_count"`
}

func (svc *MesshubService) GetReconcileSnapshot(ctx context.Context) (*ReconcileSnapshot, error) {
	snapshot := &ReconcileSnapshot{RecentAutoApproved: []models.RentHistory{}}

	err := svc.DB.NewSelect().Model(&snapshot.RecentAutoApproved).
		Where("details->>'auto_approved' = 'true'").
		OrderExpr("id DESC").Limit(20).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	snapshot.PendingCount, err = svc.DB.NewSelect().Model((*models.PaymentRequest)(nil)).
		Where("status = ?", common.RequestStatusPending).Count(ctx)
	if err != nil {
		return nil, err
	}

	snapshot.PaymentCount, err = svc.DB.NewSelect().Model((*models.Payment)(nil)).Count(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
