package service

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/db/models"
	"github.com/messhub/messhub.go/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/ziflex/lecho/v3"
)

// recordingSmsClient captures every batch instead of talking to a gateway.
type recordingSmsClient struct {
	batches [][]sms.Recipient
}

func (c *recordingSmsClient) SendBatch(ctx context.Context, recipients []sms.Recipient, message sms.MessageFunc) sms.BatchResult {
	c.batches = append(c.batches, recipients)
	return sms.BatchResult{BatchID: "test-batch", Sent: len(recipients)}
}

func newTestService(t *testing.T) (*MesshubService, *recordingSmsClient) {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// a second connection would get its own empty :memory: database
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Student)(nil),
		(*models.Category)(nil),
		(*models.Rent)(nil),
		(*models.RentHistory)(nil),
		(*models.PaymentRequest)(nil),
		(*models.Payment)(nil),
		(*models.Complaint)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}

	smsClient := &recordingSmsClient{}
	svc := &MesshubService{
		Config:           &Config{},
		DB:               db,
		Logger:           lecho.New(os.Stdout, lecho.WithLevel(log.WARN)),
		SmsClient:        smsClient,
		SettlementPubSub: NewPubsub(),
	}
	return svc, smsClient
}

func seedRent(t *testing.T, svc *MesshubService, rent *models.Rent) *models.Rent {
	ctx := context.Background()
	student := &models.Student{
		Login:      "student1",
		Password:   "hash",
		Name:       "Student One",
		Phone:      "01712345678",
		CategoryID: 1,
		Active:     true,
	}
	_, err := svc.DB.NewInsert().Model(student).Exec(ctx)
	require.NoError(t, err)

	rent.StudentID = student.ID
	rent.CategoryID = 1
	if rent.Month == "" {
		rent.Month = "2026-09"
	}
	if rent.Status == "" {
		rent.Status = common.RentStatusUnpaid
	}
	_, err = svc.DB.NewInsert().Model(rent).Exec(ctx)
	require.NoError(t, err)
	return rent
}

func seedPendingRequest(t *testing.T, svc *MesshubService, rent *models.Rent, request *models.PaymentRequest) *models.PaymentRequest {
	request.StudentID = rent.StudentID
	request.CategoryID = rent.CategoryID
	if request.RentID == 0 {
		request.RentID = rent.ID
	}
	request.Status = common.RequestStatusPending
	request.TotalAmount = request.ComputeTotal()
	_, err := svc.DB.NewInsert().Model(request).Exec(context.Background())
	require.NoError(t, err)
	return request
}

func countHistory(t *testing.T, svc *MesshubService) int {
	count, err := svc.DB.NewSelect().Model((*models.RentHistory)(nil)).Count(context.Background())
	require.NoError(t, err)
	return count
}

func TestAdminApprovalSettlesAndQueuesSms(t *testing.T) {
	svc, smsClient := newTestService(t)
	ctx := context.Background()
	rent := seedRent(t, svc, &models.Rent{RentAmount: 1000})
	request := seedPendingRequest(t, svc, rent, &models.PaymentRequest{
		PaymentMethod: common.PaymentMethodOnHand,
		RentAmount:    1000,
	})

	history, err := svc.ApproveRequest(ctx, request)
	require.NoError(t, err)
	assert.NotZero(t, history.ID)
	assert.Equal(t, common.RequestStatusApproved, request.Status)
	assert.Equal(t, history.ID, request.RentHistoryID)

	reloaded, err := svc.FindRent(ctx, rent.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1000), reloaded.RentPaid)
	assert.Equal(t, common.RentStatusPaid, reloaded.Status)
	assert.Equal(t, 1, countHistory(t, svc))

	// the manual path must queue the confirmation like the batch does
	require.Len(t, smsClient.batches, 1)
	require.Len(t, smsClient.batches[0], 1)
	assert.Equal(t, "01712345678", smsClient.batches[0][0].Phone)
	assert.Equal(t, float64(1000), smsClient.batches[0][0].TotalAmount)
	assert.Equal(t, history.ID, smsClient.batches[0][0].RentHistoryID)
}

func TestSettleRequestRejectsStaleCopy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	rent := seedRent(t, svc, &models.Rent{RentAmount: 1000})
	request := seedPendingRequest(t, svc, rent, &models.PaymentRequest{
		PaymentMethod: common.PaymentMethodOnHand,
		RentAmount:    1000,
	})
	stale := *request

	_, err := svc.SettleRequest(ctx, request, false, 0)
	require.NoError(t, err)

	// a copy loaded before the first settlement still says pending
	_, err = svc.SettleRequest(ctx, &stale, false, 0)
	assert.ErrorIs(t, err, ErrRequestNotPending)

	reloaded, err := svc.FindRent(ctx, rent.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1000), reloaded.RentPaid)
	assert.Equal(t, 1, countHistory(t, svc))
}

func TestRejectRequestRejectsStaleCopy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	rent := seedRent(t, svc, &models.Rent{RentAmount: 1000})
	request := seedPendingRequest(t, svc, rent, &models.PaymentRequest{
		PaymentMethod: common.PaymentMethodOnHand,
		RentAmount:    1000,
	})
	stale := *request

	_, err := svc.SettleRequest(ctx, request, false, 0)
	require.NoError(t, err)

	err = svc.RejectRequest(ctx, &stale)
	assert.ErrorIs(t, err, ErrRequestNotPending)

	var reloaded models.PaymentRequest
	err = svc.DB.NewSelect().Model(&reloaded).Where("payment_request.id = ?", request.ID).Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, common.RequestStatusApproved, reloaded.Status)
}

func TestReconcileBatchIsolatesItemFailures(t *testing.T) {
	svc, smsClient := newTestService(t)
	ctx := context.Background()
	rent := seedRent(t, svc, &models.Rent{RentAmount: 1000})

	// first request points at a rent row that does not exist, so its
	// settlement fails; the second one must still go through
	broken := seedPendingRequest(t, svc, rent, &models.PaymentRequest{
		RentID:        rent.ID + 999,
		PaymentMethod: common.PaymentMethodOnline,
		TrxID:         "TRX-BROKEN",
		SenderNumber:  "01712345678",
		RentAmount:    1000,
	})
	good := seedPendingRequest(t, svc, rent, &models.PaymentRequest{
		PaymentMethod: common.PaymentMethodOnline,
		TrxID:         "TRX-GOOD",
		SenderNumber:  "01712345678",
		RentAmount:    1000,
	})
	for _, trxID := range []string{"TRX-BROKEN", "TRX-GOOD"} {
		_, err := svc.DB.NewInsert().Model(&models.Payment{
			TrxID:       trxID,
			Amount:      1000,
			FromDetails: "01712345678",
		}).Exec(ctx)
		require.NoError(t, err)
	}

	batch, err := svc.ReconcilePendingRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Processed)
	assert.Equal(t, 1, batch.Approved)
	require.Len(t, batch.Results, 2)
	assert.Equal(t, broken.ID, batch.Results[0].RequestID)
	assert.Equal(t, common.ReconcileResultError, batch.Results[0].Result)
	assert.Equal(t, good.ID, batch.Results[1].RequestID)
	assert.Equal(t, common.ReconcileResultApproved, batch.Results[1].Result)

	reloaded, err := svc.FindRent(ctx, rent.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1000), reloaded.RentPaid)
	assert.Equal(t, 1, countHistory(t, svc))
	require.Len(t, smsClient.batches, 1)
	require.Len(t, smsClient.batches[0], 1)
}

func TestFullPayClampsOverpaidComponents(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	rent := seedRent(t, svc, &models.Rent{
		RentAmount:     1000,
		ExternalAmount: 500,
		RentPaid:       1500,
		Status:         common.RentStatusPartial,
	})

	history, err := svc.PayRentFull(ctx, rent.ID, common.PaymentMethodOnHand)
	require.NoError(t, err)

	// the overpaid component must not log a negative settlement
	assert.Equal(t, float64(0), history.PaidRent)
	assert.Equal(t, float64(500), history.PaidExternal)
	assert.Equal(t, float64(0), history.PaidPreviousDue)
	assert.Equal(t, common.RentStatusPaid, history.Status)
}

func TestStudentDashboardWithoutRents(t *testing.T) {
	svc, _ := newTestService(t)

	dashboard, err := svc.GetStudentDashboard(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, dashboard.CurrentRent)
	assert.Zero(t, dashboard.TotalDue)
}

func TestStudentDashboardPropagatesRentScanError(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.DB.NewDropTable().Model((*models.Rent)(nil)).Exec(ctx)
	require.NoError(t, err)

	_, err = svc.GetStudentDashboard(ctx, 42)
	assert.Error(t, err)
}
