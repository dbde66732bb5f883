package service

import (
	"context"
	"errors"

	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/db/models"
)

var (
	ErrPendingRequestExists = errors.New("a pending payment request already exists for this rent")
	ErrInvalidAmount        = errors.New("total amount must be greater than zero")
	ErrTrxIdRequired        = errors.New("trx id is required for online payments")
	ErrRequestNotPending    = errors.New("payment request is no longer pending")
	ErrNotOwner             = errors.New("resource belongs to another student")
)

type PaymentRequestParams struct {
	StudentID         int64
	RentID            int64
	PaymentMethod     string
	SenderNumber      string
	TrxID             string
	RentAmount        float64
	AdvanceAmount     float64
	ExternalAmount    float64
	PreviousDueAmount float64
}

// CreatePaymentRequest creates a pending request against one rent. At most
// one pending request may exist per rent at a time.
func (svc *MesshubService) CreatePaymentRequest(ctx context.Context, params PaymentRequestParams) (*models.PaymentRequest, error) {
	rent, err := svc.FindRent(ctx, params.RentID)
	if err != nil {
		return nil, err
	}
	if rent.StudentID != params.StudentID {
		return nil, ErrNotOwner
	}

	request := &models.PaymentRequest{
		StudentID:         params.StudentID,
		CategoryID:        rent.CategoryID,
		RentID:            rent.ID,
		Status:            common.RequestStatusPending,
		PaymentMethod:     params.PaymentMethod,
		SenderNumber:      params.SenderNumber,
		TrxID:             params.TrxID,
		RentAmount:        params.RentAmount,
		AdvanceAmount:     params.AdvanceAmount,
		ExternalAmount:    params.ExternalAmount,
		PreviousDueAmount: params.PreviousDueAmount,
	}
	request.TotalAmount = request.ComputeTotal()

	if err := validateRequest(request); err != nil {
		return nil, err
	}

	pendingCount, err := svc.DB.NewSelect().Model((*models.PaymentRequest)(nil)).
		Where("rent_id = ? AND status = ?", rent.ID, common.RequestStatusPending).
		Count(ctx)
	if err != nil {
		return nil, err
	}
	if pendingCount > 0 {
		return nil, ErrPendingRequestExists
	}

	if _, err := svc.DB.NewInsert().Model(request).Exec(ctx); err != nil {
		return nil, err
	}
	return request, nil
}

func validateRequest(request *models.PaymentRequest) error {
	if request.TotalAmount <= 0 {
		return ErrInvalidAmount
	}
	if request.PaymentMethod == common.PaymentMethodOnline && request.TrxID == "" {
		return ErrTrxIdRequired
	}
	return nil
}

// UpdatePaymentRequest lets the owning student change the amounts or
// method of a still-pending request. The total is recomputed server-side.
func (svc *MesshubService) UpdatePaymentRequest(ctx context.Context, request *models.PaymentRequest, params PaymentRequestParams) error {
	if !request.CanBeEditedBy(params.StudentID) {
		if request.StudentID != params.StudentID {
			return ErrNotOwner
		}
		return ErrRequestNotPending
	}

	request.PaymentMethod = params.PaymentMethod
	request.SenderNumber = params.SenderNumber
	request.TrxID = params.TrxID
	request.RentAmount = params.RentAmount
	request.AdvanceAmount = params.AdvanceAmount
	request.ExternalAmount = params.ExternalAmount
	request.PreviousDueAmount = params.PreviousDueAmount
	request.TotalAmount = request.ComputeTotal()

	if err := validateRequest(request); err != nil {
		return err
	}

	_, err := svc.DB.NewUpdate().Model(request).WherePK().Exec(ctx)
	return err
}

// DeletePaymentRequest removes a request. Students may only delete their
// own requests, and only while pending.
func (svc *MesshubService) DeletePaymentRequest(ctx context.Context, request *models.PaymentRequest, studentID int64) error {
	if !request.CanBeEditedBy(studentID) {
		if request.StudentID != studentID {
			return ErrNotOwner
		}
		return ErrRequestNotPending
	}
	_, err := svc.DB.NewDelete().Model(request).WherePK().Exec(ctx)
	return err
}

func (svc *MesshubService) FindPaymentRequest(ctx context.Context, id int64) (*models.PaymentRequest, error) {
	var request models.PaymentRequest
	err := svc.DB.NewSelect().Model(&request).Where("payment_request.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

type PaymentRequestList struct {
	Requests []models.PaymentRequest `json:"requests"`
	Total    int                     `json:"total"`
	Counts   map[string]int          `json:"counts"`
}

// ListPaymentRequests returns a page of requests plus summary counts by
// status. When studentID is non-zero the list is scoped to that student.
func (svc *MesshubService) ListPaymentRequests(ctx context.Context, studentID int64, status string, limit, offset int) (*PaymentRequestList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	list := &PaymentRequestList{Requests: []models.PaymentRequest{}, Counts: map[string]int{}}

	query := svc.DB.NewSelect().Model(&list.Requests)
	if studentID != 0 {
		query = query.Where("student_id = ?", studentID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	total, err := query.OrderExpr("id DESC").Limit(limit).Offset(offset).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	list.Total = total

	for _, s := range []string{common.RequestStatusPending, common.RequestStatusApproved, common.RequestStatusRejected} {
		countQuery := svc.DB.NewSelect().Model((*models.PaymentRequest)(nil)).Where("status = ?", s)
		if studentID != 0 {
			countQuery = countQuery.Where("student_id = ?", studentID)
		}
		count, err := countQuery.Count(ctx)
		if err != nil {
			return nil, err
		}
		list.Counts[s] = count
	}
	return list, nil
}
