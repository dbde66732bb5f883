package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/db/models"
)

type StatusCount struct {
	Status string  `json:"status" bun:"status"`
	Count  int     `json:"count" bun:"count"`
	Sum    float64 `json:"sum" bun:"sum"`
}

type MonthlyCollection struct {
	Month string  `json:"month" bun:"month"`
	Total float64 `json:"total" bun:"total"`
}

type AdminDashboard struct {
	ActiveStudents     int                  `json:"active_students"`
	RentsByStatus      []StatusCount        `json:"rents_by_status"`
	RequestsByStatus   []StatusCount        `json:"requests_by_status"`
	ComplaintsByStatus []StatusCount        `json:"complaints_by_status"`
	MonthlyCollections []MonthlyCollection  `json:"monthly_collections"`
	RecentSettlements  []models.RentHistory `json:"recent_settlements"`
}

// GetAdminDashboard builds the read-side rollups for the admin landing
// page. All sums are coalesced to 0 so empty groups are safe to render.
func (svc *MesshubService) GetAdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	dashboard := &AdminDashboard{
		RentsByStatus:      []StatusCount{},
		RequestsByStatus:   []StatusCount{},
		ComplaintsByStatus: []StatusCount{},
		MonthlyCollections: []MonthlyCollection{},
		RecentSettlements:  []models.RentHistory{},
	}

	count, err := svc.DB.NewSelect().Model((*models.Student)(nil)).Where("active = TRUE").Count(ctx)
	if err != nil {
		return nil, err
	}
	dashboard.ActiveStudents = count

	err = svc.DB.NewSelect().Model((*models.Rent)(nil)).
		ColumnExpr("status").
		ColumnExpr("count(*) AS count").
		ColumnExpr("coalesce(sum(rent_amount + external_amount + previous_due), 0) AS sum").
		GroupExpr("status").
		Scan(ctx, &dashboard.RentsByStatus)
	if err != nil {
		return nil, err
	}

	err = svc.DB.NewSelect().Model((*models.PaymentRequest)(nil)).
		ColumnExpr("status").
		ColumnExpr("count(*) AS count").
		ColumnExpr("coalesce(sum(total_amount), 0) AS sum").
		GroupExpr("status").
		Scan(ctx, &dashboard.RequestsByStatus)
	if err != nil {
		return nil, err
	}

	err = svc.DB.NewSelect().Model((*models.Complaint)(nil)).
		ColumnExpr("status").
		ColumnExpr("count(*) AS count").
		GroupExpr("status").
		Scan(ctx, &dashboard.ComplaintsByStatus)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(-1, 0, 0).Format(common.RentMonthLayout)
	err = svc.DB.NewSelect().Model((*models.RentHistory)(nil)).
		ColumnExpr("rent_month AS month").
		ColumnExpr("coalesce(sum(paid_rent + paid_advance + paid_external + paid_previous_due), 0) AS total").
		Where("rent_month >= ?", since).
		GroupExpr("rent_month").
		OrderExpr("rent_month ASC").
		Scan(ctx, &dashboard.MonthlyCollections)
	if err != nil {
		return nil, err
	}

	err = svc.DB.NewSelect().Model(&dashboard.RecentSettlements).
		OrderExpr("id DESC").Limit(10).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return dashboard, nil
}

type StudentDashboard struct {
	CurrentRent     *models.Rent         `json:"current_rent"`
	TotalDue        float64              `json:"total_due"`
	TotalPaid       float64              `json:"total_paid"`
	PendingRequests int                  `json:"pending_requests"`
	OpenComplaints  int                  `json:"open_complaints"`
	RecentHistory   []models.RentHistory `json:"recent_history"`
}

func (svc *MesshubService) GetStudentDashboard(ctx context.Context, studentID int64) (*StudentDashboard, error) {
	dashboard := &StudentDashboard{RecentHistory: []models.RentHistory{}}

	rent := &models.Rent{}
	err := svc.DB.NewSelect().Model(rent).
		Where("student_id = ?", studentID).
		OrderExpr("month DESC").Limit(1).
		Scan(ctx)
	switch {
	case err == nil:
		dashboard.CurrentRent = rent
		dashboard.TotalDue = rent.TotalDue()
		dashboard.TotalPaid = rent.TotalPaid()
	case !errors.Is(err, sql.ErrNoRows):
		// no rent yet is normal, anything else is not
		return nil, err
	}

	dashboard.PendingRequests, err = svc.DB.NewSelect().Model((*models.PaymentRequest)(nil)).
		Where("student_id = ? AND status = ?", studentID, common.RequestStatusPending).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	dashboard.OpenComplaints, err = svc.DB.NewSelect().Model((*models.Complaint)(nil)).
		Where("student_id = ? AND status = ?", studentID, common.ComplaintStatusOpen).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	err = svc.DB.NewSelect().Model(&dashboard.RecentHistory).
		Where("student_id = ?", studentID).
		OrderExpr("id DESC").Limit(10).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return dashboard, nil
}
