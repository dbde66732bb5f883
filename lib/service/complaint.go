package service

import (
	"context"

	"github.com/messhub/messhub.go/db/models"
)

func (svc *MesshubService) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	_, err := svc.DB.NewInsert().Model(complaint).Exec(ctx)
	return err
}

func (svc *MesshubService) FindComplaint(ctx context.Context, id int64) (*models.Complaint, error) {
	var complaint models.Complaint
	err := svc.DB.NewSelect().Model(&complaint).Where("complaint.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// ListComplaints returns all complaints, or a student's own when
// studentID is non-zero.
func (svc *MesshubService) ListComplaints(ctx context.Context, studentID int64, status string) ([]models.Complaint, error) {
	complaints := []models.Complaint{}
	query := svc.DB.NewSelect().Model(&complaints)
	if studentID != 0 {
		query = query.Where("student_id = ?", studentID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.OrderExpr("id DESC").Scan(ctx)
	return complaints, err
}

func (svc *MesshubService) UpdateComplaintStatus(ctx context.Context, complaint *models.Complaint, status string) error {
	complaint.Status = status
	_, err := svc.DB.NewUpdate().Model(complaint).WherePK().Exec(ctx)
	return err
}
