package service

import (
	"context"
	"errors"

	"github.com/messhub/messhub.go/db/models"
)

var ErrDuplicateTitle = errors.New("an entry with this title already exists")

func (svc *MesshubService) CreateCategory(ctx context.Context, category *models.Category) error {
	exists, err := svc.DB.NewSelect().Model((*models.Category)(nil)).
		Where("title = ?", category.Title).Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateTitle
	}
	_, err = svc.DB.NewInsert().Model(category).Exec(ctx)
	return err
}

func (svc *MesshubService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := svc.DB.NewSelect().Model(&categories).Order("id ASC").Scan(ctx)
	return categories, err
}

func (svc *MesshubService) FindCategory(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := svc.DB.NewSelect().Model(&category).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (svc *MesshubService) UpdateCategory(ctx context.Context, category *models.Category) error {
	exists, err := svc.DB.NewSelect().Model((*models.Category)(nil)).
		Where("title = ? AND id != ?", category.Title, category.ID).Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateTitle
	}
	_, err = svc.DB.NewUpdate().Model(category).WherePK().Exec(ctx)
	return err
}

func (svc *MesshubService) CreateDiscount(ctx context.Context, discount *models.Discount) error {
	_, err := svc.DB.NewInsert().Model(discount).Exec(ctx)
	return err
}

func (svc *MesshubService) ListDiscounts(ctx context.Context, studentID int64) ([]models.Discount, error) {
	discounts := []models.Discount{}
	query := svc.DB.NewSelect().Model(&discounts)
	if studentID != 0 {
		query = query.Where("student_id = ?", studentID)
	}
	err := query.Order("id ASC").Scan(ctx)
	return discounts, err
}

func (svc *MesshubService) DeactivateDiscount(ctx context.Context, id int64) error {
	_, err := svc.DB.NewUpdate().Model((*models.Discount)(nil)).
		Set("active = FALSE").Where("id = ?", id).Exec(ctx)
	return err
}
