package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"math/big"

	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/db/models"
	"github.com/messhub/messhub.go/lib/tokens"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadAuth = errors.New("bad auth")

type StudentParams struct {
	Login      string
	Password   string
	Name       string
	Phone      string
	SmsPhone   string
	RoomNo     string
	CategoryID int64
}

// CreateStudent registers a resident. Login and password are generated
// when not provided; the plain text password is returned once in the
// response and only the bcrypt hash is stored.
func (svc *MesshubService) CreateStudent(ctx context.Context, params StudentParams) (student *models.Student, plainPassword string, err error) {
	login := params.Login
	if login == "" {
		login, err = randStringFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, "", err
		}
	}
	plainPassword = params.Password
	if plainPassword == "" {
		plainPassword, err = randStringFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, "", err
		}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	student = &models.Student{
		Login:      login,
		Password:   string(hashed),
		Name:       params.Name,
		Phone:      params.Phone,
		SmsPhone:   params.SmsPhone,
		RoomNo:     params.RoomNo,
		CategoryID: params.CategoryID,
		Active:     true,
	}
	if _, err := svc.DB.NewInsert().Model(student).Exec(ctx); err != nil {
		return nil, "", err
	}
	return student, plainPassword, nil
}

func randStringFromStr(length int, chars string) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		b[i] = chars[n.Int64()]
	}
	return string(b), nil
}

func (svc *MesshubService) FindStudent(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	err := svc.DB.NewSelect().Model(&student).Where("student.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (svc *MesshubService) ListStudents(ctx context.Context) ([]models.Student, error) {
	students := []models.Student{}
	err := svc.DB.NewSelect().Model(&students).Order("id ASC").Scan(ctx)
	return students, err
}

func (svc *MesshubService) UpdateStudent(ctx context.Context, student *models.Student) error {
	_, err := svc.DB.NewUpdate().Model(student).WherePK().Exec(ctx)
	return err
}

// GenerateToken authenticates a login against the admin table first, then
// the student table, and mints a role-scoped access token.
func (svc *MesshubService) GenerateToken(ctx context.Context, login, password string) (token string, role string, err error) {
	if login == "" || password == "" {
		return "", "", ErrBadAuth
	}

	var admin models.Admin
	err = svc.DB.NewSelect().Model(&admin).Where("login = ?", login).Limit(1).Scan(ctx)
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
			return "", "", ErrBadAuth
		}
		token, err = tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, admin.ID, common.RoleAdmin)
		return token, common.RoleAdmin, err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", "", err
	}

	var student models.Student
	if err := svc.DB.NewSelect().Model(&student).Where("login = ?", login).Limit(1).Scan(ctx); err != nil {
		return "", "", ErrBadAuth
	}
	if bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(password)) != nil {
		return "", "", ErrBadAuth
	}
	token, err = tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, student.ID, common.RoleStudent)
	return token, common.RoleStudent, err
}
