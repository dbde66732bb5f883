package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/db/models"
	"github.com/messhub/messhub.go/lib/responses"
	"github.com/messhub/messhub.go/lib/service"
)

// StudentController : Student roster controller struct
type StudentController struct {
	svc *service.MesshubService
}

func NewStudentController(svc *service.MesshubService) *StudentController {
	return &StudentController{svc: svc}
}

type CreateStudentRequestBody struct {
	Login      string `json:"login"`
	Password   string `json:"password"`
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone"`
	SmsPhone   string `json:"sms_phone"`
	RoomNo     string `json:"room_no"`
	CategoryID int64  `json:"category_id" validate:"required"`
}

type CreateStudentResponseBody struct {
	Student  *models.Student `json:"student"`
	Password string          `json:"password"`
}

// Create registers a resident. The generated password is only present in
// this response; afterwards the hash is all we keep.
func (controller *StudentController) Create(c echo.Context) error {
	var body CreateStudentRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create student body: %v", err)
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	student, password, err := controller.svc.CreateStudent(c.Request().Context(), service.StudentParams{
		Login:      body.Login,
		Password:   body.Password,
		Name:       body.Name,
		Phone:      body.Phone,
		SmsPhone:   body.SmsPhone,
		RoomNo:     body.RoomNo,
		CategoryID: body.CategoryID,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, &CreateStudentResponseBody{Student: student, Password: password})
}

func (controller *StudentController) List(c echo.Context) error {
	students, err := controller.svc.ListStudents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, students)
}

func (controller *StudentController) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	student, err := controller.svc.FindStudent(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, student)
}

type UpdateStudentRequestBody struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone"`
	SmsPhone   string `json:"sms_phone"`
	RoomNo     string `json:"room_no"`
	CategoryID int64  `json:"category_id" validate:"required"`
	Active     bool   `json:"active"`
}

func (controller *StudentController) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	student, err := controller.svc.FindStudent(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}

	var body UpdateStudentRequestBody
	if err := c.Bind(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	student.Name = body.Name
	student.Phone = body.Phone
	student.SmsPhone = body.SmsPhone
	student.RoomNo = body.RoomNo
	student.CategoryID = body.CategoryID
	student.Active = body.Active
	if err := controller.svc.UpdateStudent(c.Request().Context(), student); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, student)
}

type ExportStudentsResponseBody struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// ExportJSON refreshes the derived students.json snapshot on disk.
func (controller *StudentController) ExportJSON(c echo.Context) error {
	path, count, err := controller.svc.ExportStudentsJSON(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &ExportStudentsResponseBody{Path: path, Count: count})
}
