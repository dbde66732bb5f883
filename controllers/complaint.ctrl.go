package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/db/models"
	"github.com/messhub/messhub.go/lib/responses"
	"github.com/messhub/messhub.go/lib/service"
)

// ComplaintController : Complaint controller struct
type ComplaintController struct {
	svc *service.MesshubService
}

func NewComplaintController(svc *service.MesshubService) *ComplaintController {
	return &ComplaintController{svc: svc}
}

type ComplaintRequestBody struct {
	Title   string `json:"title" validate:"required"`
	Details string `json:"details"`
}

// Create files a complaint on behalf of the authenticated student.
func (controller *ComplaintController) Create(c echo.Context) error {
	var body ComplaintRequestBody
	if err := c.Bind(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	complaint := &models.Complaint{
		StudentID: userID(c),
		Title:     body.Title,
		Details:   body.Details,
		Status:    common.ComplaintStatusOpen,
	}
	if err := controller.svc.CreateComplaint(c.Request().Context(), complaint); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, complaint)
}

// List returns complaints. Students only see their own.
func (controller *ComplaintController) List(c echo.Context) error {
	studentID := int64(0)
	if c.Get("Role") == common.RoleStudent {
		studentID = userID(c)
	}
	complaints, err := controller.svc.ListComplaints(c.Request().Context(), studentID, c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, complaints)
}

type ComplaintStatusRequestBody struct {
	Status string `json:"status" validate:"required,oneof=open 'in progress' resolved"`
}

// UpdateStatus moves a complaint through its lifecycle (admin only).
func (controller *ComplaintController) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	complaint, err := controller.svc.FindComplaint(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}

	var body ComplaintStatusRequestBody
	if err := c.Bind(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	if err := controller.svc.UpdateComplaintStatus(c.Request().Context(), complaint, body.Status); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, complaint)
}
