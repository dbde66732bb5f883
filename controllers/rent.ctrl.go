package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/lib/responses"
	"github.com/messhub/messhub.go/lib/service"
)

// RentController : Rent ledger controller struct
type RentController struct {
	svc *service.MesshubService
}

func NewRentController(svc *service.MesshubService) *RentController {
	return &RentController{svc: svc}
}

// List returns rents filtered by month/status/student (admin view).
func (controller *RentController) List(c echo.Context) error {
	studentID, _ := strconv.ParseInt(c.QueryParam("student_id"), 10, 64)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	list, err := controller.svc.ListRents(c.Request().Context(), studentID, c.QueryParam("month"), c.QueryParam("status"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Mine returns the authenticated student's own rents.
func (controller *RentController) Mine(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	list, err := controller.svc.ListRents(c.Request().Context(), userID(c), c.QueryParam("month"), c.QueryParam("status"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

type PartialPayRequestBody struct {
	RentPaid        float64 `json:"rent_paid" validate:"gte=0"`
	AdvancePaid     float64 `json:"advance_paid" validate:"gte=0"`
	ExternalPaid    float64 `json:"external_paid" validate:"gte=0"`
	PreviousDuePaid float64 `json:"previous_due_paid" validate:"gte=0"`
	PaidType        string  `json:"paid_type" validate:"required,oneof='on hand' online"`
}

// Pay applies a walk-in partial payment directly to a rent.
func (controller *RentController) Pay(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	var body PartialPayRequestBody
	if err := c.Bind(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	history, err := controller.svc.PayRentPartial(c.Request().Context(), id, body.RentPaid, body.AdvancePaid, body.ExternalPaid, body.PreviousDuePaid, body.PaidType)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

type FullPayRequestBody struct {
	PaidType string `json:"paid_type" validate:"required,oneof='on hand' online"`
}

// FullPay settles all outstanding dues of a rent in one step.
func (controller *RentController) FullPay(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	var body FullPayRequestBody
	if err := c.Bind(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	history, err := controller.svc.PayRentFull(c.Request().Context(), id, body.PaidType)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

type GenerateRentsRequestBody struct {
	Month string `json:"month" validate:"required"`
}

// Generate creates the month's rents for all active students.
func (controller *RentController) Generate(c echo.Context) error {
	var body GenerateRentsRequestBody
	if err := c.Bind(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	result, err := controller.svc.GenerateRentsForMonth(c.Request().Context(), body.Month)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Export streams the month's rent sheet as an xlsx workbook.
func (controller *RentController) Export(c echo.Context) error {
	reportID, content, err := controller.svc.ExportRentReport(c.Request().Context(), c.QueryParam("month"))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s.xlsx", reportID))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content.Bytes())
}
