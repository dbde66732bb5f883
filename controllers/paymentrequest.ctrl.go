package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/lib/responses"
	"github.com/messhub/messhub.go/lib/service"
)

// PaymentRequestController : Payment request controller struct
type PaymentRequestController struct {
	svc *service.MesshubService
}

func NewPaymentRequestController(svc *service.MesshubService) *PaymentRequestController {
	return &PaymentRequestController{svc: svc}
}

type PaymentRequestBody struct {
	RentID            int64   `json:"rent_id" validate:"required"`
	PaymentMethod     string  `json:"payment_method" validate:"required,oneof='on hand' online"`
	SenderNumber      string  `json:"sender_number"`
	TrxID             string  `json:"trx_id"`
	RentAmount        float64 `json:"rent_amount" validate:"gte=0"`
	AdvanceAmount     float64 `json:"advance_amount" validate:"gte=0"`
	ExternalAmount    float64 `json:"external_amount" validate:"gte=0"`
	PreviousDueAmount float64 `json:"previous_due_amount" validate:"gte=0"`
}

// Create files a pending payment request for one of the student's rents.
func (controller *PaymentRequestController) Create(c echo.Context) error {
	var body PaymentRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load payment request body: %v", err)
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	request, err := controller.svc.CreatePaymentRequest(c.Request().Context(), service.PaymentRequestParams{
		StudentID:         userID(c),
		RentID:            body.RentID,
		PaymentMethod:     body.PaymentMethod,
		SenderNumber:      body.SenderNumber,
		TrxID:             body.TrxID,
		RentAmount:        body.RentAmount,
		AdvanceAmount:     body.AdvanceAmount,
		ExternalAmount:    body.ExternalAmount,
		PreviousDueAmount: body.PreviousDueAmount,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, request)
}

// List returns a page of requests plus per-status counts. Students only
// see their own requests; admins see everything.
func (controller *PaymentRequestController) List(c echo.Context) error {
	studentID := int64(0)
	if c.Get("Role") == common.RoleStudent {
		studentID = userID(c)
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	list, err := controller.svc.ListPaymentRequests(c.Request().Context(), studentID, c.QueryParam("status"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one request. Students may only fetch their own.
func (controller *PaymentRequestController) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	request, err := controller.svc.FindPaymentRequest(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	if c.Get("Role") == common.RoleStudent && request.StudentID != userID(c) {
		return respond(c, responses.AccessForbiddenError)
	}
	return c.JSON(http.StatusOK, request)
}

type AdjudicateRequestBody struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// Update has two roles: admins adjudicate (approve triggers settlement),
// students edit the amounts/method of their own still-pending request.
func (controller *PaymentRequestController) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	request, err := controller.svc.FindPaymentRequest(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}

	if c.Get("Role") == common.RoleAdmin {
		var body AdjudicateRequestBody
		if err := c.Bind(&body); err != nil {
			return respond(c, responses.BadArgumentsError)
		}
		if err := c.Validate(&body); err != nil {
			return respond(c, responses.BadArgumentsError)
		}
		if !request.IsPending() {
			return respond(c, responses.RequestNotPendingError)
		}
		if body.Status == common.RequestStatusApproved {
			// manual approval trusts the admin's judgment; no feed match
			history, err := controller.svc.ApproveRequest(c.Request().Context(), request)
			if err != nil {
				return writeErr(c, err)
			}
			c.Logger().Infof("Request %d approved by admin %d, rent_history_id:%d", request.ID, userID(c), history.ID)
		} else {
			if err := controller.svc.RejectRequest(c.Request().Context(), request); err != nil {
				return writeErr(c, err)
			}
		}
		return c.JSON(http.StatusOK, request)
	}

	var body PaymentRequestBody
	if err := c.Bind(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	err = controller.svc.UpdatePaymentRequest(c.Request().Context(), request, service.PaymentRequestParams{
		StudentID:         userID(c),
		PaymentMethod:     body.PaymentMethod,
		SenderNumber:      body.SenderNumber,
		TrxID:             body.TrxID,
		RentAmount:        body.RentAmount,
		AdvanceAmount:     body.AdvanceAmount,
		ExternalAmount:    body.ExternalAmount,
		PreviousDueAmount: body.PreviousDueAmount,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, request)
}

// Delete removes the student's own request while it is still pending.
func (controller *PaymentRequestController) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	request, err := controller.svc.FindPaymentRequest(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	if err := controller.svc.DeletePaymentRequest(c.Request().Context(), request, userID(c)); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
