package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/db/models"
	"github.com/messhub/messhub.go/lib/responses"
	"github.com/messhub/messhub.go/lib/service"
)

// PaymentController : Wallet feed controller struct
type PaymentController struct {
	svc *service.MesshubService
}

func NewPaymentController(svc *service.MesshubService) *PaymentController {
	return &PaymentController{svc: svc}
}

type IngestPaymentRequestBody struct {
	TrxID       string  `json:"trx_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	FromDetails string  `json:"from_details"`
}

// Ingest stores one wallet feed transaction. Replays of the same trx_id
// come back as conflicts so the feed poller can ship the same window twice.
func (controller *PaymentController) Ingest(c echo.Context) error {
	var body IngestPaymentRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load payment body: %v", err)
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	payment := &models.Payment{
		TrxID:       body.TrxID,
		Amount:      body.Amount,
		FromDetails: body.FromDetails,
	}
	if err := controller.svc.IngestPayment(c.Request().Context(), payment); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, payment)
}

// List returns the most recent feed rows, newest first.
func (controller *PaymentController) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	payments, err := controller.svc.ListPayments(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}
