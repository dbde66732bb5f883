package controllers

import (
	"database/sql"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/lib/responses"
	"github.com/messhub/messhub.go/lib/service"
)

// writeErr maps a service error onto the shared error envelope. Unknown
// errors bubble up to the global HTTPErrorHandler as 500s.
func writeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return respond(c, responses.NotFoundError)
	case errors.Is(err, service.ErrBadAuth):
		return respond(c, responses.BadAuthError)
	case errors.Is(err, service.ErrNotOwner):
		return respond(c, responses.AccessForbiddenError)
	case errors.Is(err, service.ErrPendingRequestExists):
		return respond(c, responses.PendingRequestExistsError)
	case errors.Is(err, service.ErrRequestNotPending):
		return respond(c, responses.RequestNotPendingError)
	case errors.Is(err, service.ErrDuplicateTitle):
		return respond(c, responses.DuplicateTitleError)
	case errors.Is(err, service.ErrDuplicateTrxId):
		return respond(c, responses.DuplicateTrxIdError)
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrTrxIdRequired),
		errors.Is(err, service.ErrNoPositiveAmount),
		errors.Is(err, service.ErrBadMonth):
		badArgs := responses.BadArgumentsError
		badArgs.Message = err.Error()
		return respond(c, badArgs)
	default:
		return err
	}
}

func respond(c echo.Context, resp responses.ErrorResponse) error {
	return c.JSON(resp.HttpStatusCode, &resp)
}

func userID(c echo.Context) int64 {
	return c.Get("UserID").(int64)
}
