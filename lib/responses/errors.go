package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the single error envelope used by every endpoint.
type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var AccessForbiddenError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "you are not allowed to perform this action",
	HttpStatusCode: 403,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "not found",
	HttpStatusCode: 404,
}

var PendingRequestExistsError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "a pending payment request already exists for this rent",
	HttpStatusCode: 409,
}

var RequestNotPendingError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "payment request is no longer pending",
	HttpStatusCode: 409,
}

var DuplicateTitleError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "an entry with this title already exists",
	HttpStatusCode: 409,
}

var DuplicateTrxIdError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "a payment with this transaction id already exists",
	HttpStatusCode: 409,
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}
