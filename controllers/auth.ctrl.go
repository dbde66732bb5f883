package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/lib/responses"
	"github.com/messhub/messhub.go/lib/service"
)

// AuthController : Auth controller struct
type AuthController struct {
	svc *service.MesshubService
}

func NewAuthController(svc *service.MesshubService) *AuthController {
	return &AuthController{svc: svc}
}

type AuthRequestBody struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponseBody struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

// Auth exchanges a login/password for a role-scoped bearer token. Admin
// logins are checked before student logins.
func (controller *AuthController) Auth(c echo.Context) error {
	var body AuthRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load auth request body: %v", err)
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	token, role, err := controller.svc.GenerateToken(c.Request().Context(), body.Login, body.Password)
	if err != nil {
		c.Logger().Errorf("Authentication failed for login %s: %v", body.Login, err)
		return writeErr(c, service.ErrBadAuth)
	}
	return c.JSON(http.StatusOK, &AuthResponseBody{AccessToken: token, Role: role})
}
