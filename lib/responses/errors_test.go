package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestUnknownErrorBecomesGeneralServerError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(errors.New("db connection lost"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Error)
	assert.Equal(t, GeneralServerError.Code, body.Code)
	assert.Equal(t, GeneralServerError.Message, body.Message)
}

func TestEchoHTTPErrorKeepsItsStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token"), c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCommittedResponseIsLeftAlone(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	assert.NoError(t, c.NoContent(http.StatusNoContent))

	HTTPErrorHandler(errors.New("late error"), c)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
