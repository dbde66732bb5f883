package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/lib/service"
)

// DashboardController : Read-side rollup controller struct
type DashboardController struct {
	svc *service.MesshubService
}

func NewDashboardController(svc *service.MesshubService) *DashboardController {
	return &DashboardController{svc: svc}
}

// Admin returns the aggregate rollups for the admin landing page.
func (controller *DashboardController) Admin(c echo.Context) error {
	dashboard, err := controller.svc.GetAdminDashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}

// Student returns the authenticated student's own summary.
func (controller *DashboardController) Student(c echo.Context) error {
	dashboard, err := controller.svc.GetStudentDashboard(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}
