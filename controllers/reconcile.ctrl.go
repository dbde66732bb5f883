package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/lib/service"
)

// ReconcileController : Automatic reconciliation controller struct
type ReconcileController struct {
	svc *service.MesshubService
}

func NewReconcileController(svc *service.MesshubService) *ReconcileController {
	return &ReconcileController{svc: svc}
}

// Run executes the automatic reconciliation batch over all pending online
// requests. Per-item failures are result codes, not HTTP errors; the
// caller must inspect the results array.
func (controller *ReconcileController) Run(c echo.Context) error {
	batch, err := controller.svc.ReconcilePendingRequests(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, batch)
}

// Snapshot returns the read-only status of the automatic path: recent
// auto-approved settlements, pending count and ingested payment count.
func (controller *ReconcileController) Snapshot(c echo.Context) error {
	snapshot, err := controller.svc.GetReconcileSnapshot(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}
