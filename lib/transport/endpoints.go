package transport

import (
	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/controllers"
	"github.com/messhub/messhub.go/lib/service"
	"github.com/messhub/messhub.go/lib/tokens"
)

// RegisterEndpoints wires every route onto the echo instance. Three trust
// zones: public (auth), bearer-token groups split by role, and the cron
// token for the machine endpoints (feed ingest and reconcile trigger).
func RegisterEndpoints(svc *service.MesshubService, e *echo.Echo) {
	logMw := CreateLoggingMiddleware(svc.Logger)
	strictRateLimitMw := CreateRateLimitMiddleware(svc.Config.StrictRateLimit, svc.Config.BurstRateLimit)
	cronMw := tokens.AdminTokenMiddleware(svc.Config.CronToken)
	cacheClient := CreateCacheClient()

	e.POST("/auth", controllers.NewAuthController(svc).Auth, strictRateLimitMw, logMw)

	secured := e.Group("", tokens.Middleware(svc.Config.JWTSecret), logMw)
	admin := secured.Group("", tokens.RequireAdmin())
	student := secured.Group("", tokens.RequireStudent())

	requestCtrl := controllers.NewPaymentRequestController(svc)
	student.POST("/v1/payment-requests", requestCtrl.Create, strictRateLimitMw)
	secured.GET("/v1/payment-requests", requestCtrl.List)
	secured.GET("/v1/payment-requests/:id", requestCtrl.Get)
	secured.PUT("/v1/payment-requests/:id", requestCtrl.Update)
	student.DELETE("/v1/payment-requests/:id", requestCtrl.Delete)

	rentCtrl := controllers.NewRentController(svc)
	admin.GET("/v1/rents", rentCtrl.List)
	student.GET("/v1/rents/mine", rentCtrl.Mine)
	admin.POST("/v1/rents/:id/pay", rentCtrl.Pay)
	admin.POST("/v1/rents/:id/full-pay", rentCtrl.FullPay)
	admin.POST("/v1/rents/generate", rentCtrl.Generate)
	admin.GET("/v1/rents/export", rentCtrl.Export)

	studentCtrl := controllers.NewStudentController(svc)
	admin.POST("/v1/students", studentCtrl.Create)
	admin.GET("/v1/students", studentCtrl.List)
	admin.GET("/v1/students/:id", studentCtrl.Get)
	admin.PUT("/v1/students/:id", studentCtrl.Update)
	admin.POST("/v1/students/export-json", studentCtrl.ExportJSON)

	categoryCtrl := controllers.NewCategoryController(svc)
	admin.POST("/v1/categories", categoryCtrl.Create)
	secured.GET("/v1/categories", categoryCtrl.List)
	admin.PUT("/v1/categories/:id", categoryCtrl.Update)
	admin.POST("/v1/discounts", categoryCtrl.CreateDiscount)
	admin.GET("/v1/discounts", categoryCtrl.ListDiscounts)
	admin.DELETE("/v1/discounts/:id", categoryCtrl.DeactivateDiscount)

	complaintCtrl := controllers.NewComplaintController(svc)
	student.POST("/v1/complaints", complaintCtrl.Create)
	secured.GET("/v1/complaints", complaintCtrl.List)
	admin.PUT("/v1/complaints/:id", complaintCtrl.UpdateStatus)

	// Only the admin rollup goes through the response cache. The student
	// dashboard is per-user and the cache keys by URL.
	dashboardCtrl := controllers.NewDashboardController(svc)
	admin.GET("/v1/dashboard/admin", dashboardCtrl.Admin, cacheClient.Middleware())
	student.GET("/v1/dashboard/student", dashboardCtrl.Student)

	// Machine endpoints. The wallet feed poller and the reconcile scheduler
	// authenticate with the cron token instead of a user session.
	paymentCtrl := controllers.NewPaymentController(svc)
	e.POST("/v1/payments", paymentCtrl.Ingest, cronMw, logMw)
	admin.GET("/v1/payments", paymentCtrl.List)

	reconcileCtrl := controllers.NewReconcileController(svc)
	e.POST("/v1/payment-requests/reconcile", reconcileCtrl.Run, cronMw, logMw)
	e.GET("/v1/payment-requests/reconcile", reconcileCtrl.Snapshot, cronMw)
}
