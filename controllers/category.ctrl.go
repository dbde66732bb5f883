package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/messhub/messhub.go/db/models"
	"github.com/messhub/messhub.go/lib/responses"
	"github.com/messhub/messhub.go/lib/service"
)

// CategoryController : Pricing tier and discount controller struct
type CategoryController struct {
	svc *service.MesshubService
}

func NewCategoryController(svc *service.MesshubService) *CategoryController {
	return &CategoryController{svc: svc}
}

type CategoryRequestBody struct {
	Title          string  `json:"title" validate:"required"`
	RentAmount     float64 `json:"rent_amount" validate:"gte=0"`
	ExternalAmount float64 `json:"external_amount" validate:"gte=0"`
	Description    string  `json:"description"`
}

func (controller *CategoryController) Create(c echo.Context) error {
	var body CategoryRequestBody
	if err := c.Bind(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	category := &models.Category{
		Title:          body.Title,
		RentAmount:     body.RentAmount,
		ExternalAmount: body.ExternalAmount,
		Description:    body.Description,
	}
	if err := controller.svc.CreateCategory(c.Request().Context(), category); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (controller *CategoryController) List(c echo.Context) error {
	categories, err := controller.svc.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (controller *CategoryController) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	category, err := controller.svc.FindCategory(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}

	var body CategoryRequestBody
	if err := c.Bind(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	category.Title = body.Title
	category.RentAmount = body.RentAmount
	category.ExternalAmount = body.ExternalAmount
	category.Description = body.Description
	if err := controller.svc.UpdateCategory(c.Request().Context(), category); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

type DiscountRequestBody struct {
	StudentID int64   `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Reason    string  `json:"reason"`
}

// CreateDiscount grants a waiver applied at the next rent generation.
func (controller *CategoryController) CreateDiscount(c echo.Context) error {
	var body DiscountRequestBody
	if err := c.Bind(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return respond(c, responses.BadArgumentsError)
	}

	discount := &models.Discount{
		StudentID: body.StudentID,
		Amount:    body.Amount,
		Reason:    body.Reason,
		Active:    true,
	}
	if err := controller.svc.CreateDiscount(c.Request().Context(), discount); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, discount)
}

func (controller *CategoryController) ListDiscounts(c echo.Context) error {
	studentID, _ := strconv.ParseInt(c.QueryParam("student_id"), 10, 64)
	discounts, err := controller.svc.ListDiscounts(c.Request().Context(), studentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, discounts)
}

func (controller *CategoryController) DeactivateDiscount(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, responses.BadArgumentsError)
	}
	if err := controller.svc.DeactivateDiscount(c.Request().Context(), id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
