package handler

import (
	"net/http"
	"somthing-shop/internal/dto"
	"somthing-shop/internal/middleware"
	"somthing-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categoryService.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CategoryInput
	if err := c.Bind(&req); err != nil {
		return err
	}

	category, err := h.categoryService.Create(ctx, middleware.ProfileID(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CategoryPatch
	if err := c.Bind(&req); err != nil {
		return err
	}

	category, err := h.categoryService.Update(ctx, middleware.ProfileID(c), c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.categoryService.Delete(ctx, middleware.ProfileID(c), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
