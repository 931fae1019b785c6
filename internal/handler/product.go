package handler

import (
	"net/http"
	"somthing-shop/internal/dto"
	"somthing-shop/internal/middleware"
	"somthing-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.List(ctx, c.QueryParam("search"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductInput
	if err := c.Bind(&req); err != nil {
		return err
	}

	product, err := h.productService.Create(ctx, middleware.ProfileID(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductPatch
	if err := c.Bind(&req); err != nil {
		return err
	}

	product, err := h.productService.Update(ctx, middleware.ProfileID(c), c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.productService.Delete(ctx, middleware.ProfileID(c), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadImage expects a multipart form with the image under "file".
func (h *ProductHandler) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	url, err := h.productService.UploadImage(ctx, fileHeader.Filename, file)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"url": url,
	})
}
