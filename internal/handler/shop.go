package handler

import (
	"net/http"
	"somthing-shop/internal/dto"
	"somthing-shop/internal/middleware"
	"somthing-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type ShopHandler struct {
	shopService service.ShopService
}

func NewShopHandler(shopService service.ShopService) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
	}
}

func (h *ShopHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.shopService.ListProducts(ctx, c.QueryParam("category"), c.QueryParam("sort"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ShopHandler) GetProduct(c echo.Context) error {
	product, err := h.shopService.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ShopHandler) Options(c echo.Context) error {
	return c.JSON(http.StatusOK, h.shopService.Options())
}

func (h *ShopHandler) Quote(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LineRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	quote, err := h.shopService.Quote(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, quote)
}

func (h *ShopHandler) PriceCart(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	summary, err := h.shopService.PriceCart(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *ShopHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	order, err := h.shopService.Checkout(ctx, middleware.ProfileID(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}
