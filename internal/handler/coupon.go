package handler

import (
	"net/http"
	"somthing-shop/internal/dto"
	"somthing-shop/internal/middleware"
	"somthing-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type CouponHandler struct {
	couponService service.CouponService
}

func NewCouponHandler(couponService service.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

func (h *CouponHandler) List(c echo.Context) error {
	coupons, err := h.couponService.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, coupons)
}

func (h *CouponHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CouponInput
	if err := c.Bind(&req); err != nil {
		return err
	}

	coupon, err := h.couponService.Create(ctx, middleware.ProfileID(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, coupon)
}

func (h *CouponHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CouponPatch
	if err := c.Bind(&req); err != nil {
		return err
	}

	coupon, err := h.couponService.Update(ctx, middleware.ProfileID(c), c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, coupon)
}

func (h *CouponHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.couponService.Delete(ctx, middleware.ProfileID(c), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
