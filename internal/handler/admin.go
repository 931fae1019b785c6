package handler

import (
	"net/http"
	"somthing-shop/internal/service"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves the read-only admin views: customers, the activity trail and the dashboard.
type AdminHandler struct {
	customerService  service.CustomerService
	activityService  service.ActivityService
	dashboardService service.DashboardService
}

func NewAdminHandler(
	customerService service.CustomerService,
	activityService service.ActivityService,
	dashboardService service.DashboardService,
) *AdminHandler {
	return &AdminHandler{
		customerService:  customerService,
		activityService:  activityService,
		dashboardService: dashboardService,
	}
}

func (h *AdminHandler) Customers(c echo.Context) error {
	ctx := c.Request().Context()

	customers, err := h.customerService.List(ctx, c.QueryParam("search"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customers)
}

func (h *AdminHandler) Activity(c echo.Context) error {
	entries, err := h.activityService.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}

func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.dashboardService.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}
