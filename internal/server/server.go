package server

import (
	"context"
	"log/slog"
	"net/http"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/handler"
	appmw "somthing-shop/internal/middleware"
	"somthing-shop/internal/repository"
	"somthing-shop/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	Product   service.ProductService
	Category  service.CategoryService
	Order     service.OrderService
	Coupon    service.CouponService
	Customer  service.CustomerService
	Activity  service.ActivityService
	Dashboard service.DashboardService
	Shop      service.ShopService
}

type Options struct {
	JWTSecret  []byte
	StorageDir string
	Profiles   repository.CustomerRepository
	Cache      *cache.Cache
	Logger     *slog.Logger
}

type Server struct {
	echo                *echo.Echo
	opts                Options
	productHandler      *handler.ProductHandler
	categoryHandler     *handler.CategoryHandler
	orderHandler        *handler.OrderHandler
	couponHandler       *handler.CouponHandler
	adminHandler        *handler.AdminHandler
	shopHandler         *handler.ShopHandler
	invalidationHandler *handler.InvalidationHandler
}

func NewServer(services Services, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.NewErrorHandler(opts.Logger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			opts.Logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(appmw.Metrics())

	s := &Server{
		echo:                e,
		opts:                opts,
		productHandler:      handler.NewProductHandler(services.Product),
		categoryHandler:     handler.NewCategoryHandler(services.Category),
		orderHandler:        handler.NewOrderHandler(services.Order),
		couponHandler:       handler.NewCouponHandler(services.Coupon),
		adminHandler:        handler.NewAdminHandler(services.Customer, services.Activity, services.Dashboard),
		shopHandler:         handler.NewShopHandler(services.Shop),
		invalidationHandler: handler.NewInvalidationHandler(opts.Cache),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if s.opts.StorageDir != "" {
		s.echo.Static("/storage", s.opts.StorageDir)
	}

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := appmw.Auth(s.opts.JWTSecret)

	// -------- storefront --------
	shop := api.Group("/shop")
	shop.GET("/products", s.shopHandler.ListProducts)
	shop.GET("/products/:id", s.shopHandler.GetProduct)
	shop.GET("/options", s.shopHandler.Options)
	shop.POST("/quote", s.shopHandler.Quote)
	shop.POST("/cart", s.shopHandler.PriceCart)
	shop.POST("/checkout", s.shopHandler.Checkout, auth)

	// -------- admin --------
	admin := api.Group("/admin", auth, appmw.RequireAdmin(s.opts.Profiles))

	admin.GET("/products", s.productHandler.List)
	admin.POST("/products", s.productHandler.Create)
	admin.PUT("/products/:id", s.productHandler.Update)
	admin.DELETE("/products/:id", s.productHandler.Delete)
	admin.POST("/products/images", s.productHandler.UploadImage)

	admin.GET("/categories", s.categoryHandler.List)
	admin.POST("/categories", s.categoryHandler.Create)
	admin.PUT("/categories/:id", s.categoryHandler.Update)
	admin.DELETE("/categories/:id", s.categoryHandler.Delete)

	admin.GET("/orders", s.orderHandler.List)
	admin.PUT("/orders/:id/status", s.orderHandler.UpdateStatus)

	admin.GET("/coupons", s.couponHandler.List)
	admin.POST("/coupons", s.couponHandler.Create)
	admin.PUT("/coupons/:id", s.couponHandler.Update)
	admin.DELETE("/coupons/:id", s.couponHandler.Delete)

	admin.GET("/customers", s.adminHandler.Customers)
	admin.GET("/activity", s.adminHandler.Activity)
	admin.GET("/stats", s.adminHandler.Stats)
	admin.GET("/invalidations", s.invalidationHandler.Stream)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
