package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/client"
	"somthing-shop/internal/config"
	"somthing-shop/internal/model"
	"somthing-shop/internal/notify"
	"somthing-shop/internal/outbox"
	"somthing-shop/internal/repository"
	"somthing-shop/internal/server"
	"somthing-shop/internal/service"
	"somthing-shop/internal/storage"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var secret = []byte("test-secret")

type fixture struct {
	handler  http.Handler
	db       *gorm.DB
	admin    *model.Profile
	customer *model.Profile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := client.InitDBClient(config.Database{
		Driver: "sqlite",
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	queryCache := cache.New(time.Minute)
	notifier := &notify.Recorder{}
	relay := outbox.NewRelay(activityRepo, outbox.NewNopPublisher(), logger, time.Minute, 10)
	mutator := service.NewMutator(db, activityRepo, queryCache, notifier, relay, nil)
	store := storage.NewLocalStore(t.TempDir(), "http://localhost/storage")

	srv := server.NewServer(server.Services{
		Product:   service.NewProductService(mutator, queryCache, productRepo, store, notifier),
		Category:  service.NewCategoryService(mutator, queryCache, categoryRepo, productRepo),
		Order:     service.NewOrderService(mutator, queryCache, orderRepo),
		Coupon:    service.NewCouponService(mutator, queryCache, couponRepo),
		Customer:  service.NewCustomerService(queryCache, customerRepo),
		Activity:  service.NewActivityService(queryCache, activityRepo),
		Dashboard: service.NewDashboardService(queryCache, productRepo, orderRepo, customerRepo, couponRepo),
		Shop:      service.NewShopService(db, queryCache, productRepo, orderRepo, couponRepo, logger),
	}, server.Options{
		JWTSecret: secret,
		Profiles:  customerRepo,
		Cache:     queryCache,
		Logger:    logger,
	})

	admin := &model.Profile{FullName: "Ada Admin", Email: "ada@somthing.shop", IsAdmin: true}
	customer := &model.Profile{FullName: "Cleo Customer", Email: "cleo@example.com"}
	require.NoError(t, db.Create(admin).Error)
	require.NoError(t, db.Create(customer).Error)

	return &fixture{handler: srv.Handler(), db: db, admin: admin, customer: customer}
}

func token(t *testing.T, subject string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func (f *fixture) do(t *testing.T, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/admin/products", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing bearer token", decodeError(t, rec))

	rec = f.do(t, http.MethodGet, "/api/admin/products", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/admin/products", token(t, f.customer.ID), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/admin/products", token(t, f.admin.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAdminProductLifecycle(t *testing.T) {
	f := newFixture(t)
	bearer := token(t, f.admin.ID)

	rec := f.do(t, http.MethodPost, "/api/admin/products", bearer, `{"name":"Starry Night","price":"24.99","stock_quantity":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Starry Night", created.Name)

	rec = f.do(t, http.MethodPut, "/api/admin/products/"+created.ID, bearer, `{"price":19.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/admin/activity", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []model.ActivityLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)

	rec = f.do(t, http.MethodDelete, "/api/admin/products/"+created.ID, bearer, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/admin/products/"+created.ID, bearer, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.ErrNotFound.Error(), decodeError(t, rec))
}

func TestValidationErrorsAreBadRequest(t *testing.T) {
	f := newFixture(t)
	bearer := token(t, f.admin.ID)

	rec := f.do(t, http.MethodPost, "/api/admin/products", bearer, `{"name":"","price":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	order := &model.Order{UserID: f.customer.ID, Status: model.OrderStatusPending, TotalAmount: decimal.NewFromInt(10)}
	require.NoError(t, f.db.Create(order).Error)

	rec = f.do(t, http.MethodPut, "/api/admin/orders/"+order.ID+"/status", bearer, `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/admin/orders/"+order.ID+"/status", bearer, `{"status":"shipped"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDuplicateCouponIsConflict(t *testing.T) {
	f := newFixture(t)
	bearer := token(t, f.admin.ID)

	body := `{"code":"summer20","discount_type":"percentage","discount_value":20}`
	rec := f.do(t, http.MethodPost, "/api/admin/coupons", bearer, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"SUMMER20"`)

	rec = f.do(t, http.MethodPost, "/api/admin/coupons", bearer, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStatsUseCamelCase(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/admin/stats", token(t, f.admin.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	for _, key := range []string{"totalProducts", "totalOrders", "totalCustomers", "activeCoupons", "totalRevenue", "pendingOrders"} {
		assert.Contains(t, stats, key)
	}
	assert.EqualValues(t, 2, stats["totalCustomers"])
}

func TestShopCheckoutRequiresAuth(t *testing.T) {
	f := newFixture(t)

	product := &model.Product{Name: "Poster", Price: decimal.NewFromInt(20), StockQuantity: 5, IsActive: true}
	require.NoError(t, f.db.Create(product).Error)

	rec := f.do(t, http.MethodPost, "/api/shop/quote", "", `{"product_id":"`+product.ID+`","size":"Small","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total":"40"`)

	checkout := `{"lines":[{"product_id":"` + product.ID + `","size":"Small","quantity":1}]}`
	rec = f.do(t, http.MethodPost, "/api/shop/checkout", "", checkout)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/shop/checkout", token(t, f.customer.ID), checkout)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total_amount":"29.99"`)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodGet, "/api/health", "", "")
	rec := f.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "somthing_http_requests_total")
}
