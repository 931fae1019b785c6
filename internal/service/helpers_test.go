package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/client"
	"somthing-shop/internal/config"
	"somthing-shop/internal/model"
	"somthing-shop/internal/notify"
	"somthing-shop/internal/repository"
	"somthing-shop/internal/service"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingDeliverer struct {
	mu      sync.Mutex
	entries []*model.ActivityLog
}

func (d *recordingDeliverer) Deliver(_ context.Context, entry *model.ActivityLog) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, entry)
}

func (d *recordingDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

type memoryStore struct {
	mu      sync.Mutex
	fail    error
	objects map[string][]byte
}

func (s *memoryStore) Upload(_ context.Context, bucket, objectPath string, r io.Reader) error {
	if s.fail != nil {
		return s.fail
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+objectPath] = data
	return nil
}

func (s *memoryStore) PublicURL(bucket, objectPath string) string {
	return "https://cdn.test/" + bucket + "/" + objectPath
}

type testEnv struct {
	db        *gorm.DB
	cache     *cache.Cache
	notes     *notify.Recorder
	deliverer *recordingDeliverer
	store     *memoryStore
	outcomes  map[string][]bool
	admin     *model.Profile

	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	couponRepo   repository.CouponRepository
	activityRepo repository.ActivityLogRepository

	products   service.ProductService
	categories service.CategoryService
	orders     service.OrderService
	coupons    service.CouponService
	customers  service.CustomerService
	activity   service.ActivityService
	dashboard  service.DashboardService
	shop       service.ShopService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
}

// newFileTestEnv backs the env with an on-disk database, the default deployment store.
func newFileTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, filepath.Join(t.TempDir(), "somthing.db"))
}

func newTestEnvAt(t *testing.T, url string) *testEnv {
	t.Helper()

	db, err := client.InitDBClient(config.Database{Driver: "sqlite", URL: url})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{
		db:        db,
		cache:     cache.New(time.Minute),
		notes:     &notify.Recorder{},
		deliverer: &recordingDeliverer{},
		store:     &memoryStore{objects: map[string][]byte{}},
		outcomes:  map[string][]bool{},

		productRepo:  repository.NewProductRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		orderRepo:    repository.NewOrderRepository(db),
		customerRepo: repository.NewCustomerRepository(db),
		couponRepo:   repository.NewCouponRepository(db),
		activityRepo: repository.NewActivityLogRepository(db),
	}

	var outcomesMu sync.Mutex
	observe := func(operation string, success bool) {
		outcomesMu.Lock()
		defer outcomesMu.Unlock()
		env.outcomes[operation] = append(env.outcomes[operation], success)
	}

	mutator := service.NewMutator(db, env.activityRepo, env.cache, env.notes, env.deliverer, observe)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env.products = service.NewProductService(mutator, env.cache, env.productRepo, env.store, env.notes)
	env.categories = service.NewCategoryService(mutator, env.cache, env.categoryRepo, env.productRepo)
	env.orders = service.NewOrderService(mutator, env.cache, env.orderRepo)
	env.coupons = service.NewCouponService(mutator, env.cache, env.couponRepo)
	env.customers = service.NewCustomerService(env.cache, env.customerRepo)
	env.activity = service.NewActivityService(env.cache, env.activityRepo)
	env.dashboard = service.NewDashboardService(env.cache, env.productRepo, env.orderRepo, env.customerRepo, env.couponRepo)
	env.shop = service.NewShopService(db, env.cache, env.productRepo, env.orderRepo, env.couponRepo, logger)

	env.admin = env.seedProfile(t, "Ada Admin", "ada@somthing.shop", true)
	return env
}

func (e *testEnv) seedProfile(t *testing.T, name, email string, admin bool) *model.Profile {
	t.Helper()
	p := &model.Profile{FullName: name, Email: email, IsAdmin: admin}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) seedProduct(t *testing.T, name string, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, e.productRepo.Create(context.Background(), e.db, p))
	return p
}

func (e *testEnv) seedOrder(t *testing.T, userID string, total string, status model.OrderStatus) *model.Order {
	t.Helper()
	o := &model.Order{
		UserID:      userID,
		Status:      status,
		TotalAmount: decimal.RequireFromString(total),
	}
	require.NoError(t, e.orderRepo.Create(context.Background(), e.db, o))
	return o
}

// logsFor reads the trail straight from the store, bypassing the cache.
func (e *testEnv) logsFor(t *testing.T, table, targetID string) []*model.ActivityLog {
	t.Helper()
	var entries []*model.ActivityLog
	require.NoError(t, e.db.Where("target_table = ? AND target_id = ?", table, targetID).Order("created_at ASC").Find(&entries).Error)
	return entries
}

func (e *testEnv) logCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.ActivityLog{}).Count(&n).Error)
	return n
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var errStoreDown = errors.New("storage unavailable")
