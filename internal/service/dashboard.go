package service

import (
	"context"
	"fmt"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/dto"
	"somthing-shop/internal/model"
	"somthing-shop/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
}

type dashboardServiceImpl struct {
	cache        *cache.Cache
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	couponRepo   repository.CouponRepository
}

func NewDashboardService(
	queryCache *cache.Cache,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	couponRepo repository.CouponRepository,
) DashboardService {
	return &dashboardServiceImpl{
		cache:        queryCache,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		couponRepo:   couponRepo,
	}
}

func (s *dashboardServiceImpl) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	stats, err := cache.Fetch(ctx, s.cache, cache.KeyStats, s.load)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

// load runs the four reads concurrently; any failure fails the whole snapshot.
func (s *dashboardServiceImpl) load(ctx context.Context) (*dto.DashboardStats, error) {
	var (
		stats     dto.DashboardStats
		summaries []*repository.OrderSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.productRepo.Count(gctx)
		stats.TotalProducts = n
		return err
	})
	g.Go(func() error {
		var err error
		summaries, err = s.orderRepo.Summaries(gctx)
		return err
	})
	g.Go(func() error {
		n, err := s.customerRepo.Count(gctx)
		stats.TotalCustomers = n
		return err
	})
	g.Go(func() error {
		n, err := s.couponRepo.CountActive(gctx)
		stats.ActiveCoupons = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.TotalOrders = int64(len(summaries))
	stats.TotalRevenue = decimal.Zero
	for _, o := range summaries {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		if o.Status == model.OrderStatusPending {
			stats.PendingOrders++
		}
	}

	return &stats, nil
}
