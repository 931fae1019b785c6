package service

import (
	"context"
	"fmt"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/model"
	"somthing-shop/internal/repository"
	"strings"
)

const activityPageSize = 100

type CustomerService interface {
	List(ctx context.Context, search string) ([]*model.Profile, error)
}

type customerServiceImpl struct {
	cache        *cache.Cache
	customerRepo repository.CustomerRepository
}

func NewCustomerService(queryCache *cache.Cache, customerRepo repository.CustomerRepository) CustomerService {
	return &customerServiceImpl{
		cache:        queryCache,
		customerRepo: customerRepo,
	}
}

func (s *customerServiceImpl) List(ctx context.Context, search string) ([]*model.Profile, error) {
	customers, err := cache.Fetch(ctx, s.cache, cache.KeyCustomers, s.customerRepo.List)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(search))
	if query == "" {
		return customers, nil
	}

	filtered := make([]*model.Profile, 0, len(customers))
	for _, c := range customers {
		if containsFold(c.FullName, query) || containsFold(c.Email, query) || containsFold(c.Phone, query) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

type ActivityService interface {
	List(ctx context.Context) ([]*model.ActivityLog, error)
}

type activityServiceImpl struct {
	cache        *cache.Cache
	activityRepo repository.ActivityLogRepository
}

func NewActivityService(queryCache *cache.Cache, activityRepo repository.ActivityLogRepository) ActivityService {
	return &activityServiceImpl{
		cache:        queryCache,
		activityRepo: activityRepo,
	}
}

// List returns the latest page of the trail, newest first.
func (s *activityServiceImpl) List(ctx context.Context) ([]*model.ActivityLog, error) {
	entries, err := cache.Fetch(ctx, s.cache, cache.KeyActivity, func(ctx context.Context) ([]*model.ActivityLog, error) {
		return s.activityRepo.List(ctx, activityPageSize)
	})
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}
