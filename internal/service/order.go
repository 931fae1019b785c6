package service

import (
	"context"
	"fmt"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/model"
	"somthing-shop/internal/repository"
	"strings"

	"gorm.io/gorm"
)

type OrderService interface {
	List(ctx context.Context, search string, status string) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, adminID, orderID, status string) (*model.Order, error)
}

type orderServiceImpl struct {
	mutator   *Mutator
	cache     *cache.Cache
	orderRepo repository.OrderRepository
}

func NewOrderService(mutator *Mutator, queryCache *cache.Cache, orderRepo repository.OrderRepository) OrderService {
	return &orderServiceImpl{
		mutator:   mutator,
		cache:     queryCache,
		orderRepo: orderRepo,
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// List filters by status ("" or "all" keeps every order) and by a search term
// matched against the order id and the purchaser's email and name.
func (s *orderServiceImpl) List(ctx context.Context, search string, status string) ([]*model.Order, error) {
	orders, err := cache.Fetch(ctx, s.cache, cache.KeyOrders, s.orderRepo.List)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(search))
	if query == "" && (status == "" || status == "all") {
		return orders, nil
	}

	filtered := make([]*model.Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && status != "all" && string(o.Status) != status {
			continue
		}
		if query != "" {
			matches := containsFold(o.ID, query)
			if o.Customer != nil {
				matches = matches || containsFold(o.Customer.Email, query) || containsFold(o.Customer.FullName, query)
			}
			if !matches {
				continue
			}
		}
		filtered = append(filtered, o)
	}
	return filtered, nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, adminID, orderID, status string) (*model.Order, error) {
	next := model.OrderStatus(status)
	if !next.IsValid() {
		return nil, s.mutator.reject(ctx, model.TableOrders, model.ActionUpdatedStatus, fmt.Errorf("%w: %q", ErrInvalidStatus, status))
	}

	var order *model.Order
	err := s.mutator.run(ctx, adminID, mutation{
		table:   model.TableOrders,
		action:  model.ActionUpdatedStatus,
		keys:    []string{cache.KeyOrders},
		success: "Order status updated!",
		apply: func(tx *gorm.DB) (string, map[string]any, error) {
			updated, err := s.orderRepo.UpdateStatus(ctx, tx, orderID, next)
			if err != nil {
				return "", nil, err
			}
			order = updated
			return orderID, map[string]any{"status": status}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
