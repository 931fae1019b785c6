package service_test

import (
	"context"
	"somthing-shop/internal/dto"
	"somthing-shop/internal/model"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.seedProfile(t, "Cleo Customer", "cleo@example.com", false)
	env.seedProduct(t, "Poster", "20")
	env.seedOrder(t, customer.ID, "10.50", model.OrderStatusPending)
	env.seedOrder(t, customer.ID, "20.00", model.OrderStatusPending)
	env.seedOrder(t, customer.ID, "5.25", model.OrderStatusShipped)

	_, err := env.coupons.Create(ctx, env.admin.ID, &dto.CouponInput{
		Code: "ON", DiscountType: model.DiscountFixed, DiscountValue: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	_, err = env.coupons.Create(ctx, env.admin.ID, &dto.CouponInput{
		Code: "OFF", DiscountType: model.DiscountFixed, DiscountValue: decimal.NewFromInt(5), IsActive: boolPtr(false),
	})
	require.NoError(t, err)

	stats, err := env.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalProducts)
	assert.EqualValues(t, 3, stats.TotalOrders)
	assert.EqualValues(t, 2, stats.TotalCustomers)
	assert.EqualValues(t, 1, stats.ActiveCoupons)
	assert.EqualValues(t, 2, stats.PendingOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("35.75")), stats.TotalRevenue.String())
}

func TestDashboardEmpty(t *testing.T) {
	env := newTestEnv(t)

	stats, err := env.dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.PendingOrders)
	assert.True(t, stats.TotalRevenue.IsZero())
}

func TestDashboardRefreshesAfterMutation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.seedProfile(t, "Cleo Customer", "cleo@example.com", false)
	order := env.seedOrder(t, customer.ID, "12", model.OrderStatusPending)

	stats, err := env.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.PendingOrders)

	_, err = env.orders.UpdateStatus(ctx, env.admin.ID, order.ID, string(model.OrderStatusProcessing))
	require.NoError(t, err)

	stats, err = env.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.PendingOrders)
}
