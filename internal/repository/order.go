package repository

import (
	"context"
	"somthing-shop/internal/model"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderSummary is the projection the dashboard reduces over.
type OrderSummary struct {
	ID          string
	TotalAmount decimal.Decimal
	Status      model.OrderStatus
}

type OrderRepository interface {
	List(ctx context.Context) ([]*model.Order, error)
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	Summaries(ctx context.Context) ([]*OrderSummary, error)

	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status model.OrderStatus) (*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) List(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Customer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "full_name", "email", "phone")
		}).
		Preload("Items").
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "image_url")
		}).
		Order("created_at DESC").
		Find(&orders).
		Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) Summaries(ctx context.Context) ([]*OrderSummary, error) {
	var summaries []*OrderSummary
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("id", "total_amount", "status").
		Find(&summaries).
		Error

	if err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, status model.OrderStatus) (*model.Order, error) {
	var order model.Order
	err := tx.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("id = ?", orderID).First(&order).Error
	})

	return &order, err
}
