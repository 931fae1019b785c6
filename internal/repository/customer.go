package repository

import (
	"context"
	"somthing-shop/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	List(ctx context.Context) ([]*model.Profile, error)
	FindByID(ctx context.Context, profileID string) (*model.Profile, error)
	Count(ctx context.Context) (int64, error)
}

type customerRepoImpl struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepoImpl{
		db: db,
	}
}

func (r *customerRepoImpl) List(ctx context.Context) ([]*model.Profile, error) {
	var profiles []*model.Profile
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&profiles).
		Error

	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *customerRepoImpl) FindByID(ctx context.Context, profileID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("id = ?", profileID).
		First(&profile).Error

	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *customerRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Count(&count).Error
	return count, err
}
