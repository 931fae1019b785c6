package repository

import (
	"context"
	"errors"
	"somthing-shop/internal/model"
	"time"

	"gorm.io/gorm"
)

var ErrCouponExhausted = errors.New("coupon has reached its usage limit")

type CouponRepository interface {
	List(ctx context.Context) ([]*model.Coupon, error)
	CountActive(ctx context.Context) (int64, error)
	FindByCode(ctx context.Context, tx *gorm.DB, code string) (*model.Coupon, error)

	Create(ctx context.Context, tx *gorm.DB, coupon *model.Coupon) error
	Update(ctx context.Context, tx *gorm.DB, couponID string, fields map[string]any) (*model.Coupon, error)
	Delete(ctx context.Context, tx *gorm.DB, couponID string) error
	Label(ctx context.Context, tx *gorm.DB, couponID string) (string, error)
	IncrementUsage(ctx context.Context, tx *gorm.DB, couponID string) error
}

type couponRepoImpl struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepoImpl{
		db: db,
	}
}

func (r *couponRepoImpl) List(ctx context.Context) ([]*model.Coupon, error) {
	var coupons []*model.Coupon
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&coupons).
		Error

	if err != nil {
		return nil, err
	}

	return coupons, nil
}

func (r *couponRepoImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("is_active = ?", true).
		Count(&count).Error

	return count, err
}

func (r *couponRepoImpl) FindByCode(ctx context.Context, tx *gorm.DB, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := tx.WithContext(ctx).
		Where("code = ?", model.NormalizeCouponCode(code)).
		First(&coupon).Error

	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *couponRepoImpl) Create(ctx context.Context, tx *gorm.DB, coupon *model.Coupon) error {
	return tx.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepoImpl) Update(ctx context.Context, tx *gorm.DB, couponID string, fields map[string]any) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := tx.WithContext(ctx).Where("id = ?", couponID).First(&coupon).Error; err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := tx.WithContext(ctx).Model(&coupon).Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	if err := tx.WithContext(ctx).Where("id = ?", couponID).First(&coupon).Error; err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *couponRepoImpl) Delete(ctx context.Context, tx *gorm.DB, couponID string) error {
	result := tx.WithContext(ctx).
		Where("id = ?", couponID).
		Delete(&model.Coupon{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *couponRepoImpl) Label(ctx context.Context, tx *gorm.DB, couponID string) (string, error) {
	var coupon model.Coupon
	err := tx.WithContext(ctx).
		Select("id", "code").
		Where("id = ?", couponID).
		First(&coupon).Error

	if err != nil {
		return "", err
	}

	return coupon.Code, nil
}

// IncrementUsage bumps used_count only while the coupon is under max_uses,
// so two checkouts cannot both take the last use.
func (r *couponRepoImpl) IncrementUsage(ctx context.Context, tx *gorm.DB, couponID string) error {
	result := tx.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ?", couponID).
		Where("max_uses IS NULL OR used_count < max_uses").
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count + ?", 1),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCouponExhausted
	}

	return nil
}
