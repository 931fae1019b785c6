package service

import (
	"context"
	"fmt"
	"maps"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/dto"
	"somthing-shop/internal/model"
	"somthing-shop/internal/repository"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CouponService interface {
	List(ctx context.Context) ([]*dto.CouponView, error)
	Create(ctx context.Context, adminID string, input *dto.CouponInput) (*model.Coupon, error)
	Update(ctx context.Context, adminID, couponID string, patch *dto.CouponPatch) (*model.Coupon, error)
	Delete(ctx context.Context, adminID, couponID string) error
}

type couponServiceImpl struct {
	mutator    *Mutator
	cache      *cache.Cache
	couponRepo repository.CouponRepository
	now        func() time.Time
}

func NewCouponService(mutator *Mutator, queryCache *cache.Cache, couponRepo repository.CouponRepository) CouponService {
	return &couponServiceImpl{
		mutator:    mutator,
		cache:      queryCache,
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

func (s *couponServiceImpl) List(ctx context.Context) ([]*dto.CouponView, error) {
	coupons, err := cache.Fetch(ctx, s.cache, cache.KeyCoupons, s.couponRepo.List)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	now := s.now()
	views := make([]*dto.CouponView, len(coupons))
	for i, c := range coupons {
		views[i] = &dto.CouponView{Coupon: c, State: c.State(now)}
	}
	return views, nil
}

func parseExpiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, invalid("expiry_date must be RFC 3339: %v", err)
	}
	return &t, nil
}

// optionalAmount treats a missing or zero minimum as "no minimum".
func optionalAmount(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid || d.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return d
}

func optionalUses(n *int) *int {
	if n == nil || *n == 0 {
		return nil
	}
	return n
}

func newCoupon(input *dto.CouponInput) (*model.Coupon, error) {
	code := model.NormalizeCouponCode(input.Code)
	if code == "" {
		return nil, invalid("coupon code is required")
	}
	if !input.DiscountType.IsValid() {
		return nil, invalid("discount type must be percentage or fixed")
	}
	if !input.DiscountValue.IsPositive() {
		return nil, invalid("discount value must be positive")
	}
	if input.MaxUses != nil && *input.MaxUses < 0 {
		return nil, invalid("max uses must not be negative")
	}

	var expiry *time.Time
	if input.ExpiryDate != nil {
		var err error
		if expiry, err = parseExpiry(*input.ExpiryDate); err != nil {
			return nil, err
		}
	}

	return &model.Coupon{
		Code:           code,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		MinOrderAmount: optionalAmount(input.MinOrderAmount),
		MaxUses:        optionalUses(input.MaxUses),
		ExpiryDate:     expiry,
		IsActive:       input.IsActive == nil || *input.IsActive,
	}, nil
}

func (s *couponServiceImpl) Create(ctx context.Context, adminID string, input *dto.CouponInput) (*model.Coupon, error) {
	coupon, err := newCoupon(input)
	if err != nil {
		return nil, s.mutator.reject(ctx, model.TableCoupons, model.ActionCreated, err)
	}

	err = s.mutator.run(ctx, adminID, mutation{
		table:   model.TableCoupons,
		action:  model.ActionCreated,
		keys:    []string{cache.KeyCoupons},
		success: "Coupon created successfully!",
		apply: func(tx *gorm.DB) (string, map[string]any, error) {
			if err := s.couponRepo.Create(ctx, tx, coupon); err != nil {
				return "", nil, err
			}
			return coupon.ID, map[string]any{"code": coupon.Code}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return coupon, nil
}

func couponPatchFields(patch *dto.CouponPatch) (map[string]any, error) {
	fields := make(map[string]any)
	if patch.Code != nil {
		code := model.NormalizeCouponCode(*patch.Code)
		if code == "" {
			return nil, invalid("coupon code is required")
		}
		fields["code"] = code
	}
	if patch.DiscountType != nil {
		if !patch.DiscountType.IsValid() {
			return nil, invalid("discount type must be percentage or fixed")
		}
		fields["discount_type"] = *patch.DiscountType
	}
	if patch.DiscountValue != nil {
		if !patch.DiscountValue.IsPositive() {
			return nil, invalid("discount value must be positive")
		}
		fields["discount_value"] = *patch.DiscountValue
	}
	if patch.MinOrderAmount != nil {
		if amount := optionalAmount(*patch.MinOrderAmount); amount.Valid {
			fields["min_order_amount"] = amount.Decimal
		} else {
			fields["min_order_amount"] = nil
		}
	}
	if patch.MaxUses != nil {
		if *patch.MaxUses < 0 {
			return nil, invalid("max uses must not be negative")
		}
		if uses := optionalUses(patch.MaxUses); uses != nil {
			fields["max_uses"] = *uses
		} else {
			fields["max_uses"] = nil
		}
	}
	if patch.ExpiryDate != nil {
		expiry, err := parseExpiry(*patch.ExpiryDate)
		if err != nil {
			return nil, err
		}
		if expiry != nil {
			fields["expiry_date"] = *expiry
		} else {
			fields["expiry_date"] = nil
		}
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	return fields, nil
}

func (s *couponServiceImpl) Update(ctx context.Context, adminID, couponID string, patch *dto.CouponPatch) (*model.Coupon, error) {
	fields, err := couponPatchFields(patch)
	if err != nil {
		return nil, s.mutator.reject(ctx, model.TableCoupons, model.ActionUpdated, err)
	}
	details := maps.Clone(fields)

	var coupon *model.Coupon
	err = s.mutator.run(ctx, adminID, mutation{
		table:   model.TableCoupons,
		action:  model.ActionUpdated,
		keys:    []string{cache.KeyCoupons},
		success: "Coupon updated successfully!",
		apply: func(tx *gorm.DB) (string, map[string]any, error) {
			updated, err := s.couponRepo.Update(ctx, tx, couponID, fields)
			if err != nil {
				return "", nil, err
			}
			coupon = updated
			return couponID, details, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return coupon, nil
}

func (s *couponServiceImpl) Delete(ctx context.Context, adminID, couponID string) error {
	return s.mutator.run(ctx, adminID, mutation{
		table:   model.TableCoupons,
		action:  model.ActionDeleted,
		keys:    []string{cache.KeyCoupons},
		success: "Coupon deleted successfully!",
		apply: func(tx *gorm.DB) (string, map[string]any, error) {
			code, err := s.couponRepo.Label(ctx, tx, couponID)
			if err != nil {
				return "", nil, err
			}
			if err := s.couponRepo.Delete(ctx, tx, couponID); err != nil {
				return "", nil, err
			}
			return couponID, map[string]any{"code": code}, nil
		},
	})
}
