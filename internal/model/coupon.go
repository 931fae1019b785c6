package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

type CouponState string

const (
	CouponActive   CouponState = "Active"
	CouponExpired  CouponState = "Expired"
	CouponInactive CouponState = "Inactive"
)

type Coupon struct {
	ID             string              `gorm:"primaryKey;size:36;not null" json:"id"`
	Code           string              `gorm:"size:64;uniqueIndex;not null" json:"code"`
	DiscountType   DiscountType        `gorm:"size:16;not null" json:"discount_type"`
	DiscountValue  decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	MinOrderAmount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"min_order_amount"`
	MaxUses        *int                `json:"max_uses"`
	UsedCount      int                 `gorm:"not null;default:0" json:"used_count"`
	ExpiryDate     *time.Time          `json:"expiry_date"`
	IsActive       bool                `gorm:"not null;index" json:"is_active"`
	CreatedAt      time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func (Coupon) TableName() string { return TableCoupons }

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}

// State classifies the coupon for display. Expiry wins over the active flag.
func (c *Coupon) State(now time.Time) CouponState {
	switch {
	case c.IsExpired(now):
		return CouponExpired
	case c.IsActive:
		return CouponActive
	default:
		return CouponInactive
	}
}

func (c *Coupon) Exhausted() bool {
	return c.MaxUses != nil && c.UsedCount >= *c.MaxUses
}

// Discount returns the amount taken off subtotal, never more than subtotal itself.
func (c *Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		amount = subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	case DiscountFixed:
		amount = c.DiscountValue
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
