package dto

import (
	"somthing-shop/internal/model"
	"somthing-shop/internal/pricing"

	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	CategoryID    string          `json:"category_id"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      *bool           `json:"is_active"`
	Tags          []string        `json:"tags"`
}

// ProductPatch carries only the fields the admin changed. An empty CategoryID uncategorizes the product.
type ProductPatch struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	CategoryID    *string          `json:"category_id"`
	ImageURL      *string          `json:"image_url"`
	StockQuantity *int             `json:"stock_quantity"`
	IsActive      *bool            `json:"is_active"`
	Tags          *[]string        `json:"tags"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsActive    *bool  `json:"is_active"`
}

type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

type CouponInput struct {
	Code           string              `json:"code"`
	DiscountType   model.DiscountType  `json:"discount_type"`
	DiscountValue  decimal.Decimal     `json:"discount_value"`
	MinOrderAmount decimal.NullDecimal `json:"min_order_amount"`
	MaxUses        *int                `json:"max_uses"`
	ExpiryDate     *string             `json:"expiry_date"`
	IsActive       *bool               `json:"is_active"`
}

type CouponPatch struct {
	Code           *string              `json:"code"`
	DiscountType   *model.DiscountType  `json:"discount_type"`
	DiscountValue  *decimal.Decimal     `json:"discount_value"`
	MinOrderAmount *decimal.NullDecimal `json:"min_order_amount"`
	MaxUses        *int                 `json:"max_uses"`
	ExpiryDate     *string              `json:"expiry_date"`
	IsActive       *bool                `json:"is_active"`
}

type CouponView struct {
	*model.Coupon
	State model.CouponState `json:"state"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

type DashboardStats struct {
	TotalProducts  int64           `json:"totalProducts"`
	TotalOrders    int64           `json:"totalOrders"`
	TotalCustomers int64           `json:"totalCustomers"`
	ActiveCoupons  int64           `json:"activeCoupons"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	PendingOrders  int64           `json:"pendingOrders"`
}

type LineRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Frame     string `json:"frame"`
	Quantity  int    `json:"quantity"`
}

type QuoteResponse struct {
	ProductID string          `json:"product_id"`
	Size      pricing.Option  `json:"size"`
	Frame     pricing.Option  `json:"frame"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

type CartRequest struct {
	Lines []*LineRequest `json:"lines"`
}

type CartSummary struct {
	Lines             []pricing.Line  `json:"lines"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Shipping          decimal.Decimal `json:"shipping"`
	Total             decimal.Decimal `json:"total"`
	UntilFreeShipping decimal.Decimal `json:"until_free_shipping"`
}

type CheckoutRequest struct {
	Lines           []*LineRequest        `json:"lines"`
	CouponCode      string                `json:"coupon_code"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
}

type Options struct {
	Sizes  []pricing.Option `json:"sizes"`
	Frames []pricing.Option `json:"frames"`
}
