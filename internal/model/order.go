package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type Order struct {
	ID              string                               `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID          string                               `gorm:"size:36;index;not null" json:"user_id"`
	Customer        *Profile                             `gorm:"foreignKey:UserID" json:"customer,omitempty"`
	Status          OrderStatus                          `gorm:"size:32;index;not null;default:pending" json:"status"`
	TotalAmount     decimal.Decimal                      `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	DiscountAmount  decimal.Decimal                      `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	ShippingAddress datatypes.JSONType[ShippingAddress] `json:"shipping_address"`
	CouponID        *string                              `gorm:"size:36" json:"coupon_id"`
	CreatedAt       time.Time                            `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time                            `json:"updated_at"`
	Items           []OrderItem                          `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string { return TableOrders }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// OrderItem keeps the unit price paid at checkout, independent of the product's current price.
type OrderItem struct {
	ID        string          `gorm:"primaryKey;size:36;not null" json:"id"`
	OrderID   string          `gorm:"size:36;index;not null" json:"order_id"`
	ProductID string          `gorm:"size:36;index;not null" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Size      string          `gorm:"size:32" json:"size"`
	Frame     string          `gorm:"size:32" json:"frame"`
}

func (OrderItem) TableName() string { return TableOrderItems }

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}
