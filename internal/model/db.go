package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TableProducts     = "products"
	TableCategories   = "categories"
	TableOrders       = "orders"
	TableOrderItems   = "order_items"
	TableProfiles     = "profiles"
	TableCoupons      = "coupons"
	TableActivityLogs = "admin_activity_logs"
)

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

type Product struct {
	ID            string                      `gorm:"primaryKey;size:36;not null" json:"id"`
	Name          string                      `gorm:"size:255;not null" json:"name"`
	Description   string                      `gorm:"type:text" json:"description"`
	Price         decimal.Decimal             `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID    *string                     `gorm:"size:36;index" json:"category_id"`
	Category      *Category                   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ImageURL      string                      `gorm:"size:512" json:"image_url"`
	StockQuantity int                         `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool                        `gorm:"not null" json:"is_active"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt     time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (Product) TableName() string { return TableProducts }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

type Category struct {
	ID          string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string { return TableCategories }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// Profile is both a storefront customer and, when IsAdmin is set, a back-office user.
type Profile struct {
	ID        string    `gorm:"primaryKey;size:36;not null" json:"id"`
	FullName  string    `gorm:"size:255" json:"full_name"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Profile) TableName() string { return TableProfiles }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
