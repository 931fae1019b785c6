package repository

import (
	"context"
	"errors"
	"somthing-shop/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOutOfStock = errors.New("not enough stock")

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
)

type ProductRepository interface {
	List(ctx context.Context) ([]*model.Product, error)
	ListActive(ctx context.Context, categoryName string, sort ProductSort) ([]*model.Product, error)
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error)
	Count(ctx context.Context) (int64, error)

	Create(ctx context.Context, tx *gorm.DB, product *model.Product) error
	Update(ctx context.Context, tx *gorm.DB, productID string, fields map[string]any) (*model.Product, error)
	Delete(ctx context.Context, tx *gorm.DB, productID string) error
	Label(ctx context.Context, tx *gorm.DB, productID string) (string, error)
	ClearCategory(ctx context.Context, tx *gorm.DB, categoryID string) error
	ReserveStock(ctx context.Context, tx *gorm.DB, productID string, quantity int) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) List(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListActive(ctx context.Context, categoryName string, sort ProductSort) ([]*model.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("products.is_active = ?", true)

	if categoryName != "" {
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("LOWER(categories.name) = LOWER(?)", categoryName)
	}

	switch sort {
	case SortPriceAsc:
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Table: model.TableProducts, Name: "price"}})
	case SortPriceDesc:
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Table: model.TableProducts, Name: "price"}, Desc: true})
	default:
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Table: model.TableProducts, Name: "created_at"}, Desc: true})
	}

	var products []*model.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepoImpl) Create(ctx context.Context, tx *gorm.DB, product *model.Product) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, tx *gorm.DB, productID string, fields map[string]any) (*model.Product, error) {
	var product model.Product
	if err := tx.WithContext(ctx).Where("id = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := tx.WithContext(ctx).Model(&product).Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	// re-read so the response carries stored values, not the patch
	if err := tx.WithContext(ctx).Where("id = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) Delete(ctx context.Context, tx *gorm.DB, productID string) error {
	result := tx.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&model.Product{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *productRepoImpl) Label(ctx context.Context, tx *gorm.DB, productID string) (string, error) {
	var product model.Product
	err := tx.WithContext(ctx).
		Select("id", "name").
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return "", err
	}

	return product.Name, nil
}

func (r *productRepoImpl) ClearCategory(ctx context.Context, tx *gorm.DB, categoryID string) error {
	return tx.WithContext(ctx).
		Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).
		Error
}

// ReserveStock takes quantity units off the shelf in one statement; it never
// drives stock_quantity below zero.
func (r *productRepoImpl) ReserveStock(ctx context.Context, tx *gorm.DB, productID string, quantity int) error {
	result := tx.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOutOfStock
	}

	return nil
}
