package repository

import (
	"context"
	"somthing-shop/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]*model.Category, error)

	Create(ctx context.Context, tx *gorm.DB, category *model.Category) error
	Update(ctx context.Context, tx *gorm.DB, categoryID string, fields map[string]any) (*model.Category, error)
	Delete(ctx context.Context, tx *gorm.DB, categoryID string) error
	Label(ctx context.Context, tx *gorm.DB, categoryID string) (string, error)
}

type categoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepoImpl{
		db: db,
	}
}

func (r *categoryRepoImpl) List(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).
		Error

	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *categoryRepoImpl) Create(ctx context.Context, tx *gorm.DB, category *model.Category) error {
	return tx.WithContext(ctx).Create(category).Error
}

func (r *categoryRepoImpl) Update(ctx context.Context, tx *gorm.DB, categoryID string, fields map[string]any) (*model.Category, error) {
	var category model.Category
	if err := tx.WithContext(ctx).Where("id = ?", categoryID).First(&category).Error; err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := tx.WithContext(ctx).Model(&category).Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	if err := tx.WithContext(ctx).Where("id = ?", categoryID).First(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryRepoImpl) Delete(ctx context.Context, tx *gorm.DB, categoryID string) error {
	result := tx.WithContext(ctx).
		Where("id = ?", categoryID).
		Delete(&model.Category{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *categoryRepoImpl) Label(ctx context.Context, tx *gorm.DB, categoryID string) (string, error) {
	var category model.Category
	err := tx.WithContext(ctx).
		Select("id", "name").
		Where("id = ?", categoryID).
		First(&category).Error

	if err != nil {
		return "", err
	}

	return category.Name, nil
}
