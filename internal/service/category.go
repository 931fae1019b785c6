package service

import (
	"context"
	"fmt"
	"maps"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/dto"
	"somthing-shop/internal/model"
	"somthing-shop/internal/repository"
	"strings"

	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context) ([]*model.Category, error)
	Create(ctx context.Context, adminID string, input *dto.CategoryInput) (*model.Category, error)
	Update(ctx context.Context, adminID, categoryID string, patch *dto.CategoryPatch) (*model.Category, error)
	Delete(ctx context.Context, adminID, categoryID string) error
}

type categoryServiceImpl struct {
	mutator      *Mutator
	cache        *cache.Cache
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCategoryService(
	mutator *Mutator,
	queryCache *cache.Cache,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) CategoryService {
	return &categoryServiceImpl{
		mutator:      mutator,
		cache:        queryCache,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *categoryServiceImpl) List(ctx context.Context) ([]*model.Category, error) {
	categories, err := cache.Fetch(ctx, s.cache, cache.KeyCategories, s.categoryRepo.List)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryServiceImpl) Create(ctx context.Context, adminID string, input *dto.CategoryInput) (*model.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, s.mutator.reject(ctx, model.TableCategories, model.ActionCreated, invalid("category name is required"))
	}

	category := &model.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsActive:    input.IsActive == nil || *input.IsActive,
	}

	err := s.mutator.run(ctx, adminID, mutation{
		table:   model.TableCategories,
		action:  model.ActionCreated,
		keys:    []string{cache.KeyCategories},
		success: "Category created successfully!",
		apply: func(tx *gorm.DB) (string, map[string]any, error) {
			if err := s.categoryRepo.Create(ctx, tx, category); err != nil {
				return "", nil, err
			}
			return category.ID, map[string]any{"name": category.Name}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryServiceImpl) Update(ctx context.Context, adminID, categoryID string, patch *dto.CategoryPatch) (*model.Category, error) {
	fields := make(map[string]any)
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, s.mutator.reject(ctx, model.TableCategories, model.ActionUpdated, invalid("category name is required"))
		}
		fields["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.ImageURL != nil {
		fields["image_url"] = *patch.ImageURL
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	details := maps.Clone(fields)

	var category *model.Category
	err := s.mutator.run(ctx, adminID, mutation{
		table:  model.TableCategories,
		action: model.ActionUpdated,
		// product rows embed the category name
		keys:    []string{cache.KeyCategories, cache.KeyProducts},
		success: "Category updated successfully!",
		apply: func(tx *gorm.DB) (string, map[string]any, error) {
			updated, err := s.categoryRepo.Update(ctx, tx, categoryID, fields)
			if err != nil {
				return "", nil, err
			}
			category = updated
			return categoryID, details, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// Delete leaves the category's products in place, uncategorized.
func (s *categoryServiceImpl) Delete(ctx context.Context, adminID, categoryID string) error {
	return s.mutator.run(ctx, adminID, mutation{
		table:   model.TableCategories,
		action:  model.ActionDeleted,
		keys:    []string{cache.KeyCategories, cache.KeyProducts},
		success: "Category deleted successfully!",
		apply: func(tx *gorm.DB) (string, map[string]any, error) {
			name, err := s.categoryRepo.Label(ctx, tx, categoryID)
			if err != nil {
				return "", nil, err
			}
			if err := s.productRepo.ClearCategory(ctx, tx, categoryID); err != nil {
				return "", nil, err
			}
			if err := s.categoryRepo.Delete(ctx, tx, categoryID); err != nil {
				return "", nil, err
			}
			return categoryID, map[string]any{"name": name}, nil
		},
	})
}
