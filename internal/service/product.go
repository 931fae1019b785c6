package service

import (
	"context"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/dto"
	"somthing-shop/internal/model"
	"somthing-shop/internal/notify"
	"somthing-shop/internal/repository"
	"somthing-shop/internal/storage"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductService interface {
	List(ctx context.Context, search string) ([]*model.Product, error)
	Create(ctx context.Context, adminID string, input *dto.ProductInput) (*model.Product, error)
	Update(ctx context.Context, adminID, productID string, patch *dto.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, adminID, productID string) error
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

type productServiceImpl struct {
	mutator     *Mutator
	cache       *cache.Cache
	productRepo repository.ProductRepository
	objectStore storage.ObjectStore
	notifier    notify.Notifier
	now         func() time.Time
}

func NewProductService(
	mutator *Mutator,
	queryCache *cache.Cache,
	productRepo repository.ProductRepository,
	objectStore storage.ObjectStore,
	notifier notify.Notifier,
) ProductService {
	return &productServiceImpl{
		mutator:     mutator,
		cache:       queryCache,
		productRepo: productRepo,
		objectStore: objectStore,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *productServiceImpl) List(ctx context.Context, search string) ([]*model.Product, error) {
	products, err := cache.Fetch(ctx, s.cache, cache.KeyProducts, s.productRepo.List)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(search))
	if query == "" {
		return products, nil
	}

	filtered := make([]*model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func validateProductInput(input *dto.ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return invalid("product name is required")
	}
	if input.Price.IsNegative() {
		return invalid("price must not be negative")
	}
	if input.StockQuantity < 0 {
		return invalid("stock quantity must not be negative")
	}
	return nil
}

func (s *productServiceImpl) Create(ctx context.Context, adminID string, input *dto.ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, s.mutator.reject(ctx, model.TableProducts, model.ActionCreated, err)
	}

	product := &model.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		ImageURL:      input.ImageURL,
		StockQuantity: input.StockQuantity,
		IsActive:      input.IsActive == nil || *input.IsActive,
		Tags:          datatypes.JSONSlice[string](input.Tags),
	}
	if input.CategoryID != "" {
		categoryID := input.CategoryID
		product.CategoryID = &categoryID
	}

	err := s.mutator.run(ctx, adminID, mutation{
		table:   model.TableProducts,
		action:  model.ActionCreated,
		keys:    []string{cache.KeyProducts},
		success: "Product created successfully!",
		apply: func(tx *gorm.DB) (string, map[string]any, error) {
			if err := s.productRepo.Create(ctx, tx, product); err != nil {
				return "", nil, err
			}
			return product.ID, map[string]any{"name": product.Name}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func productPatchFields(patch *dto.ProductPatch) (map[string]any, error) {
	fields := make(map[string]any)
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, invalid("product name is required")
		}
		fields["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, invalid("price must not be negative")
		}
		fields["price"] = *patch.Price
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			fields["category_id"] = nil
		} else {
			fields["category_id"] = *patch.CategoryID
		}
	}
	if patch.ImageURL != nil {
		fields["image_url"] = *patch.ImageURL
	}
	if patch.StockQuantity != nil {
		if *patch.StockQuantity < 0 {
			return nil, invalid("stock quantity must not be negative")
		}
		fields["stock_quantity"] = *patch.StockQuantity
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if patch.Tags != nil {
		fields["tags"] = datatypes.JSONSlice[string](*patch.Tags)
	}
	return fields, nil
}

func (s *productServiceImpl) Update(ctx context.Context, adminID, productID string, patch *dto.ProductPatch) (*model.Product, error) {
	fields, err := productPatchFields(patch)
	if err != nil {
		return nil, s.mutator.reject(ctx, model.TableProducts, model.ActionUpdated, err)
	}
	details := maps.Clone(fields)

	var product *model.Product
	err = s.mutator.run(ctx, adminID, mutation{
		table:   model.TableProducts,
		action:  model.ActionUpdated,
		keys:    []string{cache.KeyProducts},
		success: "Product updated successfully!",
		apply: func(tx *gorm.DB) (string, map[string]any, error) {
			updated, err := s.productRepo.Update(ctx, tx, productID, fields)
			if err != nil {
				return "", nil, err
			}
			product = updated
			return productID, details, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productServiceImpl) Delete(ctx context.Context, adminID, productID string) error {
	return s.mutator.run(ctx, adminID, mutation{
		table:   model.TableProducts,
		action:  model.ActionDeleted,
		keys:    []string{cache.KeyProducts},
		success: "Product deleted successfully!",
		apply: func(tx *gorm.DB) (string, map[string]any, error) {
			name, err := s.productRepo.Label(ctx, tx, productID)
			if err != nil {
				return "", nil, err
			}
			if err := s.productRepo.Delete(ctx, tx, productID); err != nil {
				return "", nil, err
			}
			return productID, map[string]any{"name": name}, nil
		},
	})
}

// UploadImage stores the file under posters/<unix-millis><ext> and returns its public URL.
func (s *productServiceImpl) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	objectPath := fmt.Sprintf("posters/%d%s", s.now().UnixMilli(), strings.ToLower(filepath.Ext(filename)))

	if err := s.objectStore.Upload(ctx, storage.BucketProductImages, objectPath, r); err != nil {
		s.notifier.Notify(ctx, notify.Notification{
			Title:       "Upload Error",
			Description: err.Error(),
			Variant:     notify.VariantDestructive,
		})
		return "", fmt.Errorf("upload product image: %w", err)
	}

	return s.objectStore.PublicURL(storage.BucketProductImages, objectPath), nil
}
