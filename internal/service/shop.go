package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/dto"
	"somthing-shop/internal/model"
	"somthing-shop/internal/pricing"
	"somthing-shop/internal/repository"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ShopService is the storefront side: browsing, pricing and checkout.
type ShopService interface {
	ListProducts(ctx context.Context, category string, sort string) ([]*model.Product, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	Options() *dto.Options
	Quote(ctx context.Context, line *dto.LineRequest) (*dto.QuoteResponse, error)
	PriceCart(ctx context.Context, req *dto.CartRequest) (*dto.CartSummary, error)
	Checkout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*model.Order, error)
}

type shopServiceImpl struct {
	db          *gorm.DB
	cache       *cache.Cache
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	couponRepo  repository.CouponRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewShopService(
	db *gorm.DB,
	queryCache *cache.Cache,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	couponRepo repository.CouponRepository,
	logger *slog.Logger,
) ShopService {
	return &shopServiceImpl{
		db:          db,
		cache:       queryCache,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		couponRepo:  couponRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *shopServiceImpl) ListProducts(ctx context.Context, category string, sort string) ([]*model.Product, error) {
	products, err := s.productRepo.ListActive(ctx, category, repository.ProductSort(sort))
	if err != nil {
		return nil, fmt.Errorf("list shop products: %w", err)
	}
	return products, nil
}

func (s *shopServiceImpl) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, translate(err)
	}
	if !product.IsActive {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *shopServiceImpl) Options() *dto.Options {
	return &dto.Options{Sizes: pricing.Sizes, Frames: pricing.Frames}
}

// configure prices one line; an empty size or frame keeps the product page default.
func configure(product *model.Product, line *dto.LineRequest) (*pricing.Configuration, error) {
	if !product.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrProductInactive, product.Name)
	}

	config := pricing.NewConfiguration(product.Price)
	if line.Size != "" {
		size, err := pricing.LookupSize(line.Size)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		config.Size = size
	}
	if line.Frame != "" {
		frame, err := pricing.LookupFrame(line.Frame)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		config.Frame = frame
	}
	config.SetQuantity(line.Quantity)
	return config, nil
}

func (s *shopServiceImpl) Quote(ctx context.Context, line *dto.LineRequest) (*dto.QuoteResponse, error) {
	product, err := s.productRepo.FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, translate(err)
	}

	config, err := configure(product, line)
	if err != nil {
		return nil, err
	}

	return &dto.QuoteResponse{
		ProductID: product.ID,
		Size:      config.Size,
		Frame:     config.Frame,
		Quantity:  config.Quantity,
		UnitPrice: config.UnitPrice(),
		Total:     config.Total(),
	}, nil
}

// buildCart reprices every line from the stored product price.
func (s *shopServiceImpl) buildCart(ctx context.Context, lines []*dto.LineRequest) (*pricing.Cart, error) {
	if len(lines) == 0 {
		return nil, invalid("cart is empty")
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.productRepo.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	byID := make(map[string]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	cart := &pricing.Cart{}
	for _, l := range lines {
		product, ok := byID[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, l.ProductID)
		}
		config, err := configure(product, l)
		if err != nil {
			return nil, err
		}
		cart.Add(pricing.Line{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      config.Size.Name,
			Frame:     config.Frame.Name,
			UnitPrice: config.UnitPrice(),
			Quantity:  config.Quantity,
		})
	}
	return cart, nil
}

func summarize(cart *pricing.Cart) *dto.CartSummary {
	return &dto.CartSummary{
		Lines:             cart.Lines,
		Subtotal:          cart.Subtotal(),
		Shipping:          cart.Shipping(),
		Total:             cart.Total(),
		UntilFreeShipping: cart.UntilFreeShipping(),
	}
}

func (s *shopServiceImpl) PriceCart(ctx context.Context, req *dto.CartRequest) (*dto.CartSummary, error) {
	cart, err := s.buildCart(ctx, req.Lines)
	if err != nil {
		return nil, err
	}
	return summarize(cart), nil
}

// redeem validates the coupon against subtotal and takes one use of it.
func (s *shopServiceImpl) redeem(ctx context.Context, tx *gorm.DB, code string, subtotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, tx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrCouponUnavailable, model.NormalizeCouponCode(code))
	}
	if err != nil {
		return nil, decimal.Zero, err
	}

	if !coupon.IsActive || coupon.IsExpired(s.now()) {
		return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrCouponUnavailable, coupon.Code)
	}
	if coupon.MinOrderAmount.Valid && subtotal.LessThan(coupon.MinOrderAmount.Decimal) {
		return nil, decimal.Zero, fmt.Errorf("%w: minimum is %s", ErrCouponMinOrder, coupon.MinOrderAmount.Decimal.StringFixed(2))
	}
	if err := s.couponRepo.IncrementUsage(ctx, tx, coupon.ID); err != nil {
		if errors.Is(err, repository.ErrCouponExhausted) {
			return nil, decimal.Zero, fmt.Errorf("%w: %w", ErrCouponUnavailable, err)
		}
		return nil, decimal.Zero, err
	}

	return coupon, coupon.Discount(subtotal), nil
}

// Checkout turns the cart into a pending order and reserves its stock. Totals
// are always computed here; shipping is decided on the pre-discount subtotal.
func (s *shopServiceImpl) Checkout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*model.Order, error) {
	cart, err := s.buildCart(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	subtotal := cart.Subtotal()
	order := &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		DiscountAmount:  decimal.Zero,
		ShippingAddress: datatypes.NewJSONType(req.ShippingAddress),
	}
	for _, l := range cart.Lines {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
			Size:      l.Size,
			Frame:     l.Frame,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.CouponCode != "" {
			coupon, discount, err := s.redeem(ctx, tx, req.CouponCode, subtotal)
			if err != nil {
				return err
			}
			order.CouponID = &coupon.ID
			order.DiscountAmount = discount
		}

		for _, l := range cart.Lines {
			if err := s.productRepo.ReserveStock(ctx, tx, l.ProductID, l.Quantity); err != nil {
				if errors.Is(err, repository.ErrOutOfStock) {
					return fmt.Errorf("%w: %s", ErrOutOfStock, l.Name)
				}
				return err
			}
		}

		order.TotalAmount = subtotal.Sub(order.DiscountAmount).Add(cart.Shipping())
		return s.orderRepo.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, translate(err)
	}

	s.cache.Invalidate(cache.KeyOrders, cache.KeyStats, cache.KeyCoupons, cache.KeyProducts)
	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.String("total", order.TotalAmount.StringFixed(2)),
	)

	return order, nil
}
