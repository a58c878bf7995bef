package usecase

import (
	"context"
	"fmt"
	"time"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/dto/response"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	Add(ctx context.Context, userID uuid.UUID, req *request.CartAddRequest) (*response.CartItemResponse, error)
	View(ctx context.Context, userID uuid.UUID) ([]response.CartItemResponse, error)
	Update(ctx context.Context, userID uuid.UUID, productID string, req *request.CartUpdateRequest) (*response.CartItemResponse, error)
	Remove(ctx context.Context, userID uuid.UUID, productID string) error
}

type cartService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) CartService {
	return &cartService{
		repo: repo,
		log:  log.With(zap.String("service", "cart")),
	}
}

// Add upserts a cart line: an existing (user, product) line gets its
// quantity incremented, never duplicated. Stock is not reserved here;
// it is only checked and debited at checkout.
func (s *cartService) Add(ctx context.Context, userID uuid.UUID, req *request.CartAddRequest) (*response.CartItemResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Add to cart validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID format %s: %w", req.ProductID, err)
	}

	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		s.log.Error("Failed to find product", zap.Error(err), zap.String("product_id", req.ProductID))
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product not found")
	}

	if product.Stock <= 0 {
		s.log.Warn("Add to cart blocked, product out of stock",
			zap.String("product_id", req.ProductID),
			zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("product is out of stock")
	}

	item, err := s.repo.Cart.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		s.log.Error("Failed to find cart item", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find cart item: %w", err)
	}

	now := time.Now()
	if item != nil {
		item.Quantity += req.Quantity
		item.UpdatedAt = now

		if err := s.repo.Cart.UpdateQuantity(ctx, item); err != nil {
			s.log.Error("Failed to increment cart quantity", zap.Error(err),
				zap.String("cart_item_id", item.ID.String()))
			return nil, fmt.Errorf("update cart item: %w", err)
		}

		s.log.Info("Cart quantity incremented",
			zap.String("user_id", userID.String()),
			zap.String("product_id", req.ProductID),
			zap.Int("quantity", item.Quantity))
	} else {
		item = &entity.CartItem{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			UserID:    userID,
			ProductID: productID,
			Quantity:  req.Quantity,
		}

		if err := s.repo.Cart.Create(ctx, item); err != nil {
			s.log.Error("Failed to create cart item", zap.Error(err),
				zap.String("user_id", userID.String()))
			return nil, fmt.Errorf("create cart item: %w", err)
		}

		s.log.Info("Cart item added",
			zap.String("user_id", userID.String()),
			zap.String("product_id", req.ProductID),
			zap.Int("quantity", item.Quantity))
	}

	resp := response.CartItemToResponse(item)
	return &resp, nil
}

func (s *cartService) View(ctx context.Context, userID uuid.UUID) ([]response.CartItemResponse, error) {
	items, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to fetch cart", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("fetch cart: %w", err)
	}

	return response.CartItemsToResponse(items), nil
}

func (s *cartService) Update(ctx context.Context, userID uuid.UUID, productID string, req *request.CartUpdateRequest) (*response.CartItemResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update cart validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID format %s: %w", productID, err)
	}

	item, err := s.repo.Cart.FindByUserAndProduct(ctx, userID, pid)
	if err != nil {
		s.log.Error("Failed to find cart item", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("cart item not found")
	}

	item.Quantity = req.Quantity
	item.UpdatedAt = time.Now()

	if err := s.repo.Cart.UpdateQuantity(ctx, item); err != nil {
		s.log.Error("Failed to update cart quantity", zap.Error(err),
			zap.String("cart_item_id", item.ID.String()))
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	s.log.Info("Cart quantity updated",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID),
		zap.Int("quantity", item.Quantity))

	resp := response.CartItemToResponse(item)
	return &resp, nil
}

func (s *cartService) Remove(ctx context.Context, userID uuid.UUID, productID string) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return fmt.Errorf("invalid product ID format %s: %w", productID, err)
	}

	item, err := s.repo.Cart.FindByUserAndProduct(ctx, userID, pid)
	if err != nil {
		s.log.Error("Failed to find cart item", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("find cart item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("cart item not found")
	}

	if err := s.repo.Cart.DeleteByUserAndProduct(ctx, userID, pid); err != nil {
		s.log.Error("Failed to remove cart item", zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID))
		return fmt.Errorf("remove cart item: %w", err)
	}

	s.log.Info("Cart item removed",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID))
	return nil
}
