package usecase

import (
	"context"
	"errors"
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

type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (*response.OrderResponse, error)
	History(ctx context.Context, userID uuid.UUID) ([]response.OrderSummaryResponse, error)
	Detail(ctx context.Context, userID uuid.UUID, orderID string) (*response.OrderResponse, error)
}

type orderService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewOrderService(repo *repository.Repository, log *zap.Logger) OrderService {
	return &orderService{
		repo: repo,
		log:  log.With(zap.String("service", "order")),
	}
}

// Checkout turns the user's cart into an order. All validation happens
// against staged, in-memory state; nothing is persisted until
// PlaceOrder commits stock decrements, the order, its items, and the
// cart clear as one transaction. A failure on any line leaves the
// system exactly as it was.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Checkout validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	status := entity.OrderStatusPending
	if req.Status != "" {
		status = entity.OrderStatus(req.Status)
	}

	cartItems, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load cart for checkout", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cartItems) == 0 {
		s.log.Warn("Checkout on empty cart", zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("cart is empty")
	}

	now := time.Now()
	orderID := uuid.New()

	var total float64
	orderItems := make([]*entity.OrderItem, 0, len(cartItems))

	for _, item := range cartItems {
		product, err := s.repo.Product.FindByID(ctx, item.ProductID)
		if err != nil {
			s.log.Error("Failed to load product for checkout",
				zap.Error(err),
				zap.String("product_id", item.ProductID.String()))
			return nil, fmt.Errorf("load product: %w", err)
		}
		if product == nil {
			s.log.Warn("Checkout aborted, product missing",
				zap.String("product_id", item.ProductID.String()),
				zap.String("user_id", userID.String()))
			return nil, fmt.Errorf("product %s not found", item.ProductID.String())
		}

		if product.Stock < item.Quantity {
			s.log.Warn("Checkout aborted, insufficient stock",
				zap.String("product_id", product.ID.String()),
				zap.String("name", product.Name),
				zap.Int("requested", item.Quantity),
				zap.Int("available", product.Stock),
				zap.String("user_id", userID.String()))
			return nil, fmt.Errorf("insufficient stock for product %s", product.Name)
		}

		// Freeze the price now; later catalog changes must not reach
		// this order
		total += product.Price * float64(item.Quantity)
		orderItems = append(orderItems, &entity.OrderItem{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			OrderID:         orderID,
			ProductID:       product.ID,
			Quantity:        item.Quantity,
			PriceAtPurchase: product.Price,
		})
	}

	order := &entity.Order{
		BaseSimple: entity.BaseSimple{
			ID:        orderID,
			CreatedAt: now,
		},
		UserID:      userID,
		TotalAmount: total,
		Status:      status,
	}

	if err := s.repo.Order.PlaceOrder(ctx, order, orderItems); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// A concurrent checkout won the remaining stock between
			// the staged check and the commit
			s.log.Warn("Checkout lost stock race", zap.Error(err), zap.String("user_id", userID.String()))
			return nil, fmt.Errorf("insufficient stock, could not place the order")
		}
		s.log.Error("Failed to place order", zap.Error(err),
			zap.String("order_id", orderID.String()),
			zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.log.Info("Order placed",
		zap.String("order_id", orderID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("line_count", len(orderItems)),
		zap.Float64("total_amount", total))

	resp := response.OrderToResponse(order, orderItems)
	return &resp, nil
}

func (s *orderService) History(ctx context.Context, userID uuid.UUID) ([]response.OrderSummaryResponse, error) {
	orders, err := s.repo.Order.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to fetch order history", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("fetch order history: %w", err)
	}

	if len(orders) == 0 {
		return nil, fmt.Errorf("no orders found")
	}

	summaries := make([]response.OrderSummaryResponse, len(orders))
	for i, order := range orders {
		summaries[i] = response.OrderToSummary(order)
	}

	s.log.Info("Order history retrieved",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(orders)))

	return summaries, nil
}

func (s *orderService) Detail(ctx context.Context, userID uuid.UUID, orderID string) (*response.OrderResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID format %s: %w", orderID, err)
	}

	// Scoped lookup: another user's order looks exactly like a
	// missing one
	order, err := s.repo.Order.FindByIDForUser(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to fetch order", zap.Error(err),
			zap.String("order_id", orderID),
			zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("order not found")
	}

	items, err := s.repo.Order.FindItemsByOrderID(ctx, order.ID)
	if err != nil {
		s.log.Error("Failed to fetch order items", zap.Error(err), zap.String("order_id", orderID))
		return nil, fmt.Errorf("fetch order items: %w", err)
	}

	resp := response.OrderToResponse(order, items)
	return &resp, nil
}
