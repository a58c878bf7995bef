package repository

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrInsufficientStock is returned by PlaceOrder when the conditional
// stock decrement for any line affects zero rows. The whole transaction
// rolls back.
var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepository interface {
	// PlaceOrder commits the entire checkout unit of work in one
	// transaction: stock decrements, the order row, its items, and the
	// cart clear. On any failure nothing is observably applied.
	PlaceOrder(ctx context.Context, order *entity.Order, items []*entity.OrderItem) error

	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
	FindByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*entity.Order, error)
	FindItemsByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error)
	ItemExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

func (r *orderRepository) PlaceOrder(ctx context.Context, order *entity.Order, items []*entity.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin checkout transaction", zap.Error(err))
		return fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Debit stock first. The stock >= quantity guard makes concurrent
	// checkouts against the same product serialize correctly: the loser
	// sees zero rows affected and the whole unit rolls back.
	for _, item := range items {
		result, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`,
			item.ProductID, item.Quantity,
		)
		if err != nil {
			r.log.Error("Failed to decrement stock",
				zap.Error(err),
				zap.String("product_id", item.ProductID.String()),
				zap.Int("quantity", item.Quantity),
			)
			return fmt.Errorf("decrement stock for product %s: %w", item.ProductID.String(), err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("product %s: %w", item.ProductID.String(), ErrInsufficientStock)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, total_amount, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.UserID, order.TotalAmount, order.Status, order.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert order",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
		)
		return fmt.Errorf("insert order %s: %w", order.ID.String(), err)
	}

	for _, item := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, price_at_purchase, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.PriceAtPurchase, item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to insert order item",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
				zap.String("product_id", item.ProductID.String()),
			)
			return fmt.Errorf("insert order item for product %s: %w", item.ProductID.String(), err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, order.UserID)
	if err != nil {
		r.log.Error("Failed to clear cart",
			zap.Error(err),
			zap.String("user_id", order.UserID.String()),
		)
		return fmt.Errorf("clear cart for user %s: %w", order.UserID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit checkout transaction",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
		)
		return fmt.Errorf("commit checkout transaction: %w", err)
	}

	return nil
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	query := `
		SELECT id, user_id, total_amount, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find orders by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find orders by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var order entity.Order
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TotalAmount,
			&order.Status,
			&order.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

// FindByIDForUser scopes the lookup to the requesting user. A foreign
// order is indistinguishable from a missing one.
func (r *orderRepository) FindByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*entity.Order, error) {
	query := `
		SELECT id, user_id, total_amount, status, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`

	var order entity.Order
	err := r.db.QueryRow(ctx, query, orderID, userID).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.Status,
		&order.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find order %s for user %s: %w",
			orderID.String(), userID.String(), err)
	}

	return &order, nil
}

func (r *orderRepository) FindItemsByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price_at_purchase, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to find order items",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("find items for order %s: %w", orderID.String(), err)
	}
	defer rows.Close()

	var items []*entity.OrderItem
	for rows.Next() {
		var item entity.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.PriceAtPurchase,
			&item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan order item row", zap.Error(err))
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return items, nil
}

func (r *orderRepository) ItemExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM order_items WHERE product_id = $1)`

	var exists bool
	err := r.db.QueryRow(ctx, query, productID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check order item reference",
			zap.Error(err),
			zap.String("product_id", productID.String()),
		)
		return false, fmt.Errorf("check order items for product %s: %w", productID.String(), err)
	}

	return exists, nil
}
