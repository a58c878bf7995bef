package repository

import (
	"context"
	"fmt"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CartRepository interface {
	Create(ctx context.Context, item *entity.CartItem) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, item *entity.CartItem) error
	DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

func (r *cartRepository) Create(ctx context.Context, item *entity.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create cart item",
			zap.Error(err),
			zap.String("user_id", item.UserID.String()),
			zap.String("product_id", item.ProductID.String()),
		)
		return fmt.Errorf("create cart item for user %s: %w", item.UserID.String(), err)
	}

	return nil
}

// FindByUserID returns the user's cart lines in insertion order, which
// fixes the iteration order at checkout.
func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find cart items by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find cart items by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var items []*entity.CartItem
	for rows.Next() {
		var item entity.CartItem
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan cart item row", zap.Error(err))
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart item rows: %w", err)
	}

	return items, nil
}

func (r *cartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`

	var item entity.CartItem
	err := r.db.QueryRow(ctx, query, userID, productID).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart item",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()),
		)
		return nil, fmt.Errorf("find cart item for user %s product %s: %w",
			userID.String(), productID.String(), err)
	}

	return &item, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, item *entity.CartItem) error {
	query := `
		UPDATE cart_items
		SET quantity = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, item.ID, item.Quantity, item.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update cart item quantity",
			zap.Error(err),
			zap.String("cart_item_id", item.ID.String()),
		)
		return fmt.Errorf("update cart item %s: %w", item.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cart item %s not found", item.ID.String())
	}

	return nil
}

func (r *cartRepository) DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	result, err := r.db.Exec(ctx, query, userID, productID)
	if err != nil {
		r.log.Error("Failed to delete cart item",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()),
		)
		return fmt.Errorf("delete cart item for user %s product %s: %w",
			userID.String(), productID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cart item for product %s not found", productID.String())
	}

	return nil
}
