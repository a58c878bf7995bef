package repository

import (
	"context"
	"fmt"
	"strings"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ProductFilter narrows and orders the public catalog listing.
// SortBy must be one of the whitelisted column names; anything else
// falls back to price.
type ProductFilter struct {
	Category string
	MinPrice float64
	MaxPrice float64
	SortBy   string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindByName(ctx context.Context, name string) (*entity.Product, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	CountAll(ctx context.Context) (int64, error)
	FindFiltered(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Search(ctx context.Context, keyword string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProductRepository(db database.PgxIface, log *zap.Logger) ProductRepository {
	return &productRepository{
		db:  db,
		log: log.With(zap.String("repository", "product")),
	}
}

const productColumns = `id, name, description, price, stock, category, image_url, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var product entity.Product
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Category,
		&product.ImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock, category, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.Category,
		product.ImageURL,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create product",
			zap.Error(err),
			zap.String("name", product.Name),
		)
		return fmt.Errorf("create product %s: %w", product.Name, err)
	}

	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product by ID",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return nil, fmt.Errorf("find product by ID %s: %w", id.String(), err)
	}

	return product, nil
}

func (r *productRepository) FindByName(ctx context.Context, name string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = $1`

	product, err := scanProduct(r.db.QueryRow(ctx, query, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product by name",
			zap.Error(err),
			zap.String("name", name),
		)
		return nil, fmt.Errorf("find product by name %s: %w", name, err)
	}

	return product, nil
}

// FindAll retrieves a paginated list of products for the admin catalog
func (r *productRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get all products",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all products limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *productRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM products`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count products", zap.Error(err))
		return 0, fmt.Errorf("count all products: %w", err)
	}

	return count, nil
}

func (r *productRepository) FindFiltered(ctx context.Context, filter ProductFilter) ([]*entity.Product, error) {
	var conditions []string
	var args []any

	if filter.Category != "" {
		args = append(args, strings.ToLower(filter.Category))
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = $%d", len(args)))
	}
	if filter.MinPrice > 0 {
		args = append(args, filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice > 0 {
		args = append(args, filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Sort column comes from a whitelist, never from raw input
	sortBy := "price"
	switch filter.SortBy {
	case "name", "stock", "price":
		sortBy = filter.SortBy
	}
	query += " ORDER BY " + sortBy

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find filtered products",
			zap.Error(err),
			zap.String("category", filter.Category),
			zap.String("sort_by", sortBy),
		)
		return nil, fmt.Errorf("find filtered products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *productRepository) Search(ctx context.Context, keyword string) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, "%"+keyword+"%")
	if err != nil {
		r.log.Error("Failed to search products",
			zap.Error(err),
			zap.String("keyword", keyword),
		)
		return nil, fmt.Errorf("search products %q: %w", keyword, err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5,
		    category = $6, image_url = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.Category,
		product.ImageURL,
		product.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update product",
			zap.Error(err),
			zap.String("product_id", product.ID.String()),
		)
		return fmt.Errorf("update product %s: %w", product.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", product.ID.String())
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete product",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return fmt.Errorf("delete product %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", id.String())
	}

	r.log.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}
