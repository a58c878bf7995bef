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

type ProductService interface {
	// Admin catalog management
	Create(ctx context.Context, req *request.ProductRequest) (*response.ProductResponse, error)
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error)
	Update(ctx context.Context, productID string, req *request.ProductUpdateRequest) (*response.ProductResponse, error)
	Delete(ctx context.Context, productID string) error

	// Authenticated browsing
	GetByID(ctx context.Context, productID string) (*response.ProductResponse, error)
	Browse(ctx context.Context, req *request.ProductBrowseRequest) ([]response.ProductResponse, error)
	Search(ctx context.Context, keyword string) ([]response.ProductResponse, error)
}

type productService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewProductService(repo *repository.Repository, log *zap.Logger) ProductService {
	return &productService{
		repo: repo,
		log:  log.With(zap.String("service", "product")),
	}
}

func (s *productService) Create(ctx context.Context, req *request.ProductRequest) (*response.ProductResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create product validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.Product.FindByName(ctx, req.Name)
	if err != nil {
		s.log.Error("Failed to check product name", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("failed to check product name")
	}
	if existing != nil {
		return nil, fmt.Errorf("product already exists")
	}

	now := time.Now()
	product := &entity.Product{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}

	if err := s.repo.Product.Create(ctx, product); err != nil {
		s.log.Error("Failed to create product", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	products, err := s.repo.Product.FindAll(ctx, limit, offset)
	if err != nil {
		s.log.Error("Failed to list products", zap.Error(err))
		return nil, fmt.Errorf("list products: %w", err)
	}

	total, err := s.repo.Product.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count products", zap.Error(err))
		return nil, fmt.Errorf("count products: %w", err)
	}

	return response.NewPaginatedResponse(response.ProductsToResponse(products), req.Page, req.PerPage, total), nil
}

func (s *productService) Update(ctx context.Context, productID string, req *request.ProductUpdateRequest) (*response.ProductResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update product validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID format %s: %w", productID, err)
	}

	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find product", zap.Error(err), zap.String("product_id", productID))
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product not found")
	}

	// Partial update: untouched fields keep their current values
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	product.UpdatedAt = time.Now()

	if err := s.repo.Product.Update(ctx, product); err != nil {
		s.log.Error("Failed to update product", zap.Error(err), zap.String("product_id", productID))
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.log.Info("Product updated", zap.String("product_id", productID))

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, productID string) error {
	id, err := uuid.Parse(productID)
	if err != nil {
		return fmt.Errorf("invalid product ID format %s: %w", productID, err)
	}

	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find product", zap.Error(err), zap.String("product_id", productID))
		return fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return fmt.Errorf("product not found")
	}

	referenced, err := s.repo.Order.ItemExistsForProduct(ctx, id)
	if err != nil {
		s.log.Error("Failed to check order references", zap.Error(err), zap.String("product_id", productID))
		return fmt.Errorf("check order references: %w", err)
	}
	if referenced {
		s.log.Warn("Delete blocked, product referenced by orders",
			zap.String("product_id", productID),
			zap.String("name", product.Name))
		return fmt.Errorf("product %s is part of existing orders and cannot be deleted", product.Name)
	}

	if err := s.repo.Product.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete product", zap.Error(err), zap.String("product_id", productID))
		return fmt.Errorf("delete product: %w", err)
	}

	s.log.Info("Product deleted",
		zap.String("product_id", productID),
		zap.String("name", product.Name))
	return nil
}

func (s *productService) GetByID(ctx context.Context, productID string) (*response.ProductResponse, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID format %s: %w", productID, err)
	}

	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find product", zap.Error(err), zap.String("product_id", productID))
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product not found")
	}

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) Browse(ctx context.Context, req *request.ProductBrowseRequest) ([]response.ProductResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Browse products validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	filter := repository.ProductFilter{
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		SortBy:   req.SortBy,
		Limit:    req.PageSize,
		Offset:   utils.CalculateOffset(req.Page, req.PageSize),
	}

	products, err := s.repo.Product.FindFiltered(ctx, filter)
	if err != nil {
		s.log.Error("Failed to browse products", zap.Error(err))
		return nil, fmt.Errorf("browse products: %w", err)
	}

	return response.ProductsToResponse(products), nil
}

func (s *productService) Search(ctx context.Context, keyword string) ([]response.ProductResponse, error) {
	if keyword == "" {
		return nil, fmt.Errorf("validation failed: keyword is required")
	}

	products, err := s.repo.Product.Search(ctx, keyword)
	if err != nil {
		s.log.Error("Failed to search products", zap.Error(err), zap.String("keyword", keyword))
		return nil, fmt.Errorf("search products: %w", err)
	}

	return response.ProductsToResponse(products), nil
}
