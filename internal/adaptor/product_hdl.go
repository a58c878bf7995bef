package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service usecase.ProductService
	log     *zap.Logger
}

func NewProductHandler(service usecase.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log.With(zap.String("handler", "product")),
	}
}

// CreateProduct handles POST /admin/products (admin only)
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req request.ProductRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	product, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create product")
		return
	}

	utils.ResponseCreated(w, "Product created successfully", product)
}

// ListProducts handles GET /admin/products (admin only)
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	products, err := h.service.List(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "list products")
		return
	}

	utils.ResponseSuccess(w, "Products retrieved successfully", products)
}

// UpdateProduct handles PUT /admin/products/{id} (admin only)
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		utils.ResponseBadRequest(w, "Product ID is required", nil)
		return
	}

	var req request.ProductUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	product, err := h.service.Update(r.Context(), productID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update product")
		return
	}

	utils.ResponseSuccess(w, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /admin/products/{id} (admin only)
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		utils.ResponseBadRequest(w, "Product ID is required", nil)
		return
	}

	if err := h.service.Delete(r.Context(), productID); err != nil {
		h.handleServiceError(w, err, "delete product")
		return
	}

	utils.ResponseSuccess(w, "Product deleted successfully", nil)
}

// BrowseProducts handles GET /products with optional category, price
// range, and sort query parameters.
func (h *ProductHandler) BrowseProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.ProductBrowseRequest{
		Category: query.Get("category"),
		SortBy:   query.Get("sort_by"),
		Page:     utils.ParseInt(query.Get("page"), 1),
		PageSize: utils.ParseInt(query.Get("page_size"), 10),
	}
	req.MinPrice = h.parseFloat(query.Get("min_price"))
	req.MaxPrice = h.parseFloat(query.Get("max_price"))

	products, err := h.service.Browse(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "browse products")
		return
	}

	utils.ResponseSuccess(w, "Products retrieved successfully", products)
}

// SearchProducts handles GET /products/search?keyword=...
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	products, err := h.service.Search(r.Context(), keyword)
	if err != nil {
		h.handleServiceError(w, err, "search products")
		return
	}

	utils.ResponseSuccess(w, "Products retrieved successfully", products)
}

// GetProductByID handles GET /products/{id}
func (h *ProductHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		utils.ResponseBadRequest(w, "Product ID is required", nil)
		return
	}

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		h.handleServiceError(w, err, "get product by ID")
		return
	}

	utils.ResponseSuccess(w, "Product retrieved successfully", product)
}

func (h *ProductHandler) parseFloat(value string) float64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

// handleServiceError handles errors for product operations
func (h *ProductHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "already exists"),
		strings.Contains(errMsg, "cannot be deleted"):
		h.log.Warn(operation+" rejected",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
