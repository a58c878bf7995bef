package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	service usecase.CartService
	log     *zap.Logger
}

func NewCartHandler(service usecase.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log.With(zap.String("handler", "cart")),
	}
}

// AddToCart handles POST /cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentity(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	item, err := h.service.Add(r.Context(), identity.UserID, &req)
	if err != nil {
		h.handleServiceError(w, err, "add to cart")
		return
	}

	utils.ResponseCreated(w, "Product added to cart", item)
}

// ViewCart handles GET /cart
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentity(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	items, err := h.service.View(r.Context(), identity.UserID)
	if err != nil {
		h.handleServiceError(w, err, "view cart")
		return
	}

	utils.ResponseSuccess(w, "Cart retrieved successfully", items)
}

// UpdateCartItem handles PUT /cart/{product_id}
func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentity(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		utils.ResponseBadRequest(w, "Product ID is required", nil)
		return
	}

	var req request.CartUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	item, err := h.service.Update(r.Context(), identity.UserID, productID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update cart item")
		return
	}

	utils.ResponseSuccess(w, "Cart item updated successfully", item)
}

// RemoveCartItem handles DELETE /cart/{product_id}
func (h *CartHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentity(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		utils.ResponseBadRequest(w, "Product ID is required", nil)
		return
	}

	if err := h.service.Remove(r.Context(), identity.UserID, productID); err != nil {
		h.handleServiceError(w, err, "remove cart item")
		return
	}

	utils.ResponseSuccess(w, "Cart item removed successfully", nil)
}

// handleServiceError handles errors for cart operations
func (h *CartHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "out of stock"),
		strings.Contains(errMsg, "invalid"):
		h.log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
