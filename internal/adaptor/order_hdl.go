package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service usecase.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With(zap.String("handler", "order")),
	}
}

// Checkout handles POST /checkout. The body is optional; an empty
// body places the order with status pending.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentity(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	order, err := h.service.Checkout(r.Context(), identity.UserID, &req)
	if err != nil {
		h.handleServiceError(w, err, "checkout")
		return
	}

	utils.ResponseSuccess(w, "Order placed successfully", order)
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentity(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	orders, err := h.service.History(r.Context(), identity.UserID)
	if err != nil {
		h.handleServiceError(w, err, "get orders")
		return
	}

	utils.ResponseSuccess(w, "Orders retrieved successfully", orders)
}

// GetOrderByID handles GET /orders/{id}
func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentity(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		utils.ResponseBadRequest(w, "Order ID is required", nil)
		return
	}

	order, err := h.service.Detail(r.Context(), identity.UserID, orderID)
	if err != nil {
		h.handleServiceError(w, err, "get order by ID")
		return
	}

	utils.ResponseSuccess(w, "Order retrieved successfully", order)
}

// handleServiceError handles errors for order operations
func (h *OrderHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"),
		strings.Contains(errMsg, "no orders found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "cart is empty"),
		strings.Contains(errMsg, "insufficient stock"):
		h.log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
