package request

// CheckoutRequest optionally sets the initial order status.
// An empty status defaults to pending.
type CheckoutRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=pending paid cancelled"`
}
