package request

type CartAddRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CartUpdateRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}
