package request

type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,min=1,max=100"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type ProductUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// ProductBrowseRequest carries the public catalog query parameters.
type ProductBrowseRequest struct {
	Category string  `validate:"omitempty,max=100"`
	MinPrice float64 `validate:"omitempty,gt=0"`
	MaxPrice float64 `validate:"omitempty,gt=0"`
	SortBy   string  `validate:"omitempty,oneof=price name stock"`
	Page     int     `validate:"min=1"`
	PageSize int     `validate:"min=1,max=100"`
}
