package dto

import (
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/service"
)

// ProductRequest is the body of create and replace calls.
type ProductRequest struct {
	Name     *string  `json:"product_name" xml:"product_name" form:"product_name" validate:"required,min=1"`
	Quantity *int     `json:"quantity" xml:"quantity" form:"quantity" validate:"required,gte=0"`
	Price    *float64 `json:"price" xml:"price" form:"price" validate:"required,gte=0"`
}

// Input converts a validated request.
func (r ProductRequest) Input() service.ProductInput {
	return service.ProductInput{Name: *r.Name, Quantity: *r.Quantity, Price: *r.Price}
}

// ProductPatchRequest is the body of partial updates.
type ProductPatchRequest struct {
	Name     *string  `json:"product_name" xml:"product_name" form:"product_name" validate:"omitempty,min=1"`
	Quantity *int     `json:"quantity" xml:"quantity" form:"quantity" validate:"omitempty,gte=0"`
	Price    *float64 `json:"price" xml:"price" form:"price" validate:"omitempty,gte=0"`
}

// Patch converts a validated request.
func (r ProductPatchRequest) Patch() domain.ProductPatch {
	return domain.ProductPatch{Name: r.Name, Quantity: r.Quantity, Price: r.Price}
}

// ProductCreatedResponse acknowledges a new product.
type ProductCreatedResponse struct {
	Message string         `json:"message"`
	Product domain.Product `json:"product"`
}
