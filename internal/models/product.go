package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Category  string    `json:"category,omitempty"`
	Quantity  int       `json:"quantity"`
	MinStock  int       `json:"min_stock"`
	Price     float64   `json:"price"`
	Supplier  string    `json:"supplier,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsLowStock reports whether the product sits at or below its reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

// TotalValue is the stock valuation of this product line.
func (p *Product) TotalValue() float64 {
	return float64(p.Quantity) * p.Price
}

type CreateProductRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	SKU      string  `json:"sku" validate:"required,min=1,max=50"`
	Category string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	MinStock int     `json:"min_stock" validate:"gte=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	Supplier string  `json:"supplier,omitempty" validate:"omitempty,max=200"`
}

type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	SKU      *string  `json:"sku,omitempty" validate:"omitempty,min=1,max=50"`
	Category *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	MinStock *int     `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Supplier *string  `json:"supplier,omitempty" validate:"omitempty,max=200"`
}

// InventorySummary is the dashboard aggregate over the whole catalog.
type InventorySummary struct {
	ProductCount int     `json:"product_count"`
	TotalUnits   int     `json:"total_units"`
	TotalValue   float64 `json:"total_value"`
}
