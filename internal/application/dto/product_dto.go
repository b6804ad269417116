package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para dar de alta un producto.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Category     string          `json:"category" validate:"max=100"`
	Supplier     string          `json:"supplier" validate:"max=100"`
	InitialStock int             `json:"initial_stock" validate:"min=0"`
	MinStock     *int            `json:"min_stock,omitempty" validate:"omitempty,min=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	User         string          `json:"user" validate:"max=100"`
	Notes        string          `json:"notes" validate:"max=500"`
}

// UpdateProductRequest edición de metadatos; los campos nil no se modifican.
// El stock no es editable: solo cambia mediante movimientos.
type UpdateProductRequest struct {
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Supplier      *string          `json:"supplier" validate:"omitempty,max=100"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	MinStock      *int             `json:"min_stock" validate:"omitempty,min=0"`
	ClearMinStock bool             `json:"clear_min_stock"`
	User          *string          `json:"user" validate:"omitempty,max=100"`
	Notes         *string          `json:"notes" validate:"omitempty,max=500"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Supplier       string          `json:"supplier"`
	InitialStock   int             `json:"initial_stock"`
	Inbound        int             `json:"inbound"`
	Outbound       int             `json:"outbound"`
	CurrentStock   int             `json:"current_stock"`
	MinStock       *int            `json:"min_stock"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalValue     decimal.Decimal `json:"total_value"`
	LastMovementAt time.Time       `json:"last_movement_at"`
	User           string          `json:"user"`
	Notes          string          `json:"notes"`
}

// ProductResultResponse resultado de una mutación. Warning se informa cuando el cambio
// quedó aplicado en memoria pero no se pudo guardar el libro.
type ProductResultResponse struct {
	Product ProductResponse `json:"product"`
	Warning string          `json:"warning,omitempty"`
}

// DeleteProductResponse resultado de una baja.
type DeleteProductResponse struct {
	Name    string `json:"name"`
	Warning string `json:"warning,omitempty"`
}

// ProductListResponse lista de productos en orden de tabla.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
