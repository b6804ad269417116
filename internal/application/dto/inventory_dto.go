package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/products/:name/movements.
// Type acepta "Entrada"/"Salida" y los alias in/out.
type RegisterMovementRequest struct {
	Type     string `json:"type" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	User     string `json:"user" validate:"max=100"`
	Notes    string `json:"notes" validate:"max=500"`
}

// MovementResponse una fila del historial.
type MovementResponse struct {
	Date        time.Time `json:"date"`
	Product     string    `json:"product"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	User        string    `json:"user"`
	Notes       string    `json:"notes"`
	StockBefore int       `json:"stock_before"`
	StockAfter  int       `json:"stock_after"`
}

// MovementResultResponse producto actualizado y movimiento registrado.
type MovementResultResponse struct {
	Product  ProductResponse  `json:"product"`
	Movement MovementResponse `json:"movement"`
	Warning  string           `json:"warning,omitempty"`
}

// MovementListResponse historial filtrado, del más reciente al más antiguo.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Total int                `json:"total"`
}

// LowStockAlertDTO producto con stock en o bajo su mínimo.
type LowStockAlertDTO struct {
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	Supplier           string          `json:"supplier"`
	CurrentStock       int             `json:"current_stock"`
	MinStock           int             `json:"min_stock"`
	Deficit            int             `json:"deficit"`              // MinStock - CurrentStock
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // Deficit * UnitPrice
}

// LowStockReportResponse alertas en orden de tabla.
type LowStockReportResponse struct {
	Items []LowStockAlertDTO `json:"items"`
	Count int                `json:"count"`
	// Costo estimado de reponer todos los productos hasta su mínimo.
	TotalOrderCost decimal.Decimal `json:"total_order_cost"`
}
