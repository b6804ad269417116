package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// ProductSource lectura de productos (el libro en memoria la implementa).
type ProductSource interface {
	Products() []entity.Product
	LowStockReport() []inventory.LowStockItem
}

// ChartRenderer genera un archivo con los gráficos (p. ej. un .xlsx con gráficos nativos).
type ChartRenderer interface {
	Render(ctx context.Context, charts []dto.ChartDTO) ([]byte, error)
}

// InventoryReport datos del reporte PDF de inventario.
type InventoryReport struct {
	Title       string
	GeneratedAt time.Time
	Products    []entity.Product
	LowStock    []inventory.LowStockItem
	TotalUnits  int
	TotalValue  decimal.Decimal
}

// ReportGenerator genera el PDF del reporte de inventario.
type ReportGenerator interface {
	GenerateInventoryPDF(ctx context.Context, report InventoryReport) ([]byte, error)
}
