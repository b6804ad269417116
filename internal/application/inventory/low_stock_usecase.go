package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// LowStockUseCase genera la lista de alertas de stock bajo con el costo estimado
// de reponer cada producto hasta su mínimo.
type LowStockUseCase struct {
	ledger *inventory.Ledger
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(ledger *inventory.Ledger) *LowStockUseCase {
	return &LowStockUseCase{ledger: ledger}
}

// Report devuelve las alertas en orden de tabla (no por severidad).
func (uc *LowStockUseCase) Report() *dto.LowStockReportResponse {
	items := uc.ledger.LowStockReport()
	out := &dto.LowStockReportResponse{
		Items:          make([]dto.LowStockAlertDTO, 0, len(items)),
		TotalOrderCost: decimal.Zero,
	}
	for _, it := range items {
		cost := decimal.NewFromInt(int64(it.Deficit)).Mul(it.Product.UnitPrice)
		out.Items = append(out.Items, dto.LowStockAlertDTO{
			Name:               it.Product.Name,
			Category:           it.Product.Category,
			Supplier:           it.Product.Supplier,
			CurrentStock:       it.Product.CurrentStock,
			MinStock:           *it.Product.MinStock,
			Deficit:            it.Deficit,
			UnitPrice:          it.Product.UnitPrice,
			EstimatedOrderCost: cost,
		})
		out.TotalOrderCost = out.TotalOrderCost.Add(cost)
	}
	out.Count = len(out.Items)
	return out
}
