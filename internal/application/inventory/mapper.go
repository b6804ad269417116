package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ToProductResponse convierte la entidad al DTO de salida.
func ToProductResponse(p entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		Name:           p.Name,
		Category:       p.Category,
		Supplier:       p.Supplier,
		InitialStock:   p.InitialStock,
		Inbound:        p.Inbound,
		Outbound:       p.Outbound,
		CurrentStock:   p.CurrentStock,
		MinStock:       p.Clone().MinStock,
		UnitPrice:      p.UnitPrice,
		TotalValue:     p.TotalValue,
		LastMovementAt: p.LastMovementAt,
		User:           p.User,
		Notes:          p.Notes,
	}
}

// ToMovementResponse convierte una fila del historial al DTO de salida.
func ToMovementResponse(m entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		Date:        m.Date,
		Product:     m.ProductName,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		User:        m.User,
		Notes:       m.Notes,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
	}
}

func toProductList(products []entity.Product) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}
}
