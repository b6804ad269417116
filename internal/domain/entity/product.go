package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una fila de la hoja de inventario.
// El nombre es la clave natural (sin ID sustituto); CurrentStock y TotalValue son derivados.
type Product struct {
	Name           string
	Category       string
	Supplier       string
	InitialStock   int
	Inbound        int // entradas acumuladas
	Outbound       int // salidas acumuladas
	CurrentStock   int // InitialStock + Inbound - Outbound
	MinStock       *int
	UnitPrice      decimal.Decimal
	TotalValue     decimal.Decimal // CurrentStock * UnitPrice
	LastMovementAt time.Time
	User           string // usuario responsable
	Notes          string
}

// HasMinStock indica si el producto tiene umbral de stock mínimo definido.
func (p Product) HasMinStock() bool {
	return p.MinStock != nil
}

// Clone devuelve una copia que no comparte el puntero de MinStock.
func (p Product) Clone() Product {
	if p.MinStock != nil {
		v := *p.MinStock
		p.MinStock = &v
	}
	return p
}
