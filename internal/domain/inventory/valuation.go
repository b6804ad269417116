package inventory

import "github.com/shopspring/decimal"

// Valuation calcula el valor total de un producto: StockFinal * PrecioUnitario.
func Valuation(currentStock int, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(currentStock)).Mul(unitPrice)
}

// CurrentStock aplica StockFinal = StockInicial + Entradas - Salidas.
func CurrentStock(initial, inbound, outbound int) int {
	return initial + inbound - outbound
}
