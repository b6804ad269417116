package dto

import "github.com/shopspring/decimal"

// Tipos de gráfico disponibles.
const (
	ChartStock    = "stock"     // stock por producto (top 20)
	ChartValue    = "value"     // valor total por producto (top 20)
	ChartCategory = "category"  // stock por categoría
	ChartLowStock = "low-stock" // stock actual vs mínimo de los productos en alerta
)

// ChartKinds orden en que se presentan los gráficos en el reporte.
var ChartKinds = []string{ChartStock, ChartValue, ChartCategory, ChartLowStock}

// ChartPointDTO un valor de una serie.
type ChartPointDTO struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// ChartSeriesDTO serie con nombre (la leyenda del gráfico).
type ChartSeriesDTO struct {
	Name   string          `json:"name"`
	Points []ChartPointDTO `json:"points"`
}

// ChartDTO datos de un gráfico listos para graficar.
type ChartDTO struct {
	Kind   string           `json:"kind"`
	Title  string           `json:"title"`
	XLabel string           `json:"x_label"`
	YLabel string           `json:"y_label"`
	Series []ChartSeriesDTO `json:"series"`
}

// Empty indica si el gráfico no tiene datos.
func (c ChartDTO) Empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}
