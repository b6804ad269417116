// Package analytics contiene los casos de uso de lectura: datos de gráficos
// y reportes sobre una instantánea de la tabla de productos.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

const topProducts = 20 // productos en los gráficos por producto

// ChartUseCase arma los datos de los gráficos. No modifica el inventario.
type ChartUseCase struct {
	source   ProductSource
	renderer ChartRenderer
}

// NewChartUseCase construye el caso de uso. renderer puede ser nil si solo se usan los datos.
func NewChartUseCase(source ProductSource, renderer ChartRenderer) *ChartUseCase {
	return &ChartUseCase{source: source, renderer: renderer}
}

// Chart devuelve los datos del gráfico indicado. Un tipo desconocido devuelve ErrNotFound.
func (uc *ChartUseCase) Chart(kind string) (*dto.ChartDTO, error) {
	var c dto.ChartDTO
	switch kind {
	case dto.ChartStock:
		c = uc.stockChart()
	case dto.ChartValue:
		c = uc.valueChart()
	case dto.ChartCategory:
		c = uc.categoryChart()
	case dto.ChartLowStock:
		c = uc.lowStockChart()
	default:
		return nil, fmt.Errorf("%w: gráfico %q (opciones: %s)", domain.ErrNotFound, kind, strings.Join(dto.ChartKinds, ", "))
	}
	return &c, nil
}

// All devuelve todos los gráficos en el orden de dto.ChartKinds.
func (uc *ChartUseCase) All() []dto.ChartDTO {
	out := make([]dto.ChartDTO, 0, len(dto.ChartKinds))
	for _, kind := range dto.ChartKinds {
		c, _ := uc.Chart(kind)
		out = append(out, *c)
	}
	return out
}

// Workbook genera el libro de gráficos con todos los gráficos.
func (uc *ChartUseCase) Workbook(ctx context.Context) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("gráficos: sin renderizador configurado")
	}
	return uc.renderer.Render(ctx, uc.All())
}

// stockChart stock final por producto, mayor primero, top 20.
func (uc *ChartUseCase) stockChart() dto.ChartDTO {
	products := named(uc.source.Products())
	sort.SliceStable(products, func(i, j int) bool { return products[i].CurrentStock > products[j].CurrentStock })
	points := make([]dto.ChartPointDTO, 0, topProducts)
	for _, p := range head(products, topProducts) {
		points = append(points, dto.ChartPointDTO{Label: p.Name, Value: decimal.NewFromInt(int64(p.CurrentStock))})
	}
	return dto.ChartDTO{
		Kind: dto.ChartStock, Title: "Stock por Producto (Top 20)",
		XLabel: "Producto", YLabel: "Stock Final",
		Series: []dto.ChartSeriesDTO{{Name: "Stock Final", Points: points}},
	}
}

// valueChart valor total por producto (solo valores > 0), mayor primero, top 20.
func (uc *ChartUseCase) valueChart() dto.ChartDTO {
	var products []entity.Product
	for _, p := range named(uc.source.Products()) {
		if p.TotalValue.IsPositive() {
			products = append(products, p)
		}
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].TotalValue.GreaterThan(products[j].TotalValue) })
	points := make([]dto.ChartPointDTO, 0, topProducts)
	for _, p := range head(products, topProducts) {
		points = append(points, dto.ChartPointDTO{Label: p.Name, Value: p.TotalValue})
	}
	return dto.ChartDTO{
		Kind: dto.ChartValue, Title: "Valor Total por Producto (Top 20)",
		XLabel: "Valor Total ($)", YLabel: "Producto",
		Series: []dto.ChartSeriesDTO{{Name: "Valor Total", Points: points}},
	}
}

// categoryChart suma de stock final por categoría; los productos sin categoría no cuentan.
// Categorías en orden alfabético.
func (uc *ChartUseCase) categoryChart() dto.ChartDTO {
	totals := make(map[string]int64)
	for _, p := range uc.source.Products() {
		cat := strings.TrimSpace(p.Category)
		if cat == "" {
			continue
		}
		totals[cat] += int64(p.CurrentStock)
	}
	cats := make([]string, 0, len(totals))
	for c := range totals {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	points := make([]dto.ChartPointDTO, 0, len(cats))
	for _, c := range cats {
		points = append(points, dto.ChartPointDTO{Label: c, Value: decimal.NewFromInt(totals[c])})
	}
	return dto.ChartDTO{
		Kind: dto.ChartCategory, Title: "Stock por Categoría",
		XLabel: "Categoría", YLabel: "Stock Final",
		Series: []dto.ChartSeriesDTO{{Name: "Stock Final", Points: points}},
	}
}

// lowStockChart stock actual vs mínimo de los productos en alerta, en orden de tabla.
func (uc *ChartUseCase) lowStockChart() dto.ChartDTO {
	items := uc.source.LowStockReport()
	current := make([]dto.ChartPointDTO, 0, len(items))
	minimum := make([]dto.ChartPointDTO, 0, len(items))
	for _, it := range items {
		current = append(current, dto.ChartPointDTO{Label: it.Product.Name, Value: decimal.NewFromInt(int64(it.Product.CurrentStock))})
		minimum = append(minimum, dto.ChartPointDTO{Label: it.Product.Name, Value: decimal.NewFromInt(int64(*it.Product.MinStock))})
	}
	return dto.ChartDTO{
		Kind: dto.ChartLowStock, Title: "Productos con Stock Bajo",
		XLabel: "Producto", YLabel: "Cantidad",
		Series: []dto.ChartSeriesDTO{
			{Name: "Stock Actual", Points: current},
			{Name: "Stock Mínimo", Points: minimum},
		},
	}
}

func named(products []entity.Product) []entity.Product {
	out := products[:0:0]
	for _, p := range products {
		if strings.TrimSpace(p.Name) != "" {
			out = append(out, p)
		}
	}
	return out
}

func head(products []entity.Product, n int) []entity.Product {
	if len(products) > n {
		return products[:n]
	}
	return products
}
