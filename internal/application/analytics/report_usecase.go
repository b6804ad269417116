package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReportUseCase genera el reporte PDF de inventario.
type ReportUseCase struct {
	source    ProductSource
	generator ReportGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(source ProductSource, generator ReportGenerator) *ReportUseCase {
	return &ReportUseCase{source: source, generator: generator, now: time.Now}
}

// InventoryPDF genera el PDF y un nombre de archivo sugerido.
func (uc *ReportUseCase) InventoryPDF(ctx context.Context) ([]byte, string, error) {
	report := uc.Build()
	pdfBytes, err := uc.generator.GenerateInventoryPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: %w", err)
	}
	filename := "inventario_" + report.GeneratedAt.Format("20060102_150405") + ".pdf"
	return pdfBytes, filename, nil
}

// Build arma los datos del reporte sobre una instantánea de la tabla.
func (uc *ReportUseCase) Build() InventoryReport {
	products := uc.source.Products()
	r := InventoryReport{
		Title:       "Reporte de Inventario",
		GeneratedAt: uc.now(),
		Products:    products,
		LowStock:    uc.source.LowStockReport(),
		TotalValue:  decimal.Zero,
	}
	for _, p := range products {
		r.TotalUnits += p.CurrentStock
		r.TotalValue = r.TotalValue.Add(p.TotalValue)
	}
	return r
}
