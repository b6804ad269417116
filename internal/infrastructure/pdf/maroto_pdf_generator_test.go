package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "25.000", pdf.FormatInt(25000))
	assert.Equal(t, "7", pdf.FormatInt(7))
	assert.Equal(t, "12.345", pdf.FormatNumber(decimal.NewFromInt(12345)))
	assert.Equal(t, "12.345,50", pdf.FormatNumber(decimal.RequireFromString("12345.5")))
	assert.Equal(t, "2,50", pdf.FormatNumber(decimal.RequireFromString("2.5")))
	assert.Equal(t, "0", pdf.FormatNumber(decimal.Zero))
}

func TestGenerateInventoryPDF(t *testing.T) {
	min := 5
	p := entity.Product{Name: "Martillo", Category: "Herramientas", CurrentStock: 3, MinStock: &min,
		UnitPrice: decimal.NewFromInt(12), TotalValue: decimal.NewFromInt(36)}
	report := analytics.InventoryReport{
		Title:       "Reporte de Inventario",
		GeneratedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local),
		Products:    []entity.Product{p, {Name: "Clavo", CurrentStock: 200}},
		LowStock:    []inventory.LowStockItem{{Product: p, Deficit: 2}},
		TotalUnits:  203,
		TotalValue:  decimal.NewFromInt(36),
	}

	data, err := pdf.NewMarotoPDFGenerator("inventario").GenerateInventoryPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateInventoryPDF_Vacio(t *testing.T) {
	data, err := pdf.NewMarotoPDFGenerator("").GenerateInventoryPDF(context.Background(), analytics.InventoryReport{
		Title: "Reporte de Inventario", GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
