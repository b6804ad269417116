// Package chart genera un libro .xlsx con una hoja por gráfico: la tabla de datos
// y el gráfico nativo de Excel sobre esa tabla.
package chart

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// sheetNames nombre de hoja por tipo de gráfico.
var sheetNames = map[string]string{
	dto.ChartStock:    "Stock",
	dto.ChartValue:    "Valor",
	dto.ChartCategory: "Categorias",
	dto.ChartLowStock: "Stock Bajo",
}

// chartTypes tipo de gráfico de Excel por tipo de dato.
var chartTypes = map[string]excelize.ChartType{
	dto.ChartStock:    excelize.Col,
	dto.ChartValue:    excelize.Bar,
	dto.ChartCategory: excelize.Pie,
	dto.ChartLowStock: excelize.Col,
}

// ExcelChartRenderer implementa analytics.ChartRenderer con excelize.
type ExcelChartRenderer struct{}

var _ analytics.ChartRenderer = (*ExcelChartRenderer)(nil)

// NewExcelChartRenderer construye el renderizador.
func NewExcelChartRenderer() *ExcelChartRenderer { return &ExcelChartRenderer{} }

// Render devuelve los bytes del libro de gráficos.
func (r *ExcelChartRenderer) Render(ctx context.Context, charts []dto.ChartDTO) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, c := range charts {
		sheet := sheetName(c, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		if err := writeChartSheet(f, sheet, c, bold); err != nil {
			return nil, fmt.Errorf("gráfico %s: %w", c.Kind, err)
		}
	}
	if len(charts) == 0 {
		if err := f.SetCellValue("Sheet1", "A1", "Sin gráficos"); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sheetName(c dto.ChartDTO, i int) string {
	if name, ok := sheetNames[c.Kind]; ok {
		return name
	}
	return fmt.Sprintf("Grafico%d", i+1)
}

// writeChartSheet escribe la tabla (etiqueta | serie1 | serie2...) desde A1 y el gráfico al costado.
func writeChartSheet(f *excelize.File, sheet string, c dto.ChartDTO, headerStyle int) error {
	header := []interface{}{c.XLabel}
	for _, s := range c.Series {
		header = append(header, s.Name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}

	if c.Empty() {
		return f.SetCellValue(sheet, "A2", "Sin datos para graficar")
	}

	n := len(c.Series[0].Points)
	for i := 0; i < n; i++ {
		values := []interface{}{c.Series[0].Points[i].Label}
		for _, s := range c.Series {
			if i < len(s.Points) {
				values = append(values, s.Points[i].Value.InexactFloat64())
			} else {
				values = append(values, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	series := make([]excelize.ChartSeries, 0, len(c.Series))
	for j := range c.Series {
		col, err := excelize.ColumnNumberToName(j + 2)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, col),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, n+1),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, n+1),
		})
	}

	typ, ok := chartTypes[c.Kind]
	if !ok {
		typ = excelize.Col
	}
	anchor, err := excelize.CoordinatesToCellName(len(header)+2, 1)
	if err != nil {
		return err
	}
	spec := &excelize.Chart{
		Type:      typ,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: c.Title}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 420},
	}
	if typ != excelize.Pie {
		spec.XAxis = excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: c.XLabel}}}
		spec.YAxis = excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: c.YLabel}}}
	}
	if typ == excelize.Pie {
		spec.PlotArea = excelize.ChartPlotArea{ShowPercent: true, ShowCatName: true}
	}
	return f.AddChart(sheet, anchor, spec)
}
