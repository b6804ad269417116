// Package pdf genera el reporte de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: productos | unidades | valor total | alertas      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Categoría | Stock | Mín. | P.Unit | Valor │
//	│  ─────────────────────────────────────────────────────────  │
//	│  STOCK BAJO: Producto | Stock | Mínimo | Faltante           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 89, Green: 94, Blue: 95}
	colorAccent  = &props.Color{Red: 79, Green: 107, Blue: 114}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 160, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa analytics.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

var _ analytics.ReportGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador; author se guarda en los metadatos del PDF.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author}
}

// GenerateInventoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInventoryPDF(ctx context.Context, r analytics.InventoryReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("PRODUCTOS"))
	m.AddRows(productHeaderRow())
	m.AddRows(productRows(r.Products)...)

	m.AddRows(row.New(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(sectionRow("PRODUCTOS CON STOCK BAJO"))
	m.AddRows(lowStockRows(r)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación (der).
func headerRow(r analytics.InventoryReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 5, Color: colorGray,
			}),
		),
	)
}

// summaryRow: totales del inventario.
func summaryRow(r analytics.InventoryReport) core.Row {
	cell := func(label, value string, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Color: c, Top: 5, Align: align.Center}),
		)
	}
	alertColor := colorAccent
	if len(r.LowStock) > 0 {
		alertColor = colorAlert
	}
	return row.New(14).Add(
		cell("Productos", FormatInt(len(r.Products)), colorAccent),
		cell("Unidades en stock", FormatInt(r.TotalUnits), colorAccent),
		cell("Valor total", "$"+FormatNumber(r.TotalValue), colorAccent),
		cell("Alertas de stock", FormatInt(len(r.LowStock)), alertColor),
	)
}

func sectionRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorWhite, Top: 2, Left: 1, Right: 1,
	})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// productHeaderRow: cabecera de la tabla de productos.
func productHeaderRow() core.Row {
	return row.New(8).Add(
		headerCell("Producto", 4, align.Left),
		headerCell("Categoría", 2, align.Left),
		headerCell("Stock", 1, align.Right),
		headerCell("Mín.", 1, align.Right),
		headerCell("P. Unit.", 2, align.Right),
		headerCell("Valor", 2, align.Right),
	)
}

// productRows: una fila por producto, en orden de tabla.
func productRows(products []entity.Product) []core.Row {
	if len(products) == 0 {
		return []core.Row{emptyRow("No hay productos registrados")}
	}
	out := make([]core.Row, 0, len(products))
	for _, p := range products {
		minStock := "—"
		if p.HasMinStock() {
			minStock = FormatInt(*p.MinStock)
		}
		out = append(out, row.New(6).Add(
			col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(p.Category, "—"), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(FormatInt(p.CurrentStock), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
			col.New(1).Add(text.New(minStock, props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
			col.New(2).Add(text.New("$"+FormatNumber(p.UnitPrice), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
			col.New(2).Add(text.New("$"+FormatNumber(p.TotalValue), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
		))
	}
	return out
}

// lowStockRows: tabla de alertas o leyenda si no hay.
func lowStockRows(r analytics.InventoryReport) []core.Row {
	if len(r.LowStock) == 0 {
		return []core.Row{emptyRow("No hay productos con stock bajo")}
	}
	out := []core.Row{row.New(8).Add(
		headerCell("Producto", 6, align.Left),
		headerCell("Stock", 2, align.Right),
		headerCell("Mínimo", 2, align.Right),
		headerCell("Faltante", 2, align.Right),
	)}
	for _, it := range r.LowStock {
		out = append(out, row.New(6).Add(
			col.New(6).Add(text.New(it.Product.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(FormatInt(it.Product.CurrentStock), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1, Color: colorAlert})),
			col.New(2).Add(text.New(FormatInt(*it.Product.MinStock), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
			col.New(2).Add(text.New(FormatInt(it.Deficit), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1, Style: fontstyle.Bold})),
		))
	}
	return out
}

func emptyRow(msg string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 2, Align: align.Center}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

var printer = message.NewPrinter(language.Spanish)

// FormatInt entero con separador de miles: 25000 → "25.000".
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatNumber sin decimales si el valor es entero y con dos decimales si no:
// 12345 → "12.345", 12345.5 → "12.345,50".
func FormatNumber(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return printer.Sprintf("%d", d.IntPart())
	}
	return printer.Sprintf("%.2f", d.InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
