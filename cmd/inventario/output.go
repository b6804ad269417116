package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/fsutil"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printProducts(w io.Writer, items []dto.ProductResponse) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Sin productos.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "PRODUCTO\tCATEGORÍA\tPROVEEDOR\tINICIAL\tENTRADAS\tSALIDAS\tSTOCK\tMÍNIMO\tPRECIO\tVALOR\tÚLTIMO MOV.\tUSUARIO")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.Category, p.Supplier,
			p.InitialStock, p.Inbound, p.Outbound, p.CurrentStock,
			optionalInt(p.MinStock),
			pdf.FormatNumber(p.UnitPrice), pdf.FormatNumber(p.TotalValue),
			formatDate(p), p.User)
	}
	return tw.Flush()
}

func printProduct(w io.Writer, p dto.ProductResponse) error {
	tw := newTable(w)
	rows := [][2]string{
		{"Producto", p.Name},
		{"Categoría", p.Category},
		{"Proveedor", p.Supplier},
		{"Stock inicial", fmt.Sprint(p.InitialStock)},
		{"Entradas", fmt.Sprint(p.Inbound)},
		{"Salidas", fmt.Sprint(p.Outbound)},
		{"Stock final", fmt.Sprint(p.CurrentStock)},
		{"Stock mínimo", optionalInt(p.MinStock)},
		{"Precio unitario", pdf.FormatNumber(p.UnitPrice)},
		{"Valor total", pdf.FormatNumber(p.TotalValue)},
		{"Último movimiento", formatDate(p)},
		{"Usuario", p.User},
		{"Observaciones", p.Notes},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

func printMovements(w io.Writer, items []dto.MovementResponse) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Sin movimientos.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "FECHA\tPRODUCTO\tTIPO\tCANTIDAD\tANTES\tDESPUÉS\tUSUARIO\tOBSERVACIONES")
	for _, m := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			m.Date.Format(inventory.DateLayout), m.Product, m.Type, m.Quantity,
			m.StockBefore, m.StockAfter, m.User, m.Notes)
	}
	return tw.Flush()
}

func printLowStock(w io.Writer, r *dto.LowStockReportResponse) error {
	if r.Count == 0 {
		_, err := fmt.Fprintln(w, "Sin alertas de stock bajo.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "PRODUCTO\tCATEGORÍA\tPROVEEDOR\tSTOCK\tMÍNIMO\tFALTANTE\tCOSTO ESTIMADO")
	for _, a := range r.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			a.Name, a.Category, a.Supplier, a.CurrentStock, a.MinStock, a.Deficit,
			pdf.FormatNumber(a.EstimatedOrderCost))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d producto(s) en alerta. Costo estimado de reposición: %s\n",
		r.Count, pdf.FormatNumber(r.TotalOrderCost))
	return err
}

func printBackups(w io.Writer, items []dto.BackupDTO) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Sin backups.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "NOMBRE\tFECHA\tTAMAÑO")
	for _, b := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Name, b.CreatedAt.Format(inventory.DateLayout), humanSize(b.Size))
	}
	return tw.Flush()
}

func printChart(w io.Writer, c dto.ChartDTO) error {
	fmt.Fprintf(w, "== %s ==\n", c.Title)
	if c.Empty() {
		_, err := fmt.Fprintln(w, "Sin datos para graficar.")
		return err
	}
	tw := newTable(w)
	head := []string{c.XLabel}
	for _, s := range c.Series {
		head = append(head, strings.ToUpper(s.Name))
	}
	fmt.Fprintln(tw, strings.Join(head, "\t"))
	for i, p := range c.Series[0].Points {
		cells := []string{p.Label}
		for _, s := range c.Series {
			if i < len(s.Points) {
				cells = append(cells, pdf.FormatNumber(s.Points[i].Value))
			} else {
				cells = append(cells, "")
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// printWarning avisa que el cambio quedó solo en memoria.
func printWarning(w io.Writer, warning string) {
	if warning != "" {
		fmt.Fprintf(w, "ADVERTENCIA: no se pudo guardar el libro (%s). El cambio se perderá al salir.\n", warning)
	}
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func formatDate(p dto.ProductResponse) string {
	if p.LastMovementAt.IsZero() {
		return ""
	}
	return p.LastMovementAt.Format(inventory.DateLayout)
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// writeOutput escribe data en path de forma atómica; "-" escribe en w.
func writeOutput(fs afero.Fs, w io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := fsutil.WriteBytesAtomic(fs, path, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Archivo generado: %s\n", path)
	return err
}
