package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// Columnas de la hoja de productos, en el orden en que se escriben.
const (
	ColProduct      = "Producto"
	ColCategory     = "Categoría"
	ColSupplier     = "Proveedor"
	ColInitialStock = "Stock Inicial"
	ColInbound      = "Entradas"
	ColOutbound     = "Salidas"
	ColCurrentStock = "Stock Final"
	ColMinStock     = "Stock Mínimo"
	ColUnitPrice    = "Precio Unitario"
	ColTotalValue   = "Valor Total"
	ColLastMovement = "Fecha de Movimiento"
	ColUser         = "Usuario Responsable"
	ColNotes        = "Observaciones"
)

// Columnas de la hoja de movimientos.
const (
	ColMovDate        = "Fecha"
	ColMovProduct     = "Producto"
	ColMovType        = "Tipo"
	ColMovQuantity    = "Cantidad"
	ColMovUser        = "Usuario"
	ColMovNotes       = "Observaciones"
	ColMovStockBefore = "Stock Antes"
	ColMovStockAfter  = "Stock Después"
)

// ProductHeaders encabezados de la hoja de productos.
var ProductHeaders = []string{
	ColProduct, ColCategory, ColSupplier,
	ColInitialStock, ColInbound, ColOutbound,
	ColCurrentStock, ColMinStock, ColUnitPrice,
	ColTotalValue, ColLastMovement,
	ColUser, ColNotes,
}

// MovementHeaders encabezados de la hoja de movimientos (también los usa la exportación CSV).
var MovementHeaders = []string{
	ColMovDate, ColMovProduct, ColMovType, ColMovQuantity, ColMovUser,
	ColMovNotes, ColMovStockBefore, ColMovStockAfter,
}

// row acceso por nombre de columna a una fila leída. Las columnas ausentes
// en el archivo se leen como celdas vacías.
type row struct {
	index  map[string]int
	values []string
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := idx[h]; !dup && h != "" {
			idx[h] = i
		}
	}
	return idx
}

func (r row) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r row) blank() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseNumber acepta coma o punto decimal. Vacío o ilegible devuelve ok=false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseInt convierte a entero truncando decimales ("7,9" -> 7). Vacío o ilegible -> def.
func ParseInt(s string, def int) int {
	f, ok := ParseNumber(s)
	if !ok {
		return def
	}
	return int(f)
}

// ParseOptionalInt como ParseInt pero distingue la celda vacía (nil).
func ParseOptionalInt(s string) *int {
	f, ok := ParseNumber(s)
	if !ok {
		return nil
	}
	v := int(f)
	return &v
}

// ParseDecimal convierte precios y valores; vacío o ilegible -> cero.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var timeLayouts = []string{
	inventory.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// ParseTime acepta el formato del libro, ISO-8601, solo fecha y números de serie de Excel.
// Vacío o ilegible devuelve el instante cero.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	if serial, ok := ParseNumber(s); ok && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			// ExcelDateToTime devuelve la hora de pared en UTC.
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local)
		}
	}
	return time.Time{}
}

// FormatTime formato de fecha del libro; el instante cero se escribe vacío.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(inventory.DateLayout)
}
