// Package csvexport exporta el historial de movimientos a texto delimitado.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/workbook"
)

// utf8BOM marca de orden de bytes; Excel la usa para detectar UTF-8 al abrir el CSV.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteMovements escribe encabezado + una fila por movimiento, en el orden recibido.
func WriteMovements(w io.Writer, movements []entity.Movement) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("csv: escribir BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(workbook.MovementHeaders); err != nil {
		return fmt.Errorf("csv: escribir encabezado: %w", err)
	}
	for _, m := range movements {
		rec := []string{
			workbook.FormatTime(m.Date),
			m.ProductName,
			string(m.Type),
			strconv.Itoa(m.Quantity),
			m.User,
			m.Notes,
			strconv.Itoa(m.StockBefore),
			strconv.Itoa(m.StockAfter),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv: escribir fila: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
