// Package workbook persiste el libro de inventario en un archivo .xlsx con dos hojas
// (productos y movimientos) usando excelize.
package workbook

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/fsutil"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Backuper copia el libro actual antes de sobrescribirlo.
type Backuper interface {
	Create(ctx context.Context) (repository.Backup, error)
}

// Store implementa repository.LedgerStore sobre un archivo .xlsx.
type Store struct {
	fs             afero.Fs
	path           string
	productsSheet  string
	movementsSheet string
	backups        Backuper
	log            *logger.Logger
}

var _ repository.LedgerStore = (*Store)(nil)

// NewStore crea el store. backups puede ser nil (sin copia previa a cada escritura).
func NewStore(fs afero.Fs, cfg config.InventoryConfig, backups Backuper, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		fs:             fs,
		path:           cfg.File,
		productsSheet:  cfg.ProductsSheet,
		movementsSheet: cfg.MovementsSheet,
		backups:        backups,
		log:            log.Component("workbook"),
	}
}

// Load lee ambas hojas. Si el archivo no existe crea un libro vacío.
// Una hoja ausente se lee como tabla vacía; las filas sin nombre de producto se omiten.
func (s *Store) Load(ctx context.Context) (repository.Tables, error) {
	exists, err := fsutil.Exists(s.fs, s.path)
	if err != nil {
		return repository.Tables{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if !exists {
		s.log.Info().Str("file", s.path).Msg("libro inexistente, se crea vacío")
		if err := s.Save(ctx, repository.Tables{}); err != nil {
			return repository.Tables{}, err
		}
		return repository.Tables{}, nil
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return repository.Tables{}, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, s.path, err)
	}
	t, skipped, err := s.decode(data)
	if err != nil {
		return repository.Tables{}, fmt.Errorf("%w: abrir %s: %v", domain.ErrPersistence, s.path, err)
	}

	s.log.Debug().
		Str("file", s.path).
		Int("productos", len(t.Products)).
		Int("movimientos", len(t.Movements)).
		Int("filas_omitidas", skipped).
		Msg("libro cargado")
	return t, nil
}

// Decode interpreta el contenido de un libro (p. ej. un backup) sin tocar el archivo.
func (s *Store) Decode(data []byte) (repository.Tables, error) {
	t, _, err := s.decode(data)
	if err != nil {
		return repository.Tables{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return t, nil
}

func (s *Store) decode(data []byte) (repository.Tables, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return repository.Tables{}, 0, err
	}
	defer f.Close()

	productRows, err := s.readSheet(f, s.productsSheet)
	if err != nil {
		return repository.Tables{}, 0, err
	}
	movementRows, err := s.readSheet(f, s.movementsSheet)
	if err != nil {
		return repository.Tables{}, 0, err
	}

	var t repository.Tables
	skipped := 0
	for _, r := range productRows {
		p, ok := productFromRow(r)
		if !ok {
			skipped++
			continue
		}
		t.Products = append(t.Products, p)
	}
	for _, r := range movementRows {
		if r.blank() {
			continue
		}
		t.Movements = append(t.Movements, movementFromRow(r))
	}
	return t, skipped, nil
}

// Save respalda el archivo actual y reescribe el libro completo de forma atómica.
func (s *Store) Save(ctx context.Context, t repository.Tables) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.backups != nil {
		exists, err := fsutil.Exists(s.fs, s.path)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		if exists {
			if _, err := s.backups.Create(ctx); err != nil {
				return fmt.Errorf("%w: backup previo: %v", domain.ErrPersistence, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := s.render(t, &buf); err != nil {
		return fmt.Errorf("%w: generar libro: %v", domain.ErrPersistence, err)
	}
	if err := fsutil.WriteBytesAtomic(s.fs, s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	s.log.Debug().
		Str("file", s.path).
		Int("productos", len(t.Products)).
		Int("movimientos", len(t.Movements)).
		Msg("libro guardado")
	return nil
}

func (s *Store) readSheet(f *excelize.File, sheet string) ([]row, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		s.log.Warn().Str("sheet", sheet).Msg("hoja ausente, se lee vacía")
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: leer hoja %s: %v", domain.ErrPersistence, sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	idx := headerIndex(rows[0])
	out := make([]row, 0, len(rows)-1)
	for _, values := range rows[1:] {
		out = append(out, row{index: idx, values: values})
	}
	return out, nil
}

func productFromRow(r row) (entity.Product, bool) {
	name := r.get(ColProduct)
	if name == "" {
		return entity.Product{}, false
	}
	return entity.Product{
		Name:           name,
		Category:       r.get(ColCategory),
		Supplier:       r.get(ColSupplier),
		InitialStock:   ParseInt(r.get(ColInitialStock), 0),
		Inbound:        ParseInt(r.get(ColInbound), 0),
		Outbound:       ParseInt(r.get(ColOutbound), 0),
		CurrentStock:   ParseInt(r.get(ColCurrentStock), 0),
		MinStock:       ParseOptionalInt(r.get(ColMinStock)),
		UnitPrice:      ParseDecimal(r.get(ColUnitPrice)),
		TotalValue:     ParseDecimal(r.get(ColTotalValue)),
		LastMovementAt: ParseTime(r.get(ColLastMovement)),
		User:           r.get(ColUser),
		Notes:          r.get(ColNotes),
	}, true
}

func movementFromRow(r row) entity.Movement {
	typ, ok := entity.ParseMovementType(r.get(ColMovType))
	if !ok {
		// Valor desconocido: se conserva tal cual, el historial no se corrige.
		typ = entity.MovementType(r.get(ColMovType))
	}
	return entity.Movement{
		Date:        ParseTime(r.get(ColMovDate)),
		ProductName: r.get(ColMovProduct),
		Type:        typ,
		Quantity:    ParseInt(r.get(ColMovQuantity), 0),
		User:        r.get(ColMovUser),
		Notes:       r.get(ColMovNotes),
		StockBefore: ParseInt(r.get(ColMovStockBefore), 0),
		StockAfter:  ParseInt(r.get(ColMovStockAfter), 0),
	}
}

func (s *Store) render(t repository.Tables, buf *bytes.Buffer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.productsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(s.movementsSheet); err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	products := make([][]interface{}, 0, len(t.Products))
	for _, p := range t.Products {
		products = append(products, productCells(p))
	}
	if err := writeTable(f, s.productsSheet, ProductHeaders, products, header); err != nil {
		return err
	}

	movements := make([][]interface{}, 0, len(t.Movements))
	for _, m := range t.Movements {
		movements = append(movements, movementCells(m))
	}
	if err := writeTable(f, s.movementsSheet, MovementHeaders, movements, header); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(buf)
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int) error {
	head := make([]interface{}, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func productCells(p entity.Product) []interface{} {
	var minStock interface{} = ""
	if p.HasMinStock() {
		minStock = *p.MinStock
	}
	return []interface{}{
		p.Name,
		p.Category,
		p.Supplier,
		p.InitialStock,
		p.Inbound,
		p.Outbound,
		p.CurrentStock,
		minStock,
		amount(p.UnitPrice),
		amount(p.TotalValue),
		FormatTime(p.LastMovementAt),
		p.User,
		p.Notes,
	}
}

func movementCells(m entity.Movement) []interface{} {
	return []interface{}{
		FormatTime(m.Date),
		m.ProductName,
		string(m.Type),
		m.Quantity,
		m.User,
		m.Notes,
		m.StockBefore,
		m.StockAfter,
	}
}

// maxCellDigits dígitos significativos que excelize conserva al leer una celda numérica.
const maxCellDigits = 15

// amount escribe el importe como celda numérica para que la planilla pueda operar con él,
// salvo que el float64 no lo represente exacto: ahí va como texto para no perder precisión.
func amount(d decimal.Decimal) interface{} {
	digits := strings.TrimPrefix(d.Coefficient().String(), "-")
	f := d.InexactFloat64()
	if len(digits) > maxCellDigits || !decimal.NewFromFloat(f).Equal(d) {
		return d.String()
	}
	return f
}
