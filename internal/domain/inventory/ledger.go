// Package inventory contiene el libro mayor de inventario: la tabla de productos
// indexada por nombre normalizado y el historial de movimientos append-only.
package inventory

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// DateLayout formato de fecha usado en el libro, la exportación CSV y las búsquedas.
const DateLayout = "2006-01-02 15:04:05"

// NewProduct datos de alta de un producto.
type NewProduct struct {
	Name         string
	Category     string
	Supplier     string
	InitialStock int
	MinStock     *int
	UnitPrice    decimal.Decimal
	User         string
	Notes        string
}

// ProductChanges edición de metadatos. nil = campo omitido (se conserva).
// ClearMinStock elimina el umbral de stock mínimo.
type ProductChanges struct {
	Category      *string
	Supplier      *string
	UnitPrice     *decimal.Decimal
	MinStock      *int
	ClearMinStock bool
	User          *string
	Notes         *string
}

// MovementRequest entrada o salida de stock.
type MovementRequest struct {
	Type     entity.MovementType
	Quantity int
	User     string
	Notes    string
}

// LowStockItem producto en alerta y cuánto le falta para llegar al mínimo.
type LowStockItem struct {
	Product entity.Product
	Deficit int
}

// RestoreReport resume las correcciones aplicadas al cargar tablas persistidas.
type RestoreReport struct {
	Duplicates []string // nombres repetidos descartados (gana la primera fila)
	Recomputed []string // productos cuyo Stock Final o Valor Total guardado no cuadraba
}

// Option configura el Ledger.
type Option func(*Ledger)

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Ledger mantiene productos y movimientos consistentes.
// Cada operación se completa bajo el lock antes de que empiece la siguiente;
// ningún lector observa contadores actualizados sin su stock, valor y movimiento.
type Ledger struct {
	mu        sync.RWMutex
	products  map[string]*entity.Product
	order     []string // claves normalizadas en orden de tabla
	movements []entity.Movement
	now       func() time.Time
}

// NewLedger crea un ledger vacío.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		products: make(map[string]*entity.Product),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddProduct da de alta un producto. El stock inicial no genera movimiento.
func (l *Ledger) AddProduct(in NewProduct) (entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.Product{}, fmt.Errorf("%w: el campo 'Producto' es obligatorio", domain.ErrInvalidInput)
	}
	if in.InitialStock < 0 {
		return entity.Product{}, fmt.Errorf("%w: stock inicial negativo", domain.ErrInvalidInput)
	}
	if in.UnitPrice.IsNegative() {
		return entity.Product{}, fmt.Errorf("%w: precio unitario negativo", domain.ErrInvalidInput)
	}
	if in.MinStock != nil && *in.MinStock < 0 {
		return entity.Product{}, fmt.Errorf("%w: stock mínimo negativo", domain.ErrInvalidInput)
	}

	key := NormalizeName(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.products[key]; exists {
		return entity.Product{}, fmt.Errorf("%w: %q", domain.ErrDuplicate, name)
	}

	p := entity.Product{
		Name:           name,
		Category:       strings.TrimSpace(in.Category),
		Supplier:       strings.TrimSpace(in.Supplier),
		InitialStock:   in.InitialStock,
		CurrentStock:   in.InitialStock,
		MinStock:       copyInt(in.MinStock),
		UnitPrice:      in.UnitPrice,
		TotalValue:     Valuation(in.InitialStock, in.UnitPrice),
		LastMovementAt: l.now(),
		User:           strings.TrimSpace(in.User),
		Notes:          strings.TrimSpace(in.Notes),
	}
	l.products[key] = &p
	l.order = append(l.order, key)
	return p.Clone(), nil
}

// EditProduct actualiza solo los metadatos indicados. El stock no se toca;
// si cambia el precio se recalcula el valor total.
func (l *Ledger) EditProduct(name string, ch ProductChanges) (entity.Product, error) {
	if ch.UnitPrice != nil && ch.UnitPrice.IsNegative() {
		return entity.Product{}, fmt.Errorf("%w: precio unitario negativo", domain.ErrInvalidInput)
	}
	if ch.MinStock != nil && *ch.MinStock < 0 {
		return entity.Product{}, fmt.Errorf("%w: stock mínimo negativo", domain.ErrInvalidInput)
	}
	if ch.MinStock != nil && ch.ClearMinStock {
		return entity.Product{}, fmt.Errorf("%w: stock mínimo y limpiar stock mínimo son excluyentes", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.products[NormalizeName(name)]
	if !ok {
		return entity.Product{}, fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}

	p := current.Clone()
	if ch.Category != nil {
		p.Category = strings.TrimSpace(*ch.Category)
	}
	if ch.Supplier != nil {
		p.Supplier = strings.TrimSpace(*ch.Supplier)
	}
	if ch.UnitPrice != nil {
		p.UnitPrice = *ch.UnitPrice
		p.TotalValue = Valuation(p.CurrentStock, p.UnitPrice)
	}
	switch {
	case ch.ClearMinStock:
		p.MinStock = nil
	case ch.MinStock != nil:
		p.MinStock = copyInt(ch.MinStock)
	}
	if ch.User != nil {
		p.User = strings.TrimSpace(*ch.User)
	}
	if ch.Notes != nil {
		p.Notes = strings.TrimSpace(*ch.Notes)
	}
	p.LastMovementAt = l.now()

	*current = p
	return p.Clone(), nil
}

// ApplyMovement registra una entrada o salida y agrega una fila al historial.
// Una salida mayor al stock actual se rechaza sin aplicar nada.
func (l *Ledger) ApplyMovement(name string, req MovementRequest) (entity.Product, entity.Movement, error) {
	if req.Quantity <= 0 {
		return entity.Product{}, entity.Movement{}, fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if req.Type != entity.MovementTypeIN && req.Type != entity.MovementTypeOUT {
		return entity.Product{}, entity.Movement{}, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, req.Type)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.products[NormalizeName(name)]
	if !ok {
		return entity.Product{}, entity.Movement{}, fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}

	p := current.Clone()
	before := p.CurrentStock
	switch req.Type {
	case entity.MovementTypeIN:
		// el stock y el acumulado de entradas deben seguir siendo representables
		if req.Quantity > math.MaxInt-before || p.Inbound > math.MaxInt-req.Quantity {
			return entity.Product{}, entity.Movement{}, fmt.Errorf("%w: la entrada de %d excede el máximo de stock de %q",
				domain.ErrInvalidInput, req.Quantity, p.Name)
		}
		p.Inbound += req.Quantity
	case entity.MovementTypeOUT:
		if before < req.Quantity {
			return entity.Product{}, entity.Movement{}, fmt.Errorf("%w: %q tiene %d, se solicitaron %d",
				domain.ErrInsufficientStock, p.Name, before, req.Quantity)
		}
		if p.Outbound > math.MaxInt-req.Quantity {
			return entity.Product{}, entity.Movement{}, fmt.Errorf("%w: el acumulado de salidas de %q excede el máximo",
				domain.ErrInvalidInput, p.Name)
		}
		p.Outbound += req.Quantity
	}
	p.CurrentStock = CurrentStock(p.InitialStock, p.Inbound, p.Outbound)
	p.TotalValue = Valuation(p.CurrentStock, p.UnitPrice)
	now := l.now()
	p.LastMovementAt = now

	mov := entity.Movement{
		Date:        now,
		ProductName: p.Name,
		Type:        req.Type,
		Quantity:    req.Quantity,
		User:        strings.TrimSpace(req.User),
		Notes:       strings.TrimSpace(req.Notes),
		StockBefore: before,
		StockAfter:  p.CurrentStock,
	}

	*current = p
	l.movements = append(l.movements, mov)
	return p.Clone(), mov, nil
}

// DeleteProduct elimina el producto. Sus movimientos históricos se conservan.
func (l *Ledger) DeleteProduct(name string) error {
	key := NormalizeName(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.products[key]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}
	delete(l.products, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get devuelve el producto con ese nombre (coincidencia exacta normalizada).
func (l *Ledger) Get(name string) (entity.Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.products[NormalizeName(name)]
	if !ok {
		return entity.Product{}, fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}
	return p.Clone(), nil
}

// FindProduct busca por nombre. La coincidencia exacta se devuelve sola; si no hay
// y partial es true, devuelve las coincidencias por subcadena en orden de tabla.
// Una consulta vacía no devuelve nada.
func (l *Ledger) FindProduct(query string, partial bool) []entity.Product {
	q := NormalizeName(query)
	if q == "" {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if p, ok := l.products[q]; ok {
		return []entity.Product{p.Clone()}
	}
	if !partial {
		return nil
	}
	var out []entity.Product
	for _, key := range l.order {
		if strings.Contains(key, q) {
			out = append(out, l.products[key].Clone())
		}
	}
	return out
}

// FilterProducts filtro de la lista: subcadena sobre nombre, categoría o proveedor.
// A diferencia de FindProduct, una consulta vacía devuelve todos los productos.
func (l *Ledger) FilterProducts(query string) []entity.Product {
	q := NormalizeName(query)

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.Product, 0, len(l.order))
	for _, key := range l.order {
		p := l.products[key]
		if q == "" || strings.Contains(key, q) || containsFolded(p.Category, q) || containsFolded(p.Supplier, q) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// LowStockReport productos con umbral definido y StockFinal <= StockMínimo, en orden de tabla.
func (l *Ledger) LowStockReport() []LowStockItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []LowStockItem
	for _, key := range l.order {
		p := l.products[key]
		if !p.HasMinStock() || p.CurrentStock > *p.MinStock {
			continue
		}
		out = append(out, LowStockItem{Product: p.Clone(), Deficit: *p.MinStock - p.CurrentStock})
	}
	return out
}

// Products copia de la tabla de productos en orden.
func (l *Ledger) Products() []entity.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.productsLocked()
}

// Movements copia del historial en orden cronológico de registro.
func (l *Ledger) Movements() []entity.Movement {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]entity.Movement(nil), l.movements...)
}

// Snapshot devuelve ambas tablas tomadas en el mismo instante (para guardar).
func (l *Ledger) Snapshot() ([]entity.Product, []entity.Movement) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.productsLocked(), append([]entity.Movement(nil), l.movements...)
}

// SearchMovements busca la subcadena en cualquier columna del historial.
// Resultado del más reciente al más antiguo; consulta vacía devuelve todo.
func (l *Ledger) SearchMovements(query string) []entity.Movement {
	q := NormalizeName(query)

	l.mu.RLock()
	out := make([]entity.Movement, 0, len(l.movements))
	for _, m := range l.movements {
		if q == "" || movementMatches(m, q) {
			out = append(out, m)
		}
	}
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Restore reemplaza el contenido con tablas cargadas desde disco. Recalcula los derivados
// y descarta nombres repetidos. Si algún producto queda con stock negativo no cambia nada.
func (l *Ledger) Restore(products []entity.Product, movements []entity.Movement) (RestoreReport, error) {
	var report RestoreReport
	byKey := make(map[string]*entity.Product, len(products))
	order := make([]string, 0, len(products))

	for _, raw := range products {
		p := raw.Clone()
		p.Name = strings.TrimSpace(p.Name)
		key := NormalizeName(p.Name)
		if key == "" {
			return RestoreReport{}, fmt.Errorf("%w: producto sin nombre", domain.ErrInvalidInput)
		}
		if _, dup := byKey[key]; dup {
			report.Duplicates = append(report.Duplicates, p.Name)
			continue
		}
		if p.InitialStock < 0 || p.Inbound < 0 || p.Outbound < 0 {
			return RestoreReport{}, fmt.Errorf("%w: %q tiene contadores negativos", domain.ErrInvalidInput, p.Name)
		}
		if p.UnitPrice.IsNegative() {
			return RestoreReport{}, fmt.Errorf("%w: %q tiene precio negativo", domain.ErrInvalidInput, p.Name)
		}
		stock := CurrentStock(p.InitialStock, p.Inbound, p.Outbound)
		if stock < 0 {
			return RestoreReport{}, fmt.Errorf("%w: %q quedaría con stock %d", domain.ErrInvalidInput, p.Name, stock)
		}
		value := Valuation(stock, p.UnitPrice)
		if stock != p.CurrentStock || !value.Equal(p.TotalValue) {
			report.Recomputed = append(report.Recomputed, p.Name)
		}
		p.CurrentStock = stock
		p.TotalValue = value
		byKey[key] = &p
		order = append(order, key)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.products = byKey
	l.order = order
	l.movements = append([]entity.Movement(nil), movements...)
	return report, nil
}

func (l *Ledger) productsLocked() []entity.Product {
	out := make([]entity.Product, 0, len(l.order))
	for _, key := range l.order {
		out = append(out, l.products[key].Clone())
	}
	return out
}

func movementMatches(m entity.Movement, q string) bool {
	fields := []string{
		m.Date.Format(DateLayout),
		m.ProductName,
		string(m.Type),
		strconv.Itoa(m.Quantity),
		m.User,
		m.Notes,
		strconv.Itoa(m.StockBefore),
		strconv.Itoa(m.StockAfter),
	}
	for _, f := range fields {
		if containsFolded(f, q) {
			return true
		}
	}
	return false
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
