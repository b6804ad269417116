package inventory_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// fixedClock avanza un segundo en cada llamada para poder ordenar movimientos.
func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newLedger(t *testing.T) *inventory.Ledger {
	t.Helper()
	return inventory.NewLedger(inventory.WithClock(fixedClock()))
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func mustAdd(t *testing.T, l *inventory.Ledger, in inventory.NewProduct) entity.Product {
	t.Helper()
	p, err := l.AddProduct(in)
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo "Widget"
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_EscenarioWidget(t *testing.T) {
	l := newLedger(t)

	p := mustAdd(t, l, inventory.NewProduct{
		Name:         "Widget",
		InitialStock: 10,
		UnitPrice:    decimal.RequireFromString("2.50"),
	})
	assert.Equal(t, 10, p.CurrentStock)
	assert.True(t, p.TotalValue.Equal(decimal.RequireFromString("25.00")))
	assert.Empty(t, l.Movements(), "el stock inicial no es un movimiento")

	p, mov, err := l.ApplyMovement("Widget", inventory.MovementRequest{Type: entity.MovementTypeIN, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 15, p.CurrentStock)
	assert.True(t, p.TotalValue.Equal(decimal.RequireFromString("37.50")))
	assert.Equal(t, 10, mov.StockBefore)
	assert.Equal(t, 15, mov.StockAfter)
	require.Len(t, l.Movements(), 1)

	_, _, err = l.ApplyMovement("Widget", inventory.MovementRequest{Type: entity.MovementTypeOUT, Quantity: 20})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	got, err := l.Get("widget")
	require.NoError(t, err)
	assert.Equal(t, 15, got.CurrentStock, "el rechazo no debe modificar el estado")
	assert.Equal(t, 0, got.Outbound)
	assert.Len(t, l.Movements(), 1)

	p, mov, err = l.ApplyMovement("Widget", inventory.MovementRequest{Type: entity.MovementTypeOUT, Quantity: 15})
	require.NoError(t, err)
	assert.Equal(t, 0, p.CurrentStock)
	assert.True(t, p.TotalValue.IsZero())
	assert.Equal(t, 15, mov.StockBefore)
	assert.Equal(t, 0, mov.StockAfter)
	assert.Equal(t, 5, p.Inbound)
	assert.Equal(t, 15, p.Outbound)
}

// ──────────────────────────────────────────────────────────────────────────────
// AddProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProduct_Duplicado(t *testing.T) {
	l := newLedger(t)
	orig := mustAdd(t, l, inventory.NewProduct{Name: "Café Molido", InitialStock: 3, UnitPrice: decimal.NewFromInt(4)})

	for _, name := range []string{"café molido", "  CAFÉ MOLIDO  ", "Café Molido"} {
		_, err := l.AddProduct(inventory.NewProduct{Name: name, InitialStock: 99})
		assert.ErrorIs(t, err, domain.ErrDuplicate, name)
	}

	got, err := l.Get("Café Molido")
	require.NoError(t, err)
	assert.Equal(t, orig, got, "el producto existente no se modifica")
	assert.Len(t, l.Products(), 1)
}

func TestAddProduct_Validaciones(t *testing.T) {
	cases := map[string]inventory.NewProduct{
		"nombre vacío":    {Name: "   "},
		"stock negativo":  {Name: "A", InitialStock: -1},
		"precio negativo": {Name: "A", UnitPrice: decimal.NewFromInt(-1)},
		"mínimo negativo": {Name: "A", MinStock: intPtr(-2)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			l := newLedger(t)
			_, err := l.AddProduct(in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, l.Products())
		})
	}
}

func TestAddProduct_RecortaEspacios(t *testing.T) {
	l := newLedger(t)
	p := mustAdd(t, l, inventory.NewProduct{Name: "  Tornillo  ", Category: " Ferretería ", Supplier: " ACME "})
	assert.Equal(t, "Tornillo", p.Name)
	assert.Equal(t, "Ferretería", p.Category)
	assert.Equal(t, "ACME", p.Supplier)
	assert.Equal(t, 0, p.Inbound)
	assert.Equal(t, 0, p.Outbound)
	assert.False(t, p.LastMovementAt.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// EditProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestEditProduct_SoloCamposIndicados(t *testing.T) {
	l := newLedger(t)
	orig := mustAdd(t, l, inventory.NewProduct{
		Name: "Lápiz", Category: "Papelería", Supplier: "Faber", InitialStock: 4,
		MinStock: intPtr(2), UnitPrice: decimal.RequireFromString("1.25"), User: "ana", Notes: "HB",
	})

	p, err := l.EditProduct("lápiz", inventory.ProductChanges{Supplier: strPtr("Staedtler")})
	require.NoError(t, err)

	assert.Equal(t, "Staedtler", p.Supplier)
	assert.Equal(t, "Papelería", p.Category, "campo omitido se conserva")
	assert.Equal(t, "ana", p.User)
	assert.Equal(t, "HB", p.Notes)
	require.NotNil(t, p.MinStock)
	assert.Equal(t, 2, *p.MinStock)
	assert.True(t, p.UnitPrice.Equal(orig.UnitPrice))
	assert.Equal(t, orig.CurrentStock, p.CurrentStock)
	assert.True(t, p.LastMovementAt.After(orig.LastMovementAt))
}

func TestEditProduct_PrecioRecalculaValor(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Taza", InitialStock: 4, UnitPrice: decimal.NewFromInt(3)})

	p, err := l.EditProduct("Taza", inventory.ProductChanges{UnitPrice: decPtr("2.75")})
	require.NoError(t, err)
	assert.Equal(t, 4, p.CurrentStock)
	assert.True(t, p.TotalValue.Equal(decimal.RequireFromString("11")))
}

func TestEditProduct_LimpiarMinimo(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Taza", MinStock: intPtr(5)})

	p, err := l.EditProduct("Taza", inventory.ProductChanges{ClearMinStock: true})
	require.NoError(t, err)
	assert.Nil(t, p.MinStock)

	_, err = l.EditProduct("Taza", inventory.ProductChanges{ClearMinStock: true, MinStock: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEditProduct_Errores(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Taza", UnitPrice: decimal.NewFromInt(3)})

	_, err := l.EditProduct("Plato", inventory.ProductChanges{Notes: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = l.EditProduct("Taza", inventory.ProductChanges{UnitPrice: decPtr("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, _ := l.Get("Taza")
	assert.True(t, got.UnitPrice.Equal(decimal.NewFromInt(3)))
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_Validaciones(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Taza", InitialStock: 2})

	_, _, err := l.ApplyMovement("Taza", inventory.MovementRequest{Type: entity.MovementTypeIN, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = l.ApplyMovement("Taza", inventory.MovementRequest{Type: entity.MovementTypeOUT, Quantity: -3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = l.ApplyMovement("Taza", inventory.MovementRequest{Type: "Ajuste", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = l.ApplyMovement("Plato", inventory.MovementRequest{Type: entity.MovementTypeIN, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, l.Movements())
}

func TestApplyMovement_InvariantesEnSecuencia(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Caja", InitialStock: 3, UnitPrice: decimal.RequireFromString("0.10")})

	steps := []struct {
		typ entity.MovementType
		qty int
	}{
		{entity.MovementTypeIN, 7}, {entity.MovementTypeOUT, 4}, {entity.MovementTypeOUT, 6},
		{entity.MovementTypeOUT, 1}, {entity.MovementTypeIN, 12}, {entity.MovementTypeOUT, 12},
	}
	for i, s := range steps {
		before, _ := l.Get("Caja")
		p, mov, err := l.ApplyMovement("Caja", inventory.MovementRequest{Type: s.typ, Quantity: s.qty, User: "luis"})
		if s.typ == entity.MovementTypeOUT && s.qty > before.CurrentStock {
			require.ErrorIs(t, err, domain.ErrInsufficientStock, "paso %d", i)
			after, _ := l.Get("Caja")
			assert.Equal(t, before, after)
			continue
		}
		require.NoError(t, err, "paso %d", i)

		delta := s.qty
		if s.typ == entity.MovementTypeOUT {
			delta = -s.qty
		}
		assert.Equal(t, before.CurrentStock+delta, p.CurrentStock)
		assert.GreaterOrEqual(t, p.CurrentStock, 0)
		assert.Equal(t, p.InitialStock+p.Inbound-p.Outbound, p.CurrentStock)
		assert.True(t, p.TotalValue.Equal(inventory.Valuation(p.CurrentStock, p.UnitPrice)))
		assert.Equal(t, before.CurrentStock, mov.StockBefore)
		assert.Equal(t, p.CurrentStock, mov.StockAfter)
		assert.Equal(t, "luis", mov.User)
		assert.Equal(t, "Caja", mov.ProductName)
	}
	assert.Len(t, l.Movements(), 5)
}

func TestApplyMovement_EntradaDesbordaStock(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Widget", InitialStock: 10, UnitPrice: decimal.NewFromInt(2)})
	before, err := l.Get("Widget")
	require.NoError(t, err)

	_, _, err = l.ApplyMovement("Widget", inventory.MovementRequest{Type: entity.MovementTypeIN, Quantity: math.MaxInt})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = l.ApplyMovement("Widget", inventory.MovementRequest{Type: entity.MovementTypeIN, Quantity: math.MaxInt - 9})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	after, err := l.Get("Widget")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, l.Movements())

	// el límite exacto sigue siendo válido y el libro se puede recargar
	p, _, err := l.ApplyMovement("Widget", inventory.MovementRequest{Type: entity.MovementTypeIN, Quantity: math.MaxInt - 10})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, p.CurrentStock)

	products, movements := l.Snapshot()
	_, err = inventory.NewLedger().Restore(products, movements)
	assert.NoError(t, err)
}

func TestApplyMovement_HistorialInmutable(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Caja", InitialStock: 1})
	_, _, err := l.ApplyMovement("Caja", inventory.MovementRequest{Type: entity.MovementTypeIN, Quantity: 2, Notes: "compra"})
	require.NoError(t, err)

	movs := l.Movements()
	movs[0].Quantity = 999
	movs[0].Notes = "alterado"

	again := l.Movements()
	assert.Equal(t, 2, again[0].Quantity, "las copias devueltas no alteran el historial")
	assert.Equal(t, "compra", again[0].Notes)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteProduct_ConservaHistorial(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "A", InitialStock: 1})
	mustAdd(t, l, inventory.NewProduct{Name: "B", InitialStock: 1})
	mustAdd(t, l, inventory.NewProduct{Name: "C", InitialStock: 1})
	_, _, err := l.ApplyMovement("B", inventory.MovementRequest{Type: entity.MovementTypeOUT, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, l.DeleteProduct(" b "))
	assert.ErrorIs(t, l.DeleteProduct("B"), domain.ErrNotFound)

	names := []string{}
	for _, p := range l.Products() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"A", "C"}, names, "se mantiene el orden de tabla")
	require.Len(t, l.Movements(), 1)
	assert.Equal(t, "B", l.Movements()[0].ProductName)

	// El nombre queda libre para un nuevo alta.
	mustAdd(t, l, inventory.NewProduct{Name: "B"})
}

// ──────────────────────────────────────────────────────────────────────────────
// FindProduct / FilterProducts
// ──────────────────────────────────────────────────────────────────────────────

func TestFindProduct(t *testing.T) {
	l := newLedger(t)
	for _, n := range []string{"Tornillo 5mm", "Tornillo", "Tuerca", "Arandela tornillo"} {
		mustAdd(t, l, inventory.NewProduct{Name: n})
	}

	t.Run("exacto gana y es exclusivo", func(t *testing.T) {
		got := l.FindProduct("  TORNILLO ", true)
		require.Len(t, got, 1)
		assert.Equal(t, "Tornillo", got[0].Name)
	})
	t.Run("parcial en orden de tabla", func(t *testing.T) {
		got := l.FindProduct("tornil", true)
		require.Len(t, got, 3)
		assert.Equal(t, "Tornillo 5mm", got[0].Name)
		assert.Equal(t, "Tornillo", got[1].Name)
		assert.Equal(t, "Arandela tornillo", got[2].Name)
	})
	t.Run("sin parcial", func(t *testing.T) {
		assert.Empty(t, l.FindProduct("tornil", false))
	})
	t.Run("consulta vacía no devuelve nada", func(t *testing.T) {
		assert.Empty(t, l.FindProduct("   ", true))
	})
}

func TestFilterProducts(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Martillo", Category: "Herramientas", Supplier: "Truper"})
	mustAdd(t, l, inventory.NewProduct{Name: "Clavo", Category: "Ferretería", Supplier: "ACME"})
	mustAdd(t, l, inventory.NewProduct{Name: "Sierra", Category: "Herramientas", Supplier: "acme"})

	assert.Len(t, l.FilterProducts(""), 3, "el filtro de lista vacío muestra todo")
	assert.Len(t, l.FilterProducts("herram"), 2)
	assert.Len(t, l.FilterProducts("ACME"), 2)
	assert.Len(t, l.FilterProducts("clav"), 1)
	assert.Empty(t, l.FilterProducts("zzz"))
}

// ──────────────────────────────────────────────────────────────────────────────
// LowStockReport
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStockReport(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Sin umbral", InitialStock: 0})
	mustAdd(t, l, inventory.NewProduct{Name: "Justo", InitialStock: 5, MinStock: intPtr(5)})
	mustAdd(t, l, inventory.NewProduct{Name: "Sobra", InitialStock: 6, MinStock: intPtr(5)})
	mustAdd(t, l, inventory.NewProduct{Name: "Falta", InitialStock: 1, MinStock: intPtr(10)})
	mustAdd(t, l, inventory.NewProduct{Name: "Cero", InitialStock: 0, MinStock: intPtr(0)})

	got := l.LowStockReport()
	require.Len(t, got, 3)
	assert.Equal(t, "Justo", got[0].Product.Name)
	assert.Equal(t, 0, got[0].Deficit)
	assert.Equal(t, "Falta", got[1].Product.Name, "orden de tabla, no por severidad")
	assert.Equal(t, 9, got[1].Deficit)
	assert.Equal(t, "Cero", got[2].Product.Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// SearchMovements / Restore
// ──────────────────────────────────────────────────────────────────────────────

func TestSearchMovements(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Caja", InitialStock: 10})
	mustAdd(t, l, inventory.NewProduct{Name: "Cinta", InitialStock: 10})
	_, _, _ = l.ApplyMovement("Caja", inventory.MovementRequest{Type: entity.MovementTypeIN, Quantity: 1, User: "Ana"})
	_, _, _ = l.ApplyMovement("Cinta", inventory.MovementRequest{Type: entity.MovementTypeOUT, Quantity: 2, Notes: "merma"})
	_, _, _ = l.ApplyMovement("Caja", inventory.MovementRequest{Type: entity.MovementTypeOUT, Quantity: 3})

	all := l.SearchMovements("")
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].Quantity, "más reciente primero")

	assert.Len(t, l.SearchMovements("caja"), 2)
	assert.Len(t, l.SearchMovements("ana"), 1)
	assert.Len(t, l.SearchMovements("MERMA"), 1)
	assert.Len(t, l.SearchMovements("salida"), 2)
}

func TestRestore(t *testing.T) {
	l := newLedger(t)
	products := []entity.Product{
		{Name: "A", InitialStock: 5, Inbound: 2, Outbound: 1, CurrentStock: 6, UnitPrice: decimal.NewFromInt(2), TotalValue: decimal.NewFromInt(12)},
		{Name: "B", InitialStock: 1, CurrentStock: 99, UnitPrice: decimal.NewFromInt(1), TotalValue: decimal.NewFromInt(1)},
		{Name: " a ", InitialStock: 100},
	}
	movements := []entity.Movement{{ProductName: "Borrado", Type: entity.MovementTypeIN, Quantity: 1, StockAfter: 1}}

	report, err := l.Restore(products, movements)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, report.Duplicates)
	assert.Equal(t, []string{"B"}, report.Recomputed)

	b, err := l.Get("b")
	require.NoError(t, err)
	assert.Equal(t, 1, b.CurrentStock)
	assert.True(t, b.TotalValue.Equal(decimal.NewFromInt(1)))
	assert.Len(t, l.Movements(), 1)
}

func TestRestore_StockNegativoNoCambiaNada(t *testing.T) {
	l := newLedger(t)
	mustAdd(t, l, inventory.NewProduct{Name: "Previo"})

	_, err := l.Restore([]entity.Product{{Name: "X", InitialStock: 1, Outbound: 5}}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = l.Get("Previo")
	assert.NoError(t, err)
}
