package backup_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbackup "github.com/jhoicas/inventario-ledger/internal/application/backup"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	appinv "github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/backup"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/workbook"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

var cfg = config.InventoryConfig{File: "/inv/Inventario2.0.xlsx", ProductsSheet: "Inventario2.0", MovementsSheet: "Movimientos"}

func clock() func() time.Time {
	t := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	fs      afero.Fs
	mgr     *backup.Manager
	ledger  *appinv.LedgerService
	backups *appbackup.UseCase
}

func setup(t *testing.T, retention int) fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	mgr := backup.NewManager(fs, cfg.File, nil, backup.WithClock(clock()))
	store := workbook.NewStore(fs, cfg, mgr, nil)
	svc := appinv.NewLedgerService(inventory.NewLedger(), store, "", nil)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	return fixture{fs: fs, mgr: mgr, ledger: svc, backups: appbackup.NewUseCase(mgr, svc, store, retention, nil)}
}

func TestCadaGuardadoDejaUnBackup(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 0)

	_, err := f.ledger.AddProduct(ctx, dto.CreateProductRequest{Name: "Widget", InitialStock: 10}, "")
	require.NoError(t, err)
	_, err = f.ledger.RegisterMovement(ctx, "Widget", dto.RegisterMovementRequest{Type: "Entrada", Quantity: 5}, "")
	require.NoError(t, err)

	list, err := f.backups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2, "un backup antes de cada reescritura")
}

func TestRestaurarRecargaElInventario(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 0)

	_, err := f.ledger.AddProduct(ctx, dto.CreateProductRequest{Name: "Widget", InitialStock: 10, UnitPrice: decimal.NewFromInt(2)}, "")
	require.NoError(t, err)
	snap, err := f.backups.Create(ctx) // libro con Widget=10
	require.NoError(t, err)

	_, err = f.ledger.RegisterMovement(ctx, "Widget", dto.RegisterMovementRequest{Type: "Salida", Quantity: 4}, "")
	require.NoError(t, err)
	p, _ := f.ledger.GetProduct("Widget")
	require.Equal(t, 6, p.CurrentStock)

	res, err := f.backups.Restore(ctx, snap.Name)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Products)
	assert.Equal(t, 0, res.Movements)

	p, err = f.ledger.GetProduct("Widget")
	require.NoError(t, err)
	assert.Equal(t, 10, p.CurrentStock)
}

func TestRestaurar_BackupCorruptoNoTocaElLibro(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 0)

	_, err := f.ledger.AddProduct(ctx, dto.CreateProductRequest{Name: "Widget", InitialStock: 10}, "")
	require.NoError(t, err)
	before, err := afero.ReadFile(f.fs, cfg.File)
	require.NoError(t, err)
	list, err := f.backups.List(ctx)
	require.NoError(t, err)

	const corrupt = "Inventario2.0_bak_20200101_000000.xlsx"
	require.NoError(t, afero.WriteFile(f.fs, "/inv/"+corrupt, []byte("no es un xlsx"), 0o644))

	_, err = f.backups.Restore(ctx, corrupt)
	require.ErrorIs(t, err, domain.ErrPersistence)

	after, err := afero.ReadFile(f.fs, cfg.File)
	require.NoError(t, err)
	assert.Equal(t, before, after, "el libro en disco no cambia")

	again, err := f.backups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, again.Items, len(list.Items)+1, "solo aparece el backup corrupto, sin respaldo previo")

	p, err := f.ledger.GetProduct("Widget")
	require.NoError(t, err)
	assert.Equal(t, 10, p.CurrentStock)

	// El archivo sigue siendo cargable desde cero.
	fresh := appinv.NewLedgerService(inventory.NewLedger(), workbook.NewStore(f.fs, cfg, nil, nil), "", nil)
	_, err = fresh.Load(ctx)
	require.NoError(t, err)
	_, err = fresh.GetProduct("Widget")
	assert.NoError(t, err)
}

func TestRestaurar_Inexistente(t *testing.T) {
	f := setup(t, 0)
	_, err := f.backups.Restore(context.Background(), "Inventario2.0_bak_19990101_000000.xlsx")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunScheduled_AplicaRetencion(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	for i := 0; i < 4; i++ {
		require.NoError(t, f.backups.RunScheduled(ctx))
	}
	list, err := f.backups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestPrune_Validacion(t *testing.T) {
	f := setup(t, 0)
	_, err := f.backups.Prune(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 0)
	b, err := f.backups.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, f.backups.Delete(ctx, b.Name))
	list, err := f.backups.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}
