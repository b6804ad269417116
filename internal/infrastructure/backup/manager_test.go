package backup_test

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/backup"
)

const target = "/datos/Inventario2.0.xlsx"

// steppingClock devuelve instantes separados por un minuto.
func steppingClock() func() time.Time {
	t := time.Date(2024, 5, 10, 8, 30, 0, 0, time.Local)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func setup(t *testing.T) (afero.Fs, *backup.Manager) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, target, []byte("v1"), 0o644))
	return fs, backup.NewManager(fs, target, nil, backup.WithClock(steppingClock()))
}

func TestNameFor(t *testing.T) {
	m := backup.NewManager(afero.NewMemMapFs(), target, nil)
	got := m.NameFor(time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local))
	assert.Equal(t, "Inventario2.0_bak_20240102_030405.xlsx", got)
}

func TestCreateYList(t *testing.T) {
	ctx := context.Background()
	fs, m := setup(t)

	first, err := m.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Inventario2.0_bak_20240510_083100.xlsx", first.Name)

	require.NoError(t, afero.WriteFile(fs, target, []byte("v2-mas-largo"), 0o644))
	second, err := m.Create(ctx)
	require.NoError(t, err)

	// Archivos ajenos al patrón no se listan.
	require.NoError(t, afero.WriteFile(fs, "/datos/otro_bak_20240101_000000.xlsx", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/datos/Inventario2.0_bak_roto.xlsx", []byte("x"), 0o644))

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.Name, list[0].Name, "más reciente primero")
	assert.Equal(t, first.Name, list[1].Name)
	assert.Equal(t, int64(len("v2-mas-largo")), list[0].Size)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	data, err := afero.ReadFile(fs, first.Path)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data), "el backup es una copia byte a byte")
}

func TestCreate_SinLibro(t *testing.T) {
	m := backup.NewManager(afero.NewMemMapFs(), target, nil)
	_, err := m.Create(context.Background())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	fs, m := setup(t)
	b, err := m.Create(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Delete(ctx, "../etc/passwd"), domain.ErrInvalidInput)
	assert.ErrorIs(t, m.Delete(ctx, "Inventario2.0.xlsx"), domain.ErrInvalidInput, "el libro no es un backup")
	assert.ErrorIs(t, m.Delete(ctx, "Inventario2.0_bak_20000101_000000.xlsx"), domain.ErrNotFound)

	require.NoError(t, m.Delete(ctx, b.Name))
	ok, err := afero.Exists(fs, b.Path)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = afero.Exists(fs, target)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	fs, m := setup(t)
	b, err := m.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, target, []byte("v2"), 0o644))

	require.NoError(t, m.Restore(ctx, b.Name, nil))

	data, err := afero.ReadFile(fs, target)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2, "se respalda el libro antes de restaurar")
	prev, err := afero.ReadFile(fs, list[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(prev))
}

func TestRestore_ContenidoRechazado(t *testing.T) {
	ctx := context.Background()
	fs, m := setup(t)
	b, err := m.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, target, []byte("v2"), 0o644))

	err = m.Restore(ctx, b.Name, func(data []byte) error {
		assert.Equal(t, "v1", string(data))
		return domain.ErrPersistence
	})
	require.ErrorIs(t, err, domain.ErrPersistence)

	data, err := afero.ReadFile(fs, target)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
	list, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1, "sin respaldo previo cuando se rechaza")
}

func TestRestore_MismoSegundo(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, target, []byte("v1"), 0o644))
	fixed := time.Date(2024, 5, 10, 8, 30, 0, 0, time.Local)
	m := backup.NewManager(fs, target, nil, backup.WithClock(func() time.Time { return fixed }))

	b, err := m.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, target, []byte("v2"), 0o644))

	require.NoError(t, m.Restore(ctx, b.Name, nil))
	data, err := afero.ReadFile(fs, target)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	_, m := setup(t)
	for i := 0; i < 5; i++ {
		_, err := m.Create(ctx)
		require.NoError(t, err)
	}

	removed, err := m.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, removed, "0 conserva todos")

	before, err := m.List(ctx)
	require.NoError(t, err)

	removed, err = m.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	after, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, before[:2], after)
}
