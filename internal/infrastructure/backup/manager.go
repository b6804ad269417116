// Package backup administra las copias fechadas del libro de inventario:
// <base>_bak_<YYYYMMDD_HHMMSS>.<ext> en el mismo directorio que el libro.
package backup

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/fsutil"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// StampLayout formato del sello de tiempo dentro del nombre del backup.
const StampLayout = "20060102_150405"

const marker = "_bak_"

// Option configura el Manager.
type Option func(*Manager)

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager implementa repository.BackupRepository sobre un afero.Fs.
type Manager struct {
	fs     afero.Fs
	target string
	dir    string
	base   string // nombre del libro sin extensión
	ext    string
	now    func() time.Time
	log    *logger.Logger
}

var _ repository.BackupRepository = (*Manager)(nil)

// NewManager crea el administrador de backups del libro en target.
func NewManager(fs afero.Fs, target string, log *logger.Logger, opts ...Option) *Manager {
	name := filepath.Base(target)
	ext := filepath.Ext(name)
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{
		fs:     fs,
		target: target,
		dir:    filepath.Dir(target),
		base:   strings.TrimSuffix(name, ext),
		ext:    ext,
		now:    time.Now,
		log:    log.Component("backup"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NameFor devuelve el nombre del backup correspondiente al instante t.
func (m *Manager) NameFor(t time.Time) string {
	return m.base + marker + t.Format(StampLayout) + m.ext
}

// Create copia el libro actual a su nombre de backup. Dos backups en el mismo
// segundo comparten nombre y el último reemplaza al anterior.
func (m *Manager) Create(ctx context.Context) (repository.Backup, error) {
	if err := ctx.Err(); err != nil {
		return repository.Backup{}, err
	}
	data, err := afero.ReadFile(m.fs, m.target)
	if err != nil {
		return repository.Backup{}, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, m.target, err)
	}
	now := m.now()
	b := repository.Backup{
		Name:      m.NameFor(now),
		CreatedAt: now.Truncate(time.Second),
		Size:      int64(len(data)),
	}
	b.Path = filepath.Join(m.dir, b.Name)
	if err := fsutil.WriteBytesAtomic(m.fs, b.Path, data); err != nil {
		return repository.Backup{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	m.log.Info().Str("backup", b.Name).Int64("bytes", b.Size).Msg("backup creado")
	return b, nil
}

// List devuelve los backups existentes, del más reciente al más antiguo.
func (m *Manager) List(ctx context.Context) ([]repository.Backup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(m.fs, m.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listar %s: %v", domain.ErrPersistence, m.dir, err)
	}
	out := make([]repository.Backup, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stamp, ok := m.parseName(e.Name())
		if !ok {
			continue
		}
		out = append(out, repository.Backup{
			Name:      e.Name(),
			Path:      filepath.Join(m.dir, e.Name()),
			CreatedAt: stamp,
			Size:      e.Size(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Delete elimina un backup por nombre. Solo acepta nombres con el patrón de backup.
func (m *Manager) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := m.resolve(name)
	if err != nil {
		return err
	}
	if err := m.fs.Remove(path); err != nil {
		return fmt.Errorf("%w: eliminar %s: %v", domain.ErrPersistence, name, err)
	}
	m.log.Info().Str("backup", name).Msg("backup eliminado")
	return nil
}

// Restore reemplaza el libro por el backup indicado. Antes respalda el libro actual,
// de modo que la restauración también se puede deshacer. Si check rechaza el
// contenido del backup el libro queda intacto.
func (m *Manager) Restore(ctx context.Context, name string, check func(data []byte) error) error {
	path, err := m.resolve(name)
	if err != nil {
		return err
	}
	// Se lee primero: el respaldo previo puede caer en el mismo segundo y pisar este nombre.
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, name, err)
	}
	if check != nil {
		if err := check(data); err != nil {
			m.log.Warn().Err(err).Str("backup", name).Msg("backup rechazado, el libro no se modificó")
			return err
		}
	}
	exists, err := fsutil.Exists(m.fs, m.target)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if exists {
		if _, err := m.Create(ctx); err != nil {
			return err
		}
	}
	if err := fsutil.WriteBytesAtomic(m.fs, m.target, data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	m.log.Info().Str("backup", name).Msg("libro restaurado desde backup")
	return nil
}

// Prune conserva los keep backups más recientes y elimina el resto.
// keep <= 0 no elimina nada. Devuelve los backups eliminados.
func (m *Manager) Prune(ctx context.Context, keep int) ([]repository.Backup, error) {
	if keep <= 0 {
		return nil, nil
	}
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) <= keep {
		return nil, nil
	}
	var removed []repository.Backup
	for _, b := range all[keep:] {
		if err := m.fs.Remove(b.Path); err != nil {
			return removed, fmt.Errorf("%w: eliminar %s: %v", domain.ErrPersistence, b.Name, err)
		}
		removed = append(removed, b)
	}
	m.log.Info().Int("eliminados", len(removed)).Int("conservados", keep).Msg("retención de backups aplicada")
	return removed, nil
}

func (m *Manager) resolve(name string) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("%w: nombre de backup %q", domain.ErrInvalidInput, name)
	}
	if _, ok := m.parseName(name); !ok {
		return "", fmt.Errorf("%w: %q no es un backup de %s", domain.ErrInvalidInput, name, m.base+m.ext)
	}
	path := filepath.Join(m.dir, name)
	exists, err := fsutil.Exists(m.fs, path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: backup %q", domain.ErrNotFound, name)
	}
	return path, nil
}

func (m *Manager) parseName(name string) (time.Time, bool) {
	prefix := m.base + marker
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, m.ext) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), m.ext)
	t, err := time.ParseInLocation(StampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
