// Package backup casos de uso de las copias de seguridad del libro.
package backup

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// LedgerReloader recarga el libro en memoria después de reemplazar el archivo.
type LedgerReloader interface {
	ReplaceFromStore(ctx context.Context, replace func(context.Context) error) (inventory.RestoreReport, error)
	Ledger() *inventory.Ledger
}

// Decoder interpreta el contenido de un libro sin escribirlo.
type Decoder interface {
	Decode(data []byte) (repository.Tables, error)
}

// UseCase administra backups: listar, crear, eliminar, restaurar y retención.
type UseCase struct {
	repo      repository.BackupRepository
	ledger    LedgerReloader
	decoder   Decoder
	retention int
	log       *logger.Logger
}

// NewUseCase construye el caso de uso. retention = backups a conservar (0 = todos).
func NewUseCase(repo repository.BackupRepository, ledger LedgerReloader, decoder Decoder, retention int, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repo: repo, ledger: ledger, decoder: decoder, retention: retention, log: log.Component("backup")}
}

// List devuelve los backups del más reciente al más antiguo.
func (uc *UseCase) List(ctx context.Context) (*dto.BackupListResponse, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.BackupListResponse{Items: toDTOs(items)}, nil
}

// Create genera un backup manual del libro actual.
func (uc *UseCase) Create(ctx context.Context) (*dto.BackupDTO, error) {
	b, err := uc.repo.Create(ctx)
	if err != nil {
		return nil, err
	}
	out := toDTO(b)
	return &out, nil
}

// Delete elimina un backup por nombre.
func (uc *UseCase) Delete(ctx context.Context, name string) error {
	return uc.repo.Delete(ctx, name)
}

// Restore reemplaza el libro por el backup y recarga el inventario en memoria.
// Un backup ilegible o inconsistente se rechaza antes de sobrescribir el libro.
func (uc *UseCase) Restore(ctx context.Context, name string) (*dto.RestoreBackupResponse, error) {
	report, err := uc.ledger.ReplaceFromStore(ctx, func(ctx context.Context) error {
		return uc.repo.Restore(ctx, name, uc.check)
	})
	if err != nil {
		return nil, err
	}
	products, movements := uc.ledger.Ledger().Snapshot()
	uc.log.Info().Str("backup", name).Int("productos", len(products)).Msg("inventario recargado desde backup")
	return &dto.RestoreBackupResponse{
		Backup:     name,
		Products:   len(products),
		Movements:  len(movements),
		Duplicates: report.Duplicates,
		Recomputed: report.Recomputed,
	}, nil
}

// check carga el backup en un libro descartable con las mismas reglas de la recarga.
func (uc *UseCase) check(data []byte) error {
	if uc.decoder == nil {
		return nil
	}
	tables, err := uc.decoder.Decode(data)
	if err != nil {
		return err
	}
	if _, err := inventory.NewLedger().Restore(tables.Products, tables.Movements); err != nil {
		return fmt.Errorf("%w: backup inconsistente: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Prune conserva los keep backups más recientes.
func (uc *UseCase) Prune(ctx context.Context, keep int) (*dto.PruneBackupsResponse, error) {
	if keep <= 0 {
		return nil, fmt.Errorf("%w: la cantidad a conservar debe ser mayor a 0", domain.ErrInvalidInput)
	}
	removed, err := uc.repo.Prune(ctx, keep)
	if err != nil {
		return nil, err
	}
	return &dto.PruneBackupsResponse{Removed: toDTOs(removed)}, nil
}

// RunScheduled backup automático: crea uno y aplica la retención configurada.
func (uc *UseCase) RunScheduled(ctx context.Context) error {
	b, err := uc.repo.Create(ctx)
	if err != nil {
		return fmt.Errorf("backup programado: %w", err)
	}
	removed, err := uc.repo.Prune(ctx, uc.retention)
	if err != nil {
		return fmt.Errorf("retención de backups: %w", err)
	}
	uc.log.Info().Str("backup", b.Name).Int("eliminados", len(removed)).Msg("backup programado completado")
	return nil
}

func toDTO(b repository.Backup) dto.BackupDTO {
	return dto.BackupDTO{Name: b.Name, CreatedAt: b.CreatedAt, Size: b.Size}
}

func toDTOs(items []repository.Backup) []dto.BackupDTO {
	out := make([]dto.BackupDTO, 0, len(items))
	for _, b := range items {
		out = append(out, toDTO(b))
	}
	return out
}
