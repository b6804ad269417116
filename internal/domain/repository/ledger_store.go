package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Tables contenido completo del libro: hoja de productos y hoja de movimientos.
type Tables struct {
	Products  []entity.Product
	Movements []entity.Movement
}

// LedgerStore define el puerto de persistencia del libro (DIP).
// Save reescribe ambas hojas; un Save fallido no debe dejar el archivo a medio escribir.
type LedgerStore interface {
	Load(ctx context.Context) (Tables, error)
	Save(ctx context.Context, t Tables) error
}

// Backup copia fechada del libro.
type Backup struct {
	Name      string // nombre de archivo, sin directorio
	Path      string
	CreatedAt time.Time
	Size      int64
}

// BackupRepository administra las copias de seguridad del libro.
type BackupRepository interface {
	Create(ctx context.Context) (Backup, error)
	List(ctx context.Context) ([]Backup, error) // más reciente primero
	Delete(ctx context.Context, name string) error
	// Restore reemplaza el libro por el backup. check, si no es nil, recibe el contenido
	// del backup y puede rechazarlo antes de que se toque el libro.
	Restore(ctx context.Context, name string, check func(data []byte) error) error
	Prune(ctx context.Context, keep int) ([]Backup, error)
}
