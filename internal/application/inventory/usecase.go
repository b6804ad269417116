// Package inventory orquesta el libro en memoria y su persistencia:
// cada mutación exitosa se guarda completa en el libro de Excel.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// LedgerService casos de uso del inventario.
// mu serializa mutación → snapshot → guardado para que los archivos lleguen a disco
// en el mismo orden que las mutaciones.
type LedgerService struct {
	mu          sync.Mutex
	ledger      *inventory.Ledger
	store       repository.LedgerStore
	validate    *validator.Validate
	defaultUser string
	dirty       bool // hay cambios en memoria que no llegaron al libro
	log         *logger.Logger
}

// NewLedgerService construye el servicio. defaultUser se usa cuando ni la petición
// ni el usuario autenticado indican un responsable.
func NewLedgerService(ledger *inventory.Ledger, store repository.LedgerStore, defaultUser string, log *logger.Logger) *LedgerService {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerService{
		ledger:      ledger,
		store:       store,
		validate:    validator.New(),
		defaultUser: strings.TrimSpace(defaultUser),
		log:         log.Component("ledger"),
	}
}

// Ledger expone el libro en memoria para lecturas (reportes, gráficos).
func (s *LedgerService) Ledger() *inventory.Ledger { return s.ledger }

// Load lee el libro desde disco y reemplaza el estado en memoria.
func (s *LedgerService) Load(ctx context.Context) (inventory.RestoreReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// ReplaceFromStore ejecuta replace (p. ej. restaurar un backup sobre el archivo) sin que
// ninguna mutación concurrente pueda guardar en medio, y luego recarga el libro.
func (s *LedgerService) ReplaceFromStore(ctx context.Context, replace func(context.Context) error) (inventory.RestoreReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := replace(ctx); err != nil {
		return inventory.RestoreReport{}, err
	}
	return s.loadLocked(ctx)
}

func (s *LedgerService) loadLocked(ctx context.Context) (inventory.RestoreReport, error) {
	tables, err := s.store.Load(ctx)
	if err != nil {
		return inventory.RestoreReport{}, err
	}
	report, err := s.ledger.Restore(tables.Products, tables.Movements)
	if err != nil {
		// Un libro inconsistente es un problema del archivo, no de la petición.
		return inventory.RestoreReport{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	s.dirty = false
	for _, name := range report.Duplicates {
		s.log.Warn().Str("product", name).Msg("producto repetido en el libro, se conserva la primera fila")
	}
	for _, name := range report.Recomputed {
		s.log.Warn().Str("product", name).Msg("stock final o valor total no cuadraba, se recalculó")
	}
	s.log.Info().
		Int("productos", len(tables.Products)-len(report.Duplicates)).
		Int("movimientos", len(tables.Movements)).
		Msg("libro cargado")
	return report, nil
}

// Save guarda el estado actual sin mutar nada (guardado manual).
func (s *LedgerService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// SaveIfDirty guarda solo si algún guardado previo falló. Devuelve true si escribió el libro.
func (s *LedgerService) SaveIfDirty(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return false, nil
	}
	if err := s.saveLocked(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *LedgerService) saveLocked(ctx context.Context) error {
	products, movements := s.ledger.Snapshot()
	if err := s.store.Save(ctx, repository.Tables{Products: products, Movements: movements}); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// persist guarda tras una mutación exitosa. Un fallo no deshace la mutación:
// se registra, el servicio queda pendiente de guardar y se devuelve como aviso.
func (s *LedgerService) persist(ctx context.Context, op string) string {
	if err := s.saveLocked(ctx); err != nil {
		s.dirty = true
		s.log.Error().Err(err).Str("op", op).Msg("no se pudo guardar el libro; el cambio sigue en memoria")
		return err.Error()
	}
	return ""
}

// AddProduct da de alta un producto.
func (s *LedgerService) AddProduct(ctx context.Context, req dto.CreateProductRequest, actor string) (*dto.ProductResultResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ledger.AddProduct(inventory.NewProduct{
		Name:         req.Name,
		Category:     req.Category,
		Supplier:     req.Supplier,
		InitialStock: req.InitialStock,
		MinStock:     req.MinStock,
		UnitPrice:    req.UnitPrice,
		User:         s.resolveUser(req.User, actor),
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product", p.Name).Int("stock", p.CurrentStock).Msg("producto agregado")
	return &dto.ProductResultResponse{Product: ToProductResponse(p), Warning: s.persist(ctx, "add")}, nil
}

// EditProduct actualiza metadatos. Si nadie indica usuario se conserva el responsable actual.
func (s *LedgerService) EditProduct(ctx context.Context, name string, req dto.UpdateProductRequest, actor string) (*dto.ProductResultResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	changes := inventory.ProductChanges{
		Category:      req.Category,
		Supplier:      req.Supplier,
		UnitPrice:     req.UnitPrice,
		MinStock:      req.MinStock,
		ClearMinStock: req.ClearMinStock,
		User:          req.User,
		Notes:         req.Notes,
	}
	if changes.User == nil && strings.TrimSpace(actor) != "" {
		u := strings.TrimSpace(actor)
		changes.User = &u
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ledger.EditProduct(name, changes)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product", p.Name).Msg("producto editado")
	return &dto.ProductResultResponse{Product: ToProductResponse(p), Warning: s.persist(ctx, "edit")}, nil
}

// RegisterMovement aplica una entrada o salida.
func (s *LedgerService) RegisterMovement(ctx context.Context, name string, req dto.RegisterMovementRequest, actor string) (*dto.MovementResultResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	typ, ok := entity.ParseMovementType(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: tipo de movimiento %q (use Entrada o Salida)", domain.ErrInvalidInput, req.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, mov, err := s.ledger.ApplyMovement(name, inventory.MovementRequest{
		Type:     typ,
		Quantity: req.Quantity,
		User:     s.resolveUser(req.User, actor),
		Notes:    req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			s.log.Warn().Str("product", name).Int("qty", req.Quantity).Msg("salida rechazada por stock insuficiente")
		}
		return nil, err
	}
	s.log.Info().
		Str("product", p.Name).
		Str("type", string(mov.Type)).
		Int("qty", mov.Quantity).
		Int("before", mov.StockBefore).
		Int("after", mov.StockAfter).
		Msg("movimiento registrado")
	return &dto.MovementResultResponse{
		Product:  ToProductResponse(p),
		Movement: ToMovementResponse(mov),
		Warning:  s.persist(ctx, "movement"),
	}, nil
}

// DeleteProduct elimina el producto; su historial de movimientos se conserva.
func (s *LedgerService) DeleteProduct(ctx context.Context, name string) (*dto.DeleteProductResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ledger.Get(name)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.DeleteProduct(name); err != nil {
		return nil, err
	}
	s.log.Info().Str("product", p.Name).Msg("producto eliminado")
	return &dto.DeleteProductResponse{Name: p.Name, Warning: s.persist(ctx, "delete")}, nil
}

// GetProduct búsqueda exacta por nombre.
func (s *LedgerService) GetProduct(name string) (*dto.ProductResponse, error) {
	p, err := s.ledger.Get(name)
	if err != nil {
		return nil, err
	}
	out := ToProductResponse(p)
	return &out, nil
}

// FindProducts búsqueda por nombre: exacta o, si partial, por subcadena. Vacío no devuelve nada.
func (s *LedgerService) FindProducts(query string, partial bool) *dto.ProductListResponse {
	return toProductList(s.ledger.FindProduct(query, partial))
}

// ListProducts filtro de la lista por nombre, categoría o proveedor. Vacío devuelve todo.
func (s *LedgerService) ListProducts(query string) *dto.ProductListResponse {
	return toProductList(s.ledger.FilterProducts(query))
}

// ListMovements historial filtrado, del más reciente al más antiguo.
func (s *LedgerService) ListMovements(query string) *dto.MovementListResponse {
	movs := s.ledger.SearchMovements(query)
	items := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Total: len(items)}
}

// Movements historial completo en orden cronológico (exportación).
func (s *LedgerService) Movements() []entity.Movement {
	return s.ledger.Movements()
}

func (s *LedgerService) resolveUser(requested, actor string) string {
	for _, u := range []string{requested, actor, s.defaultUser} {
		if u = strings.TrimSpace(u); u != "" {
			return u
		}
	}
	return ""
}

func (s *LedgerService) check(req interface{}) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}
	return nil
}

// describeValidation resume los errores de validator en un mensaje legible.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
