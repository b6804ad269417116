package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	appbackup "github.com/jhoicas/inventario-ledger/internal/application/backup"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	appinv "github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *appinv.LedgerService
	LowStock  *appinv.LowStockUseCase
	Charts    *analytics.ChartUseCase
	Reports   *analytics.ReportUseCase
	Backups   *appbackup.UseCase
	JWTSecret string // vacío = API sin autenticación
}

// AppOptions configuración de la aplicación Fiber.
type AppOptions struct {
	Name        string
	SwaggerFile string // ruta a swagger.json; vacío o inexistente = sin /docs
	Logger      *logger.Logger
}

// NewApp crea la aplicación con middlewares, /health, /docs y las rutas de la API.
func NewApp(opts AppOptions, deps RouterDeps) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(AccessLog(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if opts.SwaggerFile != "" {
		if _, err := os.Stat(opts.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: opts.SwaggerFile,
				Path:     "docs",
				Title:    "Inventario API",
			}))
		} else {
			log.Warn().Str("file", opts.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		ledger := deps.Ledger.Ledger()
		return c.JSON(dto.HealthResponse{
			Status:    "ok",
			Products:  len(ledger.Products()),
			Movements: len(ledger.Movements()),
		})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Ledger)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.LowStock)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:name", productHandler.Get)
	products.Put("/:name", productHandler.Update)
	products.Delete("/:name", productHandler.Delete)
	products.Post("/:name/movements", inventoryHandler.RegisterMovement)
	// fuera de /products para no chocar con un producto llamado "search"
	api.Get("/search/products", productHandler.Search)

	movements := api.Group("/movements")
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Get("/export", inventoryHandler.ExportMovements)

	api.Get("/alerts/low-stock", inventoryHandler.LowStock)

	analyticsHandler := NewAnalyticsHandler(deps.Charts, deps.Reports)
	api.Get("/charts/report.xlsx", analyticsHandler.ChartWorkbook)
	api.Get("/charts/:kind", analyticsHandler.Chart)
	api.Get("/reports/inventory.pdf", analyticsHandler.InventoryPDF)

	backups := api.Group("/backups")
	backupHandler := NewBackupHandler(deps.Backups)
	backups.Get("/", backupHandler.List)
	backups.Post("/", backupHandler.Create)
	backups.Post("/prune", backupHandler.Prune)
	backups.Delete("/:name", backupHandler.Delete)
	backups.Post("/:name/restore", backupHandler.Restore)
}
