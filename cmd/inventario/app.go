package main

import (
	"context"
	"os"

	"github.com/spf13/afero"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	appbackup "github.com/jhoicas/inventario-ledger/internal/application/backup"
	appinv "github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/backup"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/chart"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/workbook"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// application grafo de dependencias compartido por el servidor y el CLI.
type application struct {
	cfg      *config.Config
	log      *logger.Logger
	fs       afero.Fs
	ledger   *appinv.LedgerService
	lowStock *appinv.LowStockUseCase
	charts   *analytics.ChartUseCase
	reports  *analytics.ReportUseCase
	backups  *appbackup.UseCase
	report   inventory.RestoreReport
}

// bootstrap carga la configuración, arma las dependencias y lee el libro.
// server indica si el nivel de log sale de la configuración (serve) o se reduce a warn (CLI).
func bootstrap(ctx context.Context, g *globalFlags, server bool) (*application, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return nil, err
	}
	if g.file != "" {
		cfg.Inventory.File = g.file
	}

	level := cfg.App.LogLevel
	if !server {
		level = "warn"
	}
	if g.verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Output: os.Stderr})

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.Inventory.Dir(), 0o755); err != nil {
		return nil, err
	}
	mgr := backup.NewManager(fs, cfg.Inventory.File, log)
	store := workbook.NewStore(fs, cfg.Inventory, mgr, log)
	ledgerSvc := appinv.NewLedgerService(inventory.NewLedger(), store, cfg.App.DefaultUser, log)

	report, err := ledgerSvc.Load(ctx)
	if err != nil {
		return nil, err
	}

	ledger := ledgerSvc.Ledger()
	return &application{
		cfg:      cfg,
		log:      log,
		fs:       fs,
		ledger:   ledgerSvc,
		lowStock: appinv.NewLowStockUseCase(ledger),
		charts:   analytics.NewChartUseCase(ledger, chart.NewExcelChartRenderer()),
		reports:  analytics.NewReportUseCase(ledger, pdf.NewMarotoPDFGenerator(cfg.App.Name)),
		backups:  appbackup.NewUseCase(mgr, ledgerSvc, store, cfg.Backup.Retention, log),
		report:   report,
	}, nil
}
