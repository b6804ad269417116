package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/internal/scheduler"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr, swaggerFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Iniciar la API HTTP (y los backups programados, si hay BACKUP_SCHEDULE)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), g, addr, swaggerFile)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "dirección de escucha (por defecto HTTP_HOST:HTTP_PORT)")
	cmd.Flags().StringVar(&swaggerFile, "swagger", "./docs/swagger.json", "especificación OpenAPI servida en /docs")
	return cmd
}

func runServer(ctx context.Context, g *globalFlags, addr, swaggerFile string) error {
	app, err := bootstrap(ctx, g, true)
	if err != nil {
		return err
	}
	log := app.log
	if addr == "" {
		addr = app.cfg.HTTP.Addr()
	}
	log.Info().
		Str("env", app.cfg.App.Env).
		Str("app", app.cfg.App.Name).
		Str("file", app.cfg.Inventory.File).
		Bool("auth", app.cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	var sched *scheduler.Scheduler
	if app.cfg.Backup.Schedule != "" {
		sched = scheduler.New(log)
		if err := sched.Add("backup", app.cfg.Backup.Schedule, app.backups.RunScheduled); err != nil {
			return err
		}
		sched.Start()
	}

	server := httpRouter.NewApp(httpRouter.AppOptions{
		Name:        app.cfg.App.Name,
		SwaggerFile: swaggerFile,
		Logger:      log,
	}, httpRouter.RouterDeps{
		Ledger:    app.ledger,
		LowStock:  app.lowStock,
		Charts:    app.charts,
		Reports:   app.reports,
		Backups:   app.backups,
		JWTSecret: app.cfg.JWT.Secret,
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- server.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	case err := <-listenErr:
		if sched != nil {
			sched.Stop(context.Background())
		}
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Último guardado: solo si quedó algo en memoria por un fallo previo.
	if saved, err := app.ledger.SaveIfDirty(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("guardado final del libro")
	} else if saved {
		log.Info().Msg("cambios pendientes guardados al apagar")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
