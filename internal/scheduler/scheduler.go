// Package scheduler ejecuta tareas periódicas (backups automáticos) con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Job tarea programada.
type Job func(ctx context.Context) error

// Scheduler envuelve cron.Cron con logging y timeout por ejecución.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	log     *logger.Logger
}

// New crea un scheduler con el parser estándar de 5 campos (admite descriptores como @hourly).
func New(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: 2 * time.Minute,
		log:     log.Component("scheduler"),
	}
}

// Add programa job según la expresión cron schedule.
func (s *Scheduler) Add(name, schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("programar %s (%q): %w", name, schedule, err)
	}
	s.log.Info().Str("job", name).Str("schedule", schedule).Msg("tarea programada")
	return nil
}

// Len cantidad de tareas registradas.
func (s *Scheduler) Len() int { return len(s.cron.Entries()) }

// Next próxima ejecución de la primera tarea; cero si no hay tareas o no arrancó.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Start inicia el scheduler en segundo plano.
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", s.Len()).Msg("iniciando scheduler")
	s.cron.Start()
}

// Stop detiene el scheduler y espera a las tareas en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.log.Info().Msg("deteniendo scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("tareas en curso no finalizaron a tiempo")
	}
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	start := time.Now()
	if err := job(ctx); err != nil {
		s.log.Error().Err(err).Str("job", name).Msg("tarea programada falló")
		return
	}
	s.log.Info().Str("job", name).Dur("duration", time.Since(start)).Msg("tarea programada completada")
}
