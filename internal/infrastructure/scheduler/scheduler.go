// Package scheduler ejecuta las tareas periódicas con expresiones cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/forecast-cloud/internal/application/jobs"
)

// Observer recibe el resultado de cada ejecución (métricas).
type Observer interface {
	ObserveJob(job string, err error, d time.Duration)
}

// Scheduler envuelve cron.Cron; las ejecuciones de una misma tarea no se solapan.
type Scheduler struct {
	cron     *cron.Cron
	log      zerolog.Logger
	observer Observer
	timeout  time.Duration
}

// New crea el planificador en la zona horaria indicada (nil = local).
func New(loc *time.Location, log zerolog.Logger, observer Observer) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
	)
	return &Scheduler{cron: c, log: log, observer: observer, timeout: 10 * time.Minute}
}

// Add programa job con la expresión expr. Una expresión vacía desactiva la tarea.
func (s *Scheduler) Add(expr string, job jobs.Job) error {
	if expr == "" {
		s.log.Info().Str("job", job.Name()).Msg("tarea desactivada")
		return nil
	}
	if _, err := s.cron.AddFunc(expr, func() { s.runOnce(job) }); err != nil {
		return fmt.Errorf("scheduler: %s: %w", job.Name(), err)
	}
	s.log.Info().Str("job", job.Name()).Str("cron", expr).Msg("tarea programada")
	return nil
}

func (s *Scheduler) runOnce(job jobs.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)
	if s.observer != nil {
		s.observer.ObserveJob(job.Name(), err, elapsed)
	}
	if err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Msg("tarea fallida")
		return
	}
	s.log.Debug().Str("job", job.Name()).Dur("duracion", elapsed).Msg("tarea completada")
}

// Start arranca el planificador en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el planificador y espera a las tareas en curso o a ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("tareas en curso no terminaron antes del cierre")
	}
}

// cronLogger adapta zerolog a cron.Logger.
type cronLogger struct{ log zerolog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
