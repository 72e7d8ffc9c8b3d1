package timer

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job выполняется по расписанию.
type Job func(ctx context.Context)

// Scheduler запускает задачу по cron-выражению или дескриптору "@every 10m".
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// ValidateSchedule проверяет выражение расписания.
func ValidateSchedule(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("parse schedule %q: %w", expr, err)
	}
	return nil
}

// New создаёт планировщик; пересекающиеся запуски пропускаются, паники перехватываются.
func New(logger zerolog.Logger) *Scheduler {
	adapter := cronLogger{log: logger}
	c := cron.New(
		cron.WithLogger(adapter),
		cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
	)
	return &Scheduler{cron: c, log: logger}
}

// Add регистрирует задачу. ctx передаётся в каждый запуск.
func (s *Scheduler) Add(ctx context.Context, expr string, job Job) error {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", expr, err)
	}
	s.cron.Schedule(schedule, cron.FuncJob(func() { job(ctx) }))
	s.log.Info().Str("schedule", expr).Msg("timer: задача зарегистрирована")
	return nil
}

// Start запускает планировщик в фоне.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения текущего запуска либо отмены ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn().Msg("timer: не дождались завершения задачи")
	}
}

type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
