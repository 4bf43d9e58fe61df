// Package scheduler запускает периодические фоновые задачи салона
package scheduler

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Job периодическая задача
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler запускает каждую задачу в своей горутине по таймеру
// Первый запуск выполняется сразу после старта
type Scheduler struct {
	jobs   []Job
	logger Logger
}

// New создает планировщик; задачи с неположительным интервалом пропускаются
func New(logger Logger, jobs ...Job) *Scheduler {
	s := &Scheduler{logger: logger}
	for _, j := range jobs {
		if j.Interval <= 0 || j.Run == nil {
			logger.Warn("Scheduler: job %s disabled", j.Name)
			continue
		}
		s.jobs = append(s.jobs, j)
	}
	return s
}

// Run блокируется до отмены ctx
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, job := range s.jobs {
		g.Go(func() error {
			s.loop(ctx, job)
			return nil
		})
	}
	s.logger.Info("Scheduler started: jobs=%d", len(s.jobs))
	err := g.Wait()
	s.logger.Info("Scheduler stopped")
	return err
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		s.runOnce(ctx, job)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("Scheduler: job %s panicked: %v", job.Name, p)
		}
	}()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error("Scheduler: job %s failed: %v", job.Name, err)
		return
	}
	s.logger.Info("Scheduler: job %s done in %s", job.Name, time.Since(start).Round(time.Millisecond))
}
