package worker

import (
	"context"
	"sync"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Job периодическая задача; возвращает число обработанных объектов
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (int, error)
}

// Runner запускает задачи по расписанию до отмены контекста
type Runner struct {
	jobs   []Job
	logger Logger
	wg     sync.WaitGroup
}

// NewRunner создает планировщик; задачи с нулевым интервалом пропускаются
func NewRunner(logger Logger, jobs ...Job) *Runner {
	r := &Runner{logger: logger}
	for _, job := range jobs {
		if job.Interval <= 0 {
			logger.Warn("Worker %s disabled: interval is not set", job.Name)
			continue
		}
		r.jobs = append(r.jobs, job)
	}
	return r
}

// Start запускает каждую задачу в своей горутине
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go func(job Job) {
			defer r.wg.Done()
			r.loop(ctx, job)
		}(job)
	}
}

// Wait ждёт завершения всех задач после отмены контекста
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, job Job) {
	r.logger.Info("Worker %s started (interval=%s)", job.Name, job.Interval)
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Worker %s stopped", job.Name)
			return
		case <-ticker.C:
			RunOnce(ctx, job, r.logger)
		}
	}
}

// RunOnce выполняет задачу один раз; ошибка только логируется, следующий запуск по расписанию
func RunOnce(ctx context.Context, job Job, logger Logger) {
	n, err := job.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("Worker %s failed: %v", job.Name, err)
		return
	}
	if n > 0 {
		logger.Info("Worker %s: processed %d", job.Name, n)
	}
}
