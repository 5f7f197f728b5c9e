package scheduler

import (
	"context"
	"fmt"
	"time"

	"homeserve_backend/platform/config"
	"homeserve_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// ExportProcessor runs export jobs dequeued by the worker. Wired in by the
// composition root to avoid a dependency on the exports module.
type ExportProcessor interface {
	ProcessServiceRequestExport(ctx context.Context, payload ServiceRequestExportPayload) error
	ProcessProfessionalExport(ctx context.Context, payload ProfessionalExportPayload) error
}

// Worker consumes sweep and export tasks from the asynq queue.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sweeper *Sweeper
	exports ExportProcessor
	log     *logger.Logger
}

// NewWorker creates the asynq server and registers the task handlers.
func NewWorker(cfg config.SchedulerConfig, sweeper *Sweeper, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		sweeper: sweeper,
		log:     log,
	}

	mux.HandleFunc(TaskDailyReminder, w.handleDailyReminder)
	mux.HandleFunc(TaskMonthlyReport, w.handleMonthlyReport)
	mux.HandleFunc(TaskServiceRequestExport, w.handleServiceRequestExport)
	mux.HandleFunc(TaskProfessionalExport, w.handleProfessionalExport)

	return w, nil
}

// SetExportProcessor wires the export job runner.
func (w *Worker) SetExportProcessor(p ExportProcessor) {
	w.exports = p
}

// Run blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleDailyReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDailyReminderPayload(task)
	if err != nil {
		return err
	}

	w.log.Info("daily reminder sweep started", "date", payload.Date)
	return w.sweeper.RunDailyReminder(ctx)
}

func (w *Worker) handleMonthlyReport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseMonthlyReportPayload(task)
	if err != nil {
		return err
	}

	monthStart, err := time.ParseInLocation("2006-01", payload.Month, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid report month %q: %w", payload.Month, err)
	}

	w.log.Info("monthly report sweep started", "month", payload.Month)
	return w.sweeper.RunMonthlyReport(ctx, monthStart)
}

func (w *Worker) handleServiceRequestExport(ctx context.Context, task *asynq.Task) error {
	if w.exports == nil {
		return nil
	}

	payload, err := ParseServiceRequestExportPayload(task)
	if err != nil {
		return err
	}
	return w.exports.ProcessServiceRequestExport(ctx, payload)
}

func (w *Worker) handleProfessionalExport(ctx context.Context, task *asynq.Task) error {
	if w.exports == nil {
		return nil
	}

	payload, err := ParseProfessionalExportPayload(task)
	if err != nil {
		return err
	}
	return w.exports.ProcessProfessionalExport(ctx, payload)
}
