package scheduler

import (
	"context"
	"time"

	"homeserve_backend/platform/config"
	"homeserve_backend/platform/logger"
)

// PeriodicDispatcher enqueues the daily reminder and monthly report sweeps
// at their scheduled times. It ticks every minute; the per-period unique
// task IDs make the enqueue idempotent, so multiple dispatcher replicas or
// restarts within the same period cannot double-send.
type PeriodicDispatcher struct {
	client       SweepScheduler
	reminderHour int
	log          *logger.Logger
	now          func() time.Time
	tick         time.Duration
}

// NewPeriodicDispatcher creates the dispatcher around an existing client.
func NewPeriodicDispatcher(client SweepScheduler, cfg config.SchedulerConfig, log *logger.Logger) *PeriodicDispatcher {
	return &PeriodicDispatcher{
		client:       client,
		reminderHour: cfg.GetReminderHourUTC(),
		log:          log,
		now:          time.Now,
		tick:         time.Minute,
	}
}

// Run blocks until the context is cancelled.
func (d *PeriodicDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		d.dispatch(ctx)
	}
}

func (d *PeriodicDispatcher) dispatch(ctx context.Context) {
	now := d.now().UTC()

	if now.Hour() >= d.reminderHour {
		enqueued, err := d.client.EnqueueDailyReminder(ctx, now)
		if err != nil {
			d.log.Warn("daily reminder enqueue failed", "error", err)
		} else if enqueued {
			d.log.Info("daily reminder enqueued", "date", now.Format("2006-01-02"))
		}
	}

	// The monthly report for a month goes out on the first day of the next
	// month, covering the month that just ended.
	if now.Day() == 1 {
		reported := now.AddDate(0, 0, -1)
		enqueued, err := d.client.EnqueueMonthlyReport(ctx, reported)
		if err != nil {
			d.log.Warn("monthly report enqueue failed", "error", err)
		} else if enqueued {
			d.log.Info("monthly report enqueued", "month", reported.Format("2006-01"))
		}
	}
}
