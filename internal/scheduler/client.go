package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"homeserve_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues sweep and export tasks on the asynq queue.
type Client struct {
	client *asynq.Client
	queue  string
}

// SweepScheduler is the narrow interface HTTP trigger handlers depend on.
type SweepScheduler interface {
	EnqueueDailyReminder(ctx context.Context, day time.Time) (bool, error)
	EnqueueMonthlyReport(ctx context.Context, month time.Time) (bool, error)
	EnqueueServiceRequestExport(ctx context.Context, payload ServiceRequestExportPayload) error
	EnqueueProfessionalExport(ctx context.Context, payload ProfessionalExportPayload) error
}

// NewClient creates an asynq client from the redis configuration.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueDailyReminder enqueues the reminder sweep for one day. The
// per-day task ID makes repeats a no-op; the bool reports whether this
// call actually enqueued the task.
func (c *Client) EnqueueDailyReminder(ctx context.Context, day time.Time) (bool, error) {
	task, err := NewDailyReminderTask(DailyReminderPayload{Date: day.UTC().Format("2006-01-02")})
	if err != nil {
		return false, err
	}
	return c.enqueueUnique(ctx, task, DailyReminderTaskID(day))
}

// EnqueueMonthlyReport enqueues the report sweep for one month, once.
func (c *Client) EnqueueMonthlyReport(ctx context.Context, month time.Time) (bool, error) {
	task, err := NewMonthlyReportTask(MonthlyReportPayload{Month: month.UTC().Format("2006-01")})
	if err != nil {
		return false, err
	}
	return c.enqueueUnique(ctx, task, MonthlyReportTaskID(month))
}

// EnqueueServiceRequestExport enqueues an async filtered export.
func (c *Client) EnqueueServiceRequestExport(ctx context.Context, payload ServiceRequestExportPayload) error {
	task, err := NewServiceRequestExportTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// EnqueueProfessionalExport enqueues an async professional-scoped export.
func (c *Client) EnqueueProfessionalExport(ctx context.Context, payload ProfessionalExportPayload) error {
	task, err := NewProfessionalExportTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func (c *Client) enqueueUnique(ctx context.Context, task *asynq.Task, taskID string) (bool, error) {
	_, err := c.client.EnqueueContext(ctx, task, asynq.TaskID(taskID), asynq.Queue(c.queue), asynq.Retention(48*time.Hour))
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Compile-time check that Client implements SweepScheduler.
var _ SweepScheduler = (*Client)(nil)

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
