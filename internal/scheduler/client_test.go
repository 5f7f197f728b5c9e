package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type redisConfig struct {
	fakeConfig
	url string
}

func (c redisConfig) GetRedisURL() string { return c.url }

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewClient(redisConfig{url: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestEnqueueDailyReminder_SecondEnqueueForSameDayIsSkipped(t *testing.T) {
	client := newTestClient(t)
	day := time.Date(2026, 8, 14, 18, 0, 0, 0, time.UTC)

	enqueued, err := client.EnqueueDailyReminder(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !enqueued {
		t.Fatal("expected first enqueue to succeed")
	}

	enqueued, err = client.EnqueueDailyReminder(context.Background(), day)
	if err != nil {
		t.Fatalf("duplicate enqueue must not error: %v", err)
	}
	if enqueued {
		t.Fatal("expected duplicate enqueue to be skipped")
	}

	// A different day gets its own task.
	enqueued, err = client.EnqueueDailyReminder(context.Background(), day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !enqueued {
		t.Fatal("expected next day's enqueue to succeed")
	}
}

func TestEnqueueMonthlyReport_UniquePerMonth(t *testing.T) {
	client := newTestClient(t)
	month := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	enqueued, err := client.EnqueueMonthlyReport(context.Background(), month)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !enqueued {
		t.Fatal("expected first enqueue to succeed")
	}

	// Any timestamp within the month maps to the same task ID.
	enqueued, err = client.EnqueueMonthlyReport(context.Background(), month.AddDate(0, 0, 20))
	if err != nil {
		t.Fatalf("duplicate enqueue must not error: %v", err)
	}
	if enqueued {
		t.Fatal("expected same-month enqueue to be skipped")
	}
}

func TestEnqueueExports_NotDeduplicated(t *testing.T) {
	client := newTestClient(t)
	payload := ServiceRequestExportPayload{Status: "completed"}

	if err := client.EnqueueServiceRequestExport(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.EnqueueServiceRequestExport(context.Background(), payload); err != nil {
		t.Fatalf("export enqueues are not unique, second must succeed: %v", err)
	}
}
