package scheduler

import (
	"context"
	"testing"
	"time"

	"homeserve_backend/platform/logger"
)

type fakeSweepScheduler struct {
	dailyDays    []string
	reportMonths []string
}

func (f *fakeSweepScheduler) EnqueueDailyReminder(_ context.Context, day time.Time) (bool, error) {
	f.dailyDays = append(f.dailyDays, day.UTC().Format("2006-01-02"))
	return true, nil
}

func (f *fakeSweepScheduler) EnqueueMonthlyReport(_ context.Context, month time.Time) (bool, error) {
	f.reportMonths = append(f.reportMonths, month.UTC().Format("2006-01"))
	return true, nil
}

func (f *fakeSweepScheduler) EnqueueServiceRequestExport(context.Context, ServiceRequestExportPayload) error {
	return nil
}

func (f *fakeSweepScheduler) EnqueueProfessionalExport(context.Context, ProfessionalExportPayload) error {
	return nil
}

func newTestDispatcher(client SweepScheduler, now time.Time) *PeriodicDispatcher {
	d := NewPeriodicDispatcher(client, fakeConfig{}, logger.New("development"))
	d.now = func() time.Time { return now }
	return d
}

func TestDispatch_BeforeReminderHourEnqueuesNothing(t *testing.T) {
	client := &fakeSweepScheduler{}
	d := newTestDispatcher(client, time.Date(2026, 8, 14, 17, 59, 0, 0, time.UTC))

	d.dispatch(context.Background())

	if len(client.dailyDays) != 0 {
		t.Fatalf("expected no daily enqueue before the reminder hour, got %v", client.dailyDays)
	}
	if len(client.reportMonths) != 0 {
		t.Fatalf("expected no report enqueue mid-month, got %v", client.reportMonths)
	}
}

func TestDispatch_AtReminderHourEnqueuesToday(t *testing.T) {
	client := &fakeSweepScheduler{}
	d := newTestDispatcher(client, time.Date(2026, 8, 14, 18, 0, 30, 0, time.UTC))

	d.dispatch(context.Background())

	if len(client.dailyDays) != 1 || client.dailyDays[0] != "2026-08-14" {
		t.Fatalf("expected daily enqueue for 2026-08-14, got %v", client.dailyDays)
	}
}

func TestDispatch_FirstOfMonthEnqueuesPreviousMonthReport(t *testing.T) {
	client := &fakeSweepScheduler{}
	d := newTestDispatcher(client, time.Date(2026, 9, 1, 0, 5, 0, 0, time.UTC))

	d.dispatch(context.Background())

	if len(client.reportMonths) != 1 || client.reportMonths[0] != "2026-08" {
		t.Fatalf("expected report enqueue for 2026-08, got %v", client.reportMonths)
	}
}

func TestDispatch_JanuaryFirstReportsDecember(t *testing.T) {
	client := &fakeSweepScheduler{}
	d := newTestDispatcher(client, time.Date(2027, 1, 1, 19, 0, 0, 0, time.UTC))

	d.dispatch(context.Background())

	if len(client.reportMonths) != 1 || client.reportMonths[0] != "2026-12" {
		t.Fatalf("expected report enqueue for 2026-12, got %v", client.reportMonths)
	}
}
