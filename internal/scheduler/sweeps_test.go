package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"homeserve_backend/internal/email"
	"homeserve_backend/internal/requests/repository"
	"homeserve_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	reminders  []repository.ProfessionalReminder
	activities []repository.CustomerActivity
	err        error
}

func (f *fakeStore) ListPendingByProfessional(context.Context) ([]repository.ProfessionalReminder, error) {
	return f.reminders, f.err
}

func (f *fakeStore) MonthlyCustomerActivity(context.Context, time.Time, time.Time) ([]repository.CustomerActivity, error) {
	return f.activities, f.err
}

type fakeSender struct {
	email.NoopSender

	mu        sync.Mutex
	reminders map[string][]email.ReminderItem
	reports   map[string]email.MonthlyReport
	failFor   string
	flaky     map[string]int // remaining failures before success
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		reminders: make(map[string][]email.ReminderItem),
		reports:   make(map[string]email.MonthlyReport),
		flaky:     make(map[string]int),
	}
}

func (f *fakeSender) SendDailyReminderEmail(_ context.Context, toEmail, _ string, items []email.ReminderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if toEmail == f.failFor {
		return errors.New("smtp down")
	}
	if f.flaky[toEmail] > 0 {
		f.flaky[toEmail]--
		return errors.New("smtp flake")
	}
	f.reminders[toEmail] = items
	return nil
}

func (f *fakeSender) SendMonthlyReportEmail(_ context.Context, toEmail, _ string, report email.MonthlyReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if toEmail == f.failFor {
		return errors.New("smtp down")
	}
	if f.flaky[toEmail] > 0 {
		f.flaky[toEmail]--
		return errors.New("smtp flake")
	}
	f.reports[toEmail] = report
	return nil
}

type fakeChat struct {
	mu         sync.Mutex
	texts      []string
	hasDefault bool
}

func (f *fakeChat) Send(_ context.Context, _, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeChat) CanDeliver(url string) bool {
	return url != "" || f.hasDefault
}

type fakeConfig struct{}

func (fakeConfig) GetRedisURL() string       { return "redis://localhost:6379/0" }
func (fakeConfig) GetRedisTLSInsecure() bool { return false }
func (fakeConfig) GetAsynqQueueName() string { return "default" }
func (fakeConfig) GetAsynqConcurrency() int  { return 2 }
func (fakeConfig) GetReminderHourUTC() int   { return 18 }
func (fakeConfig) GetSweepConcurrency() int  { return 2 }

func reminderFor(email string, pendingCount int) repository.ProfessionalReminder {
	pending := make([]repository.PendingRequest, pendingCount)
	for i := range pending {
		pending[i] = repository.PendingRequest{
			ServiceName:  "Plumbing",
			CustomerName: "Asha",
			Address:      "12 Gandhi Road",
			RequestedAt:  time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		}
	}
	return repository.ProfessionalReminder{
		ProfessionalID: uuid.New(),
		Name:           "Ravi",
		Email:          email,
		Pending:        pending,
	}
}

func TestRunDailyReminder_OneConsolidatedMessagePerProfessional(t *testing.T) {
	store := &fakeStore{reminders: []repository.ProfessionalReminder{
		reminderFor("a@example.com", 3),
		reminderFor("b@example.com", 1),
	}}
	sender := newFakeSender()
	chat := &fakeChat{hasDefault: true}
	sweeper := NewSweeper(store, sender, chat, fakeConfig{}, logger.New("development"))

	if err := sweeper.RunDailyReminder(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.reminders) != 2 {
		t.Fatalf("expected 2 reminder emails, got %d", len(sender.reminders))
	}
	if got := len(sender.reminders["a@example.com"]); got != 3 {
		t.Fatalf("expected 3 consolidated items for a@, got %d", got)
	}
	if len(chat.texts) != 2 {
		t.Fatalf("expected 2 chat messages, got %d", len(chat.texts))
	}
	for _, text := range chat.texts {
		if !strings.Contains(text, "pending service request") {
			t.Fatalf("unexpected chat text: %q", text)
		}
	}
}

func TestRunDailyReminder_PartialFailureContinues(t *testing.T) {
	store := &fakeStore{reminders: []repository.ProfessionalReminder{
		reminderFor("fails@example.com", 1),
		reminderFor("ok@example.com", 1),
	}}
	sender := newFakeSender()
	sender.failFor = "fails@example.com"
	sweeper := NewSweeper(store, sender, nil, fakeConfig{}, logger.New("development"))

	if err := sweeper.RunDailyReminder(context.Background()); err != nil {
		t.Fatalf("sweep must not fail on recipient errors: %v", err)
	}
	if _, ok := sender.reminders["ok@example.com"]; !ok {
		t.Fatal("expected remaining recipient to still be delivered")
	}
}

func TestRunDailyReminder_RetriesTransientFailure(t *testing.T) {
	store := &fakeStore{reminders: []repository.ProfessionalReminder{
		reminderFor("flaky@example.com", 1),
	}}
	sender := newFakeSender()
	sender.flaky["flaky@example.com"] = 1
	sweeper := NewSweeper(store, sender, nil, fakeConfig{}, logger.New("development"))

	if err := sweeper.RunDailyReminder(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.reminders["flaky@example.com"]; !ok {
		t.Fatal("expected delivery after a transient failure")
	}
}

func TestRemindProfessional_EmptyWebhookIsNotDelivery(t *testing.T) {
	sender := newFakeSender()
	sender.failFor = "down@example.com"
	chat := &fakeChat{}
	sweeper := NewSweeper(&fakeStore{}, sender, chat, fakeConfig{}, logger.New("development"))

	if sweeper.remindProfessional(context.Background(), reminderFor("down@example.com", 1)) {
		t.Fatal("failed email with no reachable webhook must not count as delivered")
	}
	if len(chat.texts) != 0 {
		t.Fatalf("expected no chat messages, got %d", len(chat.texts))
	}

	webhook := "https://chat.example.com/hook"
	reminder := reminderFor("down@example.com", 1)
	reminder.ChatWebhookURL = &webhook
	if !sweeper.remindProfessional(context.Background(), reminder) {
		t.Fatal("successful chat delivery must count even when email fails")
	}
}

func TestRunDailyReminder_QueryFailureFailsSweep(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	sweeper := NewSweeper(store, newFakeSender(), nil, fakeConfig{}, logger.New("development"))

	if err := sweeper.RunDailyReminder(context.Background()); err == nil {
		t.Fatal("expected error when the recipient query fails")
	}
}

func TestRunMonthlyReport_RendersMonthAndTotals(t *testing.T) {
	store := &fakeStore{activities: []repository.CustomerActivity{
		{
			CustomerID:      uuid.New(),
			Name:            "Asha",
			Email:           "asha@example.com",
			CompletedCount:  7,
			TotalSpentCents: 250000,
			MonthRequests: []repository.MonthRequest{
				{ServiceName: "Plumbing", Status: "completed", PriceCents: 14900, RequestedAt: time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)},
			},
		},
	}}
	sender := newFakeSender()
	sweeper := NewSweeper(store, sender, nil, fakeConfig{}, logger.New("development"))

	// Mid-month input must normalize to the month start.
	if err := sweeper.RunMonthlyReport(context.Background(), time.Date(2026, 8, 15, 13, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, ok := sender.reports["asha@example.com"]
	if !ok {
		t.Fatal("expected a report email")
	}
	if report.MonthLabel != "August 2026" {
		t.Fatalf("expected month label August 2026, got %q", report.MonthLabel)
	}
	if report.CompletedTotal != 7 || report.TotalSpentCents != 250000 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if len(report.Requests) != 1 || report.Requests[0].ServiceName != "Plumbing" {
		t.Fatalf("unexpected request items: %+v", report.Requests)
	}
}
