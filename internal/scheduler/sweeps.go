package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"homeserve_backend/internal/email"
	"homeserve_backend/internal/notification"
	"homeserve_backend/internal/requests/repository"
	"homeserve_backend/platform/config"
	"homeserve_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// ReportStore provides the recipient queries behind the periodic sweeps.
type ReportStore interface {
	ListPendingByProfessional(ctx context.Context) ([]repository.ProfessionalReminder, error)
	MonthlyCustomerActivity(ctx context.Context, monthStart, monthEnd time.Time) ([]repository.CustomerActivity, error)
}

// ChatSender posts a text message to a webhook URL. CanDeliver distinguishes
// a recipient with no reachable webhook from a successful send.
type ChatSender interface {
	Send(ctx context.Context, url, text string) error
	CanDeliver(url string) bool
}

// Sweeper executes the daily reminder and monthly report sweeps. Recipients
// fan out on a bounded group; a failed recipient is logged and skipped, and
// the sweep fails only when the recipient query itself fails.
type Sweeper struct {
	store       ReportStore
	sender      email.Sender
	chat        ChatSender
	concurrency int
	log         *logger.Logger
}

// NewSweeper creates a sweeper.
func NewSweeper(store ReportStore, sender email.Sender, chat ChatSender, cfg config.SchedulerConfig, log *logger.Logger) *Sweeper {
	concurrency := cfg.GetSweepConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}
	return &Sweeper{
		store:       store,
		sender:      sender,
		chat:        chat,
		concurrency: concurrency,
		log:         log,
	}
}

// RunDailyReminder sends each professional with addressed open requests one
// consolidated reminder over email and chat.
func (s *Sweeper) RunDailyReminder(ctx context.Context) error {
	reminders, err := s.store.ListPendingByProfessional(ctx)
	if err != nil {
		return fmt.Errorf("daily reminder sweep: %w", err)
	}

	var failed atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)

	for _, reminder := range reminders {
		group.Go(func() error {
			if !s.remindProfessional(groupCtx, reminder) {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	s.log.SweepOutcome(TaskDailyReminder, len(reminders), int(failed.Load()))
	return nil
}

// remindProfessional dispatches email and chat in parallel. Either channel
// succeeding counts as a delivered reminder.
func (s *Sweeper) remindProfessional(ctx context.Context, reminder repository.ProfessionalReminder) bool {
	items := make([]email.ReminderItem, len(reminder.Pending))
	for i, pending := range reminder.Pending {
		items[i] = email.ReminderItem{
			ServiceName:  pending.ServiceName,
			CustomerName: pending.CustomerName,
			Address:      pending.Address,
			RequestedAt:  pending.RequestedAt,
		}
	}

	emailErr := make(chan error, 1)
	go func() {
		emailErr <- notification.WithRetry(ctx, s.log,
			fmt.Sprintf("reminder email %s", reminder.ProfessionalID),
			func() error {
				return s.sender.SendDailyReminderEmail(ctx, reminder.Email, reminder.Name, items)
			})
	}()

	chatDelivered := false
	if s.chat != nil {
		webhook := ""
		if reminder.ChatWebhookURL != nil {
			webhook = *reminder.ChatWebhookURL
		}
		// A recipient without a reachable webhook gets no chat channel; the
		// silent no-op must not count as a delivery.
		if s.chat.CanDeliver(webhook) {
			err := notification.WithRetry(ctx, s.log,
				fmt.Sprintf("reminder chat %s", reminder.ProfessionalID),
				func() error {
					return s.chat.Send(ctx, webhook, reminderChatText(reminder))
				})
			if err != nil {
				s.log.Warn("reminder chat delivery failed", "professional", reminder.ProfessionalID, "error", err)
			} else {
				chatDelivered = true
			}
		}
	}

	emailFailure := <-emailErr
	if emailFailure != nil {
		s.log.Warn("reminder email delivery failed", "professional", reminder.ProfessionalID, "error", emailFailure)
	}

	return emailFailure == nil || chatDelivered
}

// RunMonthlyReport emails every customer their activity for the month
// beginning at monthStart.
func (s *Sweeper) RunMonthlyReport(ctx context.Context, monthStart time.Time) error {
	monthStart = time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	activities, err := s.store.MonthlyCustomerActivity(ctx, monthStart, monthEnd)
	if err != nil {
		return fmt.Errorf("monthly report sweep: %w", err)
	}

	monthLabel := monthStart.Format("January 2006")

	var failed atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)

	for _, activity := range activities {
		group.Go(func() error {
			report := email.MonthlyReport{
				MonthLabel:      monthLabel,
				Requests:        toReportItems(activity.MonthRequests),
				CompletedTotal:  activity.CompletedCount,
				TotalSpentCents: activity.TotalSpentCents,
			}
			err := notification.WithRetry(groupCtx, s.log,
				fmt.Sprintf("monthly report %s", activity.CustomerID),
				func() error {
					return s.sender.SendMonthlyReportEmail(groupCtx, activity.Email, activity.Name, report)
				})
			if err != nil {
				s.log.Warn("monthly report delivery failed", "customer", activity.CustomerID, "error", err)
				failed.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	s.log.SweepOutcome(TaskMonthlyReport, len(activities), int(failed.Load()))
	return nil
}

func toReportItems(requests []repository.MonthRequest) []email.ReportItem {
	items := make([]email.ReportItem, len(requests))
	for i, request := range requests {
		items[i] = email.ReportItem{
			ServiceName: request.ServiceName,
			Status:      request.Status,
			PriceCents:  request.PriceCents,
			RequestedAt: request.RequestedAt,
		}
	}
	return items
}

func reminderChatText(reminder repository.ProfessionalReminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, you have %d pending service request(s):\n", reminder.Name, len(reminder.Pending))
	for _, pending := range reminder.Pending {
		fmt.Fprintf(&b, "- %s for %s at %s (requested %s)\n",
			pending.ServiceName, pending.CustomerName, pending.Address,
			pending.RequestedAt.Format("02 Jan 2006"))
	}
	b.WriteString("Please accept or reject them in your dashboard.")
	return b.String()
}
