// Package email renders and delivers transactional mail for the marketplace:
// request status updates, the professionals' daily reminder, and the
// customers' monthly activity report.
package email

import (
	"context"
	"time"

	"homeserve_backend/platform/config"
)

// ReminderItem is one open request line in the daily reminder email.
type ReminderItem struct {
	ServiceName  string
	CustomerName string
	Address      string
	RequestedAt  time.Time
}

// ReportItem is one request line in the monthly report email.
type ReportItem struct {
	ServiceName string
	Status      string
	PriceCents  int64
	RequestedAt time.Time
}

// MonthlyReport is the customer's activity summary for one month.
type MonthlyReport struct {
	MonthLabel      string
	Requests        []ReportItem
	CompletedTotal  int
	TotalSpentCents int64
}

// Sender delivers marketplace emails.
type Sender interface {
	SendStatusUpdateEmail(ctx context.Context, toEmail, customerName, serviceName, status, reason string) error
	SendDailyReminderEmail(ctx context.Context, toEmail, professionalName string, items []ReminderItem) error
	SendMonthlyReportEmail(ctx context.Context, toEmail, customerName string, report MonthlyReport) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendStatusUpdateEmail(ctx context.Context, toEmail, customerName, serviceName, status, reason string) error {
	return nil
}

func (NoopSender) SendDailyReminderEmail(ctx context.Context, toEmail, professionalName string, items []ReminderItem) error {
	return nil
}

func (NoopSender) SendMonthlyReportEmail(ctx context.Context, toEmail, customerName string, report MonthlyReport) error {
	return nil
}

// Compile-time checks.
var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)

// NewSender returns the configured Sender implementation, or a NoopSender
// when email delivery is disabled.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
