package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendStatusUpdateEmail notifies a customer that a request changed status.
func (s *SMTPSender) SendStatusUpdateEmail(ctx context.Context, toEmail, customerName, serviceName, status, reason string) error {
	content, err := renderEmailTemplate("status_update.html", statusUpdateEmailData{
		baseEmailData: baseEmailData{
			Title:   "Service request update",
			Heading: "Your service request was updated",
		},
		CustomerName: customerName,
		ServiceName:  serviceName,
		Status:       status,
		Reason:       reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectStatusUpdateFmt, serviceName), content)
}

// SendDailyReminderEmail sends a professional one consolidated list of their
// open requests.
func (s *SMTPSender) SendDailyReminderEmail(ctx context.Context, toEmail, professionalName string, items []ReminderItem) error {
	content, err := renderEmailTemplate("daily_reminder.html", dailyReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Pending service requests",
			Heading: "You have pending service requests",
		},
		ProfessionalName: professionalName,
		Items:            items,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectDailyReminderFmt, len(items)), content)
}

// SendMonthlyReportEmail sends a customer their monthly activity summary.
func (s *SMTPSender) SendMonthlyReportEmail(ctx context.Context, toEmail, customerName string, report MonthlyReport) error {
	content, err := renderEmailTemplate("monthly_report.html", monthlyReportEmailData{
		baseEmailData: baseEmailData{
			Title:   "Monthly activity report",
			Heading: "Your activity for " + report.MonthLabel,
		},
		CustomerName:   customerName,
		MonthLabel:     report.MonthLabel,
		Items:          toReportRows(report.Requests),
		CompletedTotal: report.CompletedTotal,
		TotalSpent:     formatCurrencyINR(report.TotalSpentCents),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectMonthlyReportFmt, report.MonthLabel), content)
}
