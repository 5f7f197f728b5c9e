package email

import (
	"strings"
	"testing"
	"time"
)

func TestRenderEmailTemplate_StatusUpdate(t *testing.T) {
	html, err := renderEmailTemplate("status_update.html", statusUpdateEmailData{
		baseEmailData: baseEmailData{Title: "Update", Heading: "Request update"},
		CustomerName:  "Asha",
		ServiceName:   "Plumbing",
		Status:        "rejected",
		Reason:        "too far away",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Asha", "Plumbing", "rejected", "too far away"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}

func TestRenderEmailTemplate_DailyReminder(t *testing.T) {
	html, err := renderEmailTemplate("daily_reminder.html", dailyReminderEmailData{
		baseEmailData:    baseEmailData{Title: "Reminder", Heading: "Pending requests"},
		ProfessionalName: "Ravi",
		Items: []ReminderItem{
			{ServiceName: "Plumbing", CustomerName: "Asha", Address: "12 Gandhi Road", RequestedAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Ravi", "Plumbing", "12 Gandhi Road", "30 Aug 2026"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}

func TestRenderEmailTemplate_MonthlyReport(t *testing.T) {
	html, err := renderEmailTemplate("monthly_report.html", monthlyReportEmailData{
		baseEmailData:  baseEmailData{Title: "Report", Heading: "Your month"},
		CustomerName:   "Asha",
		MonthLabel:     "August 2026",
		Items:          toReportRows([]ReportItem{{ServiceName: "Plumbing", Status: "completed", PriceCents: 14900, RequestedAt: time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)}}),
		CompletedTotal: 7,
		TotalSpent:     formatCurrencyINR(250000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"August 2026", "₹149.00", "₹2500.00"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}
