package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

type statusUpdateEmailData struct {
	baseEmailData
	CustomerName string
	ServiceName  string
	Status       string
	Reason       string
}

type dailyReminderEmailData struct {
	baseEmailData
	ProfessionalName string
	Items            []ReminderItem
}

type reportRow struct {
	ServiceName string
	Status      string
	Price       string
	Date        string
}

type monthlyReportEmailData struct {
	baseEmailData
	CustomerName   string
	MonthLabel     string
	Items          []reportRow
	CompletedTotal int
	TotalSpent     string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"date": func(t time.Time) string { return t.Format("02 Jan 2006") },
	}).ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func toReportRows(items []ReportItem) []reportRow {
	rows := make([]reportRow, len(items))
	for i, item := range items {
		rows[i] = reportRow{
			ServiceName: item.ServiceName,
			Status:      item.Status,
			Price:       formatCurrencyINR(item.PriceCents),
			Date:        item.RequestedAt.Format("02 Jan 2006"),
		}
	}
	return rows
}

func formatCurrencyINR(cents int64) string {
	return fmt.Sprintf("₹%.2f", float64(cents)/100)
}
