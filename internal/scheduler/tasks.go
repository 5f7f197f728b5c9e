package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskDailyReminder = "requests.daily_reminder"

const TaskMonthlyReport = "requests.monthly_report"

const TaskServiceRequestExport = "exports.service_requests"

const TaskProfessionalExport = "exports.professional"

// DailyReminderPayload identifies the day a reminder sweep covers.
type DailyReminderPayload struct {
	Date string `json:"date"` // 2006-01-02
}

// MonthlyReportPayload identifies the month a report sweep covers.
type MonthlyReportPayload struct {
	Month string `json:"month"` // 2006-01
}

// ServiceRequestExportPayload carries the filter set of an async export.
type ServiceRequestExportPayload struct {
	Status    string `json:"status,omitempty"`
	ServiceID string `json:"serviceId,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
}

// ProfessionalExportPayload identifies the professional of an async export.
type ProfessionalExportPayload struct {
	ProfessionalID string `json:"professionalId"`
}

// DailyReminderTaskID returns the unique task ID for one day's reminder
// sweep. One enqueue per day wins; duplicates hit ErrTaskIDConflict.
func DailyReminderTaskID(day time.Time) string {
	return TaskDailyReminder + ":" + day.UTC().Format("2006-01-02")
}

// MonthlyReportTaskID returns the unique task ID for one month's report sweep.
func MonthlyReportTaskID(month time.Time) string {
	return TaskMonthlyReport + ":" + month.UTC().Format("2006-01")
}

func NewDailyReminderTask(payload DailyReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDailyReminder, data), nil
}

func ParseDailyReminderPayload(task *asynq.Task) (DailyReminderPayload, error) {
	var payload DailyReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DailyReminderPayload{}, err
	}
	return payload, nil
}

func NewMonthlyReportTask(payload MonthlyReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMonthlyReport, data), nil
}

func ParseMonthlyReportPayload(task *asynq.Task) (MonthlyReportPayload, error) {
	var payload MonthlyReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return MonthlyReportPayload{}, err
	}
	return payload, nil
}

func NewServiceRequestExportTask(payload ServiceRequestExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskServiceRequestExport, data), nil
}

func ParseServiceRequestExportPayload(task *asynq.Task) (ServiceRequestExportPayload, error) {
	var payload ServiceRequestExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ServiceRequestExportPayload{}, err
	}
	return payload, nil
}

func NewProfessionalExportTask(payload ProfessionalExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProfessionalExport, data), nil
}

func ParseProfessionalExportPayload(task *asynq.Task) (ProfessionalExportPayload, error) {
	var payload ProfessionalExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ProfessionalExportPayload{}, err
	}
	return payload, nil
}
