// Package scheduler provides the asynq task definitions, the periodic sweep
// dispatcher, and the queue worker.
package scheduler

import (
	"net/http"
	"time"

	apphttp "homeserve_backend/internal/http"
	"homeserve_backend/platform/httpkit"
	"homeserve_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module exposes admin endpoints that enqueue the periodic sweeps on demand.
type Module struct {
	client SweepScheduler
	log    *logger.Logger
}

// NewModule creates the scheduler trigger module.
func NewModule(client SweepScheduler, log *logger.Logger) *Module {
	return &Module{client: client, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scheduler"
}

// RegisterRoutes mounts the sweep trigger routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	sweeps := ctx.Admin.Group("/sweeps")
	sweeps.POST("/daily-reminder", m.triggerDailyReminder)
	sweeps.POST("/monthly-report", m.triggerMonthlyReport)
}

// triggerDailyReminder enqueues today's reminder sweep (admin only).
// POST /api/v1/admin/sweeps/daily-reminder
func (m *Module) triggerDailyReminder(c *gin.Context) {
	day := time.Now().UTC()
	enqueued, err := m.client.EnqueueDailyReminder(c.Request.Context(), day)
	if httpkit.HandleError(c, err) {
		return
	}

	m.log.Info("daily reminder trigger", "date", day.Format("2006-01-02"), "enqueued", enqueued)
	httpkit.JSON(c, http.StatusAccepted, gin.H{
		"enqueued": enqueued,
		"taskId":   DailyReminderTaskID(day),
	})
}

// triggerMonthlyReport enqueues the report sweep for a month (admin only).
// The optional ?month=YYYY-MM defaults to the previous month, matching the
// periodic dispatch.
// POST /api/v1/admin/sweeps/monthly-report
func (m *Module) triggerMonthlyReport(c *gin.Context) {
	now := time.Now().UTC()
	month := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01", raw, time.UTC)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid month, expected YYYY-MM", nil)
			return
		}
		month = parsed
	}

	enqueued, err := m.client.EnqueueMonthlyReport(c.Request.Context(), month)
	if httpkit.HandleError(c, err) {
		return
	}

	m.log.Info("monthly report trigger", "month", month.Format("2006-01"), "enqueued", enqueued)
	httpkit.JSON(c, http.StatusAccepted, gin.H{
		"enqueued": enqueued,
		"taskId":   MonthlyReportTaskID(month),
	})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
