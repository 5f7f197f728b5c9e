package email

const (
	subjectStatusUpdateFmt  = "Update on your %s request"
	subjectDailyReminderFmt = "Reminder: %d pending service request(s)"
	subjectMonthlyReportFmt = "Your HomeServe activity report for %s"
)
