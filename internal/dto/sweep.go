package dto

// SweepResult summarizes one expiry sweep run.
type SweepResult struct {
	Scanned               int      `json:"scanned"`
	NotificationsSent     int      `json:"notificationsSent"`
	Renewed               int      `json:"renewed"`
	Expired               int      `json:"expired"`
	InvoicesMarkedOverdue int64    `json:"invoicesMarkedOverdue"`
	Skipped               bool     `json:"skipped"`
	Errors                []string `json:"errors,omitempty"`
}
