package task

import (
	"time"

	"ymlfeed/report/internal/domain"
)

// ReportTask announces a finished report to downstream consumers.
type ReportTask struct {
	Source      string             `json:"source"`       // Feed URL
	GeneratedAt time.Time          `json:"generated_at"` // Report build time
	Rows        []domain.ReportRow `json:"rows"`         // Sorted report rows
}

func NewReportTask(report *domain.Report) *ReportTask {
	return &ReportTask{
		Source:      report.Source,
		GeneratedAt: report.GeneratedAt,
		Rows:        report.Rows,
	}
}

func (t *ReportTask) TaskType() string {
	return "ReportTask"
}

func (t *ReportTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
