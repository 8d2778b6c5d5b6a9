package dto

import "github.com/noah-isme/asap-api/pkg/ai"

// EvaluationRequest is the JSON body for starting an analysis.
type EvaluationRequest struct {
	Config ai.EvaluationConfig `json:"config" validate:"-"`
	Files  []ai.UploadedFile   `json:"files" validate:"omitempty,dive"`
}

// ReportSummary is the history listing entry.
type ReportSummary struct {
	ID           string `json:"id"`
	ProjectTitle string `json:"projectTitle"`
	Discipline   string `json:"discipline"`
	SavedDate    string `json:"savedDate"`
	OverallScore int    `json:"overallScore"`
}

// NewReportSummary projects a stored report into its listing entry.
func NewReportSummary(report ai.ProjectReport) ReportSummary {
	return ReportSummary{
		ID:           report.ID,
		ProjectTitle: report.ProjectTitle,
		Discipline:   report.Discipline,
		SavedDate:    report.SavedDate,
		OverallScore: report.OverallScore,
	}
}

// NewReportSummaries maps a report history into listing entries, preserving order.
func NewReportSummaries(reports []ai.ProjectReport) []ReportSummary {
	summaries := make([]ReportSummary, 0, len(reports))
	for _, report := range reports {
		summaries = append(summaries, NewReportSummary(report))
	}
	return summaries
}

// ReportEvent is published on the report events subject.
type ReportEvent struct {
	Type          string `json:"type"`
	ReportID      string `json:"reportId,omitempty"`
	ProjectTitle  string `json:"projectTitle,omitempty"`
	OverallScore  int    `json:"overallScore,omitempty"`
	OccurredAt    string `json:"occurredAt"`
	CorrelationID string `json:"correlationId,omitempty"`
}
