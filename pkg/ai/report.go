package ai

import "time"

// TimestampLayout renders instants as fixed-width UTC ISO-8601, so lexical order
// matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Assembler stamps identity onto parsed reports.
type Assembler struct {
	now func() time.Time
}

// NewAssembler builds an assembler reading the given clock. A nil clock uses time.Now.
func NewAssembler(now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{now: now}
}

// Finalize assigns id and savedDate from a single clock reading. The returned
// report shares no memory with partial.
func (a *Assembler) Finalize(partial Report) ProjectReport {
	stamp := a.now().UTC().Format(TimestampLayout)
	return ProjectReport{
		ID:        stamp,
		SavedDate: stamp,
		Report:    cloneReport(partial),
	}
}

// ParseTimestamp parses a savedDate produced by Finalize.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

func cloneReport(r Report) Report {
	out := r
	if r.ScoredCategories != nil {
		out.ScoredCategories = make([]ScoredCategory, len(r.ScoredCategories))
		for i, c := range r.ScoredCategories {
			c.Justification = append([]string(nil), c.Justification...)
			out.ScoredCategories[i] = c
		}
	}
	if r.OriginalityReport != nil {
		orig := *r.OriginalityReport
		orig.Findings = append([]OriginalityFinding(nil), r.OriginalityReport.Findings...)
		out.OriginalityReport = &orig
	}
	out.SuggestedActions = append([]string(nil), r.SuggestedActions...)
	if r.VivaQuestions != nil {
		out.VivaQuestions = make([]VivaQuestion, len(r.VivaQuestions))
		for i, q := range r.VivaQuestions {
			q.ExpectedAnswerPoints = append([]string(nil), q.ExpectedAnswerPoints...)
			out.VivaQuestions[i] = q
		}
	}
	return out
}
