package ai

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFinalizeStampsIdentityFromClock(t *testing.T) {
	instant := time.Date(2026, 10, 16, 9, 30, 15, 123456789, time.FixedZone("WIB", 7*3600))
	assembler := NewAssembler(func() time.Time { return instant })

	report := assembler.Finalize(Report{ProjectTitle: "X"})

	require.Equal(t, "2026-10-16T02:30:15.123456789Z", report.ID)
	require.Equal(t, report.ID, report.SavedDate)
	require.Equal(t, "X", report.ProjectTitle)

	parsed, err := ParseTimestamp(report.SavedDate)
	require.NoError(t, err)
	require.True(t, parsed.Equal(instant))
}

func TestFinalizeDistinctInstantsYieldDistinctIDs(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	readings := []time.Time{base, base.Add(time.Nanosecond), base.Add(time.Millisecond), base.Add(time.Hour)}
	i := 0
	assembler := NewAssembler(func() time.Time {
		t := readings[i]
		i++
		return t
	})

	seen := map[string]struct{}{}
	var previous string
	for range readings {
		report := assembler.Finalize(Report{})
		_, dup := seen[report.ID]
		require.False(t, dup)
		seen[report.ID] = struct{}{}
		require.Greater(t, report.ID, previous)
		previous = report.ID
	}
}

func TestFinalizeDoesNotAliasPartial(t *testing.T) {
	partial := Report{
		ScoredCategories:  []ScoredCategory{{Category: "A", Score: 50, Justification: []string{"ok"}}},
		SuggestedActions:  []string{"revise"},
		VivaQuestions:     []VivaQuestion{{QuestionNumber: 1, Question: "Why?", ExpectedAnswerPoints: []string{"because"}}},
		OriginalityReport: &OriginalityReport{OriginalityScore: 90, Findings: []OriginalityFinding{{Finding: "f"}}},
	}

	report := NewAssembler(nil).Finalize(partial)

	partial.ScoredCategories[0].Justification[0] = "changed"
	partial.SuggestedActions[0] = "changed"
	partial.VivaQuestions[0].ExpectedAnswerPoints[0] = "changed"
	partial.OriginalityReport.OriginalityScore = 1
	partial.OriginalityReport.Findings[0].Finding = "changed"

	require.Equal(t, "ok", report.ScoredCategories[0].Justification[0])
	require.Equal(t, "revise", report.SuggestedActions[0])
	require.Equal(t, "because", report.VivaQuestions[0].ExpectedAnswerPoints[0])
	require.Equal(t, 90, report.OriginalityReport.OriginalityScore)
	require.Equal(t, "f", report.OriginalityReport.Findings[0].Finding)
}

func TestProjectReportJSONIsFlat(t *testing.T) {
	report := NewAssembler(func() time.Time { return time.Unix(0, 0) }).Finalize(Report{ProjectTitle: "X"})

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, "X", doc["projectTitle"])
	require.Equal(t, "1970-01-01T00:00:00.000000000Z", doc["id"])
	require.NotContains(t, doc, "Report")
	require.NotContains(t, doc, OriginalityProperty)
}
