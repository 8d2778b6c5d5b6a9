package ai

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text    string
	err     error
	block   bool
	calls   int
	lastReq GenerateRequest
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	s.calls++
	s.lastReq = req
	if s.block {
		<-ctx.Done()
		return GenerateResponse{}, ctx.Err()
	}
	if s.err != nil {
		return GenerateResponse{}, s.err
	}
	return GenerateResponse{Text: s.text}, nil
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func newTestClient(t *testing.T, gen Generator) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{APIKey: "test-key", Generator: gen, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return client
}

func requireRemoteFailure(t *testing.T, err error, reason string) {
	t.Helper()
	var rf *RemoteFailure
	require.True(t, errors.As(err, &rf), "expected RemoteFailure, got %v", err)
	require.Equal(t, reason, rf.Reason)
	require.Equal(t, RemoteFailureMessage, err.Error())
}

func TestNewClientRequiresCredential(t *testing.T) {
	client, err := NewClient(ClientConfig{Generator: &stubGenerator{}})
	require.Nil(t, client)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewClient(ClientConfig{APIKey: "   ", Generator: &stubGenerator{}})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNewClientRejectsUnknownProvider(t *testing.T) {
	_, err := NewClient(ClientConfig{APIKey: "key", Provider: "mystery"})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNewClientAppliesDefaults(t *testing.T) {
	client := newTestClient(t, &stubGenerator{})
	require.Equal(t, DefaultGeminiModel, client.Model())
	require.Equal(t, DefaultTemperature, client.temperature)
	require.Equal(t, DefaultTimeout, client.timeout)
	require.Equal(t, "stub", client.Provider())
}

func TestEvaluateScenarioAWithoutOriginality(t *testing.T) {
	gen := &stubGenerator{text: fixture(t, "report_basic.json")}
	client := newTestClient(t, gen)

	report, err := client.Evaluate(context.Background(), baseConfig(), nil)
	require.NoError(t, err)
	require.Nil(t, report.OriginalityReport)
	require.Len(t, report.VivaQuestions, VivaQuestionCount)
	require.Equal(t, 72, report.OverallScore)

	require.Equal(t, 1, gen.calls)
	require.False(t, gen.lastReq.Schema.IncludesOriginality())
	require.NotContains(t, gen.lastReq.Prompt, OriginalityHeading)
	require.Contains(t, gen.lastReq.Prompt, NoFilesSentinel)
	require.Equal(t, DefaultTemperature, gen.lastReq.Temperature)
	require.Equal(t, DefaultGeminiModel, gen.lastReq.Model)
}

func TestEvaluateScenarioBDocumentationOverride(t *testing.T) {
	gen := &stubGenerator{text: fixture(t, "report_basic.json")}
	client := newTestClient(t, gen)

	cfg := baseConfig()
	cfg.EvaluationCriteria = []string{"Documentation", "B", "C"}
	_, err := client.Evaluate(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Contains(t, gen.lastReq.Prompt, "'Documentation' criterion a score of exactly 0")
}

func TestEvaluateScenarioCToleratesMissingOriginality(t *testing.T) {
	gen := &stubGenerator{text: fixture(t, "report_basic.json")}
	client := newTestClient(t, gen)

	cfg := baseConfig()
	cfg.CheckOriginality = true
	report, err := client.Evaluate(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Nil(t, report.OriginalityReport)
	require.True(t, gen.lastReq.Schema.IncludesOriginality())
	require.Contains(t, gen.lastReq.Prompt, OriginalityHeading)
}

func TestEvaluateKeepsRequestedOriginality(t *testing.T) {
	gen := &stubGenerator{text: fixture(t, "report_originality.json")}
	client := newTestClient(t, gen)

	cfg := baseConfig()
	cfg.CheckOriginality = true
	report, err := client.Evaluate(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, report.OriginalityReport)
	require.Equal(t, 85, report.OriginalityReport.OriginalityScore)
	require.Empty(t, report.OriginalityReport.Findings)
}

func TestEvaluateScenarioDRejectsWrongVivaCount(t *testing.T) {
	client := newTestClient(t, &stubGenerator{text: fixture(t, "report_nine_questions.json")})

	_, err := client.Evaluate(context.Background(), baseConfig(), nil)
	requireRemoteFailure(t, err, ReasonVivaCount)
}

func TestEvaluateScenarioETransportFault(t *testing.T) {
	cause := errors.New("503 model overloaded")
	client := newTestClient(t, &stubGenerator{err: cause})

	_, err := client.Evaluate(context.Background(), baseConfig(), nil)
	requireRemoteFailure(t, err, ReasonTransport)
	require.ErrorIs(t, err, cause)
}

func TestEvaluateLeavesFailureLoggingToCaller(t *testing.T) {
	var buf bytes.Buffer
	client, err := NewClient(ClientConfig{
		APIKey:    "test-key",
		Generator: &stubGenerator{err: errors.New("503 model overloaded")},
		Logger:    zerolog.New(&buf),
	})
	require.NoError(t, err)

	_, err = client.Evaluate(context.Background(), baseConfig(), nil)
	requireRemoteFailure(t, err, ReasonTransport)
	require.Empty(t, buf.String())
}

func TestEvaluateRejectsUnrequestedOriginality(t *testing.T) {
	client := newTestClient(t, &stubGenerator{text: fixture(t, "report_originality.json")})

	_, err := client.Evaluate(context.Background(), baseConfig(), nil)
	requireRemoteFailure(t, err, ReasonOriginalityMismatch)
}

func TestEvaluateRejectsEmptyAndMalformedReplies(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		reason string
	}{
		{name: "empty", text: "", reason: ReasonEmptyResponse},
		{name: "whitespace", text: "  \n ", reason: ReasonEmptyResponse},
		{name: "prose", text: "Here is your evaluation:", reason: ReasonInvalidJSON},
		{name: "truncated", text: `{"projectTitle": "X"`, reason: ReasonInvalidJSON},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, &stubGenerator{text: tc.text})
			_, err := client.Evaluate(context.Background(), baseConfig(), nil)
			requireRemoteFailure(t, err, tc.reason)
		})
	}
}

func TestEvaluateTimesOut(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "key", Generator: &stubGenerator{block: true}, Timeout: 20 * time.Millisecond, Logger: zerolog.Nop()})
	require.NoError(t, err)

	_, err = client.Evaluate(context.Background(), baseConfig(), nil)
	requireRemoteFailure(t, err, ReasonTimeout)
}

func TestEvaluateValidatesBeforeCallingModel(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EvaluationConfig)
		field  string
	}{
		{name: "missing title", mutate: func(c *EvaluationConfig) { c.ProjectTitle = "  " }, field: "projectTitle"},
		{name: "missing context", mutate: func(c *EvaluationConfig) { c.EvaluationContext = "" }, field: "evaluationContext"},
		{name: "too few criteria", mutate: func(c *EvaluationConfig) { c.EvaluationCriteria = []string{"A", "B"} }, field: "evaluationCriteria"},
		{name: "too many criteria", mutate: func(c *EvaluationConfig) {
			c.EvaluationCriteria = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
		}, field: "evaluationCriteria"},
		{name: "blank criterion", mutate: func(c *EvaluationConfig) { c.EvaluationCriteria = []string{"A", "", "C"} }, field: "evaluationCriteria[1]"},
		{name: "bad url", mutate: func(c *EvaluationConfig) { c.ProjectURL = "not a url" }, field: "projectURL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{text: fixture(t, "report_basic.json")}
			client := newTestClient(t, gen)

			cfg := baseConfig()
			tc.mutate(&cfg)
			_, err := client.Evaluate(context.Background(), cfg, nil)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			require.Equal(t, tc.field, ve.Fields[0].Field)
			require.False(t, IsRemoteFailure(err))
			require.Zero(t, gen.calls)
		})
	}
}

func TestParseReportRequiresAscendingNumbering(t *testing.T) {
	text := fixture(t, "report_basic.json")
	report, rf := ParseReport(text, false)
	require.Nil(t, rf)

	report.VivaQuestions[3].QuestionNumber = 7
	require.Error(t, verifyVivaQuestions(report.VivaQuestions))
}
