package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/asap-api/internal/dto"
	"github.com/noah-isme/asap-api/internal/handler"
	"github.com/noah-isme/asap-api/internal/observability"
	"github.com/noah-isme/asap-api/internal/service"
	"github.com/noah-isme/asap-api/pkg/ai"
)

type mockEvaluationService struct {
	lastCfg   ai.EvaluationConfig
	lastFiles []ai.UploadedFile
	report    ai.ProjectReport
	err       error
	busy      bool
}

func (m *mockEvaluationService) Analyze(_ context.Context, cfg ai.EvaluationConfig, files []ai.UploadedFile) (ai.ProjectReport, error) {
	m.lastCfg = cfg
	m.lastFiles = files
	if m.err != nil {
		return ai.ProjectReport{}, m.err
	}
	return m.report, nil
}

func (m *mockEvaluationService) InProgress() bool { return m.busy }

func newEvaluationApp(svc service.EvaluationService) *fiber.App {
	logger := zerolog.New(io.Discard)
	app := fiber.New()
	handler.NewEvaluationHandler(svc, service.NewUploadEncoder(1, logger), ai.NewValidator(), logger).
		Register(app.Group("/api/v1/evaluations"))
	return app
}

func evaluationConfig() ai.EvaluationConfig {
	return ai.EvaluationConfig{
		ProjectTitle:       "X",
		Discipline:         "General",
		AcademicLevel:      "Masters",
		EvaluationContext:  "Y",
		EvaluationCriteria: []string{"A", "B", "C"},
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestEvaluationHandler_CreateSuccess(t *testing.T) {
	svc := &mockEvaluationService{report: ai.ProjectReport{ID: "2026-10-16T08:00:00.000000000Z", SavedDate: "2026-10-16T08:00:00.000000000Z", Report: ai.Report{ProjectTitle: "X", OverallScore: 72}}}
	app := newEvaluationApp(svc)

	files := []ai.UploadedFile{{Name: "main.go", MimeType: "text/plain", ContentBase64: "Z28="}}
	resp := postJSON(t, app, "/api/v1/evaluations", dto.EvaluationRequest{Config: evaluationConfig(), Files: files})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool             `json:"success"`
		Data    ai.ProjectReport `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, svc.report.ID, body.Data.ID)
	require.Equal(t, 72, body.Data.OverallScore)
	require.Equal(t, files, svc.lastFiles)
	require.Equal(t, evaluationConfig(), svc.lastCfg)
}

func TestEvaluationHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "remote failure", err: &ai.RemoteFailure{Reason: ai.ReasonInvalidJSON}, status: fiber.StatusBadGateway, message: ai.RemoteFailureMessage},
		{name: "validation", err: &ai.ValidationError{Fields: []ai.FieldError{{Field: "projectTitle", Message: "Project Title is required."}}}, status: fiber.StatusBadRequest, message: "Project Title is required."},
		{name: "busy", err: service.ErrAnalysisInProgress, status: fiber.StatusConflict, message: service.ErrAnalysisInProgress.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newEvaluationApp(&mockEvaluationService{err: tc.err})

			resp := postJSON(t, app, "/api/v1/evaluations", dto.EvaluationRequest{Config: evaluationConfig()})
			require.Equal(t, tc.status, resp.StatusCode)

			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			decodeResponse(t, resp, &body)
			require.False(t, body.Success)
			require.Equal(t, tc.message, body.Message)
		})
	}
}

func TestEvaluationHandler_LogsRemoteFailureOnceWithCorrelation(t *testing.T) {
	_, rf := ai.ParseReport("not json", false)
	require.NotNil(t, rf)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(observability.WithCorrelationID(c.UserContext(), "req-502"))
		return c.Next()
	})
	handler.NewEvaluationHandler(&mockEvaluationService{err: rf}, service.NewUploadEncoder(1, logger), ai.NewValidator(), logger).
		Register(app.Group("/api/v1/evaluations"))

	resp := postJSON(t, app, "/api/v1/evaluations", dto.EvaluationRequest{Config: evaluationConfig()})
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "error", entry["level"])
	require.Equal(t, "req-502", entry["correlation_id"])
	require.Equal(t, ai.ReasonInvalidJSON, entry["reason"])
	require.Equal(t, "model evaluation failed", entry["message"])
}

func TestEvaluationHandler_RejectsNamelessFile(t *testing.T) {
	svc := &mockEvaluationService{}
	app := newEvaluationApp(svc)

	resp := postJSON(t, app, "/api/v1/evaluations", dto.EvaluationRequest{Config: evaluationConfig(), Files: []ai.UploadedFile{{ContentBase64: "YQ=="}}})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Nil(t, svc.lastFiles)
}

func TestEvaluationHandler_UploadEncodesFilesInOrder(t *testing.T) {
	svc := &mockEvaluationService{report: ai.ProjectReport{ID: "id"}}
	app := newEvaluationApp(svc)

	cfg, err := json.Marshal(evaluationConfig())
	require.NoError(t, err)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("config", string(cfg)))
	for _, f := range []struct{ name, content string }{{"first.txt", "one"}, {"second.txt", "two"}} {
		part, err := writer.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.Len(t, svc.lastFiles, 2)
	require.Equal(t, "first.txt", svc.lastFiles[0].Name)
	require.Equal(t, "b25l", svc.lastFiles[0].ContentBase64)
	require.Equal(t, "second.txt", svc.lastFiles[1].Name)
	require.Equal(t, "X", svc.lastCfg.ProjectTitle)
}

func TestEvaluationHandler_UploadRequiresConfig(t *testing.T) {
	app := newEvaluationApp(&mockEvaluationService{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("note", "missing config"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEvaluationHandler_Status(t *testing.T) {
	app := newEvaluationApp(&mockEvaluationService{busy: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/status", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			InProgress bool `json:"inProgress"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Data.InProgress)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}
