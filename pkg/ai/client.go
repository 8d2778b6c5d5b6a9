package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	evaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "asap",
		Subsystem: "ai",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of remote model evaluation calls",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60, 90, 120, 180},
	}, []string{"provider", "model"})

	evaluationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asap",
		Subsystem: "ai",
		Name:      "evaluation_failures_total",
		Help:      "Number of evaluations rejected, by reason",
	}, []string{"provider", "reason"})
)

const tracerName = "github.com/noah-isme/asap-api/pkg/ai"

// Provider names accepted by ClientConfig.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Defaults applied by NewClient.
const (
	DefaultGeminiModel = "gemini-2.5-pro"
	DefaultOpenAIModel = "gpt-4o"
	DefaultTemperature = float32(0.2)
	DefaultTimeout     = 120 * time.Second
)

// ClientConfig configures the evaluation client.
type ClientConfig struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Logger      zerolog.Logger
	Validator   *validator.Validate
	// Generator overrides the provider-backed generator. The credential is still required.
	Generator Generator
}

// Client runs compose → generate → parse → verify for one evaluation request.
type Client struct {
	generator   Generator
	model       string
	temperature float32
	timeout     time.Duration
	validate    *validator.Validate
	tracer      trace.Tracer
	logger      zerolog.Logger
}

// NewClient builds an evaluation client. It fails with ErrConfiguration when the
// model credential is missing.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: model api key is required", ErrConfiguration)
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderGemini
	}

	if cfg.Model == "" {
		switch provider {
		case ProviderOpenAI:
			cfg.Model = DefaultOpenAIModel
		default:
			cfg.Model = DefaultGeminiModel
		}
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	generator := cfg.Generator
	if generator == nil {
		var err error
		switch provider {
		case ProviderGemini:
			generator, err = NewGeminiGenerator(context.Background(), GeminiConfig{APIKey: cfg.APIKey})
		case ProviderOpenAI:
			generator, err = NewOpenAIGenerator(OpenAIConfig{APIKey: cfg.APIKey})
		default:
			return nil, fmt.Errorf("%w: unknown provider %q", ErrConfiguration, cfg.Provider)
		}
		if err != nil {
			return nil, err
		}
	}

	validate := cfg.Validator
	if validate == nil {
		validate = NewValidator()
	}

	return &Client{
		generator:   generator,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		validate:    validate,
		tracer:      otel.Tracer(tracerName),
		logger:      cfg.Logger.With().Str("component", "ai_client").Str("provider", generator.Name()).Str("model", cfg.Model).Logger(),
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Provider returns the name of the generator backing the client.
func (c *Client) Provider() string {
	return c.generator.Name()
}

// Evaluate validates the request, calls the model and returns the parsed report.
// Every model-side problem is returned as a *RemoteFailure.
func (c *Client) Evaluate(parent context.Context, cfg EvaluationConfig, files []UploadedFile) (Report, error) {
	if err := ValidateConfig(c.validate, cfg); err != nil {
		return Report{}, err
	}

	ctx, span := c.tracer.Start(parent, "ai.evaluate", trace.WithAttributes(
		attribute.String("ai.provider", c.generator.Name()),
		attribute.String("ai.model", c.model),
		attribute.Int("ai.files", len(files)),
		attribute.Int("ai.criteria", len(cfg.EvaluationCriteria)),
		attribute.Bool("ai.check_originality", cfg.CheckOriginality),
	))
	defer span.End()

	request := GenerateRequest{
		Model:       c.model,
		Prompt:      ComposePrompt(cfg, files),
		Schema:      BuildSchema(cfg.CheckOriginality),
		Temperature: c.temperature,
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.generator.Generate(callCtx, request)
	duration := time.Since(start)
	evaluationDuration.WithLabelValues(c.generator.Name(), c.model).Observe(duration.Seconds())

	if err != nil {
		reason := ReasonTransport
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		return Report{}, c.fail(span, remoteFailure(reason, err))
	}

	report, rf := ParseReport(resp.Text, cfg.CheckOriginality)
	if rf != nil {
		return Report{}, c.fail(span, rf)
	}

	span.SetStatus(codes.Ok, "evaluated")
	c.logger.Info().
		Dur("duration", duration).
		Int("overall_score", report.OverallScore).
		Bool("originality", report.OriginalityReport != nil).
		Msg("evaluation completed")

	return report, nil
}

// startGenerate opens the provider call span; it nests under ai.evaluate.
func startGenerate(ctx context.Context, provider, model string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "ai.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("ai.provider", provider),
			attribute.String("ai.model", model),
		),
	)
}

func endGenerate(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
	}
	span.End()
}

func (c *Client) fail(span trace.Span, rf *RemoteFailure) error {
	evaluationFailures.WithLabelValues(c.generator.Name(), rf.Reason).Inc()
	span.RecordError(rf)
	span.SetStatus(codes.Error, rf.Reason)
	return rf
}

// ParseReport decodes the model reply and checks the properties a model can violate
// silently: exactly ten viva questions numbered 1..10 and an originality section
// only when it was requested. An absent originality section is tolerated.
func ParseReport(text string, checkOriginality bool) (Report, *RemoteFailure) {
	content := strings.TrimSpace(text)
	if content == "" {
		return Report{}, remoteFailure(ReasonEmptyResponse, errors.New("model returned an empty response"))
	}

	var report Report
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		return Report{}, remoteFailure(ReasonInvalidJSON, fmt.Errorf("parse evaluation json: %w", err))
	}

	if err := verifyVivaQuestions(report.VivaQuestions); err != nil {
		return Report{}, remoteFailure(ReasonVivaCount, err)
	}

	if report.OriginalityReport != nil && !checkOriginality {
		return Report{}, remoteFailure(ReasonOriginalityMismatch, errors.New("originality report returned although it was not requested"))
	}

	return report, nil
}

func verifyVivaQuestions(questions []VivaQuestion) error {
	if len(questions) != VivaQuestionCount {
		return fmt.Errorf("expected %d viva questions, got %d", VivaQuestionCount, len(questions))
	}
	for i, q := range questions {
		if q.QuestionNumber != i+1 {
			return fmt.Errorf("viva question at position %d is numbered %d", i+1, q.QuestionNumber)
		}
	}
	return nil
}
