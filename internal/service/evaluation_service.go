package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/asap-api/internal/observability"
	"github.com/noah-isme/asap-api/pkg/ai"
)

// ErrAnalysisInProgress indicates another analysis is still running.
var ErrAnalysisInProgress = errors.New("an analysis is already in progress")

// Evaluator runs one evaluation against the model. *ai.Client satisfies it.
type Evaluator interface {
	Evaluate(ctx context.Context, cfg ai.EvaluationConfig, files []ai.UploadedFile) (ai.Report, error)
}

// EvaluationService runs analyses and records successful reports.
type EvaluationService interface {
	Analyze(ctx context.Context, cfg ai.EvaluationConfig, files []ai.UploadedFile) (ai.ProjectReport, error)
	InProgress() bool
}

type evaluationService struct {
	evaluator Evaluator
	assembler *ai.Assembler
	reports   ReportService
	sanitizer *bluemonday.Policy
	busy      atomic.Bool
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewEvaluationService constructs the analysis workflow. Only one analysis runs at a time.
func NewEvaluationService(evaluator Evaluator, assembler *ai.Assembler, reports ReportService, logger zerolog.Logger) EvaluationService {
	if assembler == nil {
		assembler = ai.NewAssembler(nil)
	}
	return &evaluationService{
		evaluator: evaluator,
		assembler: assembler,
		reports:   reports,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/asap-api/internal/service/evaluation"),
	}
}

func (s *evaluationService) InProgress() bool {
	return s.busy.Load()
}

func (s *evaluationService) Analyze(ctx context.Context, cfg ai.EvaluationConfig, files []ai.UploadedFile) (ai.ProjectReport, error) {
	if !s.busy.CompareAndSwap(false, true) {
		observability.Analyses().WithLabelValues("busy").Inc()
		return ai.ProjectReport{}, ErrAnalysisInProgress
	}
	defer s.busy.Store(false)

	observability.AnalysesInFlight().Inc()
	defer observability.AnalysesInFlight().Dec()

	ctx, span := s.tracer.Start(ctx, "evaluation.analyze")
	defer span.End()

	snapshot := trimConfig(cfg)
	inputs := append([]ai.UploadedFile(nil), files...)
	markup := s.containsMarkup(snapshot)
	span.SetAttributes(
		attribute.Int("evaluation.file_count", len(inputs)),
		attribute.Int("evaluation.criteria_count", len(snapshot.EvaluationCriteria)),
		attribute.Bool("evaluation.check_originality", snapshot.CheckOriginality),
		attribute.Bool("evaluation.contains_markup", markup),
	)
	if markup {
		observability.Logger(ctx, s.logger).Debug().Msg("evaluation config contains markup; passing it through verbatim")
	}

	report, err := s.evaluator.Evaluate(ctx, snapshot, inputs)
	if err != nil {
		outcome := "error"
		switch {
		case ai.IsValidationError(err):
			outcome = "invalid"
		case ai.IsRemoteFailure(err):
			outcome = "remote_failure"
		}
		observability.Analyses().WithLabelValues(outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return ai.ProjectReport{}, err
	}

	final := s.assembler.Finalize(report)
	if err := s.reports.Record(ctx, final); err != nil {
		observability.Analyses().WithLabelValues("persist_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return ai.ProjectReport{}, err
	}

	observability.Analyses().WithLabelValues("success").Inc()
	span.SetStatus(codes.Ok, "recorded")
	observability.Logger(ctx, s.logger).Info().
		Str("report_id", final.ID).
		Int("overall_score", final.OverallScore).
		Int("files", len(inputs)).
		Msg("analysis recorded")

	return final, nil
}

// trimConfig returns a private copy with surrounding whitespace removed. The
// text itself reaches the prompt unchanged.
func trimConfig(cfg ai.EvaluationConfig) ai.EvaluationConfig {
	out := cfg.Clone()
	out.ProjectTitle = strings.TrimSpace(out.ProjectTitle)
	out.Discipline = strings.TrimSpace(out.Discipline)
	out.AcademicLevel = strings.TrimSpace(out.AcademicLevel)
	out.EvaluationContext = strings.TrimSpace(out.EvaluationContext)
	out.ProjectURL = strings.TrimSpace(out.ProjectURL)
	for i, criterion := range out.EvaluationCriteria {
		out.EvaluationCriteria[i] = strings.TrimSpace(criterion)
	}
	return out
}

// containsMarkup reports whether the strict policy would strip anything from
// the free-text fields. It only flags; the config is never rewritten.
func (s *evaluationService) containsMarkup(cfg ai.EvaluationConfig) bool {
	fields := append([]string{cfg.ProjectTitle, cfg.Discipline, cfg.AcademicLevel, cfg.EvaluationContext}, cfg.EvaluationCriteria...)
	for _, field := range fields {
		if strings.ContainsAny(field, "<>") && s.sanitizer.Sanitize(field) != field {
			return true
		}
	}
	return false
}
