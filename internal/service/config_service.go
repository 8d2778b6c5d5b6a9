package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/repository"
	"github.com/noah-isme/asap-api/pkg/ai"
)

var (
	// ErrUnknownDiscipline indicates the discipline has no default criteria.
	ErrUnknownDiscipline = errors.New("unknown discipline")
	// ErrCriteriaLimit indicates a criterion add or remove would leave the allowed range.
	ErrCriteriaLimit = errors.New("criteria limit reached")
	// ErrCriterionIndex indicates the criterion position does not exist.
	ErrCriterionIndex = errors.New("criterion index out of range")
)

// ConfigService edits the working evaluation configuration.
type ConfigService interface {
	Get(ctx context.Context) (ai.EvaluationConfig, error)
	Save(ctx context.Context, cfg ai.EvaluationConfig) (ai.EvaluationConfig, error)
	Reset(ctx context.Context) (ai.EvaluationConfig, error)
	SwitchDiscipline(ctx context.Context, discipline string) (ai.EvaluationConfig, error)
	AddCriterion(ctx context.Context, criterion string) (ai.EvaluationConfig, error)
	RemoveCriterion(ctx context.Context, index int) (ai.EvaluationConfig, error)
}

type configService struct {
	repo     repository.ConfigRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewConfigService constructs the configuration editor.
func NewConfigService(repo repository.ConfigRepository, validate *validator.Validate, logger zerolog.Logger) ConfigService {
	if validate == nil {
		validate = ai.NewValidator()
	}
	return &configService{
		repo:     repo,
		validate: validate,
		logger:   logger.With().Str("component", "config_service").Logger(),
	}
}

func (s *configService) Get(ctx context.Context) (ai.EvaluationConfig, error) {
	cfg, found, err := s.repo.Load(ctx)
	if err != nil {
		return ai.EvaluationConfig{}, err
	}
	if !found {
		return DefaultConfig(), nil
	}
	if cfg.EvaluationCriteria == nil {
		cfg.EvaluationCriteria = []string{}
	}
	return cfg, nil
}

// Save stores a draft. Title and context may still be empty while editing.
func (s *configService) Save(ctx context.Context, cfg ai.EvaluationConfig) (ai.EvaluationConfig, error) {
	if err := s.validateDraft(cfg); err != nil {
		return ai.EvaluationConfig{}, err
	}

	cfg = cfg.Clone()
	if err := s.repo.Save(ctx, cfg); err != nil {
		s.logger.Error().Err(err).Msg("failed to save configuration")
		return ai.EvaluationConfig{}, err
	}

	return cfg, nil
}

func (s *configService) Reset(ctx context.Context) (ai.EvaluationConfig, error) {
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear configuration")
		return ai.EvaluationConfig{}, err
	}
	return DefaultConfig(), nil
}

func (s *configService) SwitchDiscipline(ctx context.Context, discipline string) (ai.EvaluationConfig, error) {
	discipline = strings.TrimSpace(discipline)
	criteria, ok := DisciplineCriteria(discipline)
	if !ok {
		return ai.EvaluationConfig{}, fmt.Errorf("%w: %s", ErrUnknownDiscipline, discipline)
	}

	cfg, err := s.Get(ctx)
	if err != nil {
		return ai.EvaluationConfig{}, err
	}
	cfg.Discipline = discipline
	cfg.EvaluationCriteria = criteria

	return s.Save(ctx, cfg)
}

func (s *configService) AddCriterion(ctx context.Context, criterion string) (ai.EvaluationConfig, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return ai.EvaluationConfig{}, err
	}
	if len(cfg.EvaluationCriteria) >= ai.MaxCriteria {
		return ai.EvaluationConfig{}, fmt.Errorf("%w: at most %d criteria", ErrCriteriaLimit, ai.MaxCriteria)
	}
	cfg.EvaluationCriteria = append(cfg.EvaluationCriteria, strings.TrimSpace(criterion))

	return s.Save(ctx, cfg)
}

func (s *configService) RemoveCriterion(ctx context.Context, index int) (ai.EvaluationConfig, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return ai.EvaluationConfig{}, err
	}
	if index < 0 || index >= len(cfg.EvaluationCriteria) {
		return ai.EvaluationConfig{}, ErrCriterionIndex
	}
	if len(cfg.EvaluationCriteria) <= ai.MinCriteria {
		return ai.EvaluationConfig{}, fmt.Errorf("%w: at least %d criteria", ErrCriteriaLimit, ai.MinCriteria)
	}

	criteria := make([]string, 0, len(cfg.EvaluationCriteria)-1)
	criteria = append(criteria, cfg.EvaluationCriteria[:index]...)
	cfg.EvaluationCriteria = append(criteria, cfg.EvaluationCriteria[index+1:]...)

	return s.Save(ctx, cfg)
}

func (s *configService) validateDraft(cfg ai.EvaluationConfig) error {
	out := &ai.ValidationError{}
	if err := s.validate.Var(cfg.EvaluationCriteria, fmt.Sprintf("min=%d,max=%d", ai.MinCriteria, ai.MaxCriteria)); err != nil {
		out.Fields = append(out.Fields, ai.FieldError{
			Field:   "evaluationCriteria",
			Message: fmt.Sprintf("Between %d and %d evaluation criteria are required.", ai.MinCriteria, ai.MaxCriteria),
		})
	}
	if cfg.ProjectURL != "" {
		if err := s.validate.Var(cfg.ProjectURL, "projecturl"); err != nil {
			out.Fields = append(out.Fields, ai.FieldError{Field: "projectURL", Message: "Project URL must be a valid link."})
		}
	}
	if len(out.Fields) > 0 {
		return out
	}
	return nil
}
