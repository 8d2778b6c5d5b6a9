package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/asap-api/pkg/ai"
)

func TestConfigServiceReturnsDefaultWhenNothingSaved(t *testing.T) {
	svc := NewConfigService(&memoryConfigRepo{}, nil, testLogger())

	cfg, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultDiscipline, cfg.Discipline)
	require.Equal(t, DefaultAcademicLevel, cfg.AcademicLevel)
	require.Equal(t, []string{"Clarity & Structure", "Depth of Research", "Originality"}, cfg.EvaluationCriteria)
	require.True(t, cfg.CheckOriginality)
	require.Empty(t, cfg.ProjectTitle)
	require.Empty(t, cfg.EvaluationContext)
}

func TestConfigServiceSaveAllowsDraftButChecksCriteriaCount(t *testing.T) {
	repo := &memoryConfigRepo{}
	svc := NewConfigService(repo, nil, testLogger())

	draft := DefaultConfig()
	draft.ProjectURL = "https://example.com/repo"
	saved, err := svc.Save(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, draft, saved)
	require.Equal(t, 1, repo.saves)

	draft.EvaluationCriteria = []string{"A", "B"}
	_, err = svc.Save(context.Background(), draft)
	var ve *ai.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "evaluationCriteria", ve.Fields[0].Field)

	draft.EvaluationCriteria = []string{"A", "B", "C"}
	draft.ProjectURL = "nope"
	_, err = svc.Save(context.Background(), draft)
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "projectURL", ve.Fields[0].Field)
	require.Equal(t, 1, repo.saves)

	draft.ProjectURL = "github.com/student/capstone"
	_, err = svc.Save(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, 2, repo.saves)
}

func TestConfigServiceSwitchDisciplineReplacesCriteria(t *testing.T) {
	repo := &memoryConfigRepo{}
	svc := NewConfigService(repo, nil, testLogger())

	start := DefaultConfig()
	start.ProjectTitle = "Compiler"
	_, err := svc.Save(context.Background(), start)
	require.NoError(t, err)

	cfg, err := svc.SwitchDiscipline(context.Background(), "Computer Science")
	require.NoError(t, err)
	require.Equal(t, "Computer Science", cfg.Discipline)
	require.Equal(t, []string{"Code Quality", "Algorithmic Depth", "System Design", "Documentation"}, cfg.EvaluationCriteria)
	require.Equal(t, "Compiler", cfg.ProjectTitle)

	_, err = svc.SwitchDiscipline(context.Background(), "Alchemy")
	require.ErrorIs(t, err, ErrUnknownDiscipline)
}

func TestConfigServiceCriteriaBounds(t *testing.T) {
	svc := NewConfigService(&memoryConfigRepo{}, nil, testLogger())
	ctx := context.Background()

	_, err := svc.RemoveCriterion(ctx, 0)
	require.ErrorIs(t, err, ErrCriteriaLimit)

	var cfg ai.EvaluationConfig
	for i := 0; i < ai.MaxCriteria-ai.MinCriteria; i++ {
		cfg, err = svc.AddCriterion(ctx, "")
		require.NoError(t, err)
	}
	require.Len(t, cfg.EvaluationCriteria, ai.MaxCriteria)
	require.Equal(t, "", cfg.EvaluationCriteria[ai.MaxCriteria-1])

	_, err = svc.AddCriterion(ctx, "Extra")
	require.ErrorIs(t, err, ErrCriteriaLimit)

	_, err = svc.RemoveCriterion(ctx, 99)
	require.ErrorIs(t, err, ErrCriterionIndex)

	cfg, err = svc.RemoveCriterion(ctx, 0)
	require.NoError(t, err)
	require.Len(t, cfg.EvaluationCriteria, ai.MaxCriteria-1)
	require.Equal(t, "Depth of Research", cfg.EvaluationCriteria[0])
}

func TestConfigServiceReset(t *testing.T) {
	repo := &memoryConfigRepo{}
	svc := NewConfigService(repo, nil, testLogger())

	_, err := svc.SwitchDiscipline(context.Background(), "Law")
	require.NoError(t, err)

	cfg, err := svc.Reset(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Nil(t, repo.cfg)
}

func TestCatalogListsDisciplinesInOrder(t *testing.T) {
	catalog := Catalog()

	require.Len(t, catalog.Disciplines, 11)
	require.Equal(t, "General", catalog.Disciplines[0].Name)
	require.Equal(t, "Law", catalog.Disciplines[10].Name)
	require.Len(t, catalog.AcademicLevels, 5)
	require.Equal(t, ai.MinCriteria, catalog.MinCriteria)
	require.Equal(t, ai.MaxCriteria, catalog.MaxCriteria)

	catalog.Disciplines[0].Criteria[0] = "mutated"
	criteria, ok := DisciplineCriteria("General")
	require.True(t, ok)
	require.Equal(t, "Clarity & Structure", criteria[0])
}
