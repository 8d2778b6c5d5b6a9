package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/asap-api/pkg/ai"
)

// ReportsKey is the fixed key holding the report history.
const ReportsKey = "asap-ai-reports"

// ReportRepository persists the report history as a single ordered collection, most recent first.
type ReportRepository interface {
	List(ctx context.Context) ([]ai.ProjectReport, error)
	SaveAll(ctx context.Context, reports []ai.ProjectReport) error
	Clear(ctx context.Context) error
}

type reportRepository struct {
	store KeyValueStore
}

// NewReportRepository constructs the local report history store.
func NewReportRepository(store KeyValueStore) ReportRepository {
	return &reportRepository{store: store}
}

func (r *reportRepository) List(ctx context.Context) ([]ai.ProjectReport, error) {
	raw, err := r.store.Get(ctx, ReportsKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []ai.ProjectReport{}, nil
		}
		return nil, err
	}

	var reports []ai.ProjectReport
	if err := json.Unmarshal(raw, &reports); err != nil {
		return nil, fmt.Errorf("decode report history: %w", err)
	}
	if reports == nil {
		reports = []ai.ProjectReport{}
	}

	return reports, nil
}

func (r *reportRepository) SaveAll(ctx context.Context, reports []ai.ProjectReport) error {
	if reports == nil {
		reports = []ai.ProjectReport{}
	}

	payload, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode report history: %w", err)
	}

	return r.store.Set(ctx, ReportsKey, payload)
}

func (r *reportRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, ReportsKey)
}
