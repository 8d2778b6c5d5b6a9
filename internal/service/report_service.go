package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/dto"
	"github.com/noah-isme/asap-api/internal/observability"
	"github.com/noah-isme/asap-api/internal/repository"
	"github.com/noah-isme/asap-api/pkg/ai"
)

// ErrReportNotFound indicates no saved report has the requested id.
var ErrReportNotFound = errors.New("report not found")

// ReportService manages the saved report history. The remote API is tried first
// and the local store is authoritative.
type ReportService interface {
	List(ctx context.Context) ([]ai.ProjectReport, error)
	Get(ctx context.Context, id string) (ai.ProjectReport, error)
	Record(ctx context.Context, report ai.ProjectReport) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type reportService struct {
	local     repository.ReportRepository
	remote    repository.RemoteReportAPI
	publisher ReportPublisher
	logger    zerolog.Logger
	mu        sync.Mutex
}

// NewReportService constructs the report history service.
func NewReportService(local repository.ReportRepository, remote repository.RemoteReportAPI, publisher ReportPublisher, logger zerolog.Logger) ReportService {
	if publisher == nil {
		publisher = noopReportPublisher{}
	}
	return &reportService{
		local:     local,
		remote:    remote,
		publisher: publisher,
		logger:    logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) List(ctx context.Context) ([]ai.ProjectReport, error) {
	if s.remote != nil {
		reports, err := s.remote.List(ctx)
		if err == nil {
			return reports, nil
		}
		observability.Logger(ctx, s.logger).Debug().Err(err).Msg("remote report list unavailable, using local history")
	}

	return s.local.List(ctx)
}

func (s *reportService) Get(ctx context.Context, id string) (ai.ProjectReport, error) {
	reports, err := s.List(ctx)
	if err != nil {
		return ai.ProjectReport{}, err
	}
	for _, report := range reports {
		if report.ID == id {
			return report, nil
		}
	}
	return ai.ProjectReport{}, ErrReportNotFound
}

// Record prepends a finalized report to the history.
func (s *reportService) Record(ctx context.Context, report ai.ProjectReport) error {
	if s.remote != nil {
		if _, err := s.remote.Save(ctx, report); err != nil {
			observability.Logger(ctx, s.logger).Debug().Err(err).Str("report_id", report.ID).Msg("remote report save unavailable, saving locally")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.local.List(ctx)
	if err != nil {
		return err
	}

	updated := make([]ai.ProjectReport, 0, len(reports)+1)
	updated = append(updated, report)
	updated = append(updated, reports...)
	if err := s.local.SaveAll(ctx, updated); err != nil {
		observability.Logger(ctx, s.logger).Error().Err(err).Str("report_id", report.ID).Msg("failed to save report history")
		return err
	}

	s.publish(ctx, createdEvent(report))
	return nil
}

func (s *reportService) Delete(ctx context.Context, id string) error {
	if s.remote != nil {
		if err := s.remote.Delete(ctx, id); err != nil {
			observability.Logger(ctx, s.logger).Debug().Err(err).Str("report_id", id).Msg("remote report delete unavailable, deleting locally")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.local.List(ctx)
	if err != nil {
		return err
	}

	kept := make([]ai.ProjectReport, 0, len(reports))
	for _, report := range reports {
		if report.ID != id {
			kept = append(kept, report)
		}
	}
	if len(kept) == len(reports) {
		return ErrReportNotFound
	}

	if err := s.local.SaveAll(ctx, kept); err != nil {
		observability.Logger(ctx, s.logger).Error().Err(err).Str("report_id", id).Msg("failed to save report history")
		return err
	}

	s.publish(ctx, dto.ReportEvent{Type: EventReportDeleted, ReportID: id})
	return nil
}

func (s *reportService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.local.Clear(ctx); err != nil {
		observability.Logger(ctx, s.logger).Error().Err(err).Msg("failed to clear report history")
		return err
	}

	s.publish(ctx, dto.ReportEvent{Type: EventReportsCleared})
	return nil
}

func (s *reportService) publish(ctx context.Context, event dto.ReportEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		observability.Logger(ctx, s.logger).Warn().Err(err).Str("event", event.Type).Msg("report event not delivered")
	}
}
