package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/pkg/ai"
)

// ErrRemoteNotImplemented is returned by every remote report API call.
var ErrRemoteNotImplemented = errors.New("remote report api not implemented")

// RemoteReportAPI is the server-side report store. Callers fall back to the local store on error.
type RemoteReportAPI interface {
	List(ctx context.Context) ([]ai.ProjectReport, error)
	Save(ctx context.Context, report ai.ProjectReport) (ai.ProjectReport, error)
	Delete(ctx context.Context, id string) error
}

type remoteReportAPI struct {
	baseURL string
	logger  zerolog.Logger
}

// NewRemoteReportAPI constructs the remote report API client. No backend exists yet, so every call fails.
func NewRemoteReportAPI(baseURL string, logger zerolog.Logger) RemoteReportAPI {
	if baseURL == "" {
		baseURL = "/api/data"
	}
	return &remoteReportAPI{
		baseURL: baseURL,
		logger:  logger.With().Str("component", "remote_report_api").Logger(),
	}
}

func (r *remoteReportAPI) List(ctx context.Context) ([]ai.ProjectReport, error) {
	r.logger.Debug().Str("url", r.baseURL).Msg("attempting to fetch reports from server")
	return nil, ErrRemoteNotImplemented
}

func (r *remoteReportAPI) Save(ctx context.Context, report ai.ProjectReport) (ai.ProjectReport, error) {
	r.logger.Debug().Str("url", r.baseURL).Str("report_id", report.ID).Msg("attempting to save report to server")
	return ai.ProjectReport{}, ErrRemoteNotImplemented
}

func (r *remoteReportAPI) Delete(ctx context.Context, id string) error {
	r.logger.Debug().Str("url", r.baseURL+"/"+id).Str("report_id", id).Msg("attempting to delete report from server")
	return ErrRemoteNotImplemented
}
