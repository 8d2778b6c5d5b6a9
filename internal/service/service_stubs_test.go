package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/dto"
	"github.com/noah-isme/asap-api/pkg/ai"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type memoryReportRepo struct {
	reports []ai.ProjectReport
	saveErr error
	saves   int
}

func (m *memoryReportRepo) List(context.Context) ([]ai.ProjectReport, error) {
	return append([]ai.ProjectReport{}, m.reports...), nil
}

func (m *memoryReportRepo) SaveAll(_ context.Context, reports []ai.ProjectReport) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.reports = append([]ai.ProjectReport(nil), reports...)
	return nil
}

func (m *memoryReportRepo) Clear(context.Context) error {
	m.reports = nil
	return nil
}

type memoryConfigRepo struct {
	cfg   *ai.EvaluationConfig
	saves int
}

func (m *memoryConfigRepo) Load(context.Context) (ai.EvaluationConfig, bool, error) {
	if m.cfg == nil {
		return ai.EvaluationConfig{}, false, nil
	}
	return m.cfg.Clone(), true, nil
}

func (m *memoryConfigRepo) Save(_ context.Context, cfg ai.EvaluationConfig) error {
	stored := cfg.Clone()
	m.cfg = &stored
	m.saves++
	return nil
}

func (m *memoryConfigRepo) Clear(context.Context) error {
	m.cfg = nil
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.ReportEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event dto.ReportEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type failingRemote struct {
	lists, saves, deletes int
}

var errRemoteDown = errors.New("remote down")

func (f *failingRemote) List(context.Context) ([]ai.ProjectReport, error) {
	f.lists++
	return nil, errRemoteDown
}

func (f *failingRemote) Save(context.Context, ai.ProjectReport) (ai.ProjectReport, error) {
	f.saves++
	return ai.ProjectReport{}, errRemoteDown
}

func (f *failingRemote) Delete(context.Context, string) error {
	f.deletes++
	return errRemoteDown
}
