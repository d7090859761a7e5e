package service

import (
	"context"
	"time"

	"github.com/spec-kit/solar-ticketing/internal/domain"
	"github.com/spec-kit/solar-ticketing/internal/engine"
	"github.com/spec-kit/solar-ticketing/internal/export"
)

// Report is a fully rendered ticket export: the CSV payload, its
// filename, and summary stats over the exported subset.
type Report struct {
	Filename string
	CSV      []byte
	// Summary aggregates the exported subset, not the full scope, so
	// report headers reflect what the user was actually looking at.
	Summary engine.Stats
}

// ReportService renders CSV exports from the current snapshot.
type ReportService struct {
	snapshots *SnapshotService
	engine    *engine.Engine
}

// NewReportService constructs the service.
func NewReportService(snapshots *SnapshotService, eng *engine.Engine) *ReportService {
	return &ReportService{snapshots: snapshots, engine: eng}
}

// Export applies the filter state and serializes the result.
func (s *ReportService) Export(ctx context.Context, user *domain.User, state engine.FilterState) (*Report, error) {
	if err := s.snapshots.EnsureFresh(ctx); err != nil {
		return nil, err
	}
	filtered := s.snapshots.FilteredTickets(user, state)

	csvData, err := export.WriteCSV(filtered)
	if err != nil {
		return nil, err
	}
	return &Report{
		Filename: export.ExportFilename(state.CreatedFrom, state.CreatedTo, time.Now()),
		CSV:      csvData,
		Summary:  s.engine.ComputeStats(filtered),
	}, nil
}
