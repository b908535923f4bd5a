package services

import (
	"context"
	"log/slog"
	"time"

	"otta/internal/audit"
	"otta/internal/config"
	"otta/internal/errors"
	"otta/internal/exporter"
	"otta/internal/infrastructure"
	"otta/internal/middleware"
	"otta/internal/validation"
)

// AuditService runs audits and keeps their results. Every completed run is
// stored in memory and exported to the reports directory.
type AuditService struct {
	runner    *audit.Runner
	store     *RunStore
	reports   *exporter.ReportExporter
	htmlRep   *exporter.HTMLReporter
	metrics   *middleware.Metrics
	validator *validation.InputValidator
	logger    *slog.Logger
}

// NewAuditService creates the audit service. Metrics may be nil when the
// service runs outside the HTTP server.
func NewAuditService(cfg config.AuditConfig, paths *config.Paths, metrics *middleware.Metrics, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{
		runner:    audit.NewRunner(cfg, logger),
		store:     NewRunStore(),
		reports:   exporter.NewReportExporter(paths),
		htmlRep:   exporter.NewHTMLReporter(paths),
		metrics:   metrics,
		validator: validation.NewInputValidator(logger),
		logger:    logger,
	}
}

// Run executes one audit, stores the result and writes the reports.
func (s *AuditService) Run(ctx context.Context, in audit.RunInput) (*audit.Result, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := s.runner.Run(ctx, in)
	if s.metrics != nil {
		s.metrics.ObserveRun(err, time.Since(started))
	}
	if err != nil {
		return nil, err
	}

	s.store.Put(result)

	if err := s.reports.ExportAll(result); err != nil {
		infrastructure.WithError(s.logger, err).ErrorContext(ctx, "failed to export CSV reports",
			slog.String("run_id", result.RunID))
		return nil, errors.NewStorageError("failed to write run reports", err)
	}
	if err := s.htmlRep.Export(result); err != nil {
		infrastructure.WithError(s.logger, err).ErrorContext(ctx, "failed to export HTML report",
			slog.String("run_id", result.RunID))
		return nil, errors.NewStorageError("failed to write KPI report", err)
	}

	return result, nil
}

func (s *AuditService) validateInput(in audit.RunInput) error {
	if err := s.validator.ValidateTableFile("shipment", in.ShipmentFile); err != nil {
		return err
	}
	if err := s.validator.ValidateTableFile("tariff", in.TariffFile); err != nil {
		return err
	}
	if err := s.validator.ValidateCSVFile("exclusion", in.ExclusionFile); err != nil {
		return err
	}
	return s.validator.ValidateCSVFile("remap", in.RemapFile)
}

// GetResult returns a stored run by ID.
func (s *AuditService) GetResult(runID string) (*audit.Result, error) {
	result, ok := s.store.Get(runID)
	if !ok {
		return nil, errors.NewNotFoundError("audit run " + runID)
	}
	return result, nil
}

// ListRuns returns the IDs of all completed runs.
func (s *AuditService) ListRuns() []string {
	return s.store.List()
}
