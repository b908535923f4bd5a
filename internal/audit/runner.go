package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"otta/internal/config"
	"otta/internal/dataprocessing"
	"otta/internal/errors"
	"otta/internal/kpi"
	"otta/internal/tariff"
	"otta/pkg/contracts/domain"
)

// RunInput names the input files and parameters of one audit run. The
// exclusion and remap files are optional; an empty path means no rules
// and no remap.
type RunInput struct {
	ShipmentFile  string
	TariffFile    string
	ExclusionFile string
	RemapFile     string

	// Inclusive ship-date window.
	Start time.Time
	End   time.Time

	// TopPercent is the top-cost share reported alongside the KPI
	// tables; zero means the configured default.
	TopPercent int
}

// Result is the full output of one audit run.
type Result struct {
	RunID string `json:"run_id"`

	Metrics      domain.RunMetrics         `json:"metrics"`
	Loads        []domain.Load             `json:"loads"`
	Lanes        []domain.LaneSummary      `json:"lanes"`
	TopCarriers  []domain.CarrierShare     `json:"top_carriers"`
	WeeklyTrend  []domain.WeeklyTrendPoint `json:"weekly_trend"`
	TopCostliest []domain.Load             `json:"top_costliest"`
	Warnings     []domain.QualityWarning   `json:"warnings,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Runner executes the audit pipeline end to end: read the inputs,
// normalize the shipment lines, price the loads against the tariff table
// and derive the KPI views.
type Runner struct {
	parser *dataprocessing.Parser
	cfg    config.AuditConfig
	logger *slog.Logger
}

// NewRunner creates a runner with the given audit defaults.
func NewRunner(cfg config.AuditConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		parser: dataprocessing.NewParser(logger),
		cfg:    cfg,
		logger: logger,
	}
}

// Run executes one audit. Input files are read concurrently; any read or
// validation failure aborts the run.
func (r *Runner) Run(ctx context.Context, in RunInput) (*Result, error) {
	started := time.Now()
	runID := uuid.New().String()
	logger := r.logger.With(slog.String("run_id", runID))

	logger.InfoContext(ctx, "audit run starting",
		slog.String("shipment_file", in.ShipmentFile),
		slog.String("tariff_file", in.TariffFile),
		slog.Time("start", in.Start),
		slog.Time("end", in.End))

	var (
		lines  []domain.ShipmentLine
		bands  []domain.TariffBand
		rules  []domain.ExclusionRule
		remaps map[string]string
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		lines, err = r.parser.ReadShipmentFile(in.ShipmentFile)
		return err
	})
	g.Go(func() error {
		var err error
		bands, err = r.parser.ReadTariffFile(in.TariffFile)
		return err
	})
	g.Go(func() error {
		if in.ExclusionFile == "" {
			return nil
		}
		var err error
		rules, err = r.parser.ReadExclusionFile(in.ExclusionFile)
		return err
	})
	g.Go(func() error {
		if in.RemapFile == "" {
			return nil
		}
		var err error
		remaps, err = r.parser.ReadRemapFile(in.RemapFile)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bands) == 0 {
		return nil, errors.NewValidationError("tariff file contains no usable rate bands")
	}

	normalizer := dataprocessing.NewNormalizer(dataprocessing.NormalizerConfig{
		Start:              in.Start,
		End:                in.End,
		PlaceholderCarrier: r.cfg.PlaceholderCarrier,
		WarehouseMap:       r.cfg.WarehouseMap,
		Exclusions:         rules,
		CarrierRemap:       remaps,
	}, logger)
	normalized, err := normalizer.Normalize(ctx, lines)
	if err != nil {
		return nil, err
	}

	matcher, warnings := tariff.NewMatcher(bands, logger)
	loads, divergences := NewAggregator(matcher, logger).Aggregate(ctx, normalized)
	warnings = append(warnings, divergences...)

	topCarriers := r.cfg.TopCarriers
	if topCarriers <= 0 {
		topCarriers = config.DefaultTopCarriers
	}
	topPercent := in.TopPercent
	if topPercent <= 0 {
		topPercent = r.cfg.TopPercent
	}
	if topPercent <= 0 {
		topPercent = config.DefaultTopPercent
	}

	result := &Result{
		RunID:        runID,
		Metrics:      ComputeMetrics(loads),
		Loads:        loads,
		Lanes:        kpi.LaneSummaries(loads),
		TopCarriers:  kpi.TopCarriers(loads, topCarriers),
		WeeklyTrend:  kpi.WeeklyTrend(loads),
		TopCostliest: kpi.TopCostliest(loads, topPercent),
		Warnings:     warnings,
		StartedAt:    started,
		FinishedAt:   time.Now(),
	}

	logger.InfoContext(ctx, "audit run finished",
		slog.Int("loads", result.Metrics.TotalLoads),
		slog.Int("success", result.Metrics.SuccessCount),
		slog.Int("unresolved", result.Metrics.UnresolvedLoads),
		slog.Int("warnings", len(warnings)),
		slog.Duration("elapsed", result.FinishedAt.Sub(started)))

	return result, nil
}
