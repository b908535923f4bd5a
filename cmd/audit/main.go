package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"otta/internal/audit"
	"otta/internal/config"
	"otta/internal/exporter"
	"otta/internal/infrastructure"
	"otta/internal/validation"
	"otta/pkg/contracts"
)

func main() {
	shipmentFile := flag.String("shipments", "", "shipment data file (.xlsx or .csv)")
	tariffFile := flag.String("tariffs", "", "tariff table file (.xlsx or .csv)")
	exclusionFile := flag.String("exclusions", "", "exclusion rules CSV (optional)")
	remapFile := flag.String("remap", "", "carrier remap CSV (optional)")
	startDate := flag.String("start", "", "start of the ship date window (YYYY-MM-DD)")
	endDate := flag.String("end", "", "end of the ship date window (YYYY-MM-DD)")
	topPercent := flag.Int("top-percent", 0, "top-cost share to report (defaults to config)")
	outputDir := flag.String("out", "", "output directory for reports (defaults to reports next to the executable)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *shipmentFile == "" || *tariffFile == "" {
		flag.Usage()
		logger.Error("Both -shipments and -tariffs are required")
		os.Exit(2)
	}

	validator := validation.NewInputValidator(logger)
	for _, check := range []error{
		validator.ValidateTableFile("shipment", *shipmentFile),
		validator.ValidateTableFile("tariff", *tariffFile),
		validator.ValidateCSVFile("exclusion", *exclusionFile),
		validator.ValidateCSVFile("remap", *remapFile),
	} {
		if check != nil {
			logger.Error("Invalid input file", "error", check)
			os.Exit(2)
		}
	}

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		logger.Error("Invalid -start date, expected YYYY-MM-DD", "value", *startDate)
		os.Exit(2)
	}
	end, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		logger.Error("Invalid -end date, expected YYYY-MM-DD", "value", *endDate)
		os.Exit(2)
	}

	var paths *config.Paths
	if *outputDir != "" {
		paths = config.NewPaths(*outputDir, cfg.Paths)
	} else {
		paths, err = config.GetPaths(cfg.Paths)
		if err != nil {
			logger.Error("Failed to resolve paths", "error", err)
			os.Exit(1)
		}
	}
	if err := paths.EnsureDirs(); err != nil {
		logger.Error("Failed to create output directories", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RunTimeout)
	defer cancel()

	runner := audit.NewRunner(cfg.Audit, logger)
	result, err := runner.Run(ctx, audit.RunInput{
		ShipmentFile:  *shipmentFile,
		TariffFile:    *tariffFile,
		ExclusionFile: *exclusionFile,
		RemapFile:     *remapFile,
		Start:         start,
		End:           end,
		TopPercent:    *topPercent,
	})
	if err != nil {
		logger.Error("Audit run failed", "error", err)
		os.Exit(1)
	}

	reports := exporter.NewReportExporter(paths)
	if err := reports.ExportAll(result); err != nil {
		logger.Error("Failed to write CSV reports", "error", err)
		os.Exit(1)
	}
	if err := exporter.NewHTMLReporter(paths).Export(result); err != nil {
		logger.Error("Failed to write KPI report", "error", err)
		os.Exit(1)
	}

	for _, warning := range result.Warnings {
		logger.Warn("Data quality warning", "code", warning.Code, "message", warning.Message)
	}

	successRate := "n/a"
	if result.Metrics.SuccessRateKnown {
		successRate = fmt.Sprintf("%.1f%%", result.Metrics.SuccessRate*100)
	}
	logger.Info("Audit complete",
		"run_id", result.RunID,
		"loads", result.Metrics.TotalLoads,
		"success", result.Metrics.SuccessCount,
		"failures", result.Metrics.FailureCount,
		"unresolved", result.Metrics.UnresolvedLoads,
		"success_rate", successRate,
		"reports_dir", paths.ReportsDir)
}
