package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file paths in the application.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string

	// Well-known report files inside ReportsDir
	LoadsCSV       string
	LaneSummaryCSV string
	TopCarriersCSV string
	WeeklyTrendCSV string
	KPIReportHTML  string
}

// NewPaths builds the path set under the given base directory, applying the
// configured subdirectories.
func NewPaths(baseDir string, cfg PathsConfig) *Paths {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	reportsDir := cfg.ReportsDir
	if reportsDir == "" {
		reportsDir = DefaultReportsDir
	}
	logsDir := cfg.LogsDir
	if logsDir == "" {
		logsDir = DefaultLogsDir
	}

	p := &Paths{
		BaseDir:    baseDir,
		DataDir:    filepath.Join(baseDir, dataDir),
		ReportsDir: filepath.Join(baseDir, reportsDir),
		LogsDir:    filepath.Join(baseDir, logsDir),
	}
	p.LoadsCSV = filepath.Join(p.ReportsDir, "otta_loads.csv")
	p.LaneSummaryCSV = filepath.Join(p.ReportsDir, "otta_lane_summary.csv")
	p.TopCarriersCSV = filepath.Join(p.ReportsDir, "otta_top_carriers.csv")
	p.WeeklyTrendCSV = filepath.Join(p.ReportsDir, "otta_weekly_trend.csv")
	p.KPIReportHTML = filepath.Join(p.ReportsDir, "otta_kpi_report.html")
	return p
}

// GetPaths returns the application paths relative to the executable
// location, never the current working directory.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return NewPaths(filepath.Dir(exe), cfg), nil
}

// EnsureDirs creates the writable directories if they do not exist.
func (p *Paths) EnsureDirs() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
