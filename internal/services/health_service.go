package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"otta/internal/config"
	"otta/pkg/contracts"
)

// HealthService reports service health and build information.
type HealthService struct {
	paths     *config.Paths
	startedAt time.Time
	logger    *slog.Logger
}

// NewHealthService creates a new health service.
func NewHealthService(paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		paths:     paths,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// HealthStatus is the health check response body.
type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthCheck verifies the writable directories and reports overall
// status. A non-writable reports directory degrades the service but does
// not kill it; runs still compute, exports fail.
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:  "healthy",
		Version: contracts.Version,
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
		Checks:  make(map[string]string),
	}

	for name, dir := range map[string]string{
		"data_dir":    s.paths.DataDir,
		"reports_dir": s.paths.ReportsDir,
	} {
		if err := checkWritable(dir); err != nil {
			s.logger.WarnContext(ctx, "directory not writable",
				slog.String("check", name),
				slog.String("dir", dir),
				slog.String("error", err.Error()))
			status.Checks[name] = "not writable"
			status.Status = "degraded"
			continue
		}
		status.Checks[name] = "ok"
	}

	return status
}

// LivenessCheck reports that the process is alive.
func (s *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:  "alive",
		Version: contracts.Version,
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
	}
}

// Version returns the build information.
func (s *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func checkWritable(dir string) error {
	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}
