// Package api contains API contract definitions for the OTTA audit service.
// Version v1 represents the current stable API version.
package api

import (
	"otta/pkg/contracts/domain"
)

// AuditRunRequest asks the service to run a full audit over one set of
// input files. Paths are resolved on the server's filesystem.
type AuditRunRequest struct {
	ShipmentFile  string `json:"shipment_file" validate:"required"`
	TariffFile    string `json:"tariff_file" validate:"required"`
	ExclusionFile string `json:"exclusion_file" validate:"required"`
	RemapFile     string `json:"remap_file,omitempty"`

	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`

	// TopPercent is the tariff top-percent threshold carried through to
	// reporting; the audit core does not consume it.
	TopPercent int `json:"top_percent,omitempty" validate:"omitempty,min=10,max=50"`
}

// AuditRunResponse is the summary returned when a run completes.
type AuditRunResponse struct {
	RunID    string                  `json:"run_id"`
	Metrics  domain.RunMetrics       `json:"metrics"`
	Warnings []domain.QualityWarning `json:"warnings,omitempty"`
}

// AuditResultResponse is the full result set for a completed run.
type AuditResultResponse struct {
	RunID       string                    `json:"run_id"`
	Metrics     domain.RunMetrics         `json:"metrics"`
	Loads       []domain.Load             `json:"loads"`
	Lanes       []domain.LaneSummary      `json:"lanes"`
	TopCarriers []domain.CarrierShare     `json:"top_carriers"`
	WeeklyTrend []domain.WeeklyTrendPoint `json:"weekly_trend"`
	Warnings    []domain.QualityWarning   `json:"warnings,omitempty"`
}
