package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Load is the unit of billing: every shipment line sharing one load
// identifier, typically several trucks on one booking. Loads are derived
// once per run and never mutated afterwards.
//
// Money fields that depend on a tariff match use decimal.NullDecimal:
// an unresolved rate propagates as invalid through the totals and gaps
// rather than silently becoming zero.
type Load struct {
	LoadID      string    `json:"load_id"`
	Warehouse   string    `json:"warehouse"`
	Group       string    `json:"group"`
	PostalCode  string    `json:"postal_code"`
	State       string    `json:"state"`
	CarrierCode string    `json:"carrier_code"`
	ShipDate    time.Time `json:"ship_date"`
	TruckCount  int       `json:"truck_count"`

	RateCurrent decimal.NullDecimal `json:"rate_current"`
	RateTarget  decimal.NullDecimal `json:"rate_target"`

	ActualCost   decimal.Decimal     `json:"actual_cost"`
	TotalCurrent decimal.NullDecimal `json:"total_current"` // RateCurrent * TruckCount
	TotalTarget  decimal.NullDecimal `json:"total_target"`  // RateTarget * TruckCount
	GapCurrent   decimal.NullDecimal `json:"gap_current"`   // ActualCost - TotalCurrent
	GapTarget    decimal.NullDecimal `json:"gap_target"`    // ActualCost - TotalTarget

	// Success is meaningful only when SuccessKnown: a load with an
	// unresolved target rate is neither a success nor a rate-qualified
	// failure, but still counts in the total-load denominator.
	Success      bool `json:"success"`
	SuccessKnown bool `json:"success_known"`
}

// RunMetrics are the headline figures for one audit run over the final
// Load set. Cost sums cover resolved values only; an unresolved total is
// skipped, never counted as zero.
type RunMetrics struct {
	TotalLoads      int `json:"total_loads"`
	SuccessCount    int `json:"success_count"`
	FailureCount    int `json:"failure_count"` // TotalLoads - SuccessCount
	UnresolvedLoads int `json:"unresolved_loads"`

	// SuccessRate is a fraction in [0,1]; SuccessRateKnown is false when
	// TotalLoads is zero (the rate is undefined, not 0%).
	SuccessRate      float64 `json:"success_rate"`
	SuccessRateKnown bool    `json:"success_rate_known"`

	ActualCost       decimal.Decimal `json:"actual_cost"`
	ProjectedCurrent decimal.Decimal `json:"projected_current"`
	ProjectedTarget  decimal.Decimal `json:"projected_target"`
	GapCurrent       decimal.Decimal `json:"gap_current"`
	GapTarget        decimal.Decimal `json:"gap_target"`
}

// QualityWarning flags a data defect the pipeline resolved deterministically
// but will not paper over: overlapping tariff bands, divergent fields across
// lines of one load, and the like. Warnings are surfaced to the caller
// alongside the results.
type QualityWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (w QualityWarning) String() string {
	return w.Code + ": " + w.Message
}

// Warning codes produced by the pipeline.
const (
	WarnTariffOverlap   = "TARIFF_BAND_OVERLAP"
	WarnFieldDivergence = "LOAD_FIELD_DIVERGENCE"
)
