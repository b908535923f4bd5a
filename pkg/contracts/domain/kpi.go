package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LaneSummary is one row of the warehouse-by-state KPI table.
type LaneSummary struct {
	Warehouse string `json:"warehouse"`
	State     string `json:"state"`

	Loads    int `json:"loads"`
	Success  int `json:"success"`
	Failures int `json:"failures"`

	// SuccessRate is a percentage rounded to one decimal.
	SuccessRate float64 `json:"success_rate"`

	ActualCost decimal.Decimal `json:"actual_cost"`
	TargetCost decimal.Decimal `json:"target_cost"`
	Gap        decimal.Decimal `json:"gap"`
}

// CarrierShare is one row of the top-carriers-per-lane table: how many of a
// (warehouse, state) pair's loads a carrier moved, and its percentage share
// of that pair.
type CarrierShare struct {
	Warehouse   string  `json:"warehouse"`
	State       string  `json:"state"`
	CarrierCode string  `json:"carrier_code"`
	Loads       int     `json:"loads"`
	Percent     float64 `json:"percent"`
}

// WeekKey buckets loads by ISO year and week-of-year.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
}

// WeeklyTrendPoint is one bucket of the weekly success-rate series.
type WeeklyTrendPoint struct {
	Week        WeekKey `json:"week"`
	Loads       int     `json:"loads"`
	Success     int     `json:"success"`
	SuccessRate float64 `json:"success_rate"` // percentage, one decimal
}
