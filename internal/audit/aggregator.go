// Package audit turns normalized shipment lines into priced loads and the
// headline figures of an audit run. The aggregator collapses lines into
// loads, resolves both rate vintages per load, and computes totals, gaps
// and the assignment verdict; the runner orchestrates the full pipeline
// from input files to exportable results.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"otta/internal/tariff"
	"otta/pkg/contracts/domain"
)

// Aggregator collapses shipment lines into loads and prices them against
// the tariff table.
type Aggregator struct {
	matcher *tariff.Matcher
	logger  *slog.Logger
}

// NewAggregator creates an aggregator over an indexed tariff table.
func NewAggregator(matcher *tariff.Matcher, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{matcher: matcher, logger: logger}
}

// Aggregate builds one Load per distinct load identifier, in first-seen
// order. Descriptive fields come from the first line of each load; lines
// that disagree with it are reported as warnings and their actual cost is
// still summed in. Every load is then priced against both rate vintages.
func (a *Aggregator) Aggregate(ctx context.Context, lines []domain.ShipmentLine) ([]domain.Load, []domain.QualityWarning) {
	loads := make([]domain.Load, 0, len(lines))
	index := make(map[string]int, len(lines))
	var warnings []domain.QualityWarning

	for _, line := range lines {
		i, seen := index[line.LoadID]
		if !seen {
			index[line.LoadID] = len(loads)
			loads = append(loads, domain.Load{
				LoadID:      line.LoadID,
				Warehouse:   line.Warehouse,
				Group:       line.Group,
				PostalCode:  line.PostalCode,
				State:       line.State,
				CarrierCode: line.CarrierCode,
				ShipDate:    line.ShipDate,
				TruckCount:  line.TruckCount,
				ActualCost:  line.Estimate,
			})
			continue
		}

		loads[i].ActualCost = loads[i].ActualCost.Add(line.Estimate)
		if w, diverged := a.divergence(loads[i], line); diverged {
			warnings = append(warnings, w)
		}
	}

	for i := range loads {
		a.price(&loads[i])
	}

	a.logger.InfoContext(ctx, "aggregated shipment lines into loads",
		slog.Int("lines", len(lines)),
		slog.Int("loads", len(loads)),
		slog.Int("divergence_warnings", len(warnings)))

	return loads, warnings
}

// price resolves both rate vintages for one load and derives totals, gaps
// and the assignment verdict. Unresolved rates propagate as invalid values
// and leave the verdict unknown.
func (a *Aggregator) price(load *domain.Load) {
	load.RateCurrent = a.matcher.Resolve(load.Warehouse, load.Group, load.PostalCode, tariff.VintageCurrent)
	load.RateTarget = a.matcher.Resolve(load.Warehouse, load.Group, load.PostalCode, tariff.VintageTarget)

	trucks := decimal.NewFromInt(int64(load.TruckCount))
	load.TotalCurrent = mulNull(load.RateCurrent, trucks)
	load.TotalTarget = mulNull(load.RateTarget, trucks)
	load.GapCurrent = subNull(load.ActualCost, load.TotalCurrent)
	load.GapTarget = subNull(load.ActualCost, load.TotalTarget)

	if load.TotalTarget.Valid {
		load.Success = load.ActualCost.LessThanOrEqual(load.TotalTarget.Decimal)
		load.SuccessKnown = true
	}
}

// divergence compares a follow-up line against the fields already fixed
// for its load. The first line wins; disagreement is a data defect worth
// surfacing but never changes the load.
func (a *Aggregator) divergence(load domain.Load, line domain.ShipmentLine) (domain.QualityWarning, bool) {
	var field, kept, got string
	switch {
	case line.Warehouse != load.Warehouse:
		field, kept, got = "warehouse", load.Warehouse, line.Warehouse
	case line.Group != load.Group:
		field, kept, got = "group", load.Group, line.Group
	case line.PostalCode != load.PostalCode:
		field, kept, got = "postal_code", load.PostalCode, line.PostalCode
	case line.State != load.State:
		field, kept, got = "state", load.State, line.State
	case line.CarrierCode != load.CarrierCode:
		field, kept, got = "carrier_code", load.CarrierCode, line.CarrierCode
	case !line.ShipDate.Equal(load.ShipDate):
		field = "ship_date"
		kept = load.ShipDate.Format("2006-01-02")
		got = line.ShipDate.Format("2006-01-02")
	case line.TruckCount != load.TruckCount:
		field = "truck_count"
		kept = fmt.Sprintf("%d", load.TruckCount)
		got = fmt.Sprintf("%d", line.TruckCount)
	default:
		return domain.QualityWarning{}, false
	}

	return domain.QualityWarning{
		Code: domain.WarnFieldDivergence,
		Message: fmt.Sprintf("load %s: %s %q disagrees with first-seen %q; first line wins",
			load.LoadID, field, got, kept),
	}, true
}

// mulNull multiplies a nullable rate by a factor; invalid stays invalid.
func mulNull(rate decimal.NullDecimal, factor decimal.Decimal) decimal.NullDecimal {
	if !rate.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(rate.Decimal.Mul(factor))
}

// subNull subtracts a nullable total from an actual cost; invalid stays
// invalid.
func subNull(actual decimal.Decimal, total decimal.NullDecimal) decimal.NullDecimal {
	if !total.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(actual.Sub(total.Decimal))
}
