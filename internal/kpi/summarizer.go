// Package kpi aggregates a run's final Load set into the three reporting
// views: the warehouse-by-state lane table, the top carriers per lane, and
// the weekly success-rate trend. All views are derived, deterministic and
// side-effect free; the same loads always produce the same tables.
package kpi

import (
	"math"
	"sort"

	"otta/pkg/contracts/domain"
)

type laneKey struct {
	warehouse string
	state     string
}

// LaneSummaries builds the warehouse-by-state KPI table, sorted by
// warehouse then state. Cost columns sum resolved values only; a load with
// an unresolved target contributes to the load counts but not to
// TargetCost or Gap.
func LaneSummaries(loads []domain.Load) []domain.LaneSummary {
	lanes := make(map[laneKey]*domain.LaneSummary)
	for _, load := range loads {
		key := laneKey{load.Warehouse, load.State}
		lane, ok := lanes[key]
		if !ok {
			lane = &domain.LaneSummary{Warehouse: load.Warehouse, State: load.State}
			lanes[key] = lane
		}

		lane.Loads++
		if load.SuccessKnown && load.Success {
			lane.Success++
		}
		lane.ActualCost = lane.ActualCost.Add(load.ActualCost)
		if load.TotalTarget.Valid {
			lane.TargetCost = lane.TargetCost.Add(load.TotalTarget.Decimal)
		}
		if load.GapTarget.Valid {
			lane.Gap = lane.Gap.Add(load.GapTarget.Decimal)
		}
	}

	out := make([]domain.LaneSummary, 0, len(lanes))
	for _, lane := range lanes {
		lane.Failures = lane.Loads - lane.Success
		lane.SuccessRate = roundRate(lane.Success, lane.Loads)
		out = append(out, *lane)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Warehouse != out[j].Warehouse {
			return out[i].Warehouse < out[j].Warehouse
		}
		return out[i].State < out[j].State
	})
	return out
}

// TopCarriers returns up to n carriers per (warehouse, state) lane, ranked
// by distinct loads moved. Ties rank the carrier first seen in the load
// set higher, so the table is stable across runs over the same input. The
// result is sorted by warehouse, state, then rank.
func TopCarriers(loads []domain.Load, n int) []domain.CarrierShare {
	type carrierStat struct {
		share domain.CarrierShare
		seen  int
	}

	laneTotals := make(map[laneKey]int)
	laneCarriers := make(map[laneKey]map[string]*carrierStat)
	var laneOrder []laneKey

	for i, load := range loads {
		key := laneKey{load.Warehouse, load.State}
		carriers, ok := laneCarriers[key]
		if !ok {
			carriers = make(map[string]*carrierStat)
			laneCarriers[key] = carriers
			laneOrder = append(laneOrder, key)
		}
		laneTotals[key]++

		stat, ok := carriers[load.CarrierCode]
		if !ok {
			stat = &carrierStat{
				share: domain.CarrierShare{
					Warehouse:   load.Warehouse,
					State:       load.State,
					CarrierCode: load.CarrierCode,
				},
				seen: i,
			}
			carriers[load.CarrierCode] = stat
		}
		stat.share.Loads++
	}

	sort.Slice(laneOrder, func(i, j int) bool {
		if laneOrder[i].warehouse != laneOrder[j].warehouse {
			return laneOrder[i].warehouse < laneOrder[j].warehouse
		}
		return laneOrder[i].state < laneOrder[j].state
	})

	var out []domain.CarrierShare
	for _, key := range laneOrder {
		stats := make([]*carrierStat, 0, len(laneCarriers[key]))
		for _, stat := range laneCarriers[key] {
			stats = append(stats, stat)
		}
		sort.Slice(stats, func(i, j int) bool {
			if stats[i].share.Loads != stats[j].share.Loads {
				return stats[i].share.Loads > stats[j].share.Loads
			}
			return stats[i].seen < stats[j].seen
		})

		total := laneTotals[key]
		for i, stat := range stats {
			if i == n {
				break
			}
			stat.share.Percent = roundRate(stat.share.Loads, total)
			out = append(out, stat.share)
		}
	}
	return out
}

// WeeklyTrend buckets loads by ISO week of the ship date and computes the
// success rate of each bucket, sorted chronologically. Weeks with no loads
// have no bucket.
func WeeklyTrend(loads []domain.Load) []domain.WeeklyTrendPoint {
	buckets := make(map[domain.WeekKey]*domain.WeeklyTrendPoint)
	for _, load := range loads {
		year, week := load.ShipDate.ISOWeek()
		key := domain.WeekKey{Year: year, Week: week}
		point, ok := buckets[key]
		if !ok {
			point = &domain.WeeklyTrendPoint{Week: key}
			buckets[key] = point
		}
		point.Loads++
		if load.SuccessKnown && load.Success {
			point.Success++
		}
	}

	out := make([]domain.WeeklyTrendPoint, 0, len(buckets))
	for _, point := range buckets {
		point.SuccessRate = roundRate(point.Success, point.Loads)
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week.Year != out[j].Week.Year {
			return out[i].Week.Year < out[j].Week.Year
		}
		return out[i].Week.Week < out[j].Week.Week
	})
	return out
}

// TopCostliest returns the given top percentage of loads by actual cost,
// most expensive first, at least one load when any exist. Percent is
// clamped to [1, 100].
func TopCostliest(loads []domain.Load, percent int) []domain.Load {
	if len(loads) == 0 {
		return nil
	}
	if percent < 1 {
		percent = 1
	}
	if percent > 100 {
		percent = 100
	}

	ranked := make([]domain.Load, len(loads))
	copy(ranked, loads)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ActualCost.GreaterThan(ranked[j].ActualCost)
	})

	n := len(ranked) * percent / 100
	if n < 1 {
		n = 1
	}
	return ranked[:n]
}

// roundRate is num/den as a percentage rounded to one decimal, 0 when the
// denominator is zero.
func roundRate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(float64(num)/float64(den)*1000) / 10
}
