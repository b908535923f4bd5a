package audit

import "otta/pkg/contracts/domain"

// ComputeMetrics derives the headline figures of a run from its final
// Load set. A load whose verdict is unknown counts on the failure side of
// the ledger, so success plus failure always covers every load; it is
// additionally reported under UnresolvedLoads. Cost sums skip unresolved
// values instead of treating them as zero.
func ComputeMetrics(loads []domain.Load) domain.RunMetrics {
	m := domain.RunMetrics{TotalLoads: len(loads)}

	for _, load := range loads {
		switch {
		case !load.SuccessKnown:
			m.UnresolvedLoads++
		case load.Success:
			m.SuccessCount++
		}

		m.ActualCost = m.ActualCost.Add(load.ActualCost)
		if load.TotalCurrent.Valid {
			m.ProjectedCurrent = m.ProjectedCurrent.Add(load.TotalCurrent.Decimal)
		}
		if load.TotalTarget.Valid {
			m.ProjectedTarget = m.ProjectedTarget.Add(load.TotalTarget.Decimal)
		}
		if load.GapCurrent.Valid {
			m.GapCurrent = m.GapCurrent.Add(load.GapCurrent.Decimal)
		}
		if load.GapTarget.Valid {
			m.GapTarget = m.GapTarget.Add(load.GapTarget.Decimal)
		}
	}

	m.FailureCount = m.TotalLoads - m.SuccessCount
	if m.TotalLoads > 0 {
		m.SuccessRate = float64(m.SuccessCount) / float64(m.TotalLoads)
		m.SuccessRateKnown = true
	}
	return m
}
