// Package tariff resolves normalized loads to contractual tariff bands.
//
// Bands are indexed once per run by (origin, group) into buckets sorted by
// range start, so the per-load lookup is a binary search instead of a scan
// over the whole table. Overlapping ranges inside a bucket are a data
// defect: they are detected at build time, surfaced as warnings, and
// resolved deterministically by table order.
package tariff

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"otta/pkg/contracts/domain"
)

// Vintage selects which rate column a lookup resolves.
type Vintage int

const (
	// VintageCurrent is the current contractual rate ("2024 RATE").
	VintageCurrent Vintage = iota
	// VintageTarget is the negotiated target rate ("2025 TARGET").
	VintageTarget
)

// String returns the rate column name of the vintage.
func (v Vintage) String() string {
	switch v {
	case VintageCurrent:
		return "2024 RATE"
	case VintageTarget:
		return "2025 TARGET"
	default:
		return "unknown"
	}
}

// entry keeps a band together with its original table position, so ties
// between overlapping bands resolve to the first row the table defined.
type entry struct {
	band domain.TariffBand
	ord  int
}

// bucket holds the bands of one (origin, group) pair sorted by range start.
// overlapping is set at build time; the common non-overlapping case takes
// a fast path that stops at the first containing band.
type bucket struct {
	entries     []entry
	overlapping bool
}

// Matcher is the per-run tariff lookup structure. It is immutable after
// construction and safe for concurrent lookups.
type Matcher struct {
	buckets map[string]bucket
	logger  *slog.Logger
}

// NewMatcher indexes the tariff table. The returned warnings describe
// overlapping postal ranges; they are the caller's to surface, the matcher
// still resolves them by table order.
func NewMatcher(bands []domain.TariffBand, logger *slog.Logger) (*Matcher, []domain.QualityWarning) {
	if logger == nil {
		logger = slog.Default()
	}

	buckets := make(map[string]bucket)
	for i, band := range bands {
		key := band.Key()
		b := buckets[key]
		b.entries = append(b.entries, entry{band: band, ord: i})
		buckets[key] = b
	}

	var warnings []domain.QualityWarning
	for key, b := range buckets {
		sort.SliceStable(b.entries, func(i, j int) bool {
			return b.entries[i].band.PostalFrom < b.entries[j].band.PostalFrom
		})
		for i := 1; i < len(b.entries); i++ {
			prev, cur := b.entries[i-1].band, b.entries[i].band
			if cur.PostalFrom <= prev.PostalTo {
				b.overlapping = true
				warnings = append(warnings, domain.QualityWarning{
					Code:    domain.WarnTariffOverlap,
					Message: fmt.Sprintf("tariff bands %s and %s overlap; first table row wins", prev, cur),
				})
			}
		}
		buckets[key] = b
	}

	if len(warnings) > 0 {
		logger.Warn("tariff table contains overlapping bands",
			slog.Int("overlaps", len(warnings)))
	}
	logger.Info("tariff index built",
		slog.Int("bands", len(bands)),
		slog.Int("buckets", len(buckets)))

	return &Matcher{buckets: buckets, logger: logger}, warnings
}

// Resolve finds the rate for the given lookup key and vintage. It returns
// an invalid NullDecimal, never zero, when any key component is missing,
// the postal code is not numeric, or no band covers it.
func (m *Matcher) Resolve(origin, group, postalCode string, v Vintage) decimal.NullDecimal {
	if origin == "" || group == "" || postalCode == "" {
		return decimal.NullDecimal{}
	}
	postal, err := strconv.Atoi(postalCode)
	if err != nil {
		return decimal.NullDecimal{}
	}

	b, ok := m.buckets[origin+"/"+group]
	if !ok {
		return decimal.NullDecimal{}
	}

	band, ok := b.find(postal)
	if !ok {
		return decimal.NullDecimal{}
	}
	return rateOf(band, v)
}

// find locates the band covering the postal code. Candidates are the bands
// with PostalFrom <= postal, found by binary search; scanning them from the
// highest start downward finds the match. With overlapping ranges every
// candidate must be checked and the earliest table row wins.
func (b bucket) find(postal int) (domain.TariffBand, bool) {
	// First entry with PostalFrom > postal; everything before it is a
	// candidate.
	i := sort.Search(len(b.entries), func(i int) bool {
		return b.entries[i].band.PostalFrom > postal
	})

	if !b.overlapping {
		for j := i - 1; j >= 0; j-- {
			if b.entries[j].band.Contains(postal) {
				return b.entries[j].band, true
			}
		}
		return domain.TariffBand{}, false
	}

	best := -1
	bestOrd := 0
	for j := i - 1; j >= 0; j-- {
		if b.entries[j].band.Contains(postal) {
			if best == -1 || b.entries[j].ord < bestOrd {
				best = j
				bestOrd = b.entries[j].ord
			}
		}
	}
	if best == -1 {
		return domain.TariffBand{}, false
	}
	return b.entries[best].band, true
}

// rateOf selects the vintage column from a band.
func rateOf(band domain.TariffBand, v Vintage) decimal.NullDecimal {
	switch v {
	case VintageCurrent:
		return decimal.NewNullDecimal(band.RateCurrent)
	case VintageTarget:
		return decimal.NewNullDecimal(band.RateTarget)
	default:
		return decimal.NullDecimal{}
	}
}
