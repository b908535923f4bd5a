package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"otta/internal/config"
	"otta/internal/errors"
	"otta/pkg/contracts/domain"
)

// truckCountPattern extracts the trailing numeric suffix of a transport
// mode string ("FTL3" -> 3). Absence of a suffix means one truck.
var truckCountPattern = regexp.MustCompile(`(\d+)$`)

// NormalizerConfig carries the per-run parameters of the normalization
// pipeline.
type NormalizerConfig struct {
	// Inclusive date range; lines outside [Start, End] are dropped.
	Start time.Time
	End   time.Time

	// PlaceholderCarrier is the carrier code that marks an unassigned
	// booking. Defaults to config.PlaceholderCarrier.
	PlaceholderCarrier string

	// WarehouseMap maps origin postal codes to warehouse codes.
	// Defaults to config.DefaultWarehouseMap.
	WarehouseMap map[string]string

	// DateFormats are tried in order when parsing ship dates.
	// Defaults to config.ShipDateFormats.
	DateFormats []string

	// Exclusions are equality-exclusion rules applied conjunctively.
	Exclusions []domain.ExclusionRule

	// CarrierRemap maps load IDs to real carrier codes for
	// placeholder-coded lines. May be nil.
	CarrierRemap map[string]string
}

// Normalizer cleans and reshapes raw shipment lines into the canonical
// form the rate matcher and aggregator operate on. The input slice is
// never mutated; every run produces a fresh table.
type Normalizer struct {
	cfg    NormalizerConfig
	logger *slog.Logger
}

// NewNormalizer creates a normalizer, filling unset config fields with the
// application defaults.
func NewNormalizer(cfg NormalizerConfig, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PlaceholderCarrier == "" {
		cfg.PlaceholderCarrier = config.PlaceholderCarrier
	}
	if cfg.WarehouseMap == nil {
		cfg.WarehouseMap = config.DefaultWarehouseMap
	}
	if len(cfg.DateFormats) == 0 {
		cfg.DateFormats = config.ShipDateFormats
	}
	return &Normalizer{cfg: cfg, logger: logger}
}

// Normalize runs the normalization pipeline. Step order matters: the
// carrier remap must precede the placeholder filter, warehouse derivation
// must precede exclusion filtering so rules can address WH_CODE, and group
// derivation must precede truck-count extraction only in the sense that
// both read the raw transport mode.
//
// The only error condition is a misconfigured rule set (an exclusion rule
// naming an unknown column); bad cell data never fails the pipeline.
func (n *Normalizer) Normalize(ctx context.Context, lines []domain.ShipmentLine) ([]domain.ShipmentLine, error) {
	if err := n.validateExclusions(); err != nil {
		return nil, err
	}
	if !n.cfg.Start.IsZero() && !n.cfg.End.IsZero() && n.cfg.Start.After(n.cfg.End) {
		return nil, errors.NewValidationError(
			fmt.Sprintf("start date %s is after end date %s",
				n.cfg.Start.Format("2006-01-02"), n.cfg.End.Format("2006-01-02")))
	}

	n.logger.InfoContext(ctx, "normalizing shipment lines",
		slog.Int("input_lines", len(lines)),
		slog.String("start", n.cfg.Start.Format("2006-01-02")),
		slog.String("end", n.cfg.End.Format("2006-01-02")))

	out := make([]domain.ShipmentLine, 0, len(lines))
	dropped := map[string]int{}

	for _, line := range lines {
		// Step 1: carrier remap, then hard placeholder filter.
		if line.CarrierCode == n.cfg.PlaceholderCarrier {
			if real, ok := n.cfg.CarrierRemap[line.LoadID]; ok && real != "" {
				line.CarrierCode = real
			}
		}
		if line.CarrierCode == n.cfg.PlaceholderCarrier {
			dropped["placeholder_carrier"]++
			continue
		}

		// Step 2: date parse and inclusive range filter. Unparsable
		// dates become the zero time and fail the range check.
		line.ShipDate = n.parseShipDate(line.ShipDateRaw)
		if !n.inRange(line.ShipDate) {
			dropped["date_range"]++
			continue
		}

		// Step 3: warehouse derivation from the origin postal code.
		// Unmapped codes yield an empty warehouse, which later fails
		// rate matching; this is not a filter.
		line.Warehouse = n.deriveWarehouse(line)

		// Step 4: exclusion rules, composed conjunctively.
		if rule, excluded := n.excluded(line); excluded {
			dropped["rule:"+rule.Column]++
			continue
		}

		// Steps 5-7: group derivation, postal canonicalization,
		// truck-count extraction.
		line.Group = deriveGroup(line.TransportMode)
		line.PostalCode = canonicalPostal(line.DestPostal)
		line.TruckCount = extractTruckCount(line.TransportMode)

		out = append(out, line)
	}

	for reason, count := range dropped {
		n.logger.InfoContext(ctx, "dropped shipment lines",
			slog.String("reason", reason),
			slog.Int("count", count))
	}
	n.logger.InfoContext(ctx, "normalization complete",
		slog.Int("output_lines", len(out)))

	return out, nil
}

// validateExclusions rejects rules naming columns the record does not
// have. A typo in the rule set is a configuration error, caught before any
// line is filtered.
func (n *Normalizer) validateExclusions() error {
	for _, rule := range n.cfg.Exclusions {
		if !knownColumn(rule.Column) {
			return errors.NewValidationError(
				fmt.Sprintf("exclusion rule names unknown column %q", rule.Column))
		}
	}
	return nil
}

// parseShipDate tries each configured layout; failure yields the zero time.
func (n *Normalizer) parseShipDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range n.cfg.DateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// inRange applies the inclusive [Start, End] filter. Missing dates fail
// both bounds by definition.
func (n *Normalizer) inRange(d time.Time) bool {
	if d.IsZero() {
		return false
	}
	if !n.cfg.Start.IsZero() && d.Before(n.cfg.Start) {
		return false
	}
	if !n.cfg.End.IsZero() && d.After(n.cfg.End) {
		return false
	}
	return true
}

// deriveWarehouse maps the origin postal code through the warehouse table,
// preferring the explicit ship-from field over the depot postal.
func (n *Normalizer) deriveWarehouse(line domain.ShipmentLine) string {
	zip := strings.TrimSpace(line.ShipFromZip)
	if zip == "" {
		zip = strings.TrimSpace(line.DepotZip)
	}
	if zip == "" {
		return ""
	}
	return n.cfg.WarehouseMap[zip]
}

// excluded reports whether any exclusion rule matches the line, and which.
func (n *Normalizer) excluded(line domain.ShipmentLine) (domain.ExclusionRule, bool) {
	for _, rule := range n.cfg.Exclusions {
		value, _ := columnValue(line, rule.Column)
		if value == rule.Value {
			return rule, true
		}
	}
	return domain.ExclusionRule{}, false
}

// deriveGroup strips everything but letters from the transport mode to
// obtain the tariff group code ("FTL3" -> "FTL").
func deriveGroup(mode string) string {
	var b strings.Builder
	for _, r := range mode {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonicalPostal left-zero-pads the destination postal code to the
// canonical width so range comparisons behave.
func canonicalPostal(postal string) string {
	postal = strings.TrimSpace(postal)
	if postal == "" {
		return ""
	}
	if len(postal) < config.PostalCodeLength {
		postal = strings.Repeat("0", config.PostalCodeLength-len(postal)) + postal
	}
	return postal
}

// extractTruckCount parses the trailing numeric suffix of the transport
// mode; absence defaults to a single truck.
func extractTruckCount(mode string) int {
	m := truckCountPattern.FindStringSubmatch(strings.TrimSpace(mode))
	if m == nil {
		return 1
	}
	count, err := strconv.Atoi(m[1])
	if err != nil || count < 1 {
		return 1
	}
	return count
}

// columnValue resolves an input column name against a line. The addressable
// set covers the raw columns plus the derived WH_CODE field; GROUP is
// derived after the exclusion step and cannot be addressed by rules.
func columnValue(line domain.ShipmentLine, column string) (string, bool) {
	switch column {
	case "LOAD_ID":
		return line.LoadID, true
	case "CARRIER_CODE":
		return line.CarrierCode, true
	case "SHIP_DATE":
		return line.ShipDateRaw, true
	case "SHIP_FROM_ZIP":
		return line.ShipFromZip, true
	case "DC_POSTAL":
		return line.DepotZip, true
	case "STATE":
		return line.State, true
	case "TRANSPORT_MODE":
		return line.TransportMode, true
	case "POSTALCODE":
		return line.DestPostal, true
	case "WH_CODE":
		// Derived before the exclusion step, so rules may address it.
		return line.Warehouse, true
	default:
		return "", false
	}
}

// knownColumn reports whether an exclusion rule column is addressable.
func knownColumn(column string) bool {
	_, ok := columnValue(domain.ShipmentLine{}, column)
	return ok
}
