package config

import "time"

// Application constants for the OTTA audit system
const (
	// Application Info
	AppName = "OTTA"

	// PlaceholderCarrier is the carrier code used on bookings whose real
	// carrier has not been assigned yet. Lines that still carry it after
	// the remap step are dropped from the audit.
	PlaceholderCarrier = "MYLG"

	// PostalCodeLength is the canonical width of a destination postal code.
	PostalCodeLength = 5

	// DefaultTopCarriers is how many carriers the per-lane share table keeps.
	DefaultTopCarriers = 3

	// DefaultTopPercent is the default tariff top-percent threshold carried
	// through to reporting.
	DefaultTopPercent = 30

	// Currency used for all money display formatting.
	Currency = "MXN"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// HTTP Server
	DefaultPort            = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultReportsDir = "data/reports"

	// Operation Timeouts
	DefaultRunTimeout = 10 * time.Minute
)

// DefaultWarehouseMap is the fixed origin-postal to warehouse-code table.
// Overridable through configuration.
var DefaultWarehouseMap = map[string]string{
	"54602": "N2A",
	"54605": "N2E",
	"66643": "NBN",
}

// ShipDateFormats are the layouts tried, in order, when parsing raw ship
// dates. Unparsable dates are treated as missing and fall out of the
// date-range filter.
var ShipDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
}
