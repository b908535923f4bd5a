package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentLine is one transportation line item as ingested from the raw
// shipment data. Several lines may share a LoadID; the audit collapses them
// into a single Load. Raw columns keep their ingested values; the derived
// fields (ShipDate, Warehouse, Group, PostalCode, TruckCount) are populated
// by the normalizer and are zero-valued before it runs.
type ShipmentLine struct {
	LoadID        string          `json:"load_id" csv:"LOAD_ID"`
	CarrierCode   string          `json:"carrier_code" csv:"CARRIER_CODE"`
	ShipDateRaw   string          `json:"ship_date_raw" csv:"SHIP_DATE"`
	ShipFromZip   string          `json:"ship_from_zip,omitempty" csv:"SHIP_FROM_ZIP"`
	DepotZip      string          `json:"depot_zip,omitempty" csv:"DC_POSTAL"`
	State         string          `json:"state" csv:"STATE"`
	TransportMode string          `json:"transport_mode" csv:"TRANSPORT_MODE"`
	DestPostal    string          `json:"dest_postal" csv:"POSTALCODE"`
	Estimate      decimal.Decimal `json:"estimate" csv:"SHIPMENT_ESTIMATE"`

	// Derived by the normalizer.
	ShipDate   time.Time `json:"ship_date"`
	Warehouse  string    `json:"warehouse"`   // "" when the origin zip is unmapped
	Group      string    `json:"group"`       // "" when the transport mode is missing
	PostalCode string    `json:"postal_code"` // destination postal, zero-padded to 5
	TruckCount int       `json:"truck_count"` // trailing numeric suffix of the mode, 1 if absent
}

// HasShipDate reports whether the ship date parsed successfully. Lines with
// malformed dates carry a zero time and fail every date-range comparison.
func (l ShipmentLine) HasShipDate() bool {
	return !l.ShipDate.IsZero()
}

// ExclusionRule drops any line whose value in Column equals Value. Rules are
// composed conjunctively: a line survives only if no rule matches it.
type ExclusionRule struct {
	Column string `json:"column" csv:"COLUMN"`
	Value  string `json:"value" csv:"EXCLUDE_VALUE"`
}

// CarrierRemap maps a load identifier to the real carrier behind a
// placeholder-coded booking.
type CarrierRemap struct {
	LoadID      string `json:"load_id" csv:"LOAD_ID"`
	CarrierCode string `json:"carrier_code" csv:"REAL_CARRIER_CODE"`
}
