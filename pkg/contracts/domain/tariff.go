package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TariffBand is one row of the contractual tariff table: a rate per truck
// for destinations whose postal code falls inside [PostalFrom, PostalTo],
// shipped from Origin under transport group Group. Two rate vintages are
// carried side by side for the parallel gap computations.
type TariffBand struct {
	Origin      string          `json:"origin" csv:"ORIGIN"`
	Group       string          `json:"group" csv:"GROUP"`
	PostalFrom  int             `json:"postal_from" csv:"POSTAL CODE FROM"`
	PostalTo    int             `json:"postal_to" csv:"POSTAL CODE TO"`
	RateCurrent decimal.Decimal `json:"rate_current" csv:"2024 RATE"`
	RateTarget  decimal.Decimal `json:"rate_target" csv:"2025 TARGET"`
}

// Contains reports whether the band's postal range covers the given code.
// The range is inclusive on both ends.
func (b TariffBand) Contains(postal int) bool {
	return b.PostalFrom <= postal && postal <= b.PostalTo
}

// Key identifies the lookup bucket the band belongs to.
func (b TariffBand) Key() string {
	return b.Origin + "/" + b.Group
}

func (b TariffBand) String() string {
	return fmt.Sprintf("%s/%s [%d-%d]", b.Origin, b.Group, b.PostalFrom, b.PostalTo)
}

// IsValid checks the band carries a usable lookup key and range.
func (b TariffBand) IsValid() bool {
	return b.Origin != "" && b.Group != "" && b.PostalFrom <= b.PostalTo
}
