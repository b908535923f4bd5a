package exporter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"otta/internal/config"
)

// notAvailable marks an unresolved value in reports. Zero and unknown are
// different facts and must render differently.
const notAvailable = "N/A"

// formatMoney renders an amount as a thousands-separated integer with the
// currency suffix, e.g. "2,800 MXN". Negative amounts keep their sign.
func formatMoney(d decimal.Decimal) string {
	rounded := d.Round(0)
	neg := rounded.IsNegative()
	digits := rounded.Abs().String()

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	b.WriteByte(' ')
	b.WriteString(config.Currency)
	return b.String()
}

// formatMoneyNull renders a nullable amount, N/A when unresolved.
func formatMoneyNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return notAvailable
	}
	return formatMoney(d.Decimal)
}

// formatDecimal renders an exact decimal value without currency suffix,
// N/A when unresolved.
func formatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return notAvailable
	}
	return d.Decimal.String()
}

// formatPercent renders a percentage with one decimal place, e.g. "66.7%".
func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
