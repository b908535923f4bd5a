package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otta/pkg/contracts/domain"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func baseConfig() NormalizerConfig {
	return NormalizerConfig{
		Start: date(2025, 1, 1),
		End:   date(2025, 12, 31),
	}
}

func line(loadID, carrier, shipDate string) domain.ShipmentLine {
	return domain.ShipmentLine{
		LoadID:        loadID,
		CarrierCode:   carrier,
		ShipDateRaw:   shipDate,
		ShipFromZip:   "54602",
		State:         "NLE",
		TransportMode: "FTL",
		DestPostal:    "64000",
		Estimate:      decimal.NewFromInt(100),
	}
}

func TestNormalizer_CarrierRemap(t *testing.T) {
	tests := []struct {
		name      string
		remap     map[string]string
		carrier   string
		wantKept  bool
		wantCode  string
	}{
		{"remapped placeholder survives", map[string]string{"L1": "ACME"}, "MYLG", true, "ACME"},
		{"placeholder without remap is dropped", nil, "MYLG", false, ""},
		{"placeholder with empty remap is dropped", map[string]string{"L1": ""}, "MYLG", false, ""},
		{"real carrier untouched by remap", map[string]string{"L1": "ACME"}, "KUEH", true, "KUEH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.CarrierRemap = tt.remap
			n := NewNormalizer(cfg, nil)

			out, err := n.Normalize(context.Background(), []domain.ShipmentLine{line("L1", tt.carrier, "2025-03-01")})
			require.NoError(t, err)

			if !tt.wantKept {
				assert.Empty(t, out)
				return
			}
			require.Len(t, out, 1)
			assert.Equal(t, tt.wantCode, out[0].CarrierCode)
		})
	}
}

func TestNormalizer_DateFilter(t *testing.T) {
	tests := []struct {
		name     string
		shipDate string
		wantKept bool
	}{
		{"inside range", "2025-06-15", true},
		{"on start bound", "2025-01-01", true},
		{"on end bound", "2025-12-31", true},
		{"before range", "2024-12-31", false},
		{"after range", "2026-01-01", false},
		{"malformed date", "not-a-date", false},
		{"empty date", "", false},
		{"alternate layout", "06/15/2025", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(baseConfig(), nil)
			out, err := n.Normalize(context.Background(), []domain.ShipmentLine{line("L1", "KUEH", tt.shipDate)})
			require.NoError(t, err)
			if tt.wantKept {
				assert.Len(t, out, 1)
			} else {
				assert.Empty(t, out)
			}
		})
	}
}

func TestNormalizer_WarehouseDerivation(t *testing.T) {
	t.Run("ship-from zip preferred", func(t *testing.T) {
		l := line("L1", "KUEH", "2025-03-01")
		l.ShipFromZip = "54605"
		l.DepotZip = "54602"

		n := NewNormalizer(baseConfig(), nil)
		out, err := n.Normalize(context.Background(), []domain.ShipmentLine{l})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "N2E", out[0].Warehouse)
	})

	t.Run("falls back to depot postal", func(t *testing.T) {
		l := line("L1", "KUEH", "2025-03-01")
		l.ShipFromZip = ""
		l.DepotZip = "66643"

		n := NewNormalizer(baseConfig(), nil)
		out, err := n.Normalize(context.Background(), []domain.ShipmentLine{l})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "NBN", out[0].Warehouse)
	})

	t.Run("unmapped zip yields empty warehouse, line kept", func(t *testing.T) {
		l := line("L1", "KUEH", "2025-03-01")
		l.ShipFromZip = "99999"

		n := NewNormalizer(baseConfig(), nil)
		out, err := n.Normalize(context.Background(), []domain.ShipmentLine{l})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Empty(t, out[0].Warehouse)
	})
}

func TestNormalizer_Exclusions(t *testing.T) {
	t.Run("matching rule drops the line", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Exclusions = []domain.ExclusionRule{{Column: "STATE", Value: "NLE"}}

		n := NewNormalizer(cfg, nil)
		out, err := n.Normalize(context.Background(), []domain.ShipmentLine{line("L1", "KUEH", "2025-03-01")})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("rules compose conjunctively", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Exclusions = []domain.ExclusionRule{
			{Column: "STATE", Value: "JAL"},
			{Column: "CARRIER_CODE", Value: "KUEH"},
		}

		n := NewNormalizer(cfg, nil)
		out, err := n.Normalize(context.Background(), []domain.ShipmentLine{line("L1", "KUEH", "2025-03-01")})
		require.NoError(t, err)
		assert.Empty(t, out, "second rule should drop the line even though the first misses")
	})

	t.Run("derived warehouse is addressable", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Exclusions = []domain.ExclusionRule{{Column: "WH_CODE", Value: "N2A"}}

		n := NewNormalizer(cfg, nil)
		out, err := n.Normalize(context.Background(), []domain.ShipmentLine{line("L1", "KUEH", "2025-03-01")})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("unknown column is a fatal configuration error", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Exclusions = []domain.ExclusionRule{{Column: "NO_SUCH_COLUMN", Value: "X"}}

		n := NewNormalizer(cfg, nil)
		_, err := n.Normalize(context.Background(), []domain.ShipmentLine{line("L1", "KUEH", "2025-03-01")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NO_SUCH_COLUMN")
	})
}

func TestNormalizer_Derivations(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		postal     string
		wantGroup  string
		wantPostal string
		wantTrucks int
	}{
		{"mode with suffix", "FTL3", "54602", "FTL", "54602", 3},
		{"mode without suffix", "LTL", "964", "LTL", "00964", 1},
		{"missing mode", "", "64000", "", "64000", 1},
		{"two digit suffix", "FTL12", "5000", "FTL", "05000", 12},
		{"empty postal stays empty", "FTL", "", "FTL", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := line("L1", "KUEH", "2025-03-01")
			l.TransportMode = tt.mode
			l.DestPostal = tt.postal

			n := NewNormalizer(baseConfig(), nil)
			out, err := n.Normalize(context.Background(), []domain.ShipmentLine{l})
			require.NoError(t, err)
			require.Len(t, out, 1)

			assert.Equal(t, tt.wantGroup, out[0].Group)
			assert.Equal(t, tt.wantPostal, out[0].PostalCode)
			assert.Equal(t, tt.wantTrucks, out[0].TruckCount)
		})
	}
}

func TestNormalizer_StartAfterEnd(t *testing.T) {
	cfg := baseConfig()
	cfg.Start = date(2025, 12, 31)
	cfg.End = date(2025, 1, 1)

	n := NewNormalizer(cfg, nil)
	_, err := n.Normalize(context.Background(), []domain.ShipmentLine{line("L1", "KUEH", "2025-03-01")})
	assert.Error(t, err)
}

func TestNormalizer_InputNotMutated(t *testing.T) {
	input := []domain.ShipmentLine{line("L1", "KUEH", "2025-03-01")}
	n := NewNormalizer(baseConfig(), nil)

	_, err := n.Normalize(context.Background(), input)
	require.NoError(t, err)

	assert.Empty(t, input[0].Warehouse, "input slice must stay untouched")
	assert.Zero(t, input[0].TruckCount)
	assert.True(t, input[0].ShipDate.IsZero())
}

func TestNormalizer_Idempotent(t *testing.T) {
	lines := []domain.ShipmentLine{
		line("L1", "KUEH", "2025-03-01"),
		line("L2", "DHL", "2025-04-10"),
	}
	lines[1].TransportMode = "FTL3"
	lines[1].DestPostal = "964"

	n := NewNormalizer(baseConfig(), nil)

	once, err := n.Normalize(context.Background(), lines)
	require.NoError(t, err)
	twice, err := n.Normalize(context.Background(), once)
	require.NoError(t, err)

	assert.Equal(t, once, twice, "normalizing an already-normalized table must be a no-op")
}
