package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otta/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testRunInput(t *testing.T) RunInput {
	dir := t.TempDir()

	shipments := writeFile(t, dir, "shipments.csv",
		"LOAD_ID,CARRIER_CODE,SHIP_DATE,SHIP_FROM_ZIP,DC_POSTAL,STATE,TRANSPORT_MODE,POSTALCODE,SHIPMENT_ESTIMATE\n"+
			// Two lines of one load, within target.
			"L1,CARR1,2025-03-10,54602,,MEX,FTL3,54602,1500\n"+
			"L1,CARR1,2025-03-10,54602,,MEX,FTL3,54602,1300\n"+
			// Over target.
			"L2,CARR2,2025-03-11,54605,,JAL,LTL,66643,600\n"+
			// Placeholder never resolved, dropped entirely.
			"L3,MYLG,2025-03-11,54602,,MEX,FTL,54602,900\n"+
			// Placeholder resolved by the remap file.
			"L4,MYLG,2025-03-12,54602,,MEX,FTL,54610,1050\n"+
			// Outside the date window.
			"L5,CARR1,2025-05-01,54602,,MEX,FTL,54602,700\n"+
			// Unmapped origin zip, stays but cannot price.
			"L6,CARR3,2025-03-13,99999,,MEX,FTL,54602,800\n")

	tariffs := writeFile(t, dir, "tariffs.csv",
		"ORIGIN,GROUP,POSTAL CODE FROM,POSTAL CODE TO,2024 RATE,2025 TARGET\n"+
			"N2A,FTL,54600,54699,1100,1000\n"+
			"N2E,LTL,66600,66699,500,450\n")

	remap := writeFile(t, dir, "remap.csv",
		"LOAD_ID,REAL_CARRIER_CODE\nL4,CARR2\n")

	return RunInput{
		ShipmentFile: shipments,
		TariffFile:   tariffs,
		RemapFile:    remap,
		Start:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestRunnerRun(t *testing.T) {
	runner := NewRunner(config.AuditConfig{
		PlaceholderCarrier: "MYLG",
		TopCarriers:        3,
		TopPercent:         30,
	}, nil)

	result, err := runner.Run(context.Background(), testRunInput(t))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.RunID)

	// L3 (unresolved placeholder) and L5 (outside window) are gone.
	require.Len(t, result.Loads, 4)
	byID := make(map[string]int)
	for i, load := range result.Loads {
		byID[load.LoadID] = i
	}
	require.NotContains(t, byID, "L3")
	require.NotContains(t, byID, "L5")

	// L1: two lines collapsed, 3 trucks at target 1000.
	l1 := result.Loads[byID["L1"]]
	assert.True(t, l1.ActualCost.Equal(decimal.RequireFromString("2800")))
	require.True(t, l1.TotalTarget.Valid)
	assert.True(t, l1.TotalTarget.Decimal.Equal(decimal.RequireFromString("3000")))
	assert.True(t, l1.Success)

	// L2: 600 actual against a 450 target.
	l2 := result.Loads[byID["L2"]]
	assert.Equal(t, "N2E", l2.Warehouse)
	require.True(t, l2.SuccessKnown)
	assert.False(t, l2.Success)

	// L4: remapped carrier survives and prices normally.
	l4 := result.Loads[byID["L4"]]
	assert.Equal(t, "CARR2", l4.CarrierCode)
	require.True(t, l4.SuccessKnown)
	assert.False(t, l4.Success, "1050 actual exceeds the 1000 target")

	// L6: unmapped origin, priced as unresolved.
	l6 := result.Loads[byID["L6"]]
	assert.False(t, l6.SuccessKnown)

	m := result.Metrics
	assert.Equal(t, 4, m.TotalLoads)
	assert.Equal(t, m.TotalLoads, m.SuccessCount+m.FailureCount)
	assert.Equal(t, 1, m.UnresolvedLoads)

	assert.NotEmpty(t, result.Lanes)
	assert.NotEmpty(t, result.TopCarriers)
	assert.NotEmpty(t, result.WeeklyTrend)
	assert.NotEmpty(t, result.TopCostliest)
}

func TestRunnerRunWithoutOptionalFiles(t *testing.T) {
	in := testRunInput(t)
	in.RemapFile = ""
	in.ExclusionFile = ""

	runner := NewRunner(config.AuditConfig{PlaceholderCarrier: "MYLG"}, nil)
	result, err := runner.Run(context.Background(), in)
	require.NoError(t, err)

	// Without the remap, L4 keeps the placeholder and is dropped.
	for _, load := range result.Loads {
		assert.NotEqual(t, "L4", load.LoadID)
	}
	assert.Len(t, result.Loads, 3)
}

func TestRunnerRunMissingShipmentFile(t *testing.T) {
	in := testRunInput(t)
	in.ShipmentFile = filepath.Join(t.TempDir(), "nope.csv")

	runner := NewRunner(config.AuditConfig{}, nil)
	_, err := runner.Run(context.Background(), in)
	assert.Error(t, err)
}

func TestRunnerRunEmptyTariffTable(t *testing.T) {
	in := testRunInput(t)
	in.TariffFile = writeFile(t, t.TempDir(), "tariffs.csv",
		"ORIGIN,GROUP,POSTAL CODE FROM,POSTAL CODE TO,2024 RATE,2025 TARGET\n")

	runner := NewRunner(config.AuditConfig{}, nil)
	_, err := runner.Run(context.Background(), in)
	assert.Error(t, err)
}

func TestRunnerRunInvertedWindow(t *testing.T) {
	in := testRunInput(t)
	in.Start, in.End = in.End, in.Start

	runner := NewRunner(config.AuditConfig{}, nil)
	_, err := runner.Run(context.Background(), in)
	assert.Error(t, err)
}
