package exporter

import (
	"fmt"

	"otta/internal/audit"
	"otta/internal/config"
	"otta/pkg/contracts/domain"
)

// Column headers of the per-run CSV reports.
var (
	loadHeaders = []string{
		"LOAD_ID", "WH_CODE", "GROUP", "POSTALCODE", "STATE",
		"CARRIER_CODE", "SHIP_DATE", "TRUCK_COUNT",
		"RATE_2024", "RATE_2025_TARGET", "ACTUAL_COST",
		"TOTAL_2024", "TOTAL_TARGET", "GAP_2024", "GAP_TARGET", "SUCCESS",
	}
	laneHeaders = []string{
		"WH_CODE", "STATE", "LOADS", "SUCCESS", "FAILURES",
		"SUCCESS_RATE", "ACTUAL_COST", "TARGET_COST", "GAP",
	}
	carrierHeaders = []string{
		"WH_CODE", "STATE", "CARRIER_CODE", "LOADS", "SHARE",
	}
	trendHeaders = []string{
		"WEEK", "LOADS", "SUCCESS", "SUCCESS_RATE",
	}
)

// ReportExporter writes the CSV views of one audit run into the reports
// directory.
type ReportExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewReportExporter creates a report exporter rooted at the given paths.
func NewReportExporter(paths *config.Paths) *ReportExporter {
	return &ReportExporter{
		csvWriter: NewCSVWriter(paths),
		paths:     paths,
	}
}

// ExportAll writes every CSV view of the run.
func (e *ReportExporter) ExportAll(result *audit.Result) error {
	if err := e.ExportLoads(result.Loads); err != nil {
		return fmt.Errorf("failed to export loads: %w", err)
	}
	if err := e.ExportLaneSummary(result.Lanes); err != nil {
		return fmt.Errorf("failed to export lane summary: %w", err)
	}
	if err := e.ExportTopCarriers(result.TopCarriers); err != nil {
		return fmt.Errorf("failed to export top carriers: %w", err)
	}
	if err := e.ExportWeeklyTrend(result.WeeklyTrend); err != nil {
		return fmt.Errorf("failed to export weekly trend: %w", err)
	}
	return nil
}

// ExportLoads streams the priced load table. Unresolved rates, totals and
// gaps render as N/A, never as zero.
func (e *ReportExporter) ExportLoads(loads []domain.Load) error {
	stream, err := e.csvWriter.CreateStreamWriter(e.paths.LoadsCSV, loadHeaders)
	if err != nil {
		return err
	}

	for _, load := range loads {
		record := []string{
			load.LoadID,
			load.Warehouse,
			load.Group,
			load.PostalCode,
			load.State,
			load.CarrierCode,
			load.ShipDate.Format("2006-01-02"),
			formatInt(load.TruckCount),
			formatDecimal(load.RateCurrent),
			formatDecimal(load.RateTarget),
			load.ActualCost.String(),
			formatDecimal(load.TotalCurrent),
			formatDecimal(load.TotalTarget),
			formatDecimal(load.GapCurrent),
			formatDecimal(load.GapTarget),
			formatVerdict(load),
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write load %s: %w", load.LoadID, err)
		}
	}

	return stream.Close()
}

// ExportLaneSummary writes the warehouse-by-state KPI table.
func (e *ReportExporter) ExportLaneSummary(lanes []domain.LaneSummary) error {
	records := make([][]string, 0, len(lanes))
	for _, lane := range lanes {
		records = append(records, []string{
			lane.Warehouse,
			lane.State,
			formatInt(lane.Loads),
			formatInt(lane.Success),
			formatInt(lane.Failures),
			formatPercent(lane.SuccessRate),
			formatMoney(lane.ActualCost),
			formatMoney(lane.TargetCost),
			formatMoney(lane.Gap),
		})
	}
	return e.csvWriter.WriteSimpleCSV(e.paths.LaneSummaryCSV, laneHeaders, records)
}

// ExportTopCarriers writes the per-lane carrier share table.
func (e *ReportExporter) ExportTopCarriers(shares []domain.CarrierShare) error {
	records := make([][]string, 0, len(shares))
	for _, share := range shares {
		records = append(records, []string{
			share.Warehouse,
			share.State,
			share.CarrierCode,
			formatInt(share.Loads),
			formatPercent(share.Percent),
		})
	}
	return e.csvWriter.WriteSimpleCSV(e.paths.TopCarriersCSV, carrierHeaders, records)
}

// ExportWeeklyTrend writes the ISO-week success-rate series.
func (e *ReportExporter) ExportWeeklyTrend(trend []domain.WeeklyTrendPoint) error {
	records := make([][]string, 0, len(trend))
	for _, point := range trend {
		records = append(records, []string{
			point.Week.String(),
			formatInt(point.Loads),
			formatInt(point.Success),
			formatPercent(point.SuccessRate),
		})
	}
	return e.csvWriter.WriteSimpleCSV(e.paths.WeeklyTrendCSV, trendHeaders, records)
}

// formatVerdict renders the assignment verdict column; unresolved loads
// have no verdict.
func formatVerdict(load domain.Load) string {
	if !load.SuccessKnown {
		return notAvailable
	}
	return formatBool(load.Success)
}
