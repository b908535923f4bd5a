package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"otta/internal/errors"
	"otta/pkg/contracts/domain"
)

// Column names expected in the raw inputs. Header matching trims
// surrounding whitespace but is otherwise exact.
var (
	requiredShipmentColumns = []string{
		"LOAD_ID", "CARRIER_CODE", "SHIP_DATE", "TRANSPORT_MODE",
		"POSTALCODE", "STATE", "SHIPMENT_ESTIMATE",
	}
	requiredTariffColumns = []string{
		"ORIGIN", "GROUP", "POSTAL CODE FROM", "POSTAL CODE TO",
		"2024 RATE", "2025 TARGET",
	}
	requiredExclusionColumns = []string{"COLUMN", "EXCLUDE_VALUE"}
	requiredRemapColumns     = []string{"LOAD_ID", "REAL_CARRIER_CODE"}
)

// Parser reads the audit input files. Shipment and tariff data may arrive
// as .xlsx workbooks or .csv files; exclusion rules and the carrier remap
// are always CSV.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new input parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ReadShipmentFile reads shipment line items from an .xlsx or .csv file.
// Required columns are validated before any row is converted; a missing
// column is a fatal validation error (never a partial result).
func (p *Parser) ReadShipmentFile(path string) ([]domain.ShipmentLine, error) {
	headers, rows, err := p.readTable(path)
	if err != nil {
		return nil, err
	}

	cols, err := mapColumns(headers, requiredShipmentColumns, "shipment data")
	if err != nil {
		return nil, err
	}

	lines := make([]domain.ShipmentLine, 0, len(rows))
	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}
		line := domain.ShipmentLine{
			LoadID:        cell(row, cols, "LOAD_ID"),
			CarrierCode:   cell(row, cols, "CARRIER_CODE"),
			ShipDateRaw:   cell(row, cols, "SHIP_DATE"),
			ShipFromZip:   cell(row, cols, "SHIP_FROM_ZIP"),
			DepotZip:      cell(row, cols, "DC_POSTAL"),
			State:         cell(row, cols, "STATE"),
			TransportMode: cell(row, cols, "TRANSPORT_MODE"),
			DestPostal:    cell(row, cols, "POSTALCODE"),
			Estimate:      parseMoney(cell(row, cols, "SHIPMENT_ESTIMATE")),
		}
		if line.LoadID == "" {
			continue
		}
		lines = append(lines, line)
	}

	p.logger.Info("parsed shipment data",
		slog.String("path", filepath.Base(path)),
		slog.Int("lines", len(lines)))

	return lines, nil
}

// ReadTariffFile reads the tariff table from an .xlsx or .csv file.
// Rows with an unusable key or inverted postal range are skipped with a
// warning; they can never match a load.
func (p *Parser) ReadTariffFile(path string) ([]domain.TariffBand, error) {
	headers, rows, err := p.readTable(path)
	if err != nil {
		return nil, err
	}

	cols, err := mapColumns(headers, requiredTariffColumns, "tariff data")
	if err != nil {
		return nil, err
	}

	bands := make([]domain.TariffBand, 0, len(rows))
	for i, row := range rows {
		if rowEmpty(row) {
			continue
		}
		band := domain.TariffBand{
			Origin:      cell(row, cols, "ORIGIN"),
			Group:       cell(row, cols, "GROUP"),
			PostalFrom:  parsePostal(cell(row, cols, "POSTAL CODE FROM")),
			PostalTo:    parsePostal(cell(row, cols, "POSTAL CODE TO")),
			RateCurrent: parseMoney(cell(row, cols, "2024 RATE")),
			RateTarget:  parseMoney(cell(row, cols, "2025 TARGET")),
		}
		if !band.IsValid() {
			p.logger.Warn("skipping unusable tariff row",
				slog.Int("row", i+2),
				slog.String("band", band.String()))
			continue
		}
		bands = append(bands, band)
	}

	p.logger.Info("parsed tariff data",
		slog.String("path", filepath.Base(path)),
		slog.Int("bands", len(bands)))

	return bands, nil
}

// ReadExclusionFile reads the exclusion rule set from a CSV file.
func (p *Parser) ReadExclusionFile(path string) ([]domain.ExclusionRule, error) {
	headers, rows, err := p.readCSV(path, false)
	if err != nil {
		return nil, err
	}

	cols, err := mapColumns(headers, requiredExclusionColumns, "exclusion config")
	if err != nil {
		return nil, err
	}

	rules := make([]domain.ExclusionRule, 0, len(rows))
	for _, row := range rows {
		rule := domain.ExclusionRule{
			Column: cell(row, cols, "COLUMN"),
			Value:  cell(row, cols, "EXCLUDE_VALUE"),
		}
		if rule.Column == "" {
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ReadRemapFile reads the placeholder-carrier remap from a CSV file.
// Entries without a real carrier code are dropped: an empty remap cannot
// rescue a placeholder-coded line.
func (p *Parser) ReadRemapFile(path string) (map[string]string, error) {
	headers, rows, err := p.readCSV(path, false)
	if err != nil {
		return nil, err
	}

	cols, err := mapColumns(headers, requiredRemapColumns, "carrier remap")
	if err != nil {
		return nil, err
	}

	remap := make(map[string]string, len(rows))
	for _, row := range rows {
		loadID := cell(row, cols, "LOAD_ID")
		carrier := cell(row, cols, "REAL_CARRIER_CODE")
		if loadID == "" || carrier == "" {
			continue
		}
		remap[loadID] = carrier
	}
	return remap, nil
}

// readTable dispatches on file extension: .xlsx via excelize, everything
// else as CSV. The shipment export is latin1-encoded CSV, so the CSV path
// decodes through latin1 the way the upstream system writes it.
func (p *Parser) readTable(path string) ([]string, [][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return p.readExcel(path)
	}
	return p.readCSV(path, true)
}

// readExcel reads the first sheet of a workbook, treating the first row as
// the header.
func (p *Parser) readExcel(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("failed to open workbook %s", filepath.Base(path)), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", filepath.Base(path)), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %s", sheets[0]), err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("workbook %s is empty", filepath.Base(path)), nil)
	}

	return rows[0], rows[1:], nil
}

// readCSV reads a CSV file, optionally through a latin1 decoder.
func (p *Parser) readCSV(path string, latin1 bool) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("failed to open %s", filepath.Base(path)), err)
	}
	defer file.Close()

	var reader *csv.Reader
	if latin1 {
		reader = csv.NewReader(transform.NewReader(file, charmap.ISO8859_1.NewDecoder()))
	} else {
		reader = csv.NewReader(file)
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("failed to read %s", filepath.Base(path)), err)
	}
	if len(records) == 0 {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("%s is empty", filepath.Base(path)), nil)
	}

	return records[0], records[1:], nil
}

// mapColumns maps trimmed header names to their positions and verifies the
// required set is present.
func mapColumns(headers []string, required []string, what string) (map[string]int, error) {
	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := cols[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewValidationError(
			fmt.Sprintf("%s is missing required columns: %s", what, strings.Join(missing, ", ")))
	}
	return cols, nil
}

// cell returns the trimmed value of the named column, or "" when the column
// is absent or the row is short.
func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// rowEmpty reports whether every cell of the row is blank.
func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseMoney parses a money cell, tolerating thousands separators.
// Unparsable cells become zero, matching how the rest of the raw feed is
// treated: cell-level noise is not fatal.
func parseMoney(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parsePostal parses a postal bound. Spreadsheet exports sometimes render
// integers as floats ("54600.0"), so parse through float and truncate.
func parsePostal(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
