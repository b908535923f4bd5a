// Package exporter writes audit run results to disk.
//
// Three components:
//
// CSVWriter: core CSV writing with UTF-8 BOM for Excel compatibility and
// streaming support for large load sets.
//
// ReportExporter: the per-run CSV reports, one file per view: the priced
// loads, the lane summary, the top carriers table and the weekly trend.
//
// HTMLReporter: the self-contained KPI report page rendered from the same
// run result.
package exporter
