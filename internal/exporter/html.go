package exporter

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"otta/internal/audit"
	"otta/internal/config"
	"otta/pkg/contracts/domain"
)

// HTMLReporter renders the self-contained KPI report page for one run.
type HTMLReporter struct {
	paths *config.Paths
	tmpl  *template.Template
}

// NewHTMLReporter creates an HTML reporter rooted at the given paths.
func NewHTMLReporter(paths *config.Paths) *HTMLReporter {
	funcs := template.FuncMap{
		"money":     formatMoney,
		"moneyNull": formatMoneyNull,
		"percent":   formatPercent,
	}
	return &HTMLReporter{
		paths: paths,
		tmpl:  template.Must(template.New("kpi").Funcs(funcs).Parse(kpiReportTemplate)),
	}
}

type kpiReportData struct {
	RunID       string
	GeneratedAt string

	Metrics     domain.RunMetrics
	SuccessRate string

	Lanes       []domain.LaneSummary
	TopCarriers []domain.CarrierShare
	WeeklyTrend []domain.WeeklyTrendPoint
	Warnings    []domain.QualityWarning
}

// Export renders the KPI report to the configured HTML path.
func (r *HTMLReporter) Export(result *audit.Result) error {
	data := kpiReportData{
		RunID:       result.RunID,
		GeneratedAt: result.FinishedAt.Format("2006-01-02 15:04:05"),
		Metrics:     result.Metrics,
		SuccessRate: notAvailable,
		Lanes:       result.Lanes,
		TopCarriers: result.TopCarriers,
		WeeklyTrend: result.WeeklyTrend,
		Warnings:    result.Warnings,
	}
	if result.Metrics.SuccessRateKnown {
		data.SuccessRate = formatPercent(result.Metrics.SuccessRate * 100)
	}

	if err := os.MkdirAll(filepath.Dir(r.paths.KPIReportHTML), 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	file, err := os.Create(r.paths.KPIReportHTML)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := r.tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

const kpiReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Trucking Assignment Audit {{.RunID}}</title>
<style>
body { font-family: "Segoe UI", Arial, sans-serif; margin: 2rem; color: #1a202c; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
table { border-collapse: collapse; margin-top: 0.5rem; }
th, td { border: 1px solid #cbd5e0; padding: 0.3rem 0.7rem; text-align: right; }
th { background: #edf2f7; }
td:first-child, th:first-child { text-align: left; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; margin-top: 1rem; }
.card { border: 1px solid #cbd5e0; border-radius: 6px; padding: 0.8rem 1.2rem; min-width: 10rem; }
.card .label { font-size: 0.75rem; color: #718096; text-transform: uppercase; }
.card .value { font-size: 1.2rem; font-weight: 600; margin-top: 0.2rem; }
.warning { color: #975a16; }
footer { margin-top: 2.5rem; font-size: 0.75rem; color: #718096; }
</style>
</head>
<body>
<h1>Trucking Assignment Audit</h1>
<p>Run {{.RunID}} generated {{.GeneratedAt}}</p>

<div class="cards">
<div class="card"><div class="label">Loads</div><div class="value">{{.Metrics.TotalLoads}}</div></div>
<div class="card"><div class="label">Success rate</div><div class="value">{{.SuccessRate}}</div></div>
<div class="card"><div class="label">Unresolved</div><div class="value">{{.Metrics.UnresolvedLoads}}</div></div>
<div class="card"><div class="label">Actual cost</div><div class="value">{{money .Metrics.ActualCost}}</div></div>
<div class="card"><div class="label">Target cost</div><div class="value">{{money .Metrics.ProjectedTarget}}</div></div>
<div class="card"><div class="label">Gap vs target</div><div class="value">{{money .Metrics.GapTarget}}</div></div>
</div>

<h2>Lanes</h2>
<table>
<tr><th>Warehouse</th><th>State</th><th>Loads</th><th>Success</th><th>Failures</th><th>Rate</th><th>Actual</th><th>Target</th><th>Gap</th></tr>
{{range .Lanes}}<tr>
<td>{{.Warehouse}}</td><td>{{.State}}</td><td>{{.Loads}}</td><td>{{.Success}}</td><td>{{.Failures}}</td>
<td>{{percent .SuccessRate}}</td><td>{{money .ActualCost}}</td><td>{{money .TargetCost}}</td><td>{{money .Gap}}</td>
</tr>{{end}}
</table>

<h2>Top carriers per lane</h2>
<table>
<tr><th>Warehouse</th><th>State</th><th>Carrier</th><th>Loads</th><th>Share</th></tr>
{{range .TopCarriers}}<tr>
<td>{{.Warehouse}}</td><td>{{.State}}</td><td>{{.CarrierCode}}</td><td>{{.Loads}}</td><td>{{percent .Percent}}</td>
</tr>{{end}}
</table>

<h2>Weekly trend</h2>
<table>
<tr><th>Week</th><th>Loads</th><th>Success</th><th>Rate</th></tr>
{{range .WeeklyTrend}}<tr>
<td>{{.Week}}</td><td>{{.Loads}}</td><td>{{.Success}}</td><td>{{percent .SuccessRate}}</td>
</tr>{{end}}
</table>

{{if .Warnings}}
<h2>Data quality warnings</h2>
<ul>
{{range .Warnings}}<li class="warning">{{.Code}}: {{.Message}}</li>{{end}}
</ul>
{{end}}

<footer>Generated by OTTA Trucking Assignment Audit</footer>
</body>
</html>
`
