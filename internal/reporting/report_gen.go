// internal/reporting/report_gen.go
package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/bcoles/jira-scan/internal/core"
	"github.com/sirupsen/logrus"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// ReportGenerator renders a finished scan report to files.
type ReportGenerator struct {
	report *core.Report
	log    logrus.FieldLogger
}

// NewReportGenerator creates a new instance of ReportGenerator
func NewReportGenerator(report *core.Report, log logrus.FieldLogger) *ReportGenerator {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &ReportGenerator{report: report, log: log}
}

// SeverityCounts counts positive findings per severity.
func (r *ReportGenerator) SeverityCounts() map[string]int {
	counts := map[string]int{}
	for _, f := range r.report.Positives() {
		counts[f.Severity]++
	}
	return counts
}

// RiskLevel is the highest severity among positive findings.
func (r *ReportGenerator) RiskLevel() string {
	counts := r.SeverityCounts()
	for _, sev := range []string{core.SeverityHigh, core.SeverityMedium, core.SeverityLow} {
		if counts[sev] > 0 {
			return sev
		}
	}
	return core.SeverityInfo
}

func riskColor(level string) string {
	switch level {
	case core.SeverityHigh:
		return "#e74c3c"
	case core.SeverityMedium:
		return "#f39c12"
	case core.SeverityLow:
		return "#3498db"
	}
	return "#27ae60"
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>JiraScan Report - {{.Report.Target}}</title>
    <style>
        body { font-family: sans-serif; margin: 20px; background-color: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; }
        h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
        .risk { background: {{.RiskColor}}; color: white; padding: 15px; border-radius: 8px; font-weight: bold; }
        table { border-collapse: collapse; margin: 8px 0 16px 0; }
        td, th { border: 1px solid #ddd; padding: 4px 8px; text-align: left; }
        .positive { color: #c0392b; font-weight: bold; }
        .negative { color: #7f8c8d; }
    </style>
</head>
<body>
<div class="container">
    <h1>JiraScan Report</h1>
    <p>Target: <code>{{.Report.Target}}</code></p>
    <p>Scan started {{.Started}}, finished {{.Finished}}</p>
    <div class="risk">Risk level: {{.Risk}} ({{len .Positives}} of {{len .Report.Findings}} checks positive)</div>
    <h2>Findings</h2>
    {{range .Report.Findings}}
    <h3 class="{{if .Positive}}positive{{else}}negative{{end}}">[{{.Severity}}] {{.Check}}: {{.Summary}}</h3>
    {{if and .Positive .Rows}}
    <table>
        <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
        {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
    </table>
    {{end}}
    {{end}}
</div>
</body>
</html>
`))

// GenerateHTMLReport writes a self-contained HTML report to outputPath.
func (r *ReportGenerator) GenerateHTMLReport(outputPath string) error {
	r.log.Infof("Generating HTML report and saving to %s...", outputPath)
	content, err := r.HTML()
	if err != nil {
		r.log.Errorf("Failed to render HTML report: %v", err)
		return fmt.Errorf("failed to prepare report data: %w", err)
	}
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		r.log.Errorf("Failed to write HTML report to %s: %v", outputPath, err)
		return fmt.Errorf("%w: %v", core.ErrFileWrite, err)
	}
	r.log.Info("HTML report generated successfully.")
	return nil
}

// HTML renders the report. Target-controlled strings are escaped.
func (r *ReportGenerator) HTML() ([]byte, error) {
	risk := r.RiskLevel()
	data := map[string]interface{}{
		"Report":    r.report,
		"Positives": r.report.Positives(),
		"Risk":      risk,
		"RiskColor": template.CSS(riskColor(risk)),
		"Started":   r.report.StartedAt.Format(timeLayout),
		"Finished":  r.report.FinishedAt.Format(timeLayout),
	}
	var buf bytes.Buffer
	if err := htmlReport.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateJSONReport writes the report as indented JSON.
func (r *ReportGenerator) GenerateJSONReport(outputPath string) error {
	data, err := json.MarshalIndent(r.report, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		r.log.Errorf("Failed to write JSON report to %s: %v", outputPath, err)
		return fmt.Errorf("%w: %v", core.ErrFileWrite, err)
	}
	return nil
}
