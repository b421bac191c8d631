// internal/output/formatter.go
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bcoles/jira-scan/internal/core"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	positiveColor = color.New(color.FgGreen).SprintFunc()
	negativeColor = color.New(color.FgHiBlack).SprintFunc()
	headerColor   = color.New(color.FgCyan, color.Bold).SprintFunc()
	severityColor = map[string]func(a ...interface{}) string{
		core.SeverityHigh:   color.New(color.FgRed, color.Bold).SprintFunc(),
		core.SeverityMedium: color.New(color.FgYellow).SprintFunc(),
		core.SeverityLow:    color.New(color.FgBlue).SprintFunc(),
		core.SeverityInfo:   color.New(color.FgWhite).SprintFunc(),
	}
)

// FormatReport renders report in outputFormat (console, json, txt or csv).
// With verbose set, console output also explains negative findings.
func FormatReport(report *core.Report, outputFormat string, verbose bool) (string, error) {
	switch outputFormat {
	case "json":
		jsonData, err := json.MarshalIndent(report, "", "    ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(jsonData), nil
	case "txt":
		return formatText(report), nil
	case "csv":
		return formatCSV(report)
	case "console":
		return formatConsole(report, verbose), nil
	default:
		return "", fmt.Errorf("%w: %s", core.ErrOutputFormat, outputFormat)
	}
}

func formatText(report *core.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "target: %s\r\n", report.Target)
	for _, f := range report.Findings {
		fmt.Fprintf(&b, "%s: %s\r\n", f.Check, f.Summary())
		for _, row := range f.Rows {
			fmt.Fprintf(&b, "  %s\r\n", strings.Join(row, "\t"))
		}
	}
	return b.String()
}

func formatCSV(report *core.Report) (string, error) {
	var b strings.Builder
	writer := csv.NewWriter(&b)
	if err := writer.Write([]string{"target", "check", "category", "severity", "positive", "value"}); err != nil { // CSV header
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, f := range report.Findings {
		values := []string{f.Value}
		if len(f.Rows) > 0 {
			values = values[:0]
			for _, row := range f.Rows {
				values = append(values, strings.Join(row, " | "))
			}
		}
		for _, v := range values {
			record := []string{report.Target, f.Check, f.Category, f.Severity, fmt.Sprint(f.Positive), v}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("failed to write finding to CSV: %w", err)
			}
		}
	}
	writer.Flush()
	return b.String(), writer.Error()
}

func formatConsole(report *core.Report, verbose bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n--- JiraScan results for %s ---\n", report.Target)
	category := ""
	for _, f := range report.Findings {
		if f.Category != category {
			category = f.Category
			fmt.Fprintf(&b, "\n%s\n", headerColor(strings.ToUpper(category)))
		}
		mark, summary := "❌", negativeColor(f.Summary())
		if f.Positive {
			mark, summary = "✅", positiveColor(f.Summary())
		}
		sev := f.Severity
		if paint, ok := severityColor[sev]; ok {
			sev = paint(sev)
		}
		line := fmt.Sprintf("  %s [%s] %s: %s", mark, sev, f.Check, summary)
		if verbose && !f.Positive && f.Reason != "" {
			line += negativeColor(fmt.Sprintf(" (%s)", f.Reason))
		}
		b.WriteString(line + "\n")
		if f.Positive && len(f.Rows) > 0 {
			b.WriteString(renderTable(f.Columns, f.Rows))
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "\n%d of %d checks positive\n------------------------------------\n",
		len(report.Positives()), len(report.Findings))
	return b.String()
}

func renderTable(columns []string, rows [][]string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	header := table.Row{}
	for _, c := range columns {
		header = append(header, c)
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := table.Row{}
		for _, cell := range row {
			r = append(r, cell)
		}
		t.AppendRow(r)
	}
	return indent(t.Render(), "    ")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// WriteOutput writes content to a specified file.
func WriteOutput(filepath string, content string) error {
	err := os.WriteFile(filepath, []byte(content), 0644) // 0644 is standard file permissions
	if err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrFileWrite, filepath, err)
	}
	return nil
}
