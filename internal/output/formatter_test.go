package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bcoles/jira-scan/internal/core"
)

func sampleReport() *core.Report {
	version := core.ScalarFinding("8.5.2-#805002", core.ReasonOK)
	version.Check, version.Category, version.Severity = "version-dashboard", core.CategoryFingerprint, core.SeverityInfo
	users := core.RecordsFinding([]string{"name", "fullname"}, [][]string{{"admin", "Administrator"}, {"jdoe", "John Doe"}}, core.ReasonOK)
	users.Check, users.Category, users.Severity = "users", core.CategoryEnumeration, core.SeverityMedium
	dev := core.BoolFinding(false, core.ReasonStatus)
	dev.Check, dev.Category, dev.Severity = "dev-mode", core.CategoryMisconfig, core.SeverityLow
	return &core.Report{Target: "http://jira.local/", Findings: []core.Finding{version, dev, users}}
}

func TestFormatReport_JSON(t *testing.T) {
	out, err := FormatReport(sampleReport(), "json", false)
	if err != nil {
		t.Fatalf("FormatReport returned an error: %v", err)
	}
	var decoded core.Report
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded.Findings) != 3 || decoded.Findings[0].Value != "8.5.2-#805002" {
		t.Errorf("unexpected findings %+v", decoded.Findings)
	}
	if strings.Contains(out, string(core.ReasonStatus)) {
		t.Error("JSON output should not expose the internal reason")
	}
}

func TestFormatReport_CSV(t *testing.T) {
	out, err := FormatReport(sampleReport(), "csv", false)
	if err != nil {
		t.Fatalf("FormatReport returned an error: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	// header, version, dev-mode, two user rows
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d: %v", len(records), records)
	}
	if records[4][1] != "users" || records[4][5] != "jdoe | John Doe" {
		t.Errorf("last record = %v", records[4])
	}
}

func TestFormatReport_Text(t *testing.T) {
	out, err := FormatReport(sampleReport(), "txt", false)
	if err != nil {
		t.Fatalf("FormatReport returned an error: %v", err)
	}
	for _, want := range []string{"version-dashboard: 8.5.2-#805002\r\n", "dev-mode: no\r\n", "  admin\tAdministrator\r\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatReport_Console(t *testing.T) {
	out, err := FormatReport(sampleReport(), "console", true)
	if err != nil {
		t.Fatalf("FormatReport returned an error: %v", err)
	}
	for _, want := range []string{"version-dashboard", "dev-mode", "jdoe", "2 of 3 checks positive", string(core.ReasonStatus)} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q", want)
		}
	}
	quiet, _ := FormatReport(sampleReport(), "console", false)
	if strings.Contains(quiet, string(core.ReasonStatus)) {
		t.Error("reasons should only be shown when verbose")
	}
}

func TestFormatReport_Unsupported(t *testing.T) {
	if _, err := FormatReport(sampleReport(), "xml", false); !errors.Is(err, core.ErrOutputFormat) {
		t.Errorf("expected ErrOutputFormat, got %v", err)
	}
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteOutput(path, "hello"); err != nil {
		t.Fatalf("WriteOutput returned an error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Errorf("file contents = %q, %v", data, err)
	}
	if err := WriteOutput(filepath.Join(t.TempDir(), "missing", "out.txt"), "x"); !errors.Is(err, core.ErrFileWrite) {
		t.Errorf("expected ErrFileWrite, got %v", err)
	}
}
