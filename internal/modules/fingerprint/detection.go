package fingerprint

import (
	"context"

	"github.com/bcoles/jira-scan/internal/core"
)

// DetectionChecks are the checks Detect runs, in order.
var DetectionChecks = []string{"detect-login", "detect-dashboard"}

// Detect runs the detection checks and reports whether either one found
// Jira. The individual findings are returned so callers can reuse them.
func Detect(ctx context.Context, target core.Target, fetcher core.Fetcher) (bool, []core.Finding) {
	var (
		found    bool
		findings []core.Finding
	)
	for _, name := range DetectionChecks {
		c, ok := core.GetCheck(name)
		if !ok {
			continue
		}
		f := core.Execute(ctx, c, target, fetcher)
		findings = append(findings, f)
		found = found || f.Positive
	}
	return found, findings
}
