package core

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDashboard_Stats(t *testing.T) {
	var out bytes.Buffer
	d := NewDashboard(&out)
	d.Start(3)
	d.Done(Finding{Check: "a", Positive: true, Reason: ReasonOK})
	d.Done(Finding{Check: "b", Reason: ReasonStatus})
	d.Done(Finding{Check: "c", Reason: ReasonSkipped})
	d.Finish()

	stats := d.Stats()
	if stats.Total != 3 || stats.Completed != 3 || stats.Positives != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if !strings.Contains(out.String(), "3/3") {
		t.Errorf("summary table missing counts:\n%s", out.String())
	}
}

func TestDashboard_DrivenByRunner(t *testing.T) {
	var out bytes.Buffer
	d := NewDashboard(&out)
	NewRunner(&staticFetcher{status: 200}, nil, 2).WithProgress(d).Run(context.Background(), MustTarget("http://jira.local"), sleepyChecks(4))
	if got := d.Stats(); got.Total != 4 || got.Completed != 4 {
		t.Errorf("stats = %+v", got)
	}
}
