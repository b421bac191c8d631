package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type recordingProgress struct {
	mu       sync.Mutex
	total    int
	done     int
	finished bool
}

func (p *recordingProgress) Start(total int) { p.total = total }
func (p *recordingProgress) Done(Finding) {
	p.mu.Lock()
	p.done++
	p.mu.Unlock()
}
func (p *recordingProgress) Finish() { p.finished = true }

func sleepyChecks(n int) []Check {
	checks := make([]Check, n)
	for i := 0; i < n; i++ {
		i := i
		checks[i] = &fakeCheck{
			Meta: Meta{ID: fmt.Sprintf("sleepy-%d", i), Group: CategoryEnumeration},
			run: func(ctx context.Context, target Target, fetcher Fetcher) Finding {
				// Later checks finish first.
				time.Sleep(time.Duration(n-i) * 5 * time.Millisecond)
				return ScalarFinding(fmt.Sprint(i), ReasonOK)
			},
		}
	}
	return checks
}

func TestRunner_PreservesOrder(t *testing.T) {
	checks := sleepyChecks(8)
	progress := &recordingProgress{}
	runner := NewRunner(&staticFetcher{status: 200}, nil, 4).WithProgress(progress)

	report := runner.Run(context.Background(), MustTarget("http://jira.local"), checks)

	if len(report.Findings) != len(checks) {
		t.Fatalf("got %d findings, want %d", len(report.Findings), len(checks))
	}
	for i, f := range report.Findings {
		if f.Check != checks[i].Name() || f.Value != fmt.Sprint(i) {
			t.Errorf("finding %d = %s/%s", i, f.Check, f.Value)
		}
		if f.Category != CategoryEnumeration || f.Severity != SeverityInfo {
			t.Errorf("finding %d not stamped: %+v", i, f)
		}
	}
	if progress.total != 8 || progress.done != 8 || !progress.finished {
		t.Errorf("progress = %+v", progress)
	}
	if report.Target != "http://jira.local/" {
		t.Errorf("report target = %q", report.Target)
	}
}

func TestRunner_PanicDoesNotAbortScan(t *testing.T) {
	checks := []Check{
		&fakeCheck{Meta: Meta{ID: "panicky"}, run: func(context.Context, Target, Fetcher) Finding {
			panic("bad body")
		}},
		&fakeCheck{Meta: Meta{ID: "fine"}, run: func(context.Context, Target, Fetcher) Finding {
			return BoolFinding(true, ReasonOK)
		}},
	}
	report := NewRunner(&staticFetcher{}, nil, 1).Run(context.Background(), MustTarget("jira.local"), checks)
	if report.Findings[0].Positive || report.Findings[0].Reason != ReasonMalformed {
		t.Errorf("panicking check finding = %+v", report.Findings[0])
	}
	if !report.Findings[1].Positive {
		t.Error("second check should still run")
	}
	if got := report.Positives(); len(got) != 1 || got[0].Check != "fine" {
		t.Errorf("Positives = %+v", got)
	}
}

func TestRunner_CancelledContextSkips(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	checks := []Check{&fakeCheck{Meta: Meta{ID: "never"}, run: func(context.Context, Target, Fetcher) Finding {
		called = true
		return BoolFinding(true, ReasonOK)
	}}}
	report := NewRunner(&staticFetcher{}, nil, 2).Run(ctx, MustTarget("jira.local"), checks)
	if called {
		t.Error("check ran after cancellation")
	}
	if f, ok := report.Finding("never"); !ok || f.Positive || f.Reason != ReasonSkipped {
		t.Errorf("finding = %+v, %v", f, ok)
	}
}

func TestExecute_Idempotent(t *testing.T) {
	check := &MarkerCheck{Meta: Meta{ID: "idem", Path: "login.jsp"}, Markers: []string{"JIRA"}}
	fetcher := &staticFetcher{status: 200, body: "<title>JIRA</title>"}
	a := Execute(context.Background(), check, MustTarget("jira.local"), fetcher)
	b := Execute(context.Background(), check, MustTarget("jira.local"), fetcher)
	if fmt.Sprintf("%#v", a) != fmt.Sprintf("%#v", b) {
		t.Errorf("findings differ: %#v vs %#v", a, b)
	}
}
