// internal/core/runner.go
package core

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// Progress receives runner lifecycle events. All methods may be called from
// worker goroutines.
type Progress interface {
	Start(total int)
	Done(f Finding)
	Finish()
}

// Report is the assembled result of one scan against one target.
type Report struct {
	Target     string    `json:"target"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Findings   []Finding `json:"findings"`
}

// Positives returns the findings that reported something.
func (r *Report) Positives() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Positive {
			out = append(out, f)
		}
	}
	return out
}

// Finding returns the finding produced by the named check, if it ran.
func (r *Report) Finding(check string) (Finding, bool) {
	for _, f := range r.Findings {
		if f.Check == check {
			return f, true
		}
	}
	return Finding{}, false
}

// Runner executes checks against a target on a bounded worker pool.
type Runner struct {
	fetcher  Fetcher
	log      logrus.FieldLogger
	workers  int
	progress Progress
}

// NewRunner builds a runner. workers below 1 means sequential execution.
func NewRunner(fetcher Fetcher, log logrus.FieldLogger, workers int) *Runner {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{fetcher: fetcher, log: log, workers: workers}
}

// WithProgress attaches a progress sink.
func (r *Runner) WithProgress(p Progress) *Runner {
	r.progress = p
	return r
}

// Run executes checks and returns a report whose findings are in the same
// order as checks, whatever order they completed in. Checks not started
// before ctx is done are recorded as skipped.
func (r *Runner) Run(ctx context.Context, target Target, checks []Check) *Report {
	report := &Report{
		Target:    target.String(),
		StartedAt: time.Now(),
		Findings:  make([]Finding, len(checks)),
	}
	if r.progress != nil {
		r.progress.Start(len(checks))
		defer r.progress.Finish()
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(r.workers, func(item interface{}) {
		defer wg.Done()
		i := item.(int)
		report.Findings[i] = r.runOne(ctx, target, checks[i])
		if r.progress != nil {
			r.progress.Done(report.Findings[i])
		}
	})
	if err != nil {
		r.log.Warnf("Worker pool unavailable, running sequentially: %v", err)
		for i, c := range checks {
			report.Findings[i] = r.runOne(ctx, target, c)
			if r.progress != nil {
				r.progress.Done(report.Findings[i])
			}
		}
		report.FinishedAt = time.Now()
		return report
	}
	defer pool.Release()

	for i := range checks {
		wg.Add(1)
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			r.log.Errorf("Could not schedule %s: %v", checks[i].Name(), err)
			report.Findings[i] = stamp(Negative(kindOf(checks[i]), nil, ReasonSkipped), checks[i])
		}
	}
	wg.Wait()
	report.FinishedAt = time.Now()
	return report
}

func (r *Runner) runOne(ctx context.Context, target Target, c Check) Finding {
	if ctx.Err() != nil {
		r.log.Debugf("Skipping %s: %v", c.Name(), ctx.Err())
		return stamp(Negative(kindOf(c), nil, ReasonSkipped), c)
	}
	f := Execute(ctx, c, target, r.fetcher)
	r.log.WithFields(logrus.Fields{
		"check":    f.Check,
		"positive": f.Positive,
		"reason":   f.Reason,
	}).Debug("Check finished")
	return f
}

// Execute runs a single check, recovering from panics, and stamps the
// finding with the check's metadata.
func Execute(ctx context.Context, c Check, target Target, fetcher Fetcher) (f Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			f = stamp(Negative(kindOf(c), nil, ReasonMalformed), c)
		}
	}()
	return stamp(c.Run(ctx, target, fetcher), c)
}

// KindOf is implemented by checks that know their finding kind up front, so
// that skipped checks still render correctly.
type KindOf interface {
	Kind() FindingKind
}

func kindOf(c Check) FindingKind {
	if k, ok := c.(KindOf); ok {
		return k.Kind()
	}
	return KindBool
}

func stamp(f Finding, c Check) Finding {
	f.Check = c.Name()
	f.Category = c.Category()
	f.Severity = c.Severity()
	return f
}
