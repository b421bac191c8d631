package core

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
)

// DashboardStats counts check outcomes while a scan runs.
type DashboardStats struct {
	Total     int
	Completed int
	Positives int
	Skipped   int
	StartTime time.Time
}

// Dashboard is a Progress sink that drives a terminal progress bar and
// prints a summary table when the scan ends.
type Dashboard struct {
	out   io.Writer
	mu    sync.Mutex
	stats DashboardStats
	bar   *progressbar.ProgressBar
}

// NewDashboard writes to out, or stderr when out is nil.
func NewDashboard(out io.Writer) *Dashboard {
	if out == nil {
		out = os.Stderr
	}
	return &Dashboard{out: out}
}

func (d *Dashboard) Start(total int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats = DashboardStats{Total: total, StartTime: time.Now()}
	d.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(d.out),
		progressbar.OptionSetDescription("Running checks"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (d *Dashboard) Done(f Finding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.Completed++
	if f.Positive {
		d.stats.Positives++
	}
	if f.Reason == ReasonSkipped {
		d.stats.Skipped++
	}
	if d.bar != nil {
		d.bar.Describe(f.Check)
		_ = d.bar.Add(1)
	}
}

func (d *Dashboard) Finish() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bar != nil {
		_ = d.bar.Finish()
	}
	t := table.NewWriter()
	t.SetOutputMirror(d.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Checks", "Positive", "Skipped", "Elapsed"})
	t.AppendRow(table.Row{
		fmt.Sprintf("%d/%d", d.stats.Completed, d.stats.Total),
		d.stats.Positives,
		d.stats.Skipped,
		time.Since(d.stats.StartTime).Truncate(time.Millisecond),
	})
	t.Render()
}

// Stats returns a snapshot of the counters.
func (d *Dashboard) Stats() DashboardStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// StartSpinner shows a spinner with suffix on stderr until the returned
// function is called.
func StartSpinner(suffix string) (stop func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}
