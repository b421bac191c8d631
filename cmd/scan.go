// cmd/scan.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bcoles/jira-scan/internal/core"
	"github.com/bcoles/jira-scan/internal/core/logger"
	"github.com/bcoles/jira-scan/internal/fetch"
	"github.com/bcoles/jira-scan/internal/modules/fingerprint"
	"github.com/bcoles/jira-scan/internal/output"
	"github.com/bcoles/jira-scan/internal/reporting"
	"github.com/spf13/cobra"
)

var (
	scanURL        string
	scanChecks     string
	scanWorkers    int
	scanTimeout    int
	scanDeadline   time.Duration
	scanRate       float64
	scanProxy      string
	scanUserAgent  string
	scanOutputPath string
	scanFormat     string
	scanForce      bool
	scanNoProgress bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a Jira instance for misconfigurations and information disclosure.",
	Long: `Scan detects Jira on the target URL, then runs the selected checks
from the catalog and prints a report. Checks may be selected by name or by
category (fingerprint, misconfiguration, exposure, enumeration).`,
	Example: `  jira-scan scan -u https://jira.example.com/
  jira-scan scan -u https://jira.example.com/ --checks fingerprint,users -k
  jira-scan scan -u https://jira.example.com/ -o report.html -f html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyScanFlags(cmd)
		if err := config.Validate(); err != nil {
			return err
		}
		// Status lines go to stderr so that stdout carries only the report.
		stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
		printBanner(stderr)
		log := logger.GetLogger()

		target, err := core.NewTarget(scanURL)
		if err != nil {
			return err
		}
		checks, err := core.SelectChecks(config.Checks)
		if err != nil {
			return err
		}
		fetcher, err := fetch.New(fetch.Config{
			Insecure:       config.Insecure,
			ConnectTimeout: config.FetchTimeout(),
			ReadTimeout:    config.FetchTimeout(),
			UserAgent:      config.UserAgent,
			Proxy:          config.Proxy,
			RateLimit:      config.RateLimit,
			Logger:         log,
		})
		if err != nil {
			return err
		}

		ctx := context.Background()
		if d, _ := config.DeadlineDuration(); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}

		infoColor.Fprintf(stderr, "\n🔎 Starting JiraScan against %s\n", target)
		stop := core.StartSpinner("Detecting Jira...")
		found, detection := fingerprint.Detect(ctx, target, fetcher)
		stop()
		if !found {
			if !scanForce {
				return fmt.Errorf("%s does not appear to be running Jira (use --force to scan anyway)", target)
			}
			warnColor.Fprintln(stderr, "⚠️  Jira not detected, continuing because of --force")
		} else {
			okColor.Fprintln(stderr, "🎯 Jira detected")
		}

		runner := core.NewRunner(fetcher, log, config.Workers)
		if !scanNoProgress {
			runner.WithProgress(core.NewDashboard(stderr))
		}
		report := runner.Run(ctx, target, withoutDetection(checks))
		report.Findings = mergeDetection(checks, detection, report.Findings)
		log.Infof("Scan of %s completed: %d positive findings", target, len(report.Positives()))

		return emitReport(stdout, stderr, report, config.Format, config.Output)
	},
}

// applyScanFlags lays explicitly set flags over the loaded config.
func applyScanFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("checks") {
		config.Checks = strings.Split(scanChecks, ",")
	}
	if flags.Changed("workers") {
		config.Workers = scanWorkers
	}
	if flags.Changed("timeout") {
		config.Timeout = scanTimeout
	}
	if flags.Changed("deadline") {
		config.Deadline = scanDeadline.String()
	}
	if flags.Changed("rate") {
		config.RateLimit = scanRate
	}
	if flags.Changed("proxy") {
		config.Proxy = scanProxy
	}
	if flags.Changed("user-agent") {
		config.UserAgent = scanUserAgent
	}
	if flags.Changed("output") {
		config.Output = scanOutputPath
	}
	if flags.Changed("format") {
		config.Format = scanFormat
	}
}

func isDetection(name string) bool {
	for _, d := range fingerprint.DetectionChecks {
		if d == name {
			return true
		}
	}
	return false
}

func withoutDetection(checks []core.Check) []core.Check {
	var out []core.Check
	for _, c := range checks {
		if !isDetection(c.Name()) {
			out = append(out, c)
		}
	}
	return out
}

// mergeDetection puts the detection findings back in catalog order for the
// checks the user selected.
func mergeDetection(checks []core.Check, detection, rest []core.Finding) []core.Finding {
	byName := map[string]core.Finding{}
	for _, f := range append(detection, rest...) {
		byName[f.Check] = f
	}
	merged := make([]core.Finding, 0, len(checks))
	for _, c := range checks {
		if f, ok := byName[c.Name()]; ok {
			merged = append(merged, f)
		}
	}
	return merged
}

// emitReport prints the report to stdout, or saves it to path when one is
// given. Notices about saved files go to stderr.
func emitReport(stdout, stderr io.Writer, report *core.Report, format, path string) error {
	switch {
	case format == "html":
		if path == "" {
			return fmt.Errorf("%w: html requires --output", core.ErrOutputFormat)
		}
		if err := reporting.NewReportGenerator(report, logger.GetLogger()).GenerateHTMLReport(path); err != nil {
			return err
		}
		infoColor.Fprintf(stderr, "📄 Report saved to %s\n", path)
		return nil
	case format == "json" && path != "":
		if err := reporting.NewReportGenerator(report, logger.GetLogger()).GenerateJSONReport(path); err != nil {
			return err
		}
		infoColor.Fprintf(stderr, "📄 Report saved to %s\n", path)
		return nil
	}
	formatted, err := output.FormatReport(report, format, verbose)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(stdout, formatted)
		return nil
	}
	if err := output.WriteOutput(path, formatted); err != nil {
		return err
	}
	infoColor.Fprintf(stderr, "📄 Results saved to %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanURL, "url", "u", "", "Jira base URL (required)")
	scanCmd.Flags().StringVarP(&scanChecks, "checks", "c", "all", "Comma-separated checks or categories to run")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 1, "Number of checks to run in parallel")
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 20, "Connect and read timeout in seconds")
	scanCmd.Flags().DurationVar(&scanDeadline, "deadline", 0, "Overall scan deadline (e.g. 2m); 0 disables")
	scanCmd.Flags().Float64Var(&scanRate, "rate", 0, "Maximum requests per second; 0 disables")
	scanCmd.Flags().StringVar(&scanProxy, "proxy", "", "HTTP proxy URL")
	scanCmd.Flags().StringVar(&scanUserAgent, "user-agent", core.UserAgent(), "User-Agent header")
	scanCmd.Flags().StringVarP(&scanOutputPath, "output", "o", "", "Output file to save results.")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "console", "Output format: console, json, txt, csv, html.")
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "Run the checks even when Jira is not detected")
	scanCmd.Flags().BoolVar(&scanNoProgress, "no-progress", false, "Disable the progress bar")
	scanCmd.MarkFlagRequired("url")
}
