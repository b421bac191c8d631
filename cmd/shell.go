// cmd/shell.go
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bcoles/jira-scan/internal/core"
	"github.com/bcoles/jira-scan/internal/core/logger"
	"github.com/bcoles/jira-scan/internal/fetch"
	"github.com/bcoles/jira-scan/internal/output"
	"github.com/spf13/cobra"
)

type ShellContext struct {
	CurrentCheck core.Check
	Target       string
	Insecure     bool
}

// StartShell runs an interactive session reading commands from in.
func StartShell(in io.Reader, out io.Writer) {
	shellCtx := &ShellContext{Insecure: config.Insecure}
	reader := bufio.NewReader(in)
	fmt.Fprintln(out, "\n🦾 Welcome to the JiraScan shell")
	for {
		prompt := "jira> "
		if shellCtx.CurrentCheck != nil {
			prompt = fmt.Sprintf("jira (%s)> ", shellCtx.CurrentCheck.Name())
		}
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" || (err != nil && line == "") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "search":
			if len(args) < 2 {
				fmt.Fprintln(out, "Usage: search <keyword>")
				continue
			}
			for _, c := range core.ListChecks() {
				if strings.Contains(strings.ToLower(c.Name()), strings.ToLower(args[1])) || strings.Contains(strings.ToLower(c.Description()), strings.ToLower(args[1])) {
					fmt.Fprintf(out, "%s\t%s\t%s\n", c.Category(), c.Name(), c.Description())
				}
			}
		case "use":
			if len(args) < 2 {
				fmt.Fprintln(out, "Usage: use <check>")
				continue
			}
			c, ok := core.GetCheck(args[1])
			if !ok {
				fmt.Fprintln(out, "Check not found.")
				continue
			}
			shellCtx.CurrentCheck = c
			fmt.Fprintf(out, "Check '%s' selected. Type 'info' for details.\n", c.Name())
		case "info":
			if shellCtx.CurrentCheck == nil {
				fmt.Fprintln(out, "No check selected.")
				continue
			}
			c := shellCtx.CurrentCheck
			fmt.Fprintf(out, "\nCheck: %s\nDescription: %s\nCategory: %s\nSeverity: %s\nEndpoint: /%s\n",
				c.Name(), c.Description(), c.Category(), c.Severity(), c.Endpoint())
			for _, ref := range c.References() {
				fmt.Fprintf(out, "Reference: %s\n", ref)
			}
		case "set":
			if len(args) < 3 {
				fmt.Fprintln(out, "Usage: set <target|insecure> <value>")
				continue
			}
			switch args[1] {
			case "target":
				shellCtx.Target = args[2]
			case "insecure":
				shellCtx.Insecure = args[2] == "true" || args[2] == "yes" || args[2] == "1"
			default:
				fmt.Fprintf(out, "Invalid option '%s'. Options: target, insecure\n", args[1])
				continue
			}
			fmt.Fprintf(out, "Set %s = %s\n", args[1], args[2])
		case "run", "scan":
			var checks []core.Check
			if args[0] == "scan" {
				checks = core.ListChecks()
			} else if shellCtx.CurrentCheck != nil {
				checks = []core.Check{shellCtx.CurrentCheck}
			} else {
				fmt.Fprintln(out, "No check selected. Use 'use <check>' or 'scan'.")
				continue
			}
			if shellCtx.Target == "" {
				fmt.Fprintln(out, "No target set. Use 'set target <url>'.")
				continue
			}
			report, err := shellRun(shellCtx, checks)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			formatted, _ := output.FormatReport(report, "console", verbose)
			fmt.Fprintln(out, formatted)
		case "back":
			shellCtx.CurrentCheck = nil
			fmt.Fprintln(out, "Back to main shell.")
		default:
			fmt.Fprintln(out, "Unknown command. Try: search, use, info, set, run, scan, back, exit")
		}
	}
}

func shellRun(shellCtx *ShellContext, checks []core.Check) (*core.Report, error) {
	target, err := core.NewTarget(shellCtx.Target)
	if err != nil {
		return nil, err
	}
	fetcher, err := fetch.New(fetch.Config{
		Insecure:       shellCtx.Insecure,
		ConnectTimeout: config.FetchTimeout(),
		ReadTimeout:    config.FetchTimeout(),
		UserAgent:      config.UserAgent,
		Proxy:          config.Proxy,
		RateLimit:      config.RateLimit,
		Logger:         logger.GetLogger(),
	})
	if err != nil {
		return nil, err
	}
	runner := core.NewRunner(fetcher, logger.GetLogger(), config.Workers)
	return runner.Run(context.Background(), target, checks), nil
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "shell",
		Short: "Interactive shell for running single checks",
		Run: func(cmd *cobra.Command, args []string) {
			StartShell(os.Stdin, os.Stdout)
		},
	})
}
