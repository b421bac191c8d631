package cmd

import (
	"os"
	"strings"

	"github.com/bcoles/jira-scan/internal/core"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listCategory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the checks in the catalog.",
	Run: func(cmd *cobra.Command, args []string) {
		checks := core.ListChecks()
		if listCategory != "" {
			checks = core.ChecksByCategory(listCategory)
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Category", "Check", "Severity", "Endpoint", "Description"})
		for _, c := range checks {
			t.AppendRow(table.Row{c.Category(), c.Name(), c.Severity(), "/" + c.Endpoint(), c.Description()})
		}
		t.AppendFooter(table.Row{"", "Total", len(checks), "", ""})
		t.Render()
		if verbose {
			for _, c := range checks {
				if refs := c.References(); len(refs) > 0 {
					cmd.Printf("%s:\n  %s\n", c.Name(), strings.Join(refs, "\n  "))
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only list checks in this category")
}
