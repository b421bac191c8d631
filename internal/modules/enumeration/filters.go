package enumeration

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/bcoles/jira-scan/internal/core"
)

var (
	filterColumns = []string{"id", "name"}

	// Older releases link filters with requestId, newer ones with filter.
	requestIDProbe = regexp.MustCompile(`requestId=\d`)
	requestIDLink  = regexp.MustCompile(`requestId=(\d+)">(.+?)</a>`)
	filterIDProbe  = regexp.MustCompile(`filter=\d`)
	filterIDLink   = regexp.MustCompile(`filter=(\d+)">(.+?)</a>`)
)

// ParseFilterLinks extracts (id, name) pairs from a ManageFilters page.
func ParseFilterLinks(body string) [][]string {
	var link *regexp.Regexp
	switch {
	case requestIDProbe.MatchString(body):
		link = requestIDLink
	case filterIDProbe.MatchString(body):
		link = filterIDLink
	default:
		return nil
	}
	var rows [][]string
	for _, m := range link.FindAllStringSubmatch(body, -1) {
		rows = append(rows, m[1:])
	}
	return rows
}

type popularFiltersCheck struct {
	core.Meta
}

func (c *popularFiltersCheck) Kind() core.FindingKind { return core.KindRecords }

func (c *popularFiltersCheck) Run(ctx context.Context, target core.Target, fetcher core.Fetcher) core.Finding {
	body, reason := core.Get(ctx, fetcher, target, c.Path, http.StatusOK)
	if reason != core.ReasonOK {
		return core.Negative(core.KindRecords, filterColumns, reason)
	}
	if !strings.Contains(body, "<h1>Manage Filters</h1>") {
		return core.Negative(core.KindRecords, filterColumns, core.ReasonBody)
	}
	rows := ParseFilterLinks(body)
	if len(rows) == 0 {
		return core.Negative(core.KindRecords, filterColumns, core.ReasonBody)
	}
	return core.RecordsFinding(filterColumns, rows, core.ReasonOK)
}

func init() {
	core.RegisterCheck(&popularFiltersCheck{core.Meta{
		ID:      "popular-filters",
		Summary: "Lists popular filters from ManageFilters.jspa",
		Group:   core.CategoryEnumeration,
		Level:   core.SeverityLow,
		Path:    "secure/ManageFilters.jspa?filter=popular&filterView=popular",
		Refs:    []string{"https://jira.atlassian.com/browse/JRASERVER-23255"},
	}})
}
