package enumeration

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bcoles/jira-scan/internal/core"
)

var fieldColumns = []string{"name", "id", "key", "isShown", "lastViewed"}

// queryComponentDoc is the part of the QueryComponent reply we read:
// searchers.groups[].searchers[].
type queryComponentDoc struct {
	Searchers struct {
		Groups []struct {
			Searchers []map[string]json.RawMessage `json:"searchers"`
		} `json:"groups"`
	} `json:"searchers"`
}

// fieldNamesCheck lists the searchable fields leaked by QueryComponent
// actions (CVE-2020-14179).
type fieldNamesCheck struct {
	core.Meta
}

func (c *fieldNamesCheck) Kind() core.FindingKind { return core.KindRecords }

func (c *fieldNamesCheck) Run(ctx context.Context, target core.Target, fetcher core.Fetcher) core.Finding {
	body, reason := core.Get(ctx, fetcher, target, c.Path, http.StatusOK)
	if reason != core.ReasonOK {
		return core.Negative(core.KindRecords, fieldColumns, reason)
	}
	if !core.HasShape(body, `{"searchers"`) {
		return core.Negative(core.KindRecords, fieldColumns, core.ReasonBody)
	}
	var doc queryComponentDoc
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return core.Negative(core.KindRecords, fieldColumns, core.ReasonMalformed)
	}
	var rows [][]string
	for _, g := range doc.Searchers.Groups {
		rows = append(rows, core.PickAll(g.Searchers, fieldColumns...)...)
	}
	return core.RecordsFinding(fieldColumns, rows, core.ReasonOK)
}

func init() {
	refs := []string{
		"https://jira.atlassian.com/browse/JRASERVER-71536",
		"https://jira.atlassian.com/browse/JRACLOUD-75661",
	}
	core.RegisterCheck(&fieldNamesCheck{core.Meta{
		ID:      "fields-default",
		Summary: "Lists field names from QueryComponent!Default.jspa (CVE-2020-14179)",
		Group:   core.CategoryEnumeration,
		Level:   core.SeverityMedium,
		Path:    "secure/QueryComponent!Default.jspa",
		Refs:    refs,
	}})
	core.RegisterCheck(&fieldNamesCheck{core.Meta{
		ID:      "fields-jql",
		Summary: "Lists field names from QueryComponent!Jql.jspa (CVE-2020-14179)",
		Group:   core.CategoryEnumeration,
		Level:   core.SeverityMedium,
		Path:    "secure/QueryComponent!Jql.jspa?jql=",
		Refs:    refs[:1],
	}})
}
