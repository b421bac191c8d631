// Package enumeration lists data Jira hands out to anonymous users: users,
// filters, dashboards, projects, gadgets and searchable fields.
package enumeration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bcoles/jira-scan/internal/core"
)

// restListCheck extracts one tuple per element of a JSON array. The array is
// either the whole document or the value of Container in a top-level object.
type restListCheck struct {
	core.Meta
	Prefix    string
	Required  []string
	Container string
	Fields    []string
}

func (c *restListCheck) Kind() core.FindingKind { return core.KindRecords }

func (c *restListCheck) Run(ctx context.Context, target core.Target, fetcher core.Fetcher) core.Finding {
	body, reason := core.Get(ctx, fetcher, target, c.Path, http.StatusOK)
	if reason != core.ReasonOK {
		return core.Negative(core.KindRecords, c.Fields, reason)
	}
	if !core.HasShape(body, c.Prefix, c.Required...) {
		return core.Negative(core.KindRecords, c.Fields, core.ReasonBody)
	}
	items, err := decodeItems(body, c.Container)
	if err != nil {
		return core.Negative(core.KindRecords, c.Fields, core.ReasonMalformed)
	}
	return core.RecordsFinding(c.Fields, core.PickAll(items, c.Fields...), core.ReasonOK)
}

func decodeItems(body, container string) ([]map[string]json.RawMessage, error) {
	var items []map[string]json.RawMessage
	if container == "" {
		if err := json.Unmarshal([]byte(body), &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, err
	}
	raw, ok := doc[container]
	if !ok {
		return nil, fmt.Errorf("missing %q", container)
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func init() {
	core.RegisterCheck(&restListCheck{
		Meta: core.Meta{
			ID:      "gadgets",
			Summary: "Lists installed gadgets from the gadget directory",
			Group:   core.CategoryEnumeration,
			Level:   core.SeverityLow,
			Path:    "rest/config/1.0/directory.json",
			Refs:    []string{"https://jira.atlassian.com/browse/JRASERVER-72613"},
		},
		Prefix:    `{"categories"`,
		Container: "gadgets",
		Fields:    []string{"title", "authorName", "authorEmail", "description"},
	})
	core.RegisterCheck(&restListCheck{
		Meta: core.Meta{
			ID:      "dashboards",
			Summary: "Lists dashboards visible to anonymous users",
			Group:   core.CategoryEnumeration,
			Level:   core.SeverityLow,
			Path:    "rest/api/2/dashboard?maxResults=1000",
		},
		Prefix:    `{"startAt"`,
		Required:  []string{"id", "name"},
		Container: "dashboards",
		Fields:    []string{"id", "name"},
	})
	core.RegisterCheck(&restListCheck{
		Meta: core.Meta{
			ID:      "resolutions",
			Summary: "Lists issue resolutions",
			Group:   core.CategoryEnumeration,
			Path:    "rest/api/2/resolution",
		},
		Prefix:   `[{"self"`,
		Required: []string{"id", "name", "description"},
		Fields:   []string{"id", "name", "description"},
	})
	core.RegisterCheck(&restListCheck{
		Meta: core.Meta{
			ID:      "projects",
			Summary: "Lists projects visible to anonymous users",
			Group:   core.CategoryEnumeration,
			Level:   core.SeverityLow,
			Path:    "rest/api/2/project?maxResults=1000",
		},
		Prefix:   `[{"expand"`,
		Required: []string{"id", "key", "name"},
		Fields:   []string{"id", "key", "name"},
	})
	core.RegisterCheck(&restListCheck{
		Meta: core.Meta{
			ID:      "project-categories",
			Summary: "Lists project categories",
			Group:   core.CategoryEnumeration,
			Path:    "rest/api/2/projectCategory",
		},
		Prefix:   `[{"self"`,
		Required: []string{"id", "name", "description"},
		Fields:   []string{"id", "name", "description"},
	})
	core.RegisterCheck(&restListCheck{
		Meta: core.Meta{
			ID:      "linked-apps",
			Summary: "Lists linked applications from the admin menu",
			Group:   core.CategoryEnumeration,
			Level:   core.SeverityLow,
			Path:    "rest/menu/latest/admin",
			Refs: []string{
				"https://jira.atlassian.com/browse/JRASERVER-64963",
				"https://jira.atlassian.com/browse/JRACLOUD-64963",
			},
		},
		Prefix:   `[{"key"`,
		Required: []string{"link", "label", "applicationType"},
		Fields:   []string{"link", "label", "applicationType"},
	})
}
