package fingerprint

import (
	"context"
	"net/http"

	"github.com/bcoles/jira-scan/internal/core"
)

type serverInfoCheck struct {
	core.Meta
}

func (c *serverInfoCheck) Kind() core.FindingKind { return core.KindRecord }

// Run returns every top-level field of the serverInfo document, in the order
// Jira sent them. Nested values are kept as compact JSON.
func (c *serverInfoCheck) Run(ctx context.Context, target core.Target, fetcher core.Fetcher) core.Finding {
	body, reason := core.Get(ctx, fetcher, target, c.Path, http.StatusOK)
	if reason != core.ReasonOK {
		return core.RecordFinding(nil, reason)
	}
	if !core.HasShape(body, `{"baseUrl"`) {
		return core.RecordFinding(nil, core.ReasonBody)
	}
	pairs, err := core.OrderedPairs(body)
	if err != nil {
		return core.RecordFinding(nil, core.ReasonMalformed)
	}
	return core.RecordFinding(pairs, core.ReasonOK)
}

func init() {
	core.RegisterCheck(&serverInfoCheck{core.Meta{
		ID:      "server-info",
		Summary: "Retrieves Jira server information from the REST API",
		Group:   core.CategoryFingerprint,
		Path:    "rest/api/latest/serverInfo",
	}})
}
