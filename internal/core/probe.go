// internal/core/probe.go
package core

import (
	"context"
	"net/http"
	"strings"
)

// Meta holds the descriptive fields shared by every check. Embedding it
// provides all of the Check methods except Run.
type Meta struct {
	ID      string
	Summary string
	Group   string
	Level   string
	Path    string
	Refs    []string
}

func (m Meta) Name() string         { return m.ID }
func (m Meta) Description() string  { return m.Summary }
func (m Meta) Category() string     { return m.Group }
func (m Meta) Endpoint() string     { return m.Path }
func (m Meta) References() []string { return m.Refs }

func (m Meta) Severity() string {
	if m.Level == "" {
		return SeverityInfo
	}
	return m.Level
}

// Get fetches path relative to target and returns the body only when the
// reply carries the wanted status code.
func Get(ctx context.Context, fetcher Fetcher, target Target, path string, want int) (string, Reason) {
	res, err := fetcher.Fetch(ctx, target.Resolve(path))
	if err != nil || res == nil {
		return "", ReasonTransport
	}
	if res.StatusCode != want {
		return "", ReasonStatus
	}
	return res.Body, ReasonOK
}

// MarkerCheck reports whether the reply to its endpoint carries the expected
// status and any one of Markers. With Prefix set a marker must open the body.
// Fallbacks are alternate paths tried in order while the result is negative.
type MarkerCheck struct {
	Meta
	Status    int
	Markers   []string
	Prefix    bool
	PathFunc  func() string
	Fallbacks []string
}

func (c *MarkerCheck) Run(ctx context.Context, target Target, fetcher Fetcher) Finding {
	path := c.Path
	if c.PathFunc != nil {
		path = c.PathFunc()
	}
	first := c.probe(ctx, target, fetcher, path)
	if first.Positive {
		return first
	}
	for _, alt := range c.Fallbacks {
		if f := c.probe(ctx, target, fetcher, alt); f.Positive {
			return f
		}
	}
	return first
}

func (c *MarkerCheck) probe(ctx context.Context, target Target, fetcher Fetcher, path string) Finding {
	status := c.Status
	if status == 0 {
		status = http.StatusOK
	}
	body, reason := Get(ctx, fetcher, target, path, status)
	if reason != ReasonOK {
		return BoolFinding(false, reason)
	}
	for _, m := range c.Markers {
		if c.Prefix && strings.HasPrefix(body, m) || !c.Prefix && strings.Contains(body, m) {
			return BoolFinding(true, ReasonOK)
		}
	}
	return BoolFinding(false, ReasonBody)
}

func (c *MarkerCheck) Kind() FindingKind { return KindBool }
