// internal/core/target.go
package core

import (
	"fmt"
	"net/url"
	"strings"
)

// Target is the normalized base URL of the host under examination. Its
// string form always ends with exactly one "/".
type Target struct {
	base string
}

// NewTarget parses raw into a Target. A missing scheme defaults to http.
func NewTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, fmt.Errorf("%w: empty", ErrInvalidTarget)
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		if strings.Contains(raw, "://") {
			return Target{}, fmt.Errorf("%w: unsupported scheme in %s", ErrInvalidTarget, raw)
		}
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Host == "" {
		return Target{}, fmt.Errorf("%w: missing host in %s", ErrInvalidTarget, raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return Target{}, fmt.Errorf("%w: query or fragment not allowed in %s", ErrInvalidTarget, raw)
	}
	return Target{base: strings.TrimRight(raw, "/") + "/"}, nil
}

// MustTarget is like NewTarget but panics on error. Intended for tests.
func MustTarget(raw string) Target {
	t, err := NewTarget(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Target) String() string { return t.base }

// Resolve appends a relative path (and optional query) to the base URL.
func (t Target) Resolve(rel string) string {
	return t.base + strings.TrimLeft(rel, "/")
}
