// internal/core/check.go
package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Check categories used by the catalog.
const (
	CategoryFingerprint = "fingerprint"
	CategoryMisconfig   = "misconfiguration"
	CategoryExposure    = "exposure"
	CategoryEnumeration = "enumeration"
)

// Severity levels attached to checks for reporting.
const (
	SeverityInfo   = "INFO"
	SeverityLow    = "LOW"
	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// Check is the interface implemented by every catalog probe. Run must never
// panic on a bad response and must fold every failure into the negative
// Finding for its kind.
type Check interface {
	Name() string
	Description() string
	Category() string
	Severity() string
	Endpoint() string
	References() []string
	Run(ctx context.Context, target Target, fetcher Fetcher) Finding
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Check{}
	order      []string
)

// RegisterCheck adds c to the catalog. Registering the same name twice panics
// since it is always a programming error in an init function.
func RegisterCheck(c Check) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name := strings.ToLower(c.Name())
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("core: check %q registered twice", c.Name()))
	}
	registry[name] = c
	order = append(order, name)
}

// GetCheck looks a check up by name, case-insensitively.
func GetCheck(name string) (Check, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// ListChecks returns the catalog ordered by category, then registration order.
func ListChecks() []Check {
	registryMu.RLock()
	defer registryMu.RUnlock()
	checks := make([]Check, 0, len(order))
	for _, name := range order {
		checks = append(checks, registry[name])
	}
	sort.SliceStable(checks, func(i, j int) bool {
		return categoryRank(checks[i].Category()) < categoryRank(checks[j].Category())
	})
	return checks
}

// ChecksByCategory returns the registered checks belonging to category.
func ChecksByCategory(category string) []Check {
	var out []Check
	for _, c := range ListChecks() {
		if strings.EqualFold(c.Category(), category) {
			out = append(out, c)
		}
	}
	return out
}

// SelectChecks resolves a list of selectors into checks. A selector is
// "all", a category name or a check name. Duplicates are dropped and the
// catalog order is kept.
func SelectChecks(selectors []string) ([]Check, error) {
	wanted := map[string]bool{}
	for _, sel := range selectors {
		sel = strings.ToLower(strings.TrimSpace(sel))
		if sel == "" {
			continue
		}
		if sel == "all" {
			for _, c := range ListChecks() {
				wanted[strings.ToLower(c.Name())] = true
			}
			continue
		}
		if byCat := ChecksByCategory(sel); len(byCat) > 0 {
			for _, c := range byCat {
				wanted[strings.ToLower(c.Name())] = true
			}
			continue
		}
		if _, ok := GetCheck(sel); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, sel)
		}
		wanted[sel] = true
	}
	var out []Check
	for _, c := range ListChecks() {
		if wanted[strings.ToLower(c.Name())] {
			out = append(out, c)
		}
	}
	return out, nil
}

func categoryRank(category string) int {
	switch category {
	case CategoryFingerprint:
		return 0
	case CategoryMisconfig:
		return 1
	case CategoryExposure:
		return 2
	case CategoryEnumeration:
		return 3
	}
	return 4
}
