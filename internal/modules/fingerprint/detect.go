// Package fingerprint holds the checks that decide whether a target runs
// Jira and which release it is.
package fingerprint

import "github.com/bcoles/jira-scan/internal/core"

// Marker is the string every Jira login and dashboard page carries.
const Marker = "JIRA"

const (
	loginPath     = "login.jsp"
	dashboardPath = "secure/Dashboard.jspa"
)

func init() {
	core.RegisterCheck(&core.MarkerCheck{
		Meta: core.Meta{
			ID:      "detect-login",
			Summary: "Detects Jira from the login page",
			Group:   core.CategoryFingerprint,
			Path:    loginPath,
		},
		Markers: []string{Marker},
	})
	core.RegisterCheck(&core.MarkerCheck{
		Meta: core.Meta{
			ID:      "detect-dashboard",
			Summary: "Detects Jira from the dashboard page",
			Group:   core.CategoryFingerprint,
			Path:    dashboardPath,
		},
		Markers: []string{Marker},
	})
}
