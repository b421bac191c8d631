// Package misconfiguration flags Jira settings that widen the anonymous
// attack surface.
package misconfiguration

import "github.com/bcoles/jira-scan/internal/core"

func init() {
	core.RegisterCheck(&core.MarkerCheck{
		Meta: core.Meta{
			ID:      "dev-mode",
			Summary: "Checks whether Jira dev mode is enabled",
			Group:   core.CategoryMisconfig,
			Level:   core.SeverityLow,
			Path:    "",
		},
		Markers: []string{`<meta name="ajs-dev-mode" content="true">`},
	})
	core.RegisterCheck(&core.MarkerCheck{
		Meta: core.Meta{
			ID:      "user-registration",
			Summary: "Checks whether public account sign up is enabled",
			Group:   core.CategoryMisconfig,
			Level:   core.SeverityMedium,
			Path:    "secure/Signup!default.jspa",
			Refs:    []string{"https://docs.atlassian.com/jira/jsd-docs-045/Configuring+public+signup"},
		},
		Markers: []string{"<h1>Sign up</h1>"},
	})
	core.RegisterCheck(&core.MarkerCheck{
		Meta: core.Meta{
			ID:      "servicedesk-registration",
			Summary: "Checks whether Service Desk customer sign up is enabled",
			Group:   core.CategoryMisconfig,
			Level:   core.SeverityMedium,
			Path:    "servicedesk/customer/user/signup",
			Refs: []string{
				"https://docs.atlassian.com/jira/jsd-docs-045/Configuring+public+signup",
				"https://support.atlassian.com/jira-service-management-cloud/docs/customer-permissions-for-your-service-project-and-jira-site/",
			},
		},
		Markers: []string{"serviceDeskVersion", "com.atlassian.servicedesk"},
	})
}
