// Package exposure detects anonymous access to Jira endpoints with known
// information disclosure issues.
package exposure

import (
	"math/rand"
	"net/http"

	"github.com/bcoles/jira-scan/internal/core"
)

// missingUsernameMessage is what the user picker REST resources answer with
// when they are reachable without a session.
const missingUsernameMessage = "The username query parameter was not provided"

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// cacheBuster returns a fresh six character base-36 token so the static
// resource path is never served from a cache.
func cacheBuster() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}

func metaInfPath() string {
	return "s/" + cacheBuster() + "/_/META-INF/maven/com.atlassian.jira/atlassian-jira-webapp/pom.xml"
}

func init() {
	core.RegisterCheck(&core.MarkerCheck{
		Meta: core.Meta{
			ID:      "user-picker-browser",
			Summary: "Checks for anonymous access to UserPickerBrowser.jspa",
			Group:   core.CategoryExposure,
			Level:   core.SeverityMedium,
			Path:    "secure/popups/UserPickerBrowser.jspa",
		},
		Markers: []string{"<h1>User Picker</h1>"},
	})
	core.RegisterCheck(&core.MarkerCheck{
		Meta: core.Meta{
			ID:      "rest-user-picker",
			Summary: "Checks for anonymous access to the REST user picker (CVE-2019-3403)",
			Group:   core.CategoryExposure,
			Level:   core.SeverityMedium,
			Path:    "rest/api/2/user/picker",
			Refs:    []string{"https://jira.atlassian.com/browse/JRASERVER-69242"},
		},
		Status:    http.StatusBadRequest,
		Markers:   []string{missingUsernameMessage},
		Fallbacks: []string{"rest/api/latest/user/picker"},
	})
	core.RegisterCheck(&core.MarkerCheck{
		Meta: core.Meta{
			ID:      "rest-group-user-picker",
			Summary: "Checks for anonymous access to the REST group user picker (CVE-2019-8449)",
			Group:   core.CategoryExposure,
			Level:   core.SeverityMedium,
			Path:    "rest/api/2/groupuserpicker",
			Refs:    []string{"https://jira.atlassian.com/browse/JRASERVER-69796"},
		},
		Status:  http.StatusBadRequest,
		Markers: []string{missingUsernameMessage},
	})
	core.RegisterCheck(&core.MarkerCheck{
		Meta: core.Meta{
			ID:      "view-user-hover",
			Summary: "Checks for anonymous access to ViewUserHover.jspa (CVE-2020-14181)",
			Group:   core.CategoryExposure,
			Level:   core.SeverityMedium,
			Path:    "secure/ViewUserHover.jspa",
			Refs:    []string{"https://jira.atlassian.com/browse/JRASERVER-71560"},
		},
		Markers: []string{"User does not exist"},
	})
	core.RegisterCheck(&core.MarkerCheck{
		Meta: core.Meta{
			ID:      "meta-inf",
			Summary: "Checks whether META-INF contents are served (CVE-2019-8442)",
			Group:   core.CategoryExposure,
			Level:   core.SeverityLow,
			Path:    "s/{token}/_/META-INF/maven/com.atlassian.jira/atlassian-jira-webapp/pom.xml",
			Refs:    []string{"https://jira.atlassian.com/browse/JRASERVER-69241"},
		},
		PathFunc: metaInfPath,
		Markers:  []string{"<project"},
		Prefix:   true,
	})
}
