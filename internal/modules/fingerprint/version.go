package fingerprint

import (
	"context"
	"net/http"
	"regexp"

	"github.com/bcoles/jira-scan/internal/core"
)

var (
	metaVersionRe = regexp.MustCompile(`<meta name="ajs-version-number" content="([\d\.]+)">`)
	metaBuildRe   = regexp.MustCompile(`<meta name="ajs-build-number" content="(\d+)">`)
	// Older releases only print the version in the page footer.
	footerVersionRe = regexp.MustCompile(`Version: ([\d\.]+)-#(\d+)`)
)

// ExtractVersion pulls the version and build number out of a Jira page. The
// ajs meta tags are tried first and the footer text second; ok is false when
// neither form is present.
func ExtractVersion(body string) (v core.VersionInfo, ok bool) {
	version := metaVersionRe.FindStringSubmatch(body)
	build := metaBuildRe.FindStringSubmatch(body)
	if version != nil && build != nil {
		return core.VersionInfo{Version: version[1], Build: build[1]}, true
	}
	if m := footerVersionRe.FindStringSubmatch(body); m != nil {
		return core.VersionInfo{Version: m[1], Build: m[2]}, true
	}
	return core.VersionInfo{}, false
}

// versionCheck reports the version rendered on one page.
type versionCheck struct {
	core.Meta
}

func (c *versionCheck) Kind() core.FindingKind { return core.KindScalar }

func (c *versionCheck) Run(ctx context.Context, target core.Target, fetcher core.Fetcher) core.Finding {
	body, reason := core.Get(ctx, fetcher, target, c.Path, http.StatusOK)
	if reason != core.ReasonOK {
		return core.ScalarFinding("", reason)
	}
	v, ok := ExtractVersion(body)
	if !ok {
		return core.ScalarFinding("", core.ReasonBody)
	}
	return core.ScalarFinding(v.String(), core.ReasonOK)
}

func init() {
	core.RegisterCheck(&versionCheck{core.Meta{
		ID:      "version-dashboard",
		Summary: "Extracts the Jira version from the dashboard page",
		Group:   core.CategoryFingerprint,
		Path:    dashboardPath,
	}})
	core.RegisterCheck(&versionCheck{core.Meta{
		ID:      "version-login",
		Summary: "Extracts the Jira version from the login page",
		Group:   core.CategoryFingerprint,
		Path:    loginPath,
	}})
}
