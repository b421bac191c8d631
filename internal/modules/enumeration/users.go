package enumeration

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/bcoles/jira-scan/internal/core"
)

const userPickerHeading = "<h1>User Picker</h1>"

var (
	userColumns      = []string{"name", "fullname"}
	userEmailColumns = []string{"name", "fullname", "email"}

	userRowWithEmailRe = regexp.MustCompile(`(?s)<td data-cell-type="name" class="user-name">(.*?)</td>\s+<td data-cell-type="fullname" >(.*?)</td>\s+<td data-cell-type="email" class="cell-type-email">(.*?)</td>`)
	userRowRe          = regexp.MustCompile(`(?s)<td data-cell-type="name" class="user-name">(.*?)</td>\s+<td data-cell-type="fullname" >(.*?)</td>`)
)

// ParseUserRows extracts users from a UserPickerBrowser page. Rows carry an
// email column only when the instance shows addresses to the caller.
func ParseUserRows(body string) (columns []string, rows [][]string) {
	re := userRowRe
	columns = userColumns
	if strings.Contains(body, "cell-type-email") {
		re, columns = userRowWithEmailRe, userEmailColumns
	}
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		rows = append(rows, m[1:])
	}
	return columns, rows
}

type usersCheck struct {
	core.Meta
}

func (c *usersCheck) Kind() core.FindingKind { return core.KindRecords }

func (c *usersCheck) Run(ctx context.Context, target core.Target, fetcher core.Fetcher) core.Finding {
	body, reason := core.Get(ctx, fetcher, target, c.Path, http.StatusOK)
	if reason != core.ReasonOK {
		return core.Negative(core.KindRecords, userColumns, reason)
	}
	if !strings.Contains(body, userPickerHeading) {
		return core.Negative(core.KindRecords, userColumns, core.ReasonBody)
	}
	columns, rows := ParseUserRows(body)
	return core.RecordsFinding(columns, rows, core.ReasonOK)
}

func init() {
	core.RegisterCheck(&usersCheck{core.Meta{
		ID:      "users",
		Summary: "Lists up to 1,000 users from UserPickerBrowser.jspa",
		Group:   core.CategoryEnumeration,
		Level:   core.SeverityMedium,
		Path:    "secure/popups/UserPickerBrowser.jspa?max=1000",
	}})
}
