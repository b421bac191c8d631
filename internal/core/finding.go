// internal/core/finding.go
package core

import "fmt"

// FindingKind tells renderers how to read a Finding.
type FindingKind string

const (
	KindBool    FindingKind = "bool"
	KindScalar  FindingKind = "scalar"
	KindRecord  FindingKind = "record"
	KindRecords FindingKind = "records"
)

// Reason records why a check ended the way it did. It is kept for logging
// and verbose output only; a Finding is negative regardless of which
// non-OK reason produced it.
type Reason string

const (
	ReasonOK        Reason = "ok"
	ReasonTransport Reason = "transport failure"
	ReasonStatus    Reason = "unexpected status"
	ReasonBody      Reason = "marker not found"
	ReasonMalformed Reason = "malformed body"
	ReasonSkipped   Reason = "skipped"
)

// Finding is the classified result of one check.
type Finding struct {
	Check    string      `json:"check"`
	Category string      `json:"category"`
	Severity string      `json:"severity"`
	Kind     FindingKind `json:"kind"`
	Positive bool        `json:"positive"`
	Value    string      `json:"value,omitempty"`
	Columns  []string    `json:"columns,omitempty"`
	Rows     [][]string  `json:"rows,omitempty"`
	Reason   Reason      `json:"-"`
}

// BoolFinding reports presence or absence of a behaviour.
func BoolFinding(present bool, reason Reason) Finding {
	return Finding{Kind: KindBool, Positive: present, Reason: reason}
}

// ScalarFinding carries one extracted value. An empty value is negative.
func ScalarFinding(value string, reason Reason) Finding {
	return Finding{Kind: KindScalar, Positive: value != "", Value: value, Reason: reason}
}

// RecordsFinding carries a list of tuples described by columns.
func RecordsFinding(columns []string, rows [][]string, reason Reason) Finding {
	return Finding{Kind: KindRecords, Positive: len(rows) > 0, Columns: columns, Rows: rows, Reason: reason}
}

// RecordFinding carries one key/value record; rows are [key, value] pairs in
// the order the target returned them.
func RecordFinding(pairs [][]string, reason Reason) Finding {
	return Finding{Kind: KindRecord, Positive: len(pairs) > 0, Columns: []string{"key", "value"}, Rows: pairs, Reason: reason}
}

// Negative returns the empty Finding for kind.
func Negative(kind FindingKind, columns []string, reason Reason) Finding {
	return Finding{Kind: kind, Columns: columns, Reason: reason}
}

// Summary renders a one-line description of the finding.
func (f Finding) Summary() string {
	switch f.Kind {
	case KindBool:
		if f.Positive {
			return "yes"
		}
		return "no"
	case KindScalar:
		if f.Positive {
			return f.Value
		}
		return "not found"
	case KindRecord:
		return fmt.Sprintf("%d fields", len(f.Rows))
	default:
		return fmt.Sprintf("%d entries", len(f.Rows))
	}
}

// VersionInfo is a (version, build) pair extracted from a page.
type VersionInfo struct {
	Version string
	Build   string
}

func (v VersionInfo) String() string {
	return v.Version + "-#" + v.Build
}
