// internal/core/jsonutil.go
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// HasShape is the cheap guard run before any JSON parsing: body must start
// with prefix and mention every key. Error pages served with 200 fail here.
func HasShape(body, prefix string, keys ...string) bool {
	if !strings.HasPrefix(body, prefix) {
		return false
	}
	for _, k := range keys {
		if !strings.Contains(body, k) {
			return false
		}
	}
	return true
}

// JSONText renders a raw JSON value as plain text. Strings are unquoted,
// null and missing values become "", anything else is compacted JSON.
func JSONText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// Pick returns the plain text of each named field of obj, in order.
func Pick(obj map[string]json.RawMessage, fields ...string) []string {
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = JSONText(obj[f])
	}
	return row
}

// PickAll applies Pick to every element of a JSON array of objects.
func PickAll(items []map[string]json.RawMessage, fields ...string) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, Pick(it, fields...))
	}
	return rows
}

// OrderedPairs decodes a top-level JSON object into [key, value] pairs in
// document order. Anything but whitespace after the object is an error.
func OrderedPairs(body string) ([][]string, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var pairs [][]string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		pairs = append(pairs, []string{key, JSONText(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after object")
	}
	return pairs, nil
}
