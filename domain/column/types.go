package column

import (
	"strings"
)

// Kind is the semantic classification of a column. It is derived from the
// values every time a column is loaded; CSV carries no type information.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindUnsupported Kind = "unsupported"
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{KindNumeric, KindDatetime, KindCategorical, KindUnsupported}

func (k Kind) String() string { return string(k) }

// Column is an ordered sequence of raw cell values plus a name.
type Column struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// New copies values so the column stays immutable for the rest of the request.
func New(name string, values []string) Column {
	cp := make([]string, len(values))
	copy(cp, values)
	return Column{Name: name, Values: cp}
}

// Len returns the total number of rows, missing ones included.
func (c Column) Len() int { return len(c.Values) }

// MissingCount counts cells that IsMissing reports as missing.
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

// Present returns the non-missing values with their 0-based row indexes.
func (c Column) Present() (values []string, rows []int) {
	values = make([]string, 0, len(c.Values))
	rows = make([]int, 0, len(c.Values))
	for i, v := range c.Values {
		if IsMissing(v) {
			continue
		}
		values = append(values, strings.TrimSpace(v))
		rows = append(rows, i)
	}
	return values, rows
}

// naTokens mirrors the default NA markers recognised by common CSV tooling.
var naTokens = map[string]struct{}{
	"NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#NA": {},
	"#N/A N/A": {}, "1.#IND": {}, "1.#QNAN": {}, "-1.#IND": {}, "-1.#QNAN": {},
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return true
	}
	_, ok := naTokens[v]
	return ok
}

// Table is a parsed file: ordered headers and rows of raw cells.
type Table struct {
	FileID  string
	Headers []string
	Rows    [][]string
}

// ColumnNames returns the headers in file order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Headers))
	copy(names, t.Headers)
	return names
}

// Column extracts the named column. Short rows yield empty (missing) cells.
func (t *Table) Column(name string) (Column, bool) {
	idx := -1
	for i, h := range t.Headers {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Column{}, false
	}

	values := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		if idx < len(row) {
			values[r] = row[idx]
		}
	}
	return Column{Name: name, Values: values}, true
}
