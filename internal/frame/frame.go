// Package frame holds the tabular input passed to models: an ordered set of
// named columns and one or more rows of values. A Value is a number, a string
// or an explicit missing marker; the zero Value is Missing.
package frame

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindString
)

// String returns the lowercase kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single cell.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Number returns a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a string cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Missing returns the explicit missing marker, equal to the zero Value.
func Missing() Value { return Value{} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric payload; ok is false for non-numbers.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the string payload; ok is false for non-strings.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.str)
	default:
		return "<missing>"
	}
}

// MarshalJSON encodes Missing as null. Non-finite numbers are rejected, as
// encoding/json does for float64.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("frame: unsupported number %v", v.num)
		}
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = Missing()
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("frame: value must be number, string or null: %w", err)
	}
	*v = Number(f)
	return nil
}

// Frame is a column-named table. Rows are expected to have len(Columns) cells.
type Frame struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

// Column is a name/value pair used to build single-row frames.
type Column struct {
	Name  string
	Value Value
}

// Row builds a single-row frame preserving column order.
func Row(cols ...Column) Frame {
	f := Frame{Columns: make([]string, len(cols)), Rows: [][]Value{make([]Value, len(cols))}}
	for i, c := range cols {
		f.Columns[i] = c.Name
		f.Rows[0][i] = c.Value
	}
	return f
}

// Len returns the number of rows.
func (f Frame) Len() int { return len(f.Rows) }

// Index returns the position of the named column or -1.
func (f Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Get returns the cell at row r for the named column.
func (f Frame) Get(r int, name string) (Value, bool) {
	i := f.Index(name)
	if i < 0 || r < 0 || r >= len(f.Rows) || i >= len(f.Rows[r]) {
		return Value{}, false
	}
	return f.Rows[r][i], true
}

// Validate checks that column names are unique and non-empty and every row is
// as wide as the header.
func (f Frame) Validate() error {
	seen := make(map[string]struct{}, len(f.Columns))
	for _, c := range f.Columns {
		if c == "" {
			return fmt.Errorf("frame: empty column name")
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("frame: duplicate column %q", c)
		}
		seen[c] = struct{}{}
	}
	for i, r := range f.Rows {
		if len(r) != len(f.Columns) {
			return fmt.Errorf("frame: row %d has %d cells, want %d", i, len(r), len(f.Columns))
		}
	}
	return nil
}

// Key returns the canonical JSON encoding of the frame. Equal frames produce
// identical keys.
func (f Frame) Key() (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
