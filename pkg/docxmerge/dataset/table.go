package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind is the declared value kind of a table column.
type Kind string

const (
	KindText     Kind = "text"
	KindInteger  Kind = "integer"
	KindReal     Kind = "real"
	KindBoolean  Kind = "boolean"
	KindDatetime Kind = "datetime"
)

// DatetimeLayout is the canonical rendering of datetime cells.
const DatetimeLayout = "2006-01-02 15:04:05"

var datetimeLayouts = []string{
	time.RFC3339Nano,
	DatetimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ErrInvalidTable is wrapped by all table conversion errors.
var ErrInvalidTable = errors.New("invalid table")

// Column is one named, typed column. A nil entry in Values is an empty cell.
type Column struct {
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Values []any  `json:"values"`
}

// Table is column oriented tabular data.
type Table struct {
	Columns []Column `json:"columns"`
}

// Rows returns the number of records.
func (t Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Cell returns the value at row, col.
func (t Table) Cell(row, col int) any {
	return t.Columns[col].Values[row]
}

// Validate checks column lengths and that every value fits its column kind.
func (t Table) Validate() error {
	rows := t.Rows()
	for _, c := range t.Columns {
		if len(c.Values) != rows {
			return fmt.Errorf("%w: column %q has %d values, expected %d", ErrInvalidTable, c.Name, len(c.Values), rows)
		}
		switch c.Kind {
		case KindText, KindInteger, KindReal, KindBoolean, KindDatetime:
		default:
			return fmt.Errorf("%w: column %q has unknown kind %q", ErrInvalidTable, c.Name, c.Kind)
		}
		for i, v := range c.Values {
			if _, err := Format(c.Kind, v); err != nil {
				return fmt.Errorf("%w: column %q row %d: %v", ErrInvalidTable, c.Name, i, err)
			}
		}
	}
	return nil
}

// Format renders one cell value for the given kind. Nil renders as "".
func Format(kind Kind, v any) (string, error) {
	if v == nil {
		return "", nil
	}
	switch kind {
	case KindText:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case KindInteger:
		n, err := toInt(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case KindReal:
		f, err := toFloat(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', 3, 64), nil
	case KindBoolean:
		b, err := toBool(v)
		if err != nil {
			return "", err
		}
		if b {
			return "Yes", nil
		}
		return "No", nil
	case KindDatetime:
		tm, err := toTime(v)
		if err != nil {
			return "", err
		}
		return tm.Format(DatetimeLayout), nil
	default:
		return "", fmt.Errorf("unknown kind %q", kind)
	}
}

// FromValue converts a context value into a Table. Accepted shapes:
//
//   - Table or *Table
//   - {"columns": [{"name": ..., "kind": ..., "values": [...]}]}
//   - {"header": [...], "rows": [[...], ...]}
//   - a list of rows, each a list of cells
//   - a list of records, each a map; columns are the sorted keys
//
// Kinds are inferred for every shape without declared kinds.
func FromValue(v any) (Table, error) {
	var t Table
	switch val := v.(type) {
	case Table:
		t = val
	case *Table:
		if val == nil {
			return Table{}, fmt.Errorf("%w: nil table", ErrInvalidTable)
		}
		t = *val
	case map[string]any:
		var err error
		if t, err = fromMap(val); err != nil {
			return Table{}, err
		}
	case [][]any:
		t = Infer(nil, val)
	case []map[string]any:
		t = fromRecords(val)
	case []any:
		var err error
		if t, err = fromList(val); err != nil {
			return Table{}, err
		}
	default:
		return Table{}, fmt.Errorf("%w: unsupported value of type %T", ErrInvalidTable, v)
	}

	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

func fromMap(m map[string]any) (Table, error) {
	if _, ok := m["columns"]; ok {
		raw, err := json.Marshal(m)
		if err != nil {
			return Table{}, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}
		var t Table
		if err := json.Unmarshal(raw, &t); err != nil {
			return Table{}, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}
		for i := range t.Columns {
			if t.Columns[i].Kind == "" {
				t.Columns[i].Kind = inferKind(t.Columns[i].Values)
			}
		}
		return t, nil
	}

	rowsValue, ok := m["rows"]
	if !ok {
		return Table{}, fmt.Errorf("%w: map needs a columns or rows key", ErrInvalidTable)
	}
	rowList, ok := rowsValue.([]any)
	if !ok {
		return Table{}, fmt.Errorf("%w: rows must be a list, got %T", ErrInvalidTable, rowsValue)
	}
	rows, err := toRows(rowList)
	if err != nil {
		return Table{}, err
	}
	var names []string
	if header, ok := m["header"].([]any); ok {
		for _, h := range header {
			names = append(names, fmt.Sprint(h))
		}
	}
	return Infer(names, rows), nil
}

func fromList(list []any) (Table, error) {
	if len(list) == 0 {
		return Table{}, nil
	}
	if _, ok := list[0].(map[string]any); ok {
		records := make([]map[string]any, len(list))
		for i, item := range list {
			rec, ok := item.(map[string]any)
			if !ok {
				return Table{}, fmt.Errorf("%w: row %d is %T, expected a record", ErrInvalidTable, i, item)
			}
			records[i] = rec
		}
		return fromRecords(records), nil
	}
	rows, err := toRows(list)
	if err != nil {
		return Table{}, err
	}
	return Infer(nil, rows), nil
}

func toRows(list []any) ([][]any, error) {
	rows := make([][]any, len(list))
	for i, item := range list {
		row, ok := item.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: row %d is %T, expected a list", ErrInvalidTable, i, item)
		}
		rows[i] = row
	}
	return rows, nil
}

func fromRecords(records []map[string]any) Table {
	keys := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keys[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(names))
		for j, name := range names {
			row[j] = rec[name]
		}
		rows[i] = row
	}
	return Infer(names, rows)
}

// Infer builds a Table from row oriented data. Short rows are padded with
// empty cells; missing names become "column N".
func Infer(names []string, rows [][]any) Table {
	width := len(names)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	t := Table{Columns: make([]Column, width)}
	for c := 0; c < width; c++ {
		name := fmt.Sprintf("column %d", c+1)
		if c < len(names) && names[c] != "" {
			name = names[c]
		}
		values := make([]any, len(rows))
		for r, row := range rows {
			if c < len(row) {
				values[r] = row[c]
			}
		}
		t.Columns[c] = Column{Name: name, Kind: inferKind(values), Values: values}
	}
	return t
}

// inferKind picks the narrowest kind every non-nil value fits.
func inferKind(values []any) Kind {
	kind := Kind("")
	for _, v := range values {
		if v == nil {
			continue
		}
		k := kindOf(v)
		switch {
		case kind == "":
			kind = k
		case kind == k:
		case (kind == KindInteger && k == KindReal) || (kind == KindReal && k == KindInteger):
			kind = KindReal
		default:
			return KindText
		}
	}
	if kind == "" {
		return KindText
	}
	return kind
}

func kindOf(v any) Kind {
	switch val := v.(type) {
	case bool:
		return KindBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32:
		return floatKind(float64(val))
	case float64:
		return floatKind(val)
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return KindInteger
		}
		return KindReal
	case time.Time, *time.Time:
		return KindDatetime
	default:
		return KindText
	}
}

func floatKind(f float64) Kind {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return KindInteger
	}
	return KindReal
}

func toInt(v any) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint:
		return toInt(uint64(val))
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d overflows", val)
		}
		return int64(val), nil
	case float32:
		return toInt(float64(val))
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("%v is not an integer", val)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is out of range.
		if val < math.MinInt64 || val >= math.MaxInt64 {
			return 0, fmt.Errorf("integer %v overflows", val)
		}
		return int64(val), nil
	case json.Number:
		return val.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	default:
		return 0, fmt.Errorf("cannot use %T as integer", v)
	}
}

func toFloat(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case json.Number:
		return val.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(val), 64)
	default:
		n, err := toInt(v)
		if err != nil {
			return 0, fmt.Errorf("cannot use %T as real", v)
		}
		return float64(n), nil
	}
}

func toBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(val))
	default:
		return false, fmt.Errorf("cannot use %T as boolean", v)
	}
}

func toTime(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case *time.Time:
		if val == nil {
			return time.Time{}, errors.New("nil time")
		}
		return *val, nil
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range datetimeLayouts {
			if tm, err := time.Parse(layout, s); err == nil {
				return tm, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as datetime", val)
	default:
		return time.Time{}, fmt.Errorf("cannot use %T as datetime", v)
	}
}
