package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Row represents a single dataset row
// Key = column name, Value = cell value (string, int64, float64, bool, time.Time or nil)
//
// Column order is shared with the owning dataset and is preserved when the
// row is serialized. Rows are never mutated after load.
type Row struct {
	columns []string
	data    map[string]interface{}
}

// NewRow creates a row from a column list and the matching values.
// Missing trailing values are stored as nil; extra values are dropped.
func NewRow(columns []string, values []interface{}) Row {
	data := make(map[string]interface{}, len(columns))
	for i, col := range columns {
		var v interface{}
		if i < len(values) {
			v = values[i]
		}
		data[col] = v
	}
	return Row{
		columns: columns,
		data:    data,
	}
}

// Get returns the value of a column and whether the column exists
func (r Row) Get(column string) (interface{}, bool) {
	v, ok := r.data[column]
	return v, ok
}

// Columns returns the column names in dataset order
func (r Row) Columns() []string {
	return r.columns
}

// Len returns the number of columns in the row
func (r Row) Len() int {
	return len(r.columns)
}

// Values returns the cell values in column order
func (r Row) Values() []interface{} {
	values := make([]interface{}, len(r.columns))
	for i, col := range r.columns {
		values[i] = r.data[col]
	}
	return values
}

// MarshalJSON implements json.Marshaler.
// Keys are written in column order; NaN and infinities become null.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(jsonValue(r.data[col]))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r Row) String() string {
	return fmt.Sprintf("Row%v", r.Values())
}

func jsonValue(v interface{}) interface{} {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil
		}
	}
	return v
}
