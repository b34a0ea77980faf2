package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/leengari/allergy-lookup/internal/domain/data"
)

// Dataset is the in-memory table: column names plus rows in file order.
// A Dataset is built once by a loader and treated as read-only afterwards.
type Dataset struct {
	Name     string // base name of the source file
	Path     string // path the dataset was loaded from
	Columns  []string
	Rows     []data.Row
	LoadedAt time.Time
}

// NewDataset creates an empty dataset with normalized column names.
// Blank header cells are named "Unnamed: N" and duplicates get a ".N" suffix.
func NewDataset(name, path string, header []string) *Dataset {
	return &Dataset{
		Name:    name,
		Path:    path,
		Columns: normalizeColumns(header),
		Rows:    make([]data.Row, 0),
	}
}

// AppendValues adds a row built from values in column order
func (d *Dataset) AppendValues(values []interface{}) {
	d.Rows = append(d.Rows, data.NewRow(d.Columns, values))
}

// HasColumns reports whether the dataset has the structural shape needed
// for matching
func (d *Dataset) HasColumns() bool {
	return d != nil && len(d.Columns) > 0
}

// NumRows returns the number of rows
func (d *Dataset) NumRows() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

func normalizeColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		}
		seen[name] = 0
		columns[i] = name
	}
	return columns
}
