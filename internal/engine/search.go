package engine

import (
	"strings"

	"github.com/leengari/allergy-lookup/internal/domain/data"
	"github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/domain/schema"
)

// MaxMatches caps the number of rows a search returns
const MaxMatches = 5

// Result is the outcome of a successful search.
// An empty Matches slice means "no matches", which is not an error.
type Result struct {
	Query   string     // normalized query
	Matches []data.Row // at most MaxMatches rows, in dataset order
	Scanned int        // rows examined before the scan stopped
}

// NoMatches reports whether the search matched nothing
func (r *Result) NoMatches() bool {
	return r == nil || len(r.Matches) == 0
}

// NormalizeQuery trims surrounding whitespace and lower-cases the query
func NormalizeQuery(raw string) (string, error) {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" {
		return "", errors.ErrEmptyQuery
	}
	return q, nil
}

// Search returns up to MaxMatches rows of ds that contain the query in at
// least one cell. The query is validated before the dataset, so a blank
// query is always ErrEmptyQuery whatever the dataset state.
func Search(ds *schema.Dataset, rawQuery string) (*Result, error) {
	q, err := NormalizeQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	if !ds.HasColumns() {
		return nil, errors.ErrDatasetUnavailable
	}

	result := &Result{
		Query:   q,
		Matches: make([]data.Row, 0, MaxMatches),
	}
	for _, row := range ds.Rows {
		result.Scanned++
		if RowMatches(row, q) {
			result.Matches = append(result.Matches, row)
			if len(result.Matches) == MaxMatches {
				break
			}
		}
	}

	return result, nil
}

// RowMatches reports whether any cell of row, rendered and lower-cased,
// contains the normalized query
func RowMatches(row data.Row, normalized string) bool {
	for _, v := range row.Values() {
		if strings.Contains(strings.ToLower(RenderCell(v)), normalized) {
			return true
		}
	}
	return false
}
