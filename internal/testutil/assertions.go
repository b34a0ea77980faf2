package testutil

import (
	"fmt"
	"testing"

	"github.com/leengari/allergy-lookup/internal/domain/data"
)

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertColumnValues checks one column across rows, in order
func AssertColumnValues(t *testing.T, rows []data.Row, column string, expected []string, context string) {
	t.Helper()
	actual := ColumnStrings(rows, column)
	if len(actual) != len(expected) {
		t.Errorf("%s: expected %s values %v, got %v", context, column, expected, actual)
		return
	}
	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("%s: expected %s values %v, got %v", context, column, expected, actual)
			return
		}
	}
}

// ColumnStrings returns the values of one column across rows, formatted with %v
func ColumnStrings(rows []data.Row, column string) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		v, _ := row.Get(column)
		out[i] = fmt.Sprintf("%v", v)
	}
	return out
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}

// AssertError checks that an error is not nil
func AssertError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", context)
	}
}
