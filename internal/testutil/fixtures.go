// Package testutil holds fixtures and assertions shared by tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leengari/allergy-lookup/internal/domain/schema"
)

// AllergyColumns is the column list of the reference fixture
var AllergyColumns = []string{"symptom", "ingredient"}

// AllergyRows is the reference fixture: three rows in a fixed order
var AllergyRows = [][]interface{}{
	{"itching", "peanut"},
	{"rash", "milk"},
	{"sneeze", "pollen"},
}

// AllergyDataset builds the reference dataset in memory
func AllergyDataset() *schema.Dataset {
	return NewDataset(AllergyColumns, AllergyRows)
}

// NewDataset builds an in-memory dataset from columns and rows
func NewDataset(columns []string, rows [][]interface{}) *schema.Dataset {
	ds := schema.NewDataset("fixture", "fixture", columns)
	for _, r := range rows {
		ds.AppendValues(r)
	}
	return ds
}

// AllergyCSV is the reference fixture as CSV text
const AllergyCSV = "symptom,ingredient\nitching,peanut\nrash,milk\nsneeze,pollen\n"

// WriteFile writes content to name inside a fresh temp dir and returns the path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// WriteAllergyCSV writes the reference fixture as a CSV file
func WriteAllergyCSV(t *testing.T) string {
	t.Helper()
	return WriteFile(t, "allergy.csv", AllergyCSV)
}
