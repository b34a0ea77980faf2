package data

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNewRowPadsMissingValues(t *testing.T) {
	row := NewRow([]string{"symptom", "ingredient", "severity"}, []interface{}{"rash", "milk"})

	if row.Len() != 3 {
		t.Fatalf("Expected 3 columns, got %d", row.Len())
	}
	v, ok := row.Get("severity")
	if !ok {
		t.Fatal("Expected column 'severity' to exist")
	}
	if v != nil {
		t.Errorf("Expected nil for missing value, got %v", v)
	}
}

func TestRowMarshalKeepsColumnOrder(t *testing.T) {
	row := NewRow([]string{"zeta", "alpha", "mid"}, []interface{}{"z", int64(1), nil})

	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	expected := `{"zeta":"z","alpha":1,"mid":null}`
	if string(b) != expected {
		t.Errorf("Expected %s, got %s", expected, string(b))
	}
}

func TestRowMarshalNaN(t *testing.T) {
	row := NewRow([]string{"score"}, []interface{}{math.NaN()})

	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"score":null}` {
		t.Errorf("Expected NaN to serialize as null, got %s", string(b))
	}
}
