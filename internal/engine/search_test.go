package engine

import (
	"errors"
	"fmt"
	"testing"

	domainerrors "github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/domain/schema"
	"github.com/leengari/allergy-lookup/internal/testutil"
)

func TestSearchScenario(t *testing.T) {
	ds := testutil.AllergyDataset()

	t.Run("single match", func(t *testing.T) {
		res, err := Search(ds, "milk")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		testutil.AssertRowCount(t, len(res.Matches), 1, "milk")
		testutil.AssertColumnValues(t, res.Matches, "symptom", []string{"rash"}, "milk")
		testutil.AssertColumnValues(t, res.Matches, "ingredient", []string{"milk"}, "milk")
	})

	t.Run("no match", func(t *testing.T) {
		res, err := Search(ds, "banana")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if !res.NoMatches() {
			t.Errorf("Expected no matches, got %d", len(res.Matches))
		}
		if res.Scanned != 3 {
			t.Errorf("Expected all 3 rows scanned, got %d", res.Scanned)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := Search(ds, "")
		if !errors.Is(err, domainerrors.ErrEmptyQuery) {
			t.Errorf("Expected ErrEmptyQuery, got %v", err)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		lower, err := Search(ds, "milk")
		if err != nil {
			t.Fatal(err)
		}
		upper, err := Search(ds, "MILK")
		if err != nil {
			t.Fatal(err)
		}
		mixed, err := Search(ds, "  Milk\t")
		if err != nil {
			t.Fatal(err)
		}
		want := testutil.ColumnStrings(lower.Matches, "symptom")
		testutil.AssertColumnValues(t, upper.Matches, "symptom", want, "MILK")
		testutil.AssertColumnValues(t, mixed.Matches, "symptom", want, "Milk")
	})

	t.Run("match returns all columns", func(t *testing.T) {
		res, err := Search(ds, "sneeze")
		if err != nil {
			t.Fatal(err)
		}
		if res.Matches[0].Len() != 2 {
			t.Errorf("Expected full row with 2 columns, got %d", res.Matches[0].Len())
		}
	})
}

func TestSearchEmptyQueryAnyDatasetState(t *testing.T) {
	datasets := map[string]*schema.Dataset{
		"loaded":     testutil.AllergyDataset(),
		"nil":        nil,
		"no columns": schema.NewDataset("x", "x", nil),
	}
	queries := []string{"", " ", "\t\n", "   \r\n  "}

	for name, ds := range datasets {
		for _, q := range queries {
			_, err := Search(ds, q)
			if !errors.Is(err, domainerrors.ErrEmptyQuery) {
				t.Errorf("%s dataset, query %q: expected ErrEmptyQuery, got %v", name, q, err)
			}
		}
	}
}

func TestSearchUnavailableDataset(t *testing.T) {
	for _, ds := range []*schema.Dataset{nil, schema.NewDataset("x", "x", nil)} {
		for _, q := range []string{"milk", "banana", "x", "MILK"} {
			_, err := Search(ds, q)
			if !errors.Is(err, domainerrors.ErrDatasetUnavailable) {
				t.Errorf("query %q: expected ErrDatasetUnavailable, got %v", q, err)
			}
		}
	}
}

func TestSearchZeroRowsIsNotUnavailable(t *testing.T) {
	ds := schema.NewDataset("x", "x", []string{"symptom"})

	res, err := Search(ds, "milk")
	if err != nil {
		t.Fatalf("Expected no error for an empty but loaded dataset, got %v", err)
	}
	if !res.NoMatches() {
		t.Error("Expected no matches")
	}
}

func TestSearchCapsAtMaxMatches(t *testing.T) {
	rows := make([][]interface{}, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, []interface{}{fmt.Sprintf("row-%02d", i), "peanut"})
	}
	ds := testutil.NewDataset([]string{"id", "ingredient"}, rows)

	res, err := Search(ds, "peanut")
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertRowCount(t, len(res.Matches), MaxMatches, "cap")
	testutil.AssertColumnValues(t, res.Matches, "id",
		[]string{"row-00", "row-01", "row-02", "row-03", "row-04"}, "first five in order")
	if res.Scanned != MaxMatches {
		t.Errorf("Expected scan to stop after %d rows, got %d", MaxMatches, res.Scanned)
	}
}

func TestSearchDeterministic(t *testing.T) {
	ds := testutil.NewDataset([]string{"symptom", "ingredient"}, [][]interface{}{
		{"hives", "egg"},
		{"rash", "eggplant"},
		{"swelling", "shellfish"},
		{"cough", "egg white"},
	})

	first, err := Search(ds, "egg")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"hives", "rash", "cough"}
	testutil.AssertColumnValues(t, first.Matches, "symptom", want, "order")

	for i := 0; i < 10; i++ {
		again, err := Search(ds, "EGG ")
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertColumnValues(t, again.Matches, "symptom", want, "repeat")
	}
}

func TestSearchMatchesTypedCells(t *testing.T) {
	ds := testutil.NewDataset([]string{"ingredient", "cases", "ratio", "note"}, [][]interface{}{
		{"peanut", int64(1204), 0.25, nil},
		{"milk", int64(7), 1.5, "seasonal"},
	})

	tests := []struct {
		query string
		want  []string
	}{
		{"120", []string{"peanut"}},
		{"0.25", []string{"peanut"}},
		{"1.5", []string{"milk"}},
		{"season", []string{"milk"}},
		{"nil", []string{}},
		{"<nil>", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res, err := Search(ds, tt.query)
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertColumnValues(t, res.Matches, "ingredient", tt.want, tt.query)
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	q, err := NormalizeQuery("  PeaNut ")
	if err != nil {
		t.Fatal(err)
	}
	if q != "peanut" {
		t.Errorf("Expected 'peanut', got %q", q)
	}
}
