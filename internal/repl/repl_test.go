package repl

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leengari/allergy-lookup/internal/engine"
	"github.com/leengari/allergy-lookup/internal/storage/manager"
	"github.com/leengari/allergy-lookup/internal/testutil"
)

func TestStartRunsQueries(t *testing.T) {
	store := manager.NewStaticStore(testutil.AllergyDataset())
	eng := engine.New(store)

	in := strings.NewReader("milk\n\nbanana\n   \ninfo\nexit\npeanut\n")
	var out bytes.Buffer
	if err := Start(context.Background(), NewScannerReader(in, &out), &out, store, eng); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "rash") || !strings.Contains(got, "milk") {
		t.Errorf("Expected milk row in output, got:\n%s", got)
	}
	if !strings.Contains(got, "No matches found") {
		t.Errorf("Expected no-match line, got:\n%s", got)
	}
	if !strings.Contains(got, "3 rows, 2 columns") {
		t.Errorf("Expected info line, got:\n%s", got)
	}
	if strings.Contains(got, "peanut") {
		t.Errorf("Expected input after exit to be ignored, got:\n%s", got)
	}
}

func TestStartUnavailableAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allergy.csv")
	store := manager.NewStore(path, nil)
	_ = store.Load()
	eng := engine.New(store)

	in := strings.NewReader("milk\nreload\n")
	var out bytes.Buffer
	if err := Start(context.Background(), NewScannerReader(in, &out), &out, store, eng); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "dataset not loaded") {
		t.Errorf("Expected unavailable message, got:\n%s", got)
	}
	if strings.Count(got, "Error:") != 2 {
		t.Errorf("Expected search and reload errors, got:\n%s", got)
	}
}

func TestPrintResultNulls(t *testing.T) {
	ds := testutil.NewDataset([]string{"symptom", "ingredient"}, [][]interface{}{{"rash", nil}})
	res, err := engine.Search(ds, "rash")
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	PrintResult(&out, res)
	if !strings.Contains(out.String(), "NULL") {
		t.Errorf("Expected NULL for nil cell, got:\n%s", out.String())
	}
}

type historyReader struct {
	lines   []string
	history []string
}

func (r *historyReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *historyReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func TestStartRecordsHistory(t *testing.T) {
	store := manager.NewStaticStore(testutil.AllergyDataset())
	reader := &historyReader{lines: []string{" milk ", "", "info"}}

	var out bytes.Buffer
	if err := Start(context.Background(), reader, &out, store, engine.New(store)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if len(reader.history) != 2 || reader.history[0] != "milk" || reader.history[1] != "info" {
		t.Errorf("Expected history [milk info], got %v", reader.history)
	}
}
