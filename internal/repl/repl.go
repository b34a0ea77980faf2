package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/peterh/liner"

	domainerrors "github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/engine"
	"github.com/leengari/allergy-lookup/internal/storage/manager"
)

const prompt = "> "

// LineReader yields one line of input per call. io.EOF ends the session.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

type historyAppender interface {
	AppendHistory(item string)
}

// NewTerminal returns a line editor with history on the controlling
// terminal. Close it to restore the terminal mode.
func NewTerminal() *liner.State {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return line
}

// scannerReader reads lines from a plain io.Reader, echoing the prompt
type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScannerReader reads lines from in, writing prompts to out
func NewScannerReader(in io.Reader, out io.Writer) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *scannerReader) Prompt(p string) (string, error) {
	fmt.Fprint(r.out, p)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// Start runs an interactive lookup loop: every line is a query, except the
// commands exit, \q, info and reload
func Start(ctx context.Context, lines LineReader, out io.Writer, store *manager.Store, eng *engine.Engine) error {
	fmt.Fprintln(out, "Allergy lookup")
	fmt.Fprintln(out, "Type a symptom or ingredient; 'info', 'reload', 'exit' or '\\q'.")

	history, _ := lines.(historyAppender)

	for {
		input, err := lines.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		line := strings.TrimSpace(input)
		if line != "" && history != nil {
			history.AppendHistory(line)
		}

		switch line {
		case "":
			continue
		case "exit", "\\q":
			return nil
		case "info":
			PrintInfo(out, store.Snapshot())
			continue
		case "reload":
			if err := store.Reload(); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Reloaded %d rows\n", store.Dataset().NumRows())
			continue
		}

		result, err := eng.Search(ctx, line)
		switch {
		case errors.Is(err, domainerrors.ErrDatasetUnavailable):
			fmt.Fprintln(out, "Error: dataset not loaded")
			continue
		case err != nil:
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}

		PrintResult(out, result)
	}
}

// PrintInfo prints what the store is serving
func PrintInfo(w io.Writer, snap *manager.Snapshot) {
	if !snap.Available() {
		fmt.Fprintf(w, "Dataset not loaded: %v\n", snap.Err)
		return
	}
	ds := snap.Dataset
	fmt.Fprintf(w, "%s: %d rows, %d columns (generation %d)\n", ds.Path, ds.NumRows(), len(ds.Columns), snap.Generation)
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(ds.Columns, ", "))
	if snap.Err != nil {
		fmt.Fprintf(w, "Last reload failed: %v\n", snap.Err)
	}
}

// PrintResult renders matches as an aligned table
func PrintResult(w io.Writer, res *engine.Result) {
	if res.NoMatches() {
		fmt.Fprintln(w, "No matches found")
		return
	}

	columns := res.Matches[0].Columns()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintln(tw, strings.Join(columns, "\t"))

	// Separator
	sep := make([]string, len(columns))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	// Rows
	for _, row := range res.Matches {
		cells := make([]string, len(columns))
		for i, v := range row.Values() {
			if v == nil {
				cells[i] = "NULL"
			} else {
				cells[i] = engine.RenderCell(v)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()

	fmt.Fprintf(w, "(%d of at most %d rows)\n", len(res.Matches), engine.MaxMatches)
}
