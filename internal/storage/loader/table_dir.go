package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/domain/schema"
)

// loadTableDir reads a table directory: meta.json declares the ordered
// columns, data.json holds an array of row objects. A missing data.json
// yields a dataset with zero rows.
func loadTableDir(path string) (*schema.Dataset, error) {
	metaPath := filepath.Join(path, "meta.json")
	dataPath := filepath.Join(path, "data.json")

	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, errors.NewLoadError(path, errors.StageOpen, err)
	}

	var meta TableMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, errors.NewLoadError(path, errors.StageHeader, fmt.Errorf("failed to parse table meta: %w", err))
	}

	header := make([]string, len(meta.Columns))
	for i, c := range meta.Columns {
		header[i] = c.Name
	}

	name := meta.Name
	if name == "" {
		name = datasetName(path)
	}
	ds := schema.NewDataset(name, path, header)

	if _, err := os.Stat(dataPath); err != nil {
		return ds, nil
	}

	dataBytes, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, errors.NewLoadError(path, errors.StageRead, err)
	}

	dec := json.NewDecoder(bytes.NewReader(dataBytes))
	dec.UseNumber()

	var rows []map[string]interface{}
	if err := dec.Decode(&rows); err != nil {
		return nil, errors.NewLoadError(path, errors.StageRead, fmt.Errorf("failed to parse table data: %w", err))
	}

	for _, raw := range rows {
		values := make([]interface{}, len(ds.Columns))
		for i := range ds.Columns {
			values[i] = jsonCell(raw[header[i]])
		}
		ds.AppendValues(values)
	}

	return ds, nil
}

func jsonCell(v interface{}) interface{} {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
