// Package loader reads tabular files into in-memory datasets.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/domain/schema"
)

// Format identifies a supported tabular file format
type Format string

const (
	FormatXLSX     Format = "xlsx"
	FormatCSV      Format = "csv"
	FormatTSV      Format = "tsv"
	FormatParquet  Format = "parquet"
	FormatTableDir Format = "table_dir"
)

// DetectFormat picks the reader for a path from its extension.
// Directories are read as table directories (meta.json + data.json).
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return FormatTableDir, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

// Load reads the tabular file at path.
// Column names come from the header; rows keep file order.
// Any failure is returned as a *errors.LoadError.
func Load(path string) (*schema.Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, errors.NewLoadError(path, errors.StageOpen, err)
		}
		return nil, errors.NewLoadError(path, errors.StageFormat, err)
	}

	var ds *schema.Dataset
	switch format {
	case FormatXLSX:
		ds, err = loadXLSX(path)
	case FormatCSV:
		ds, err = loadDelimited(path, ',')
	case FormatTSV:
		ds, err = loadDelimited(path, '\t')
	case FormatParquet:
		ds, err = loadParquet(path)
	case FormatTableDir:
		ds, err = loadTableDir(path)
	}
	if err != nil {
		return nil, err
	}

	if !ds.HasColumns() {
		return nil, errors.NewLoadError(path, errors.StageHeader, fmt.Errorf("no columns found"))
	}

	ds.LoadedAt = time.Now()
	return ds, nil
}

func datasetName(path string) string {
	return filepath.Base(filepath.Clean(path))
}
