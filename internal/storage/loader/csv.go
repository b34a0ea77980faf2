package loader

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/domain/schema"
)

const utf8BOM = "\ufeff"

func loadDelimited(path string, comma rune) (*schema.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewLoadError(path, errors.StageOpen, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1 // ragged rows are padded or truncated
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewLoadError(path, errors.StageHeader, io.ErrUnexpectedEOF)
		}
		return nil, errors.NewLoadError(path, errors.StageHeader, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	ds := schema.NewDataset(datasetName(path), path, header)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewLoadError(path, errors.StageRead, err)
		}
		ds.AppendValues(inferRecord(record))
	}

	return ds, nil
}
