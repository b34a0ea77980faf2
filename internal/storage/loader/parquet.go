package loader

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/panjf2000/ants/v2"

	"github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/domain/schema"
)

func loadParquet(path string) (*schema.Dataset, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, errors.NewLoadError(path, errors.StageOpen, err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, errors.NewLoadError(path, errors.StageHeader, fmt.Errorf("failed to create arrow reader: %w", err))
	}

	table, err := reader.ReadTable(context.Background())
	if err != nil {
		return nil, errors.NewLoadError(path, errors.StageRead, fmt.Errorf("failed to read parquet data: %w", err))
	}
	defer table.Release()

	fields := table.Schema().Fields()
	header := make([]string, len(fields))
	for i, field := range fields {
		header[i] = field.Name
	}

	numRows := int(table.NumRows())
	numCols := int(table.NumCols())
	records := make([][]interface{}, numRows)
	for i := range records {
		records[i] = make([]interface{}, numCols)
	}

	if err := scatterColumns(table, records); err != nil {
		return nil, errors.NewLoadError(path, errors.StageRead, err)
	}

	ds := schema.NewDataset(datasetName(path), path, header)
	for _, values := range records {
		ds.AppendValues(values)
	}

	return ds, nil
}

// scatterColumns converts every column into the row slices. Arrow is
// columnar and each column writes a disjoint cell index, so columns are
// converted concurrently on a bounded pool.
func scatterColumns(table arrow.Table, records [][]interface{}) error {
	numRows := len(records)
	numCols := int(table.NumCols())
	if numCols == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		panicErr error
	)
	pool, err := ants.NewPool(min(numCols, runtime.GOMAXPROCS(0)), ants.WithPanicHandler(func(v any) {
		mu.Lock()
		panicErr = fmt.Errorf("column conversion panicked: %v", v)
		mu.Unlock()
		wg.Done()
	}))
	if err != nil {
		return fmt.Errorf("failed to create conversion pool: %w", err)
	}
	defer pool.Release()

	for c := 0; c < numCols; c++ {
		column := table.Column(c)
		col := c
		wg.Add(1)
		if err := pool.Submit(func() {
			row := 0
			for _, chunk := range column.Data().Chunks() {
				for i := 0; i < chunk.Len() && row < numRows; i++ {
					records[row][col] = arrowValue(chunk, i)
					row++
				}
			}
			wg.Done()
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("failed to schedule column %q: %w", column.Name(), err)
		}
	}
	wg.Wait()

	return panicErr
}

// arrowValue converts one arrow cell to a plain Go value
func arrowValue(arr arrow.Array, i int) interface{} {
	if arr.IsNull(i) {
		return nil
	}

	switch a := arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Uint64:
		return a.Value(i)
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Decimal32:
		return a.Value(i).ToFloat64(decimalScale(a))
	case *array.Decimal64:
		return a.Value(i).ToFloat64(decimalScale(a))
	case *array.Decimal128:
		return a.Value(i).ToFloat64(decimalScale(a))
	case *array.Decimal256:
		return a.Value(i).ToFloat64(decimalScale(a))
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Boolean:
		return a.Value(i)
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit)
	case *array.Date32:
		return a.Value(i).ToTime()
	case *array.Date64:
		return a.Value(i).ToTime()
	default:
		return arr.ValueStr(i)
	}
}

func decimalScale(arr arrow.Array) int32 {
	if dt, ok := arr.DataType().(arrow.DecimalType); ok {
		return dt.GetScale()
	}
	return 0
}
