package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/domain/schema"
)

// loadXLSX reads the first worksheet of a workbook.
// The first row is the header; blank rows are skipped. Cells keep the type
// stored in the workbook: text stays text, date-formatted numbers become
// time.Time.
func loadXLSX(path string) (*schema.Dataset, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewLoadError(path, errors.StageOpen, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewLoadError(path, errors.StageHeader, fmt.Errorf("workbook has no sheets"))
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewLoadError(path, errors.StageRead, err)
	}
	if len(rows) == 0 {
		return nil, errors.NewLoadError(path, errors.StageHeader, fmt.Errorf("sheet %q is empty", sheet))
	}

	cr, err := newCellReader(f, sheet)
	if err != nil {
		return nil, errors.NewLoadError(path, errors.StageRead, err)
	}

	ds := schema.NewDataset(datasetName(path), path, rows[0])
	for r, record := range rows[1:] {
		if isBlank(record) {
			continue
		}
		values := make([]interface{}, len(record))
		for c, raw := range record {
			// rows[0] is sheet row 1
			values[c] = cr.value(c+1, r+2, raw)
		}
		ds.AppendValues(values)
	}

	return ds, nil
}

// cellReader converts raw cell values using the cell type and number format
// recorded in the workbook
type cellReader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func newCellReader(f *excelize.File, sheet string) (*cellReader, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, err
	}
	cr := &cellReader{
		f:          f,
		sheet:      sheet,
		dateStyles: make(map[int]bool),
	}
	if props.Date1904 != nil {
		cr.date1904 = *props.Date1904
	}
	return cr, nil
}

// value converts one raw cell. Cells that cannot be converted keep their
// raw text.
func (cr *cellReader) value(col, row int, raw string) interface{} {
	if raw == "" {
		return nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	cellType, err := cr.f.GetCellType(cr.sheet, cell)
	if err != nil {
		return raw
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return raw
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeDate:
		// excelize reports ISO date cells as serial numbers
		if t, ok := cr.serialDate(raw); ok {
			return t
		}
		if t, ok := parseDate(raw); ok {
			return t
		}
		return raw
	}

	// Numeric cell (type "n" or unset)
	if cr.isDateCell(cell) {
		if t, ok := cr.serialDate(raw); ok {
			return t
		}
		return raw
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if fl, err := strconv.ParseFloat(raw, 64); err == nil {
		return fl
	}
	return raw
}

func (cr *cellReader) serialDate(raw string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, cr.date1904)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (cr *cellReader) isDateCell(cell string) bool {
	idx, err := cr.f.GetCellStyle(cr.sheet, cell)
	if err != nil {
		return false
	}
	if isDate, ok := cr.dateStyles[idx]; ok {
		return isDate
	}

	isDate := false
	if style, err := cr.f.GetStyle(idx); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	cr.dateStyles[idx] = isDate
	return isDate
}

// isDateNumFmt reports whether a number format displays a date or time.
// Built-in ids follow ECMA-376 18.8.30; custom codes are checked for date
// tokens outside quoted literals and bracketed sections.
func isDateNumFmt(id int, custom *string) bool {
	if custom != nil {
		return hasDateToken(*custom)
	}
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

func hasDateToken(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '\\':
			i++
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		default:
			switch ch | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}
