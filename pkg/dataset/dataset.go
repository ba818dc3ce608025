// Package dataset reads tabular label data from CSV and XLSX files.
//
// The first row of the input is the header; every following row becomes one
// Record keyed by the trimmed header names. Field order is preserved in
// Columns, so downstream consumers can show fields the way the file listed
// them. Short rows are padded with empty strings, never rejected.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/labelpress/labelpress/pkg/errors"
)

// Record holds the field values of one data row. Lookups for fields the
// row does not carry return the empty string.
type Record map[string]string

// Field returns the value for the named field, or "" when absent. This is
// the contract the render planner consumes.
func (r Record) Field(name string) string {
	return r[name]
}

// Dataset is an ingested table: the header names in file order and one
// record per data row.
type Dataset struct {
	Columns []string
	Records []Record
}

// Read loads a dataset from path, choosing the parser by file extension.
// CSV and XLSX are supported; legacy .xls is rejected with a hint since the
// binary BIFF format needs a conversion step we do not carry.
func Read(path string) (*Dataset, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	case ".xls":
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"legacy .xls files are not supported; save %q as .xlsx or .csv first", filepath.Base(path))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported dataset format %q, want .csv or .xlsx", ext)
	}
}

func readCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %q", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "opening dataset %q", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may be shorter than the header
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "parsing dataset %q", path)
		}
		rows = append(rows, row)
	}
	return fromRows(path, rows)
}

func readXLSX(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %q", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "opening dataset %q", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "dataset %q has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "reading sheet %q of %q", sheets[0], path)
	}
	return fromRows(path, rows)
}

// fromRows builds a dataset from raw rows: the first row is the header,
// trimmed cell by cell. Data cells keep their whitespace; trimming values
// is the planner's call, not ingestion's.
func fromRows(path string, rows [][]string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "dataset %q is empty, want a header row", path)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	ds := &Dataset{Columns: header}
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// Require checks that every named column appears in the header, reporting
// all missing names at once.
func (d *Dataset) Require(cols ...string) error {
	have := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		have[c] = true
	}
	var missing []string
	for _, c := range cols {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"dataset is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Subset returns a copy of the dataset keeping only the given 1-based row
// indexes, in the order requested. Out-of-range indexes are an error.
func (d *Dataset) Subset(rows []int) (*Dataset, error) {
	out := &Dataset{Columns: d.Columns}
	for _, n := range rows {
		if n < 1 || n > len(d.Records) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"row %d is out of range, the dataset has %d", n, len(d.Records))
		}
		out.Records = append(out.Records, d.Records[n-1])
	}
	return out, nil
}

// ParseRows parses a 1-based row selection like "1,3-5" into the expanded
// index list. Ranges are inclusive and must ascend.
func ParseRows(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := strings.Cut(part, "-")
		first, err := parseIndex(lo)
		if err != nil {
			return nil, err
		}
		if !ok {
			out = append(out, first)
			continue
		}
		last, err := parseIndex(hi)
		if err != nil {
			return nil, err
		}
		if last < first {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"row range %q must ascend", part)
		}
		for n := first; n <= last; n++ {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "row selection %q selects nothing", s)
	}
	return out, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"row selection needs positive numbers, got %q", strings.TrimSpace(s))
	}
	return n, nil
}
