package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	Delimiter rune     // Field delimiter (default: ',')
	SkipRows  int      // Number of rows to skip before the header
	Columns   []string // Columns to load (default: all)
	NATokens  []string // Cell values treated as missing
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Delimiter: ',',
		NATokens:  []string{"", "NA", "NaN", "nan", "null", "NULL"},
	}
}

// LoadCSV loads a frame from a CSV file with a header row.
func LoadCSV(filename string, opts *CSVOptions) (*Frame, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a frame from an io.Reader.
//
// The first row after SkipRows is the header. A column whose non-missing
// cells all parse as numbers becomes numeric; any other column is categorical.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Frame, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrNoData)
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.Trim(h, "\""))
	}

	indices, err := selectColumns(header, opts.Columns)
	if err != nil {
		return nil, err
	}

	raw := make([][]string, len(indices))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for j, idx := range indices {
			cell := ""
			if idx < len(record) {
				cell = strings.TrimSpace(strings.Trim(record[idx], "\""))
			}
			raw[j] = append(raw[j], cell)
		}
	}

	if len(raw) == 0 || len(raw[0]) == 0 {
		return nil, fmt.Errorf("%w: no rows in CSV", ErrNoData)
	}

	na := make(map[string]struct{}, len(opts.NATokens))
	for _, tok := range opts.NATokens {
		na[tok] = struct{}{}
	}

	f := New()
	for j, idx := range indices {
		name := header[idx]
		if values, ok := parseNumeric(raw[j], na); ok {
			err = f.AddNumeric(name, values)
		} else {
			err = f.AddCategorical(name, normalizeLevels(raw[j], na))
		}
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}

func selectColumns(header, wanted []string) ([]int, error) {
	if len(wanted) == 0 {
		indices := make([]int, len(header))
		for i := range header {
			indices[i] = i
		}
		return indices, nil
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	indices := make([]int, 0, len(wanted))
	for _, w := range wanted {
		i, ok := pos[w]
		if !ok {
			return nil, fmt.Errorf("dataset: column %q not found in CSV header", w)
		}
		indices = append(indices, i)
	}
	return indices, nil
}

func parseNumeric(cells []string, na map[string]struct{}) ([]float64, bool) {
	values := make([]float64, len(cells))
	for i, cell := range cells {
		if _, missing := na[cell]; missing {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	// An all-missing column carries no type information; keep it numeric.
	return values, true
}

func normalizeLevels(cells []string, na map[string]struct{}) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		if _, missing := na[cell]; missing {
			continue
		}
		out[i] = cell
	}
	return out
}

// SaveCSV writes the frame to a CSV file with a header row. Missing values are written as "NA".
func SaveCSV(f *Frame, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(f, file)
}

// WriteCSV writes the frame as CSV to w.
func WriteCSV(f *Frame, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.names); err != nil {
		return err
	}

	record := make([]string, len(f.names))
	for i := 0; i < f.rows; i++ {
		for j, name := range f.names {
			c := f.columns[name]
			switch c.kind {
			case Numeric:
				if math.IsNaN(c.numbers[i]) {
					record[j] = "NA"
				} else {
					record[j] = strconv.FormatFloat(c.numbers[i], 'f', -1, 64)
				}
			case Categorical:
				if c.levels[i] == "" {
					record[j] = "NA"
				} else {
					record[j] = c.levels[i]
				}
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
