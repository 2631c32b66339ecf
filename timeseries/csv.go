package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingValue is returned when a CSV row holds an empty or NA value.
// Holt-Winters needs a regularly sampled series, so gaps are not skipped.
var ErrMissingValue = errors.New("missing value in series")

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for dates (optional)
	ValueColumn string // Column name for values (default: "y")
	IDColumn    string // Column name for series ID (optional, for filtering)
	IDFilter    string // Value to filter by ID column
	DateFormat  string // Date format (default: "2006-01-02")
	HasHeader   bool   // Whether CSV has header row (default: true)
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		DateFormat:  "2006-01-02",
		HasHeader:   true,
		Delimiter:   ',',
	}
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
	"2006",
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	series, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return series, nil
}

// LoadCSVFromReader loads a time series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	valueIdx, dateIdx, idIdx := 1, 0, -1
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		valueIdx, dateIdx, idIdx = columnIndices(header, opts)
		if valueIdx == -1 {
			return nil, fmt.Errorf("value column %q not found", opts.ValueColumn)
		}
	}

	var values []float64
	var timestamps []time.Time
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if !opts.HasHeader && len(record) == 1 {
			valueIdx, dateIdx = 0, -1
		}

		if opts.IDFilter != "" && idIdx >= 0 && idIdx < len(record) {
			if clean(record[idIdx]) != opts.IDFilter {
				continue
			}
		}

		if valueIdx >= len(record) {
			return nil, fmt.Errorf("line %d: %w", line, ErrMissingValue)
		}
		raw := clean(record[valueIdx])
		if raw == "" || raw == "NA" || raw == "NaN" || raw == "null" {
			return nil, fmt.Errorf("line %d: %w", line, ErrMissingValue)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse value %q: %w", line, raw, err)
		}
		values = append(values, v)

		if dateIdx >= 0 && dateIdx < len(record) {
			if ts, ok := parseDate(clean(record[dateIdx]), opts.DateFormat); ok {
				timestamps = append(timestamps, ts)
			}
		}
	}

	if len(values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	if len(timestamps) == len(values) {
		return &Series{
			Timestamps: timestamps,
			Values:     values,
			Name:       opts.ValueColumn,
		}, nil
	}

	s := New(values)
	s.Name = opts.ValueColumn
	return s, nil
}

func columnIndices(header []string, opts *CSVOptions) (valueIdx, dateIdx, idIdx int) {
	valueIdx, dateIdx, idIdx = -1, -1, -1
	for i, h := range header {
		h = clean(h)
		switch {
		case h == opts.ValueColumn:
			valueIdx = i
		case opts.DateColumn != "" && h == opts.DateColumn:
			dateIdx = i
		case opts.IDColumn != "" && h == opts.IDColumn:
			idIdx = i
		case opts.DateColumn == "" && dateIdx == -1 && (h == "ds" || h == "date" || h == "Date" || h == "Quarter" || h == "Month"):
			dateIdx = i
		}
	}
	if valueIdx == -1 && opts.ValueColumn == "" && len(header) > 0 {
		valueIdx = len(header) - 1
	}
	return valueIdx, dateIdx, idIdx
}

func parseDate(s, preferred string) (time.Time, bool) {
	if preferred != "" {
		if ts, err := time.Parse(preferred, s); err == nil {
			return ts, true
		}
	}
	for _, layout := range dateFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

// SaveCSV writes a time series to w with an index column followed by the value.
// When the series carries timestamps they are used as the index.
func SaveCSV(w io.Writer, series *Series) error {
	writer := csv.NewWriter(w)

	dated := len(series.Timestamps) == len(series.Values)
	header := []string{"index", "y"}
	if dated {
		header[0] = "ds"
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, v := range series.Values {
		idx := strconv.Itoa(i + 1)
		if dated {
			idx = series.Timestamps[i].Format("2006-01-02")
		}
		if err := writer.Write([]string{idx, strconv.FormatFloat(v, 'f', -1, 64)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
