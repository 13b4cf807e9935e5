// =============================================================================
// BOM Structure Converter - CSV Reader
// =============================================================================
//
// This module reads the semicolon-delimited reference CSVs that some
// conversions compare against, such as the registered-codes sheet used by
// the OLZ verification. The files come from the same ERP export family as
// our outputs: semicolon delimiter, optional UTF-8 byte order mark, comma
// decimal separators.
//
// Rows are exposed both as raw slices and as header-keyed maps so callers
// can fetch columns by name without caring about their position.
//
// =============================================================================

package csvreader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Data is the parsed CSV file.
type Data struct {
	// Headers are the trimmed column headers.
	Headers []string

	// Rows are the data rows keyed by header.
	Rows []map[string]string

	// RawRows are the data rows as read, for diagnostics.
	RawRows [][]string

	SourceFile string
}

// Options controls parsing.
type Options struct {
	// Delimiter is the field separator. Default: ';'
	Delimiter rune

	// TrimFields trims whitespace around every value. Default behavior
	// when using DefaultOptions.
	TrimFields bool
}

// DefaultOptions matches the ERP export family.
func DefaultOptions() Options {
	return Options{Delimiter: ';', TrimFields: true}
}

// utf8BOM may lead files produced by Excel or by our own writer.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile parses a reference CSV.
func ReadFile(filePath string, opts Options) (*Data, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	// Skip a leading byte order mark when present.
	lead, err := reader.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(lead, utf8BOM) {
		if _, err := reader.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("failed to skip BOM: %w", err)
		}
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = opts.Delimiter
	csvReader.FieldsPerRecord = -1 // exports are ragged on trailing columns

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file %s is empty", filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}

	data := &Data{Headers: headers, SourceFile: filePath}

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if opts.TrimFields {
			for i := range record {
				record[i] = strings.TrimSpace(record[i])
			}
		}
		if isEmpty(record) {
			continue
		}

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		data.Rows = append(data.Rows, row)
		data.RawRows = append(data.RawRows, record)
	}

	return data, nil
}

// Column returns every value of the named column, in row order. Missing
// columns come back as an error so callers fail loudly on a wrong export.
func (d *Data) Column(name string) ([]string, error) {
	found := false
	for _, h := range d.Headers {
		if strings.EqualFold(h, name) {
			name = h
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("column %q not found in %s (headers: %s)",
			name, d.SourceFile, strings.Join(d.Headers, ", "))
	}

	values := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		values = append(values, row[name])
	}
	return values, nil
}

func isEmpty(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
