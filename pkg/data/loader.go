package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Records is a raw tabular dataset: one header row followed by data rows.
// Cells are kept as read; interpretation of sentinels and types is left to
// the normalizer.
type Records struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the named header, or -1.
func (r *Records) Column(name string) int {
	for i, h := range r.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows.
func (r *Records) Len() int { return len(r.Rows) }

// ReadCSV loads a whole CSV file with a header row.
func ReadCSV(path string) (*Records, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	recs, err := ParseCSV(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ParseCSV reads CSV content with a header row. Every data row must have the
// same number of cells as the header.
func ParseCSV(r io.Reader) (*Records, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	// Some exports prefix the first header with a UTF-8 byte order mark.
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	recs := &Records{Header: header}
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		recs.Rows = append(recs.Rows, rec)
	}
	return recs, nil
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
