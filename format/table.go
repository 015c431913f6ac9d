package format

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const utf8BOM = "\ufeff"

// ReadTable reads CSV input whose first row must equal header and returns
// the data rows. Rows shorter than the header are an error; extra trailing
// fields are ignored.
func ReadTable(r io.Reader, header []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	got, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input, want %q", ErrHeaderMismatch, header)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing CSV header: %w", err)
	}
	if !headerEqual(got, header) {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrHeaderMismatch, got, header)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing CSV: %w", err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %d fields, want %d", line, len(row), len(header))
		}
		rows = append(rows, row[:len(header)])
	}

	return rows, nil
}

// WriteTable writes rows as CSV, preceded by header when includeHeader is set.
func WriteTable(w io.Writer, header []string, rows [][]string, includeHeader bool) error {
	writer := csv.NewWriter(w)

	if includeHeader {
		if err := writer.Write(header); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CreateFile truncates path and writes the header and rows.
func CreateFile(path string, header []string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	return WriteTable(f, header, rows, true)
}

// AppendFile appends rows to path, writing the header first only when the
// file is new or empty.
func AppendFile(path string, header []string, rows [][]string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	return WriteTable(f, header, rows, info.Size() == 0)
}

// ReadFile opens path and reads it with ReadTable.
func ReadFile(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadTable(f, header)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

func firstRow(peek []byte) ([]string, error) {
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		peek = peek[:i+1]
	}
	reader := csv.NewReader(bytes.NewReader(peek))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.Read()
}

func headerEqual(got, want []string) bool {
	if len(got) < len(want) {
		return false
	}
	for i, col := range want {
		name := strings.TrimSpace(got[i])
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if name != col {
			return false
		}
	}
	return true
}
