// Package csv is the CSV codec for bulk record ingestion and export.
//
// It knows nothing about leads: Parse turns raw text into header-keyed
// records with source line numbers, and Write serializes flat records back
// to RFC 4180 text. Header cells are normalized once at parse time with
// NormalizeHeader so callers can look fields up by canonical key.
package csv

import (
	"bytes"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNoHeader is returned when the document has no header row.
	ErrNoHeader = errors.New("missing header row")

	// ErrDuplicateColumn is returned when two header cells normalize to the same key.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrFieldCount is returned when a row carries values beyond the header width.
	ErrFieldCount = errors.New("wrong number of fields")
)

// ParseError describes a structural problem that makes the whole document
// unusable. Line is the 1-based physical line where parsing stopped.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid csv at line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Record is one non-empty data row.
type Record struct {
	// Line is the row's position counting the header as line 1, so the
	// first data row is line 2. Blank rows do not advance it.
	Line int

	// Fields maps canonical header keys to the raw cell values.
	// Cells missing from a short row map to "".
	Fields map[string]string

	// Cells is the row exactly as read.
	Cells []string
}

// Document is a parsed CSV payload.
type Document struct {
	Columns []string // header cells as written
	Keys    []string // canonical key per column ("" for blank header cells)
	Records []Record
}

// HasColumn reports whether the header carried the canonical key.
func (d *Document) HasColumn(key string) bool {
	for _, k := range d.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Parse reads the whole document from r.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses an in-memory document. The first non-empty line is the
// header. Rows whose cells are all blank are skipped. Rows shorter than the
// header are padded with empty values; rows with non-empty values beyond
// the header width, unbalanced quotes, or duplicate header keys make the
// whole document invalid and yield a *ParseError.
func ParseBytes(data []byte) (*Document, error) {
	cr := stdcsv.NewReader(bytes.NewReader(sanitize(data)))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, wrapReadError(err, 1)
	}
	if isBlank(header) {
		return nil, ErrNoHeader
	}

	doc := &Document{
		Columns: header,
		Keys:    make([]string, len(header)),
	}
	seen := make(map[string]bool, len(header))
	for i, cell := range header {
		key := NormalizeHeader(cell)
		if key != "" && seen[key] {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("%w: %q", ErrDuplicateColumn, strings.TrimSpace(cell))}
		}
		seen[key] = true
		doc.Keys[i] = key
	}

	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapReadError(err, len(doc.Records)+2)
		}
		if isBlank(cells) {
			continue
		}

		line := len(doc.Records) + 2
		if extra := overflow(cells, len(doc.Keys)); extra > 0 {
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("%w: got %d, header has %d", ErrFieldCount, len(cells), len(doc.Keys)),
			}
		}

		rec := Record{
			Line:   line,
			Fields: make(map[string]string, len(doc.Keys)),
			Cells:  cells,
		}
		for i, key := range doc.Keys {
			if key == "" {
				continue
			}
			if i < len(cells) {
				rec.Fields[key] = cells[i]
			} else {
				rec.Fields[key] = ""
			}
		}
		doc.Records = append(doc.Records, rec)
	}

	return doc, nil
}

// Write serializes header and rows as CSV. The header line is always
// written, even when rows is empty. Values containing the delimiter, a
// quote, or a line break are quoted.
func Write(w io.Writer, header []string, rows [][]string) error {
	cw := stdcsv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// wrapReadError converts encoding/csv errors into a *ParseError, preferring
// the reader's own line number when it has one.
func wrapReadError(err error, fallbackLine int) error {
	var pe *stdcsv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Line: fallbackLine, Err: err}
}

// overflow counts non-empty cells past the header width.
func overflow(cells []string, width int) int {
	n := 0
	for i := width; i < len(cells); i++ {
		if strings.TrimSpace(cells[i]) != "" {
			n++
		}
	}
	return n
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
