// Package delim parses and serializes delimited text files. It is the
// default implementation of the pipeline's parser and serializer
// collaborators, wrapping encoding/csv with skip-rows handling and
// row-numbered errors.
package delim

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/recell/recell/table"
)

// ParseOptions controls how delimited input is interpreted.
type ParseOptions struct {
	// Delimiter separates fields; zero means comma.
	Delimiter rune
	// SkipRows discards this many physical rows before the header.
	SkipRows int
}

// ParseError reports malformed upload content. It is user-visible and
// recoverable by re-uploading a corrected file.
type ParseError struct {
	Row int
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at row %d: %v", e.Row, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads delimited text into a table. The first row after any
// skipped rows is the header; every following row must have the same
// number of fields.
func Parse(r io.Reader, opts ParseOptions) (table.Table, error) {
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}

	cr := csv.NewReader(r)
	cr.Comma = delimiter
	// Field counts are validated here so errors carry logical row
	// numbers relative to the header, not csv's physical lines.
	cr.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return table.Table{}, &ParseError{Row: i + 1, Err: fmt.Errorf("input ends before header: %w", err)}
			}
			return table.Table{}, wrapCSVError(err, i+1)
		}
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return table.Table{}, &ParseError{Row: opts.SkipRows + 1, Err: errors.New("missing header row")}
		}
		return table.Table{}, wrapCSVError(err, opts.SkipRows+1)
	}

	t := table.Table{Columns: append([]string(nil), header...)}
	for row := 1; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table.Table{}, wrapCSVError(err, row)
		}
		if len(record) != len(t.Columns) {
			return table.Table{}, &ParseError{
				Row: row,
				Err: fmt.Errorf("expected %d fields, got %d", len(t.Columns), len(record)),
			}
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

// Write serializes a table as delimited text, header first.
func Write(w io.Writer, t table.Table, delimiter rune) error {
	if delimiter == 0 {
		delimiter = ','
	}
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Bytes serializes a table to an in-memory delimited artifact.
func Bytes(t table.Table, delimiter rune) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t, delimiter); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func wrapCSVError(err error, row int) *ParseError {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Row: row, Err: csvErr.Err}
	}
	return &ParseError{Row: row, Err: err}
}
