// Package source adapts byte streams into rows for the engine and rows back
// into byte streams: delimited (CSV) text, fixed-width lines and in-memory
// slices.
package source

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/reoring/rowskema/fixedwidth"
)

// Row is one record as read from or written to a stream.
type Row struct {
	// Line is the physical line number where the row starts (1-based).
	Line int
	// Cols holds the column texts. Fixed-width sources leave it nil and the
	// engine tokenizes Text.
	Cols []string
	// Text is the whole line for fixed-width rows.
	Text string
}

// Rows yields rows until io.EOF.
type Rows interface {
	Next() (Row, error)
}

// Sink accepts rows.
type Sink interface {
	WriteRow(Row) error
	Flush() error
}

// CSVOptions configures CSV reading.
type CSVOptions struct {
	Comma            rune // default ','
	Comment          rune // lines starting with it are skipped; 0 disables
	LazyQuotes       bool
	TrimLeadingSpace bool
	// Charset names the input encoding (see Decode).
	Charset string
}

type csvRows struct {
	r *csv.Reader
}

// CSV reads delimited rows. Column counts are not enforced here; the engine
// reports them per row.
func CSV(r io.Reader, opts CSVOptions) (Rows, error) {
	dr, err := Decode(r, opts.Charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dr)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.Comment = opts.Comment
	cr.LazyQuotes = opts.LazyQuotes
	cr.TrimLeadingSpace = opts.TrimLeadingSpace
	cr.FieldsPerRecord = -1
	return &csvRows{r: cr}, nil
}

func (s *csvRows) Next() (Row, error) {
	rec, err := s.r.Read()
	if err != nil {
		return Row{}, err
	}
	line, _ := s.r.FieldPos(0)
	return Row{Line: line, Cols: rec}, nil
}

// FixedOptions configures fixed-width reading.
type FixedOptions struct {
	fixedwidth.ReaderOptions
	Charset string
}

type fixedRows struct {
	r *fixedwidth.Reader
}

// FixedWidth reads one row per line.
func FixedWidth(r io.Reader, opts FixedOptions) (Rows, error) {
	dr, err := Decode(r, opts.Charset)
	if err != nil {
		return nil, err
	}
	return &fixedRows{r: fixedwidth.NewReader(dr, opts.ReaderOptions)}, nil
}

func (s *fixedRows) Next() (Row, error) {
	text, line, err := s.r.ReadLine()
	if err != nil {
		return Row{}, err
	}
	return Row{Line: line, Text: text}, nil
}

type sliceRows struct {
	rows []Row
	i    int
}

// Slice serves in-memory column rows numbered from line 1.
func Slice(rows ...[]string) Rows {
	s := &sliceRows{rows: make([]Row, len(rows))}
	for i, cols := range rows {
		s.rows[i] = Row{Line: i + 1, Cols: cols}
	}
	return s
}

// Lines serves in-memory fixed-width lines numbered from line 1.
func Lines(lines ...string) Rows {
	s := &sliceRows{rows: make([]Row, len(lines))}
	for i, text := range lines {
		s.rows[i] = Row{Line: i + 1, Text: text}
	}
	return s
}

func (s *sliceRows) Next() (Row, error) {
	if s.i >= len(s.rows) {
		return Row{}, io.EOF
	}
	r := s.rows[s.i]
	s.i++
	return r, nil
}

// CSVWriteOptions configures CSV writing.
type CSVWriteOptions struct {
	Comma   rune
	UseCRLF bool
	Charset string
}

type csvSink struct {
	w *csv.Writer
	c io.Closer
}

// CSVSink writes Row.Cols as delimited records.
func CSVSink(w io.Writer, opts CSVWriteOptions) (Sink, error) {
	ew, closer, err := Encode(w, opts.Charset)
	if err != nil {
		return nil, err
	}
	cw := csv.NewWriter(ew)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}
	cw.UseCRLF = opts.UseCRLF
	return &csvSink{w: cw, c: closer}, nil
}

func (s *csvSink) WriteRow(r Row) error { return s.w.Write(r.Cols) }

func (s *csvSink) Flush() error {
	s.w.Flush()
	return errors.Join(s.w.Error(), closeEncoder(s.c))
}

type fixedSink struct {
	w *fixedwidth.Writer
	c io.Closer
}

// FixedWidthSink writes Row.Text followed by eol (default CR LF).
func FixedWidthSink(w io.Writer, eol, charset string) (Sink, error) {
	ew, closer, err := Encode(w, charset)
	if err != nil {
		return nil, err
	}
	return &fixedSink{w: fixedwidth.NewWriter(ew, eol), c: closer}, nil
}

func (s *fixedSink) WriteRow(r Row) error { return s.w.WriteLine(r.Text) }

func (s *fixedSink) Flush() error {
	return errors.Join(s.w.Flush(), closeEncoder(s.c))
}

// Collector is an in-memory Sink.
type Collector struct {
	Rows []Row
}

func (c *Collector) WriteRow(r Row) error {
	r.Cols = append([]string(nil), r.Cols...)
	c.Rows = append(c.Rows, r)
	return nil
}

func (c *Collector) Flush() error { return nil }
