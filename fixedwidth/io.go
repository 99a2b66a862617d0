package fixedwidth

import (
	"bufio"
	"io"
)

// DefaultEOL terminates encoded lines.
const DefaultEOL = "\r\n"

// ReaderOptions configures line reading.
type ReaderOptions struct {
	// IgnoreEmptyLines skips lines with no characters.
	IgnoreEmptyLines bool
	// Comment reports lines to skip; nil keeps every line.
	Comment func(line string) bool
	// MaxLineSize bounds a single line in bytes (default 1 MiB).
	MaxLineSize int
}

// Reader yields logical lines along with their physical line numbers.
type Reader struct {
	sc   *bufio.Scanner
	opts ReaderOptions
	line int
}

// NewReader wraps r. CR LF and LF line endings are both accepted.
func NewReader(r io.Reader, opts ReaderOptions) *Reader {
	sc := bufio.NewScanner(r)
	limit := opts.MaxLineSize
	if limit <= 0 {
		limit = 1 << 20
	}
	sc.Buffer(make([]byte, 0, 64*1024), limit)
	return &Reader{sc: sc, opts: opts}
}

// ReadLine returns the next line and its 1-based line number, or io.EOF.
func (r *Reader) ReadLine() (string, int, error) {
	for r.sc.Scan() {
		r.line++
		text := trimCR(r.sc.Text())
		if text == "" && r.opts.IgnoreEmptyLines {
			continue
		}
		if r.opts.Comment != nil && r.opts.Comment(text) {
			continue
		}
		return text, r.line, nil
	}
	if err := r.sc.Err(); err != nil {
		return "", r.line, err
	}
	return "", r.line, io.EOF
}

// Line returns the number of physical lines consumed so far.
func (r *Reader) Line() int { return r.line }

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}

// Writer writes encoded lines terminated by an end-of-line marker.
type Writer struct {
	w   *bufio.Writer
	eol string
}

// NewWriter wraps w. An empty eol selects DefaultEOL.
func NewWriter(w io.Writer, eol string) *Writer {
	if eol == "" {
		eol = DefaultEOL
	}
	return &Writer{w: bufio.NewWriter(w), eol: eol}
}

// WriteLine writes one line followed by the end-of-line marker.
func (w *Writer) WriteLine(line string) error {
	if _, err := w.w.WriteString(line); err != nil {
		return err
	}
	_, err := w.w.WriteString(w.eol)
	return err
}

// Flush flushes buffered output.
func (w *Writer) Flush() error { return w.w.Flush() }
