package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingByName resolves a charset name. The empty name and UTF-8 map to
// nil, meaning no transcoding.
func EncodingByName(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "shift_jis", "sjis", "windows-31j", "ms932", "cp932":
		return japanese.ShiftJIS, nil
	case "euc-jp", "eucjp":
		return japanese.EUCJP, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	}
	return nil, fmt.Errorf("source: unknown charset %q", name)
}

// Decode returns a reader producing UTF-8. A leading byte order mark is
// honored and removed whatever the declared charset.
func Decode(r io.Reader, charset string) (io.Reader, error) {
	enc, err := EncodingByName(charset)
	if err != nil {
		return nil, err
	}
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if enc != nil {
		fallback = enc.NewDecoder()
	}
	return transform.NewReader(r, unicode.BOMOverride(fallback)), nil
}

// Encode returns a writer that transcodes UTF-8 into charset. The closer
// flushes the encoder and is nil when no transcoding is needed.
func Encode(w io.Writer, charset string) (io.Writer, io.Closer, error) {
	enc, err := EncodingByName(charset)
	if err != nil {
		return nil, nil, err
	}
	if enc == nil {
		return w, nil, nil
	}
	tw := transform.NewWriter(w, enc.NewEncoder())
	return tw, tw, nil
}

func closeEncoder(c io.Closer) error {
	if c == nil {
		return nil
	}
	return c.Close()
}
