package constraint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/rowskema"
)

// WordSource supplies word lists, either declared statically or looked up
// through a provider at build time.
type WordSource interface {
	Words() ([]string, error)
}

// Words is a static WordSource.
type Words []string

func (w Words) Words() ([]string, error) { return w, nil }

var errNoWords = errors.New("constraint: word list is empty")

func loadWords(src WordSource) ([]string, error) {
	if src == nil {
		return nil, errNoWords
	}
	ws, err := src.Words()
	if err != nil {
		return nil, fmt.Errorf("constraint: loading words: %w", err)
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, errNoWords
	}
	return out, nil
}

// WordForbid rejects text containing any of its words and reports every hit.
type WordForbid struct {
	words []string
}

// NewWordForbid loads the words once. An empty list is an error.
func NewWordForbid(src WordSource) (*WordForbid, error) {
	ws, err := loadWords(src)
	if err != nil {
		return nil, err
	}
	return &WordForbid{words: ws}, nil
}

func (c *WordForbid) Check(_ *rowskema.CellContext, v any) error {
	s := fmt.Sprint(v)
	var hits []string
	for _, w := range c.words {
		if strings.Contains(s, w) {
			hits = append(hits, w)
		}
	}
	if len(hits) > 0 {
		return rowskema.Violation(rowskema.CodeWordForbid, "words", hits)
	}
	return nil
}

// WordRequire rejects text missing any of its words and reports every
// missing one.
type WordRequire struct {
	words []string
}

// NewWordRequire loads the words once. An empty list is an error.
func NewWordRequire(src WordSource) (*WordRequire, error) {
	ws, err := loadWords(src)
	if err != nil {
		return nil, err
	}
	return &WordRequire{words: ws}, nil
}

func (c *WordRequire) Check(_ *rowskema.CellContext, v any) error {
	s := fmt.Sprint(v)
	var missing []string
	for _, w := range c.words {
		if !strings.Contains(s, w) {
			missing = append(missing, w)
		}
	}
	if len(missing) > 0 {
		return rowskema.Violation(rowskema.CodeWordRequire, "words", missing)
	}
	return nil
}
