package constraint

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeebo/xxh3"

	"github.com/reoring/rowskema"
)

// Unique rejects a value already seen earlier in the same stream. Values are
// kept in full, so there are no false positives and memory grows with the
// number of distinct values.
type Unique struct {
	// Field names the owning field; it also keeps distinct instances distinct.
	Field string
}

// NewUnique returns an exact uniqueness constraint.
func NewUnique(field string) *Unique { return &Unique{Field: field} }

func (c *Unique) Check(cc *rowskema.CellContext, v any) error {
	if cc == nil || cc.State == nil {
		return nil
	}
	if first, dup := cc.State.Remember(c, v, cc.Row.Position()); dup {
		return rowskema.Violation(rowskema.CodeUnique,
			"duplicatedLineNumber", first.Line, "duplicatedRowNumber", first.Row)
	}
	return nil
}

// Hasher maps a value to a 64-bit key.
type Hasher func(v any) uint64

// UniqueHash rejects a value whose hash was already seen. It stores only
// hashes, so two different values with the same hash are reported as
// duplicates.
type UniqueHash struct {
	Field  string
	Hasher Hasher
}

// NewUniqueHash returns an approximate uniqueness constraint using h, or
// xxh3 over the value's text when h is nil.
func NewUniqueHash(field string, h Hasher) *UniqueHash {
	if h == nil {
		h = HashValue
	}
	return &UniqueHash{Field: field, Hasher: h}
}

func (c *UniqueHash) Check(cc *rowskema.CellContext, v any) error {
	if cc == nil || cc.State == nil {
		return nil
	}
	if first, dup := cc.State.RememberHash(c, c.Hasher(v), cc.Row.Position()); dup {
		return rowskema.Violation(rowskema.CodeUniqueHash,
			"duplicatedLineNumber", first.Line, "duplicatedRowNumber", first.Row)
	}
	return nil
}

// HashValue is the default Hasher.
func HashValue(v any) uint64 {
	switch x := v.(type) {
	case string:
		return xxh3.HashString(x)
	case decimal.Decimal:
		return xxh3.HashString("d:" + x.String())
	case time.Time:
		return xxh3.HashString("t:" + x.UTC().Format(time.RFC3339Nano))
	}
	return xxh3.HashString(fmt.Sprintf("%T:%v", v, v))
}
