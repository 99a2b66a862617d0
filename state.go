package rowskema

import (
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Position identifies where a value was first seen.
type Position struct {
	Line int
	Row  int
}

// UniquenessState remembers values seen by uniqueness constraints. One state
// belongs to exactly one reader or writer and grows for its lifetime.
// It is not safe for concurrent use.
type UniquenessState struct {
	exact  map[any]map[any]Position
	hashed map[any]map[uint64]Position
}

// NewUniquenessState returns an empty state.
func NewUniquenessState() *UniquenessState {
	return &UniquenessState{
		exact:  map[any]map[any]Position{},
		hashed: map[any]map[uint64]Position{},
	}
}

// Remember records key for owner. When the key was already recorded it
// returns the first position and true.
func (s *UniquenessState) Remember(owner, key any, at Position) (Position, bool) {
	seen, ok := s.exact[owner]
	if !ok {
		seen = map[any]Position{}
		s.exact[owner] = seen
	}
	k := comparableKey(key)
	if first, dup := seen[k]; dup {
		return first, true
	}
	seen[k] = at
	return Position{}, false
}

// RememberHash is Remember keyed by a hash. Distinct values sharing a hash
// are reported as duplicates.
func (s *UniquenessState) RememberHash(owner any, h uint64, at Position) (Position, bool) {
	seen, ok := s.hashed[owner]
	if !ok {
		seen = map[uint64]Position{}
		s.hashed[owner] = seen
	}
	if first, dup := seen[h]; dup {
		return first, true
	}
	seen[h] = at
	return Position{}, false
}

// Len returns the number of distinct entries remembered for owner.
func (s *UniquenessState) Len(owner any) int {
	return len(s.exact[owner]) + len(s.hashed[owner])
}

// Reset forgets everything.
func (s *UniquenessState) Reset() {
	clear(s.exact)
	clear(s.hashed)
}

type timeKey struct {
	sec  int64
	nsec int
}

// comparableKey normalizes values whose == does not mean equality.
func comparableKey(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return "d:" + x.String()
	case time.Time:
		return timeKey{sec: x.Unix(), nsec: x.Nanosecond()}
	case nil:
		return nil
	}
	if reflect.TypeOf(v).Comparable() {
		return v
	}
	return fmt.Sprintf("%T:%v", v, v)
}
