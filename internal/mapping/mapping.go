// Package mapping resolves column positions for a set of field declarations,
// either from declared positions alone or by matching labels against an
// observed header row.
package mapping

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/reoring/rowskema"
)

// Options controls resolution.
type Options struct {
	Partial rowskema.Partial
	// AssignUnmatched gives fields left without a position the lowest unused
	// positions in declaration order. Writers use it; readers report the
	// fields as missing instead.
	AssignUnmatched bool
}

// Resolve returns one ColumnMapping per column, sorted by position. When
// headers is non-nil, fields without a declared position take the position
// of the first header cell equal to their label, left to right; a header
// cell is given to at most one field.
func Resolve(fields []rowskema.FieldSpec, headers []string, opts Options) ([]rowskema.ColumnMapping, error) {
	if len(fields) == 0 {
		return nil, rowskema.SchemaError{Code: rowskema.CodeSchemaInvalid, Message: "no fields declared"}
	}
	pos := make([]int, len(fields))
	for i := range fields {
		pos[i] = fields[i].Position
	}

	for i, h := range headers {
		for j := range fields {
			if pos[j] == 0 && fields[j].DisplayLabel() == h {
				pos[j] = i + 1
				break
			}
		}
	}

	var missing []string
	for j := range fields {
		if pos[j] == 0 {
			missing = append(missing, fields[j].DisplayLabel())
		}
	}
	if len(missing) > 0 {
		if !opts.AssignUnmatched {
			msg := fmt.Sprintf("no column position for [%s]", strings.Join(missing, ", "))
			if headers != nil {
				msg += fmt.Sprintf(" in header [%s]", strings.Join(headers, ", "))
			}
			return nil, rowskema.SchemaError{Code: rowskema.CodeMissingPosition, Message: msg}
		}
		assignLowest(pos)
	}

	used, err := checkPositions(fields, pos)
	if err != nil {
		return nil, err
	}

	cols := make([]rowskema.ColumnMapping, 0, len(fields))
	for j := range fields {
		f := &fields[j]
		cols = append(cols, rowskema.ColumnMapping{
			Position: pos[j],
			Name:     f.Name,
			Label:    f.DisplayLabel(),
			Fixed:    f.Fixed,
			Field:    j,
		})
	}

	gaps, err := gapPositions(used, opts.Partial)
	if err != nil {
		return nil, err
	}
	for _, p := range gaps {
		m := rowskema.ColumnMapping{
			Position: p,
			Label:    anonymousLabel(p, headers, opts.Partial),
			Field:    -1,
		}
		if col, ok := opts.Partial.Columns[p]; ok {
			m.Fixed = &col
		}
		cols = append(cols, m)
	}
	slices.SortFunc(cols, func(a, b rowskema.ColumnMapping) int { return a.Position - b.Position })
	return cols, nil
}

// assignLowest fills zero entries with the lowest positions not yet taken.
func assignLowest(pos []int) {
	taken := map[int]bool{}
	for _, p := range pos {
		if p > 0 {
			taken[p] = true
		}
	}
	next := 1
	for j, p := range pos {
		if p != 0 {
			continue
		}
		for taken[next] {
			next++
		}
		pos[j] = next
		taken[next] = true
	}
}

// checkPositions rejects duplicated and non-positive positions and returns
// the sorted set of used positions.
func checkPositions(fields []rowskema.FieldSpec, pos []int) ([]int, error) {
	owners := map[int][]string{}
	for j, p := range pos {
		owners[p] = append(owners[p], fields[j].Name)
	}
	used := make([]int, 0, len(owners))
	for p := range owners {
		used = append(used, p)
	}
	slices.Sort(used)

	var errs rowskema.SchemaErrors
	for _, p := range used {
		if names := owners[p]; len(names) > 1 {
			errs = append(errs, rowskema.SchemaError{
				Code:    rowskema.CodeDuplicatePosition,
				Message: fmt.Sprintf("position %d is declared by [%s]", p, strings.Join(names, ", ")),
			})
		}
	}
	if used[0] < 1 {
		errs = append(errs, rowskema.SchemaError{
			Field:   owners[used[0]][0],
			Code:    rowskema.CodeSchemaInvalid,
			Message: fmt.Sprintf("position %d is less than 1", used[0]),
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return used, nil
}

// gapPositions lists positions with no field, up to the partial size.
func gapPositions(used []int, partial rowskema.Partial) ([]int, error) {
	last := used[len(used)-1]
	limit := last
	if partial.Size > 0 {
		if last > partial.Size {
			return nil, rowskema.SchemaError{
				Code:    rowskema.CodeSchemaInvalid,
				Message: fmt.Sprintf("partial size %d is less than the largest position %d", partial.Size, last),
			}
		}
		limit = partial.Size
	}
	var gaps []int
	for p, i := 1, 0; p <= limit; p++ {
		if i < len(used) && used[i] == p {
			i++
			continue
		}
		gaps = append(gaps, p)
	}
	if len(gaps) > 0 && partial.Policy == rowskema.PartialNone {
		parts := make([]string, len(gaps))
		for i, g := range gaps {
			parts[i] = strconv.Itoa(g)
		}
		return nil, rowskema.SchemaError{
			Code:    rowskema.CodeMissingPosition,
			Message: fmt.Sprintf("positions [%s] are not mapped", strings.Join(parts, ", ")),
		}
	}
	return gaps, nil
}

func anonymousLabel(p int, headers []string, partial rowskema.Partial) string {
	if l, ok := partial.Labels[p]; ok {
		return l
	}
	if p <= len(headers) {
		return headers[p-1]
	}
	return fmt.Sprintf("column%d", p)
}
