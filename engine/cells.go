package engine

import (
	"errors"
	"maps"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/fixedwidth"
)

// positionVars are added to every error raised for a row.
func positionVars(dst map[string]any, rc *rowskema.RowContext) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	dst["lineNumber"] = rc.Line
	dst["rowNumber"] = rc.Row
	if rc.Column > 0 {
		dst["columnNumber"] = rc.Column
	}
	return dst
}

// cellError converts a pipeline failure into a ValidationError. It reports
// false for errors that are neither parse errors nor constraint violations;
// those are not recoverable.
func cellError(rc *rowskema.RowContext, col rowskema.CompiledColumn, p *rowskema.Pipeline, rejected any, err error) (rowskema.ValidationError, bool) {
	ve := rowskema.ValidationError{
		Line:     rc.Line,
		Row:      rc.Row,
		Column:   rc.Column,
		Label:    col.Mapping.Label,
		Field:    col.Mapping.Name,
		Rejected: rejected,
		Printer:  p.Formatter(),
		Cause:    err,
	}
	var pe *rowskema.ParseError
	var cv *rowskema.ConstraintViolation
	switch {
	case errors.As(err, &pe):
		ve.Code = rowskema.CodeTypeMismatch
		ve.Vars = maps.Clone(pe.Vars)
	case errors.As(err, &cv):
		ve.Code = cv.Code
		ve.Vars = maps.Clone(cv.Vars)
	default:
		return ve, false
	}
	ve.Vars = positionVars(ve.Vars, rc)
	ve.Vars["label"] = col.Mapping.Label
	ve.Vars["validatedValue"] = rejected
	return ve, true
}

func columnSizeError(rc *rowskema.RowContext, expected, actual int) *rowskema.RowStructureError {
	vars := positionVars(map[string]any{"expectedSize": expected, "actualSize": actual}, rc)
	return &rowskema.RowStructureError{Line: rc.Line, Row: rc.Row, Code: rowskema.CodeColumnSize, Vars: vars}
}

// fixedError maps fixed-width codec failures to structure errors.
func fixedError(rc *rowskema.RowContext, err error) error {
	var (
		iw *fixedwidth.InsufficientWidthError
		ow *fixedwidth.OverflowError
		lb *fixedwidth.LineBreakError
	)
	se := &rowskema.RowStructureError{Line: rc.Line, Row: rc.Row, Cause: err}
	vars := map[string]any{}
	switch {
	case errors.As(err, &iw):
		se.Code, se.Column = rowskema.CodeFixedSizeInsufficient, iw.Column
		vars["declaredSize"], vars["actualSize"] = iw.DeclaredSize, iw.ActualSize
	case errors.As(err, &ow):
		se.Code, se.Column = rowskema.CodeFixedSizeOver, ow.Column
		vars["declaredSize"], vars["actualSize"], vars["validatedValue"] = ow.DeclaredSize, ow.ActualSize, ow.Value
	case errors.As(err, &lb):
		se.Code, se.Column = rowskema.CodeFixedSizeLineBreak, lb.Column
		vars["validatedValue"] = lb.Value
	default:
		return err
	}
	pos := *rc
	pos.Column = se.Column
	se.Vars = positionVars(vars, &pos)
	return se
}

// validateRow runs the row validators and fills in positions.
func validateRow(cache *rowskema.SchemaCache, view rowskema.RowView, rowErr *rowskema.RowError) {
	for _, v := range cache.RowValidators() {
		for _, ve := range v.ValidateRow(view) {
			if ve.Column == 0 && ve.Field != "" {
				ve.Column, ve.Label = columnOf(cache, ve.Field, ve.Label)
			}
			rc := view.Context
			rc.Column = ve.Column
			ve.Vars = positionVars(maps.Clone(ve.Vars), &rc)
			rowErr.Add(ve)
		}
	}
}

func columnOf(cache *rowskema.SchemaCache, field, label string) (int, string) {
	for i := 0; i < cache.Len(); i++ {
		m := cache.Column(i).Mapping
		if m.Name == field {
			if label == "" {
				label = m.Label
			}
			return m.Position, label
		}
	}
	return 0, label
}
