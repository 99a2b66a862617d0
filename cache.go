package rowskema

import "github.com/reoring/rowskema/fixedwidth"

// CompiledColumn is one column as produced by the pipeline builder.
type CompiledColumn struct {
	Mapping ColumnMapping
	Read    *Pipeline
	Write   *Pipeline
	// Accessor is zero for anonymous columns.
	Accessor Accessor
	// Skip binding on read, or emit an empty cell on write.
	SkipRead  bool
	SkipWrite bool
}

// SchemaCache is the build-once, read-only bundle of everything needed to
// process rows: ordered pipelines, header labels and column names. It may be
// shared by any number of readers and writers; uniqueness bookkeeping lives in
// each of them, not here.
type SchemaCache struct {
	columns    []CompiledColumn
	headers    []string
	names      []string
	fixed      bool
	validators []RowValidator
}

// CacheOptions carries schema-wide settings.
type CacheOptions struct {
	FixedWidth    bool
	RowValidators []RowValidator
}

// NewSchemaCache snapshots cols, which must already be sorted by position.
// Builders call this; callers normally use dsl.Compile.
func NewSchemaCache(cols []CompiledColumn, opts CacheOptions) *SchemaCache {
	c := &SchemaCache{
		columns:    append([]CompiledColumn(nil), cols...),
		headers:    make([]string, len(cols)),
		names:      make([]string, len(cols)),
		fixed:      opts.FixedWidth,
		validators: append([]RowValidator(nil), opts.RowValidators...),
	}
	for i, col := range c.columns {
		c.headers[i] = col.Mapping.Label
		c.names[i] = col.Mapping.Name
	}
	return c
}

// Len returns the number of columns.
func (c *SchemaCache) Len() int { return len(c.columns) }

// Headers returns the header labels in column order.
func (c *SchemaCache) Headers() []string { return append([]string(nil), c.headers...) }

// Names returns field names in column order (empty for anonymous columns).
func (c *SchemaCache) Names() []string { return append([]string(nil), c.names...) }

// Column returns the i-th (0-based) column.
func (c *SchemaCache) Column(i int) CompiledColumn { return c.columns[i] }

// Columns returns the column mappings in order.
func (c *SchemaCache) Columns() []ColumnMapping {
	out := make([]ColumnMapping, len(c.columns))
	for i, col := range c.columns {
		out[i] = col.Mapping
	}
	return out
}

// ReadPipeline returns the read pipeline of the i-th (0-based) column.
func (c *SchemaCache) ReadPipeline(i int) *Pipeline { return c.columns[i].Read }

// WritePipeline returns the write pipeline of the i-th (0-based) column.
func (c *SchemaCache) WritePipeline(i int) *Pipeline { return c.columns[i].Write }

// FixedWidth reports whether the schema maps fixed-width lines.
func (c *SchemaCache) FixedWidth() bool { return c.fixed }

// FixedColumns returns the width declarations for fixed-width tokenizing.
func (c *SchemaCache) FixedColumns() []fixedwidth.Column {
	if !c.fixed {
		return nil
	}
	out := make([]fixedwidth.Column, len(c.columns))
	for i, col := range c.columns {
		if col.Mapping.Fixed != nil {
			out[i] = *col.Mapping.Fixed
		}
	}
	return out
}

// RowValidators returns the row-level validators.
func (c *SchemaCache) RowValidators() []RowValidator {
	return append([]RowValidator(nil), c.validators...)
}
