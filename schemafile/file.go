// Package schemafile declares record schemas in YAML or JSON files.
//
//	fixed: true
//	fields:
//	  - name: id
//	    label: ID
//	    type: int
//	    size: 5
//	    rightAlign: true
//	    padChar: "0"
//	    constraints:
//	      - {kind: unique}
//	      - {kind: range, min: "1", max: "99999"}
//	rowRules:
//	  - {expr: "price >= cost", code: price_below_cost, field: price}
package schemafile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/reoring/rowskema"
)

// File is a decoded schema file.
type File struct {
	Fixed       bool   `yaml:"fixed" json:"fixed"`
	Partial     string `yaml:"partial" json:"partial"` // none (default) or anonymous
	PartialSize int    `yaml:"partialSize" json:"partialSize"`
	// PartialColumns names and sizes anonymous columns.
	PartialColumns []PartialColumnDecl `yaml:"partialColumns" json:"partialColumns"`
	Charset        string              `yaml:"charset" json:"charset"`
	Header         *bool               `yaml:"header" json:"header"` // default true for delimited files
	Fields         []FieldDecl         `yaml:"fields" json:"fields"`
	RowRules       []RuleDecl          `yaml:"rowRules" json:"rowRules"`
}

// FieldDecl declares one column.
type FieldDecl struct {
	Name     string `yaml:"name" json:"name"`
	Label    string `yaml:"label" json:"label"`
	Position int    `yaml:"position" json:"position"`
	// Type is string (default), int, int64, float64, decimal, bool, date,
	// datetime or time.
	Type      string `yaml:"type" json:"type"`
	Pattern   string `yaml:"pattern" json:"pattern"` // date/time or number pattern
	Lenient   bool   `yaml:"lenient" json:"lenient"`
	Required  bool   `yaml:"required" json:"required"`
	ReadOnly  bool   `yaml:"readOnly" json:"readOnly"`
	WriteOnly bool   `yaml:"writeOnly" json:"writeOnly"`

	Trim    bool     `yaml:"trim" json:"trim"`
	NullIf  []string `yaml:"nullIf" json:"nullIf"`
	Default *string  `yaml:"default" json:"default"`

	TrueValues  []string `yaml:"trueValues" json:"trueValues"`
	FalseValues []string `yaml:"falseValues" json:"falseValues"`

	Size       int    `yaml:"size" json:"size"`
	PadChar    string `yaml:"padChar" json:"padChar"`
	RightAlign bool   `yaml:"rightAlign" json:"rightAlign"`
	Chopped    bool   `yaml:"chopped" json:"chopped"`
	Counter    string `yaml:"counter" json:"counter"`

	Conversions []ConversionDecl `yaml:"conversions" json:"conversions"`
	Constraints []ConstraintDecl `yaml:"constraints" json:"constraints"`
}

// PartialColumnDecl describes an anonymous column of a partial schema.
type PartialColumnDecl struct {
	Position   int    `yaml:"position" json:"position"`
	Label      string `yaml:"label" json:"label"`
	Size       int    `yaml:"size" json:"size"`
	PadChar    string `yaml:"padChar" json:"padChar"`
	RightAlign bool   `yaml:"rightAlign" json:"rightAlign"`
	Chopped    bool   `yaml:"chopped" json:"chopped"`
	Counter    string `yaml:"counter" json:"counter"`
}

// ConversionDecl declares a conversion applied on both sides.
type ConversionDecl struct {
	// Kind is upper, lower, fullWidth, halfWidth, regexReplace, wordReplace
	// or truncate.
	Kind    string            `yaml:"kind" json:"kind"`
	Regex   string            `yaml:"regex" json:"regex"`
	Replace string            `yaml:"replace" json:"replace"`
	Partial bool              `yaml:"partial" json:"partial"`
	Words   map[string]string `yaml:"words" json:"words"`
	Size    int               `yaml:"size" json:"size"`
	Suffix  string            `yaml:"suffix" json:"suffix"`
}

// ConstraintDecl declares one constraint.
type ConstraintDecl struct {
	// Kind is unique, uniqueHash, equals, pattern, lengthMin, lengthMax,
	// lengthBetween, lengthExact, min, max, range, wordForbid or wordRequire.
	Kind        string   `yaml:"kind" json:"kind"`
	Min         string   `yaml:"min" json:"min"`
	Max         string   `yaml:"max" json:"max"`
	Exclusive   bool     `yaml:"exclusive" json:"exclusive"`
	Values      []string `yaml:"values" json:"values"`
	Regex       string   `yaml:"regex" json:"regex"`
	Description string   `yaml:"description" json:"description"`
	Length      int      `yaml:"length" json:"length"`
	Lengths     []int    `yaml:"lengths" json:"lengths"`
	Words       []string `yaml:"words" json:"words"`
	// Provider names a registered value or word source instead of inline
	// values or words.
	Provider string `yaml:"provider" json:"provider"`
}

// RuleDecl declares an expression row rule.
type RuleDecl struct {
	Expr    string `yaml:"expr" json:"expr"`
	Code    string `yaml:"code" json:"code"`
	Field   string `yaml:"field" json:"field"`
	Message string `yaml:"message" json:"message"`
}

// Format selects the file syntax.
type Format int

const (
	YAML Format = iota
	JSON
)

// Option configures loading.
type Option func(*options)

type options struct {
	log zerolog.Logger
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// Load reads a schema file; .json selects JSON, anything else YAML.
func Load(path string, opts ...Option) (*File, error) {
	o := options{log: zerolog.Nop()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := YAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f = JSON
	}
	file, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	o.log.Debug().Str("path", path).Int("fields", len(file.Fields)).Bool("fixed", file.Fixed).Msg("loaded schema file")
	return file, nil
}

// Parse decodes a schema. Unknown keys are rejected, and so are duplicate
// keys in YAML.
func Parse(data []byte, f Format) (*File, error) {
	var file File
	switch f {
	case JSON:
		dec := gojson.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, err
		}
	default:
		if err := checkDuplicateKeys(data); err != nil {
			return nil, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, err
		}
	}
	if len(file.Fields) == 0 {
		return nil, rowskema.SchemaError{Code: rowskema.CodeSchemaInvalid, Message: "no fields declared"}
	}
	return &file, nil
}

// HasHeader reports whether files described by the schema start with a
// header row.
func (f *File) HasHeader() bool {
	if f.Header != nil {
		return *f.Header
	}
	return !f.Fixed
}
