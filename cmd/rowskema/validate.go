package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/fatih/color"
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/dsl"
	"github.com/reoring/rowskema/engine"
	"github.com/reoring/rowskema/fixedwidth"
	"github.com/reoring/rowskema/schemafile"
	"github.com/reoring/rowskema/source"
)

type validateOptions struct {
	continueOnError bool
	jobs            int
	output          string
	charset         string
	comma           string
}

type report struct {
	Line    int    `json:"line"`
	Column  int    `json:"column,omitempty"`
	Label   string `json:"label,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	text    string
}

type fileResult struct {
	File   string   `json:"file"`
	Rows   int      `json:"rows"`
	Valid  int      `json:"valid"`
	Failed int      `json:"failed"`
	Errors []report `json:"errors"`
}

func newValidateCmd(g *globals) *cobra.Command {
	o := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Read every row of the given files and report validation errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), g, o, args)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&o.continueOnError, "continue-on-error", false, "keep reading a file after a failed row")
	f.IntVarP(&o.jobs, "jobs", "j", 1, "number of files validated concurrently")
	f.StringVarP(&o.output, "output", "o", "text", "report format: text or json")
	f.StringVar(&o.charset, "charset", "", "input charset (defaults to the schema charset, then UTF-8)")
	f.StringVar(&o.comma, "comma", ",", "field delimiter for delimited files")
	return cmd
}

func runValidate(ctx context.Context, g *globals, o *validateOptions, paths []string) error {
	if o.output != "text" && o.output != "json" {
		return fmt.Errorf("unknown output %q", o.output)
	}
	comma, size := utf8.DecodeRuneInString(o.comma)
	if size == 0 || size != len(o.comma) {
		return fmt.Errorf("comma %q should be one character", o.comma)
	}
	file, err := g.loadSchema()
	if err != nil {
		return err
	}
	bd, err := file.BindMap()
	if err != nil {
		return err
	}
	if o.charset == "" {
		o.charset = file.Charset
	}

	// Schemas with declared positions compile once; the cache is shared by
	// one reader per file.
	var shared *rowskema.SchemaCache
	if positioned(file) {
		shared, err = bd.Compile(dsl.WithLogger(g.log))
		if err != nil {
			return err
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(o.jobs, 1))
	results := make([]fileResult, len(paths))
	for i, path := range paths {
		eg.Go(func() error {
			res, err := validateFile(ctx, g, o, file, bd, shared, path, comma)
			results[i] = res
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			g.log.Debug().Str("file", path).Int("rows", res.Rows).Int("failed", res.Failed).Msg("validated")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if err := writeResults(g.stdout, o.output, results); err != nil {
		return err
	}
	for _, r := range results {
		if r.Failed > 0 {
			return errRowsFailed
		}
	}
	return nil
}

func positioned(f *schemafile.File) bool {
	for _, fd := range f.Fields {
		if fd.Position == 0 {
			return false
		}
	}
	return true
}

type rowFunc func(source.Rows) (map[string]any, rowskema.Status, error)

func validateFile(ctx context.Context, g *globals, o *validateOptions, file *schemafile.File, bd *dsl.Binding[map[string]any], shared *rowskema.SchemaCache, path string, comma rune) (fileResult, error) {
	res := fileResult{File: path, Errors: []report{}}
	fh, err := os.Open(path)
	if err != nil {
		return res, err
	}
	defer fh.Close()

	var rows source.Rows
	if file.Fixed {
		rows, err = source.FixedWidth(fh, source.FixedOptions{
			ReaderOptions: fixedwidth.ReaderOptions{IgnoreEmptyLines: true},
			Charset:       o.charset,
		})
	} else {
		rows, err = source.CSV(fh, source.CSVOptions{Comma: comma, Charset: o.charset})
	}
	if err != nil {
		return res, err
	}

	var next rowFunc
	if shared != nil {
		r := engine.NewReader[map[string]any](shared, engine.WithLogger(g.log))
		if file.HasHeader() {
			if _, err := r.ReadHeader(rows, true); err != nil {
				return headerFailure(g, res, err)
			}
		}
		next = r.Next
	} else {
		lr := engine.NewLazyReader(bd, []dsl.Option{dsl.WithLogger(g.log)}, engine.WithLogger(g.log))
		if err := lr.InitFrom(rows); err != nil {
			return headerFailure(g, res, err)
		}
		next = lr.Next
	}

	for ctx.Err() == nil {
		_, st, err := next(rows)
		switch {
		case st == rowskema.StatusEOF:
			return res, nil
		case st == rowskema.StatusSuccess:
			res.Rows++
			res.Valid++
			continue
		case !rowskema.IsRecoverable(err):
			return res, err
		}
		res.Rows++
		res.Failed++
		res.Errors = append(res.Errors, reports(g, err)...)
		if !o.continueOnError {
			return res, nil
		}
	}
	return res, ctx.Err()
}

// headerFailure records a header problem as a failed row; other errors
// abort the file.
func headerFailure(g *globals, res fileResult, err error) (fileResult, error) {
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	var hm *rowskema.HeaderMismatchError
	_, schemaErr := rowskema.AsSchemaErrors(err)
	if !errors.As(err, &hm) && !schemaErr {
		return res, err
	}
	res.Failed++
	res.Errors = append(res.Errors, reports(g, err)...)
	return res, nil
}

func reports(g *globals, err error) []report {
	lines := g.renderer.Lines(err)
	if re, ok := rowskema.AsRowError(err); ok {
		out := make([]report, len(re.Errors))
		for i, ve := range re.Errors {
			out[i] = report{Line: ve.Line, Column: ve.Column, Label: ve.Label, Code: ve.Code, Message: g.renderer.Message(ve), text: lines[i]}
		}
		return out
	}
	if se, ok := rowskema.AsRowStructureError(err); ok {
		return []report{{Line: se.Line, Column: se.Column, Code: se.Code, Message: g.renderer.Resolve(se.Code, se.Vars), text: lines[0]}}
	}
	var hm *rowskema.HeaderMismatchError
	if errors.As(err, &hm) {
		return []report{{Line: hm.Line, Code: hm.Code, Message: g.renderer.Resolve(hm.Code, hm.Vars()), text: lines[0]}}
	}
	if es, ok := rowskema.AsSchemaErrors(err); ok {
		out := make([]report, len(es))
		for i, e := range es {
			out[i] = report{Line: 1, Label: e.Field, Code: e.Code, Message: e.Message, text: e.Error()}
		}
		return out
	}
	return []report{{Message: err.Error(), text: err.Error()}}
}

func writeResults(w io.Writer, output string, results []fileResult) error {
	if output == "json" {
		data, err := gojson.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	for _, r := range results {
		for _, rep := range r.Errors {
			fmt.Fprintf(w, "%s %s\n", color.CyanString(r.File+":"), color.RedString(rep.text))
		}
		summary := fmt.Sprintf("%s: %d rows, %d valid, %d failed", r.File, r.Rows, r.Valid, r.Failed)
		if r.Failed > 0 {
			summary = color.RedString(summary)
		} else {
			summary = color.GreenString(summary)
		}
		if _, err := fmt.Fprintln(w, summary); err != nil {
			return err
		}
	}
	return nil
}
