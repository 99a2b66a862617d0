package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/dsl"
	"github.com/reoring/rowskema/source"
)

func newHeadersCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "headers [FILE]",
		Short: "Print the resolved columns and their pipelines",
		Long: `Print each column with its position, field, label and pipeline steps.
With FILE, undetermined positions are resolved against its header row.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := g.loadSchema()
			if err != nil {
				return err
			}
			bd, err := file.BindMap()
			if err != nil {
				return err
			}
			var headers []string
			if len(args) == 1 {
				fh, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer fh.Close()
				rows, err := source.CSV(fh, source.CSVOptions{Charset: file.Charset})
				if err != nil {
					return err
				}
				row, err := rows.Next()
				if err != nil {
					return fmt.Errorf("%s: reading header: %w", args[0], err)
				}
				headers = row.Cols
			}
			cache, err := bd.CompileLazy(headers, dsl.WithLogger(g.log))
			if err != nil {
				return err
			}
			return printColumns(g, cache)
		},
	}
}

func printColumns(g *globals, cache *rowskema.SchemaCache) error {
	tw := tabwriter.NewWriter(g.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tFIELD\tLABEL\tREAD\tWRITE")
	for i := 0; i < cache.Len(); i++ {
		col := cache.Column(i)
		name := col.Mapping.Name
		if col.Mapping.Anonymous() {
			name = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", col.Mapping.Position, name, col.Mapping.Label,
			steps(col.Read), steps(col.Write))
	}
	return tw.Flush()
}

func steps(p *rowskema.Pipeline) string {
	var names []string
	for _, st := range p.Steps() {
		names = append(names, st.Name)
	}
	return strings.Join(names, " > ")
}
