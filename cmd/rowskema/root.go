package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reoring/rowskema/i18n"
	"github.com/reoring/rowskema/schemafile"
)

// errRowsFailed makes the command exit with status 1 without printing an
// extra error line.
var errRowsFailed = errors.New("some rows failed validation")

type globals struct {
	schema  string
	lang    string
	verbose bool
	noColor bool

	log      zerolog.Logger
	renderer *i18n.Renderer
	stdout   io.Writer
	stderr   io.Writer
}

func (g *globals) loadSchema() (*schemafile.File, error) {
	if g.schema == "" {
		return nil, errors.New("--schema is required")
	}
	return schemafile.Load(g.schema, schemafile.WithLogger(g.log))
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "rowskema",
		Short:         "Validate delimited and fixed-width files against a record schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				color.NoColor = true
			}
			g.log = newLogger(stdout, stderr, g.verbose)
			g.renderer = i18n.NewRenderer(g.lang, i18n.WithLogger(g.log))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&g.schema, "schema", "s", "", "schema file (.yaml, .yml or .json)")
	pf.StringVar(&g.lang, "lang", "en", "message language (en, ja)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logs")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newValidateCmd(g), newHeadersCmd(g))
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errRowsFailed):
		return 1
	}
	fmt.Fprintln(stderr, color.RedString("error:"), err)
	return 2
}
