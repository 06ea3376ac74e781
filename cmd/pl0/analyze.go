package main

import (
	"bytes"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	verr "github.com/pl0-lang/pl0/error"
	"github.com/pl0-lang/pl0/lexer"
	"github.com/pl0-lang/pl0/semantic"
)

func init() {
	cmd := &cobra.Command{
		Use:     "analyze [source file path]",
		Short:   "Check declarations and scopes and print the quadruples",
		Example: `  pl0 analyze prog.pl0`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runAnalyze,
	}
	rootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	filePath, src, err := readSource(args)
	if err != nil {
		return err
	}

	toks, err := lexer.Lex(bytes.NewReader(src))
	if err != nil {
		return err
	}

	a := semantic.NewAnalyzer(toks)
	quads, err := a.Analyze()
	if err != nil {
		if semErr, ok := err.(*semantic.SemanticError); ok {
			return &verr.SourceError{
				Cause:      semErr,
				FilePath:   filePath,
				SourceName: filePath,
				Line:       semErr.Line,
			}
		}
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 4, ' ', 0)
	for i, quad := range quads {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", i, quad.Op, quad.Arg1, quad.Arg2, quad.Result)
	}
	return w.Flush()
}
