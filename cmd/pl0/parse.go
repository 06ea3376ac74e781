package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pl0-lang/pl0/driver"
	verr "github.com/pl0-lang/pl0/error"
	"github.com/pl0-lang/pl0/grammar"
	"github.com/pl0-lang/pl0/lexer"
)

var parseFlags = struct {
	tree *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse [source file path]",
		Short:   "Check a program against the grammar",
		Example: `  cat prog.pl0 | pl0 parse
  pl0 parse prog.pl0 --tree`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	parseFlags.tree = cmd.Flags().Bool("tree", false, "print the concrete syntax tree of an accepted program")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath, src, err := readSource(args)
	if err != nil {
		return err
	}

	toks, err := lexer.Lex(bytes.NewReader(src))
	if err != nil {
		if lexErr, ok := err.(*lexer.LexicalError); ok {
			return &verr.SourceError{
				Cause:      lexErr,
				FilePath:   filePath,
				SourceName: filePath,
				Line:       lexErr.Line,
			}
		}
		return err
	}

	gram, err := grammar.PL0()
	if err != nil {
		return err
	}
	ptab, err := grammar.Compile(gram)
	if err != nil {
		return err
	}

	var opts []driver.ParserOption
	if *parseFlags.tree {
		opts = append(opts, driver.MakeTree())
	}
	res, err := driver.NewParser(ptab, opts...).Parse(toks)
	if err != nil {
		return err
	}
	if res.SynErr != nil {
		return &verr.SourceError{
			Cause:      res.SynErr,
			FilePath:   filePath,
			SourceName: filePath,
			Line:       res.SynErr.Line,
		}
	}

	if res.Tree != nil {
		driver.PrintTree(os.Stdout, res.Tree)
	} else {
		fmt.Fprintln(os.Stdout, "accepted")
	}
	return nil
}
