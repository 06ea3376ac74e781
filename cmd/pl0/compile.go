package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pl0-lang/pl0/codegen"
	verr "github.com/pl0-lang/pl0/error"
	"github.com/pl0-lang/pl0/lexer"
)

var compileFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile [source file path]",
		Short:   "Compile a program to P-code",
		Example: `  pl0 compile prog.pl0 -o prog.asm`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	filePath, src, err := readSource(args)
	if err != nil {
		return err
	}

	code, err := compileSource(filePath, src)
	if err != nil {
		return err
	}

	var b strings.Builder
	for i, inst := range code {
		fmt.Fprintf(&b, "%v\t%v\t%v\t%v\n", i, inst.Op, inst.Level, inst.Arg)
	}
	if *compileFlags.output != "" {
		return ioutil.WriteFile(*compileFlags.output, []byte(b.String()), 0644)
	}
	fmt.Fprint(os.Stdout, b.String())
	return nil
}

func compileSource(filePath string, src []byte) ([]codegen.Instruction, error) {
	toks, err := lexer.Lex(bytes.NewReader(src))
	if err != nil {
		if lexErr, ok := err.(*lexer.LexicalError); ok {
			return nil, &verr.SourceError{
				Cause:      lexErr,
				FilePath:   filePath,
				SourceName: filePath,
				Line:       lexErr.Line,
			}
		}
		return nil, err
	}

	code, err := codegen.Generate(toks)
	if err != nil {
		if genErr, ok := err.(*codegen.CodeError); ok {
			return nil, &verr.SourceError{
				Cause:      genErr,
				FilePath:   filePath,
				SourceName: filePath,
				Line:       genErr.Line,
			}
		}
		return nil, err
	}
	return code, nil
}
