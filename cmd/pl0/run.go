package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pl0-lang/pl0/vm"
)

var runFlags = struct {
	input *[]int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "run [source file path]",
		Short:   "Compile a program and run it on the stack machine",
		Example: `  pl0 run prog.pl0 --input 40 --input 2`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runRun,
	}
	runFlags.input = cmd.Flags().IntSlice("input", nil, "values served to read statements in order")
	rootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	filePath, src, err := readSource(args)
	if err != nil {
		return err
	}

	code, err := compileSource(filePath, src)
	if err != nil {
		return err
	}

	out, err := vm.New(code, *runFlags.input).Run()
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Fprintln(os.Stdout, out)
	}
	return nil
}
