package main

import (
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pl0",
	Short: "Compile and run PL/0 programs",
	Long: `pl0 is a small PL/0 compiler toolchain:
- Checks a program against the grammar with an SLR(1) parser.
- Generates quadruple intermediate code and P-code.
- Runs P-code on a stack machine.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}

// readSource reads the program from the optional positional argument, or
// from stdin when no file is given. The returned path is empty for stdin.
func readSource(args []string) (string, []byte, error) {
	if len(args) > 0 {
		data, err := ioutil.ReadFile(args[0])
		if err != nil {
			return "", nil, err
		}
		return args[0], data, nil
	}
	data, err := ioutil.ReadAll(os.Stdin)
	if err != nil {
		return "", nil, err
	}
	return "", data, nil
}
