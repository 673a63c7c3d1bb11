package main

import (
	"fmt"
	"io"

	"github.com/alecthomas/repr"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sandrolain/gocalc/pkg/parser"
)

var astCmd = &cobra.Command{
	Use:   "ast EXPRESSION",
	Short: "Print the parsed expression tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAST(args[0], cmd.OutOrStdout())
	},
}

func runAST(src string, out io.Writer) error {
	expr, err := parser.Compile(src, compileOptions()...)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, repr.String(expr.AST(), repr.Indent("  ")))

	s := expr.Stats()
	fmt.Fprintf(out, "%s %s\n", color.CyanString("tree:"), expr)
	fmt.Fprintf(out, "%s literals=%d operators=%d depth=%d\n",
		color.CyanString("stats:"), s.Literals, s.Operators, s.Depth)
	return nil
}
