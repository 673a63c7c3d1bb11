package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/wasm"
)

var (
	wasmOutput string
	wasmRun    bool
)

var wasmCmd = &cobra.Command{
	Use:   "wasm EXPRESSION",
	Short: "Compile an expression to a WebAssembly module",
	Long: `Compile an expression to a WebAssembly module exporting "eval" () -> i64.

The module imports env.divide_by_zero (i32), which is called with the offset
of the '/' operator before trapping on a zero divisor.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return runWASM(ctx, args[0], wasmOutput, wasmRun, cmd.OutOrStdout())
	},
}

func init() {
	wasmCmd.Flags().StringVarP(&wasmOutput, "output", "o", "expr.wasm", "Output file")
	wasmCmd.Flags().BoolVar(&wasmRun, "run", false, "Also run the module and print the result")
}

func runWASM(ctx context.Context, src, output string, run bool, out io.Writer) error {
	expr, err := parser.Compile(src, compileOptions()...)
	if err != nil {
		return err
	}

	mod, err := wasm.Compile(expr)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, mod.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write module: %w", err)
	}
	fmt.Fprintf(out, "%s %s (%d bytes)\n", color.CyanString("wrote"), output, len(mod.Bytes()))

	if run {
		v, err := wasm.Run(ctx, mod)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Result: %s\n", color.GreenString("%d", v))
	}
	return nil
}
