// Command gocalc evaluates integer arithmetic expressions from the command
// line or an interactive prompt.
//
//	gocalc eval "2+3*4" "(2+3)*4"
//	gocalc repl
//	gocalc ast "10-2-3"
//	gocalc wasm "7/2" -o seven_halves.wasm
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sandrolain/gocalc"
	"github.com/sandrolain/gocalc/pkg/evaluator"
	"github.com/sandrolain/gocalc/pkg/parser"
)

var (
	backendName string
	strict      bool
	debug       bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gocalc",
	Short: "Integer arithmetic expression evaluator",
	Long: `gocalc evaluates arithmetic expressions made of non-negative integers,
the operators + - * / and parentheses.

Expressions run either on the tree-walking evaluator or are compiled to
WebAssembly and executed by the wazero interpreter (--backend wasm).

Without a subcommand gocalc starts the interactive prompt.`,
	Version:       gocalc.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startREPL(cmd)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", string(evaluator.BackendTree), "Execution backend: tree or wasm")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Reject whitespace inside expressions")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(evalCmd, replCmd, astCmd, wasmCmd)
}

// newLogger builds the process logger. Debug output goes to stderr so that
// results on stdout stay machine readable.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newEvaluator builds an evaluator from the persistent flags.
func newEvaluator() (*evaluator.Evaluator, error) {
	backend, err := evaluator.ParseBackend(backendName)
	if err != nil {
		return nil, err
	}
	return evaluator.New(
		evaluator.WithBackend(backend),
		evaluator.WithStrictWhitespace(strict),
		evaluator.WithCaching(true),
		evaluator.WithDebug(debug),
		evaluator.WithLogger(newLogger()),
	), nil
}

func compileOptions() []parser.CompileOption {
	return []parser.CompileOption{parser.WithStrictWhitespace(strict)}
}
