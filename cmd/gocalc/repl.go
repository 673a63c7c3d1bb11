package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/sandrolain/gocalc/pkg/evaluator"
	"github.com/sandrolain/gocalc/pkg/parser"
)

const (
	prompt      = "Enter an arithmetic expression (or type 'quit' to exit): "
	historyFile = ".gocalc_history"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return startREPL(cmd)
	},
}

func startREPL(cmd *cobra.Command) error {
	ev, err := newEvaluator()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	out := cmd.OutOrStdout()
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if handleLine(ctx, ev, line, out) {
			return nil
		}
	}
}

// handleLine processes one line of REPL input and reports whether the user
// asked to quit. Input is checked with parser.Validate before evaluation.
func handleLine(ctx context.Context, ev *evaluator.Evaluator, line string, out io.Writer) bool {
	expr := strings.TrimSpace(line)
	if strings.EqualFold(expr, "quit") {
		return true
	}
	if expr == "" {
		return false
	}

	if err := parser.Validate(expr); err != nil {
		fmt.Fprintln(out, color.YellowString("Invalid expression. Please try again."))
		return false
	}

	v, err := ev.EvalString(ctx, expr)
	if err != nil {
		fmt.Fprintln(out, color.RedString("Error: %v", err))
		return false
	}
	fmt.Fprintf(out, "Result: %s\n", color.GreenString("%d", v))
	return false
}
