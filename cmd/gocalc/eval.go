package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sandrolain/gocalc/pkg/evaluator"
)

var evalCmd = &cobra.Command{
	Use:   "eval EXPRESSION...",
	Short: "Evaluate one or more expressions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ev, err := newEvaluator()
		if err != nil {
			return err
		}
		return runEval(cmd.Context(), ev, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// runEval prints "Result: N" for each expression. Failures are reported on
// errOut and evaluation continues with the next expression.
func runEval(ctx context.Context, ev *evaluator.Evaluator, exprs []string, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	failed := 0
	for _, src := range exprs {
		v, err := ev.EvalString(ctx, src)
		if err != nil {
			failed++
			fmt.Fprintf(errOut, "%s %s\n", color.RedString("%s:", src), err)
			continue
		}
		fmt.Fprintf(out, "Result: %s\n", color.GreenString("%d", v))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, len(exprs))
	}
	return nil
}
