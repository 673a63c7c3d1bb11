package evaluator_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/gocalc/pkg/cache"
	"github.com/sandrolain/gocalc/pkg/evaluator"
	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/types"
)

var backends = []evaluator.Backend{evaluator.BackendTree, evaluator.BackendWASM}

// Helper functions

func eval(t *testing.T, b evaluator.Backend, query string) int64 {
	t.Helper()
	ev := evaluator.New(evaluator.WithBackend(b))
	v, err := ev.EvalString(context.Background(), query)
	require.NoError(t, err, "evaluating %q on %s", query, b)
	return v
}

func evalError(t *testing.T, b evaluator.Backend, query string) *types.Error {
	t.Helper()
	ev := evaluator.New(evaluator.WithBackend(b))
	_, err := ev.EvalString(context.Background(), query)
	require.Error(t, err, "evaluating %q on %s", query, b)

	var e *types.Error
	require.ErrorAs(t, err, &e)
	return e
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		query string
		want  int64
	}{
		{"0", 0},
		{"42", 42},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10-2-3", 5},
		{"8-4-2", 2},
		{"((1+2)*(3+4))", 21},
		{"7/2", 3},
		{"100/10/5", 2},
		{"2*3+4*5", 26},
		{"1+2+3+4", 10},
		{"3-5", -2},
		{"7/(0-2)", -3},
		{"(0-7)/2", -3},
		{"(0-7)/(0-2)", 3},
		{"0/5", 0},
		{" 6 * 7 ", 42},
		{"9223372036854775807", math.MaxInt64},
	}

	for _, b := range backends {
		for _, tt := range tests {
			t.Run(string(b)+"/"+tt.query, func(t *testing.T) {
				assert.Equal(t, tt.want, eval(t, b, tt.query))
			})
		}
	}
}

func TestEvalOverflowWraps(t *testing.T) {
	tests := []struct {
		query string
		want  int64
	}{
		{"9223372036854775807+1", math.MinInt64},
		{"0-9223372036854775807-2", math.MaxInt64},
		{"4611686018427387904*2", math.MinInt64},
		{"(0-9223372036854775807-1)/(0-1)", math.MinInt64},
	}

	for _, b := range backends {
		for _, tt := range tests {
			t.Run(string(b)+"/"+tt.query, func(t *testing.T) {
				assert.Equal(t, tt.want, eval(t, b, tt.query))
			})
		}
	}
}

func TestEvalBinaryIdentities(t *testing.T) {
	as := []int64{0, 1, 7, 13, 100, 9999, 123456789}
	bs := []int64{1, 2, 3, 10, 9999, 1000000007}

	for _, be := range backends {
		ev := evaluator.New(evaluator.WithBackend(be))
		for _, a := range as {
			for _, b := range bs {
				cases := map[string]int64{
					fmt.Sprintf("%d+%d", a, b): a + b,
					fmt.Sprintf("%d-%d", a, b): a - b,
					fmt.Sprintf("%d*%d", a, b): a * b,
					fmt.Sprintf("%d/%d", a, b): a / b,
				}
				for q, want := range cases {
					got, err := ev.EvalString(context.Background(), q)
					require.NoError(t, err, "%s on %s", q, be)
					assert.Equal(t, want, got, "%s on %s", q, be)
				}
			}
		}
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	tests := []struct {
		query    string
		position int
	}{
		{"5/0", 1},
		{"1+2/0*3", 3},
		{"5/(2-2)", 1},
		{"1/0+2/0", 1},
		{"(8/(4-4))", 2},
	}

	for _, b := range backends {
		for _, tt := range tests {
			t.Run(string(b)+"/"+tt.query, func(t *testing.T) {
				e := evalError(t, b, tt.query)
				assert.Equal(t, types.ErrDivisionByZero, e.Code)
				assert.Equal(t, types.CategoryDivisionByZero, e.Category())
				assert.Equal(t, tt.position, e.Position)
				assert.Equal(t, "/", e.Token)
			})
		}
	}
}

func TestEvalParseErrors(t *testing.T) {
	for _, b := range backends {
		e := evalError(t, b, "(1+2")
		assert.Equal(t, types.CategorySyntax, e.Category())

		e = evalError(t, b, "")
		assert.Equal(t, types.CategoryMalformed, e.Category())
	}
}

func TestEvalIdempotent(t *testing.T) {
	expr, err := parser.Parse("((1+2)*(3+4))-10/3")
	require.NoError(t, err)

	for _, b := range backends {
		ev := evaluator.New(evaluator.WithBackend(b))
		first, err := ev.Eval(context.Background(), expr)
		require.NoError(t, err)
		second, err := ev.Eval(context.Background(), expr)
		require.NoError(t, err)
		assert.Equal(t, int64(18), first)
		assert.Equal(t, first, second)
	}
}

func TestEvalNilExpression(t *testing.T) {
	_, err := evaluator.New().Eval(context.Background(), nil)
	assert.Error(t, err)
}

func TestEvalCancelledContext(t *testing.T) {
	expr, err := parser.Parse("1+2")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = evaluator.New().Eval(ctx, expr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvalStrictWhitespace(t *testing.T) {
	ev := evaluator.New(evaluator.WithStrictWhitespace(true), evaluator.WithCaching(true))

	_, err := ev.EvalString(context.Background(), "1 + 2")
	assert.Equal(t, types.ErrWhitespace, types.CodeOf(err))

	// A lenient evaluator sharing the cache must not see the strict failure.
	lenient := evaluator.New(evaluator.WithCache(ev.Cache()))
	v, err := lenient.EvalString(context.Background(), "1 + 2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestEvalCompileOptions(t *testing.T) {
	ev := evaluator.New(evaluator.WithCompileOptions(parser.WithMaxDepth(2)))

	_, err := ev.EvalString(context.Background(), "(((1)))")
	assert.Equal(t, types.ErrMaxDepthExceeded, types.CodeOf(err))
}

func TestEvalSharedCacheCompileOptions(t *testing.T) {
	ctx := context.Background()
	shared := cache.New(16)

	lenient := evaluator.New(evaluator.WithCache(shared))
	v, err := lenient.EvalString(ctx, "((1))")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	v, err = lenient.EvalString(ctx, "1 + 2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	bounded := evaluator.New(evaluator.WithCache(shared),
		evaluator.WithCompileOptions(parser.WithMaxDepth(1)))
	_, err = bounded.EvalString(ctx, "((1))")
	assert.Equal(t, types.ErrMaxDepthExceeded, types.CodeOf(err))

	strict := evaluator.New(evaluator.WithCache(shared),
		evaluator.WithCompileOptions(parser.WithStrictWhitespace(true)))
	_, err = strict.EvalString(ctx, "1 + 2")
	assert.Equal(t, types.ErrWhitespace, types.CodeOf(err))

	// Same resolved options share entries.
	hits := shared.Stats().Hits
	again := evaluator.New(evaluator.WithCache(shared), evaluator.WithStrictWhitespace(false))
	_, err = again.EvalString(ctx, "((1))")
	require.NoError(t, err)
	assert.Equal(t, hits+1, shared.Stats().Hits)
}

func TestEvalCaching(t *testing.T) {
	ev := evaluator.New(evaluator.WithCaching(true), evaluator.WithCacheSize(8))
	require.NotNil(t, ev.Cache())
	assert.Equal(t, 8, ev.Cache().Capacity())

	for i := 0; i < 3; i++ {
		v, err := ev.EvalString(context.Background(), "6*7")
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)
	}

	s := ev.Cache().Stats()
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, uint64(2), s.Hits)
	assert.Equal(t, 1, ev.Cache().Len())
}

func TestEvalExternalCache(t *testing.T) {
	c := cache.New(4)
	ev := evaluator.New(evaluator.WithCache(c))
	assert.Same(t, c, ev.Cache())

	_, err := ev.EvalString(context.Background(), "1+1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestEvalNoCacheByDefault(t *testing.T) {
	assert.Nil(t, evaluator.New().Cache())
	assert.Equal(t, evaluator.BackendTree, evaluator.New().Backend())
}

func TestEvalDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ev := evaluator.New(evaluator.WithDebug(true), evaluator.WithLogger(logger))
	_, err := ev.EvalString(context.Background(), "1+2")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "evaluating expression")
	assert.Contains(t, out, "evaluating node")
	assert.Contains(t, out, "backend=tree")
}

func TestParseBackend(t *testing.T) {
	b, err := evaluator.ParseBackend("wasm")
	require.NoError(t, err)
	assert.Equal(t, evaluator.BackendWASM, b)

	_, err = evaluator.ParseBackend("jit")
	assert.Error(t, err)
}

// genExpr builds a random well-formed expression.
func genExpr(r *rand.Rand, depth int) string {
	if depth == 0 || r.IntN(3) == 0 {
		return strconv.Itoa(r.IntN(50))
	}
	ops := "+-*/"
	s := genExpr(r, depth-1) + string(ops[r.IntN(len(ops))]) + genExpr(r, depth-1)
	if r.IntN(2) == 0 {
		s = "(" + s + ")"
	}
	return s
}

func TestBackendsAgree(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	tree := evaluator.New(evaluator.WithBackend(evaluator.BackendTree))
	wasm := evaluator.New(evaluator.WithBackend(evaluator.BackendWASM))

	for i := 0; i < 200; i++ {
		q := genExpr(r, 5)

		expr, err := parser.Parse(q)
		require.NoError(t, err, q)
		s := expr.Stats()
		require.Equal(t, s.Operators+1, s.Literals, q)

		tv, terr := tree.Eval(context.Background(), expr)
		wv, werr := wasm.Eval(context.Background(), expr)
		if terr != nil {
			require.Error(t, werr, q)
			assert.Equal(t, types.CodeOf(terr), types.CodeOf(werr), q)
			assert.Equal(t, terr.Error(), werr.Error(), q)
			continue
		}
		require.NoError(t, werr, q)
		assert.Equal(t, tv, wv, q)
	}
}

func TestDeepExpression(t *testing.T) {
	q := strings.Repeat("1+", 5000) + "1"
	for _, b := range backends {
		assert.Equal(t, int64(5001), eval(t, b, q))
	}
}

func TestLongChainRejected(t *testing.T) {
	q := strings.Repeat("1+", 1_000_000) + "1"
	for _, b := range backends {
		e := evalError(t, b, q)
		assert.Equal(t, types.ErrMaxDepthExceeded, e.Code)
	}

	atLimit := strings.Repeat("2*", parser.DefaultMaxDepth-1) + "0"
	for _, b := range backends {
		assert.Equal(t, int64(0), eval(t, b, atLimit))
	}
}
