package evaluator

// Package evaluator computes the integer value of a compiled expression.
//
// Two backends are available:
//   - BackendTree walks the expression tree recursively (the default)
//   - BackendWASM compiles the tree to WebAssembly and runs it on the
//     wazero interpreter
//
// Both produce identical results and identical errors.
//
// # Example
//
//	ev := evaluator.New()
//	expr, _ := parser.Parse("(2+3)*4")
//	result, err := ev.Eval(ctx, expr)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// An Evaluator holds no per-evaluation state and can be shared by goroutines.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sandrolain/gocalc/pkg/cache"
	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/types"
)

// Backend selects how an expression is executed.
type Backend string

// Available backends.
const (
	BackendTree Backend = "tree"
	BackendWASM Backend = "wasm"
)

// ParseBackend converts a backend name into a Backend.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case BackendTree, BackendWASM:
		return Backend(name), nil
	default:
		return "", fmt.Errorf("unknown backend %q (want %q or %q)", name, BackendTree, BackendWASM)
	}
}

// Evaluator evaluates compiled expressions.
type Evaluator struct {
	opts     EvalOptions
	logger   *slog.Logger
	cache    *cache.Cache // non-nil when Caching is enabled
	keySpace string       // cache key prefix derived from the parser options
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Backend selects the execution engine. Defaults to BackendTree.
	Backend Backend
	// Caching enables caching of compiled expressions in EvalString.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached expressions.
	// Only used when Caching is true and no explicit Cache is provided.
	CacheSize int
	// Cache is a custom expression cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache
	// CompileOptions are passed to the parser by EvalString.
	CompileOptions []parser.CompileOption
	// StrictWhitespace is forwarded to the parser.
	StrictWhitespace bool
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		Backend: BackendTree,
		Caching: false,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Backend == "" {
		options.Backend = BackendTree
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		c = cache.New(options.CacheSize)
	}

	e := &Evaluator{
		opts:   options,
		logger: options.Logger,
		cache:  c,
	}
	co := parser.NewCompileOptions(e.compileOptions()...)
	e.keySpace = fmt.Sprintf("%t/%d\x00", co.StrictWhitespace, co.MaxDepth)
	return e
}

// Cache returns the expression cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// Backend returns the configured backend.
func (e *Evaluator) Backend() Backend {
	return e.opts.Backend
}

// Eval evaluates a compiled expression.
func (e *Evaluator) Eval(ctx context.Context, expr *types.Expression) (int64, error) {
	if expr == nil || expr.AST() == nil {
		return 0, fmt.Errorf("invalid expression")
	}

	if e.opts.Debug {
		e.logger.Debug("evaluating expression",
			"source", expr.Source(),
			"backend", e.opts.Backend)
	}

	switch e.opts.Backend {
	case BackendWASM:
		return e.evalWASM(ctx, expr)
	default:
		return e.evalNode(ctx, expr.AST(), 0)
	}
}

// Compile parses query with the evaluator's compile options, going through
// the cache when one is configured. Cache entries are keyed by the resolved
// parser options as well as the text, so evaluators with different settings
// can share one cache.
func (e *Evaluator) Compile(query string) (*types.Expression, error) {
	compile := func() (*types.Expression, error) {
		return parser.Compile(query, e.compileOptions()...)
	}
	if e.cache == nil {
		return compile()
	}

	expr, err := e.cache.GetOrCompile(e.keySpace+query, compile)
	if e.opts.Debug {
		s := e.cache.Stats()
		e.logger.Debug("expression cache",
			"entries", e.cache.Len(),
			"hits", s.Hits,
			"misses", s.Misses)
	}
	return expr, err
}

// EvalString compiles and evaluates query in one call.
func (e *Evaluator) EvalString(ctx context.Context, query string) (int64, error) {
	expr, err := e.Compile(query)
	if err != nil {
		return 0, err
	}
	return e.Eval(ctx, expr)
}

func (e *Evaluator) compileOptions() []parser.CompileOption {
	opts := make([]parser.CompileOption, 0, len(e.opts.CompileOptions)+1)
	opts = append(opts, e.opts.CompileOptions...)
	if e.opts.StrictWhitespace {
		opts = append(opts, parser.WithStrictWhitespace(true))
	}
	return opts
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithBackend selects the execution backend.
func WithBackend(b Backend) EvalOption {
	return func(opts *EvalOptions) {
		opts.Backend = b
	}
}

// WithCaching enables or disables expression compilation caching.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached expressions.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external expression cache.
func WithCache(c *cache.Cache) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithStrictWhitespace makes EvalString reject any whitespace in the input.
func WithStrictWhitespace(strict bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.StrictWhitespace = strict
	}
}

// WithCompileOptions sets parser options used by EvalString.
func WithCompileOptions(copts ...parser.CompileOption) EvalOption {
	return func(opts *EvalOptions) {
		opts.CompileOptions = append(opts.CompileOptions, copts...)
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}
