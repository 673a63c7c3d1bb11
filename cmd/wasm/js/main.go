//go:build js && wasm

// Command gocalc-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `gocalc` object with the following API:
//
//	gocalc.version()          → string
//	gocalc.evaluate(text)     → number  (throws on error)
//	gocalc.compile(text)      → { evaluate() → number, tree: string }  (throws on error)
//
// Results are int64 on the Go side and are converted to JS numbers, so values
// beyond 2^53 lose precision.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o gocalc.wasm ./cmd/wasm/js/
package main

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/sandrolain/gocalc"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	js.Global().Get("Error").New(msg)
	panic(msg)
}

// jsEvaluate implements gocalc.evaluate(text) → number.
func jsEvaluate(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("gocalc.evaluate requires 1 argument: expression (string)")
	}
	result, err := gocalc.Evaluate(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("gocalc.evaluate: %v", err))
	}
	return js.ValueOf(float64(result))
}

// jsCompile implements gocalc.compile(text) → { evaluate() → number, tree }.
func jsCompile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("gocalc.compile requires 1 argument: expression (string)")
	}

	expr, err := gocalc.Compile(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("gocalc.compile: %v", err))
	}

	ev := gocalc.New()
	evalFn := js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
		r, e := ev.Eval(context.Background(), expr)
		if e != nil {
			jsThrow(fmt.Sprintf("compiled.evaluate: %v", e))
		}
		return js.ValueOf(float64(r))
	})

	return js.ValueOf(map[string]interface{}{
		"evaluate": evalFn,
		"tree":     expr.String(),
	})
}

func main() {
	api := map[string]interface{}{
		"evaluate": js.FuncOf(jsEvaluate),
		"compile":  js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return gocalc.Version()
		}),
	}
	js.Global().Set("gocalc", js.ValueOf(api))

	// The JS event loop owns execution from here.
	select {}
}
