//go:build wasip1

// Command gocalc-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "expression": "<arithmetic>" }
//	stdout: { "result": <integer> }                  on success
//	        { "error": "<message>", "code": "<code>" } on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o gocalc.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"expression":"(2+3)*4"}' | wasmtime gocalc.wasm
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/sandrolain/gocalc"
	"github.com/sandrolain/gocalc/pkg/types"
)

type request struct {
	Expression string `json:"expression"`
}

type response struct {
	Result *int64 `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	result, err := gocalc.EvaluateWithContext(context.Background(), req.Expression)
	if err != nil {
		writeResponse(response{Error: err.Error(), Code: string(types.CodeOf(err))}, 1)
	}

	writeResponse(response{Result: &result}, 0)
}
