package clr

import "encoding/json"

// Fuzz is the legacy go-fuzz entry point over the JSON-backed assembly
// loader: it attempts to unmarshal data as a Module and, on success, runs
// it through Clean with an empty root set, exercising the full pipeline
// against whatever shape the fuzzer discovers.
func Fuzz(data []byte) int {
	var m Module
	if err := json.Unmarshal(data, &m); err != nil {
		return 0
	}
	if _, err := Clean(&m, map[string]struct{}{}, nil); err != nil {
		return 0
	}
	return 1
}
