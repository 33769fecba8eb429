// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// Options configures a pipeline run, mirroring the teacher's own
// Options{Logger log.Logger} pattern.
type Options struct {
	// Logger is a custom structured logger. When nil, Clean falls back to
	// a stderr logger filtered to error level, matching the teacher's
	// default-logger construction in file.go.
	Logger log.Logger
}

// Summary is the pipeline's return value, per spec.md §6's
// clean(assembly, log-roots) -> summary contract.
type Summary struct {
	LiveMethods    int `json:"live_methods"`
	LiveTypes      int `json:"live_types"`
	Decrypted      int `json:"decrypted"`
	Invalidated    int `json:"invalidated"`
	RenamedMethods int `json:"renamed_methods"`
	RenamedTypes   int `json:"renamed_types"`
}

// newDefaultLogger builds the fallback structured logger used when Options
// carries none, following file.go's NewStdLogger/NewFilter/NewHelper chain.
func newDefaultLogger() *log.Helper {
	logger := log.NewStdLogger(os.Stderr)
	return log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelError)))
}

// Clean is the pipeline orchestrator (C8). It sequences, in exactly this
// order, the string-decryption folder, the reachability analyzer, the body
// invalidator, the method reorderer, the dead-method renamer, and the
// dead-type renamer against module, using roots (executed-method
// full-names) to seed reachability. The ordering matters: the folder must
// run first since it can enlarge the set of later-dead decryption helpers,
// the analyzer must see un-invalidated bodies to discover callees, and
// renames happen only once all analysis is complete.
func Clean(module *Module, roots map[string]struct{}, opts *Options) (Summary, error) {
	if module == nil {
		return Summary{}, ErrNilModule
	}

	var helper *log.Helper
	if opts != nil && opts.Logger != nil {
		helper = log.NewHelper(opts.Logger)
	} else {
		helper = newDefaultLogger()
	}

	decrypted := FoldStringDecryption(module)
	helper.Infof("folded %d string-decryption call sites", decrypted)

	liveMethods, liveTypes := IdentifyLiveCode(module, roots)
	helper.Infof("identified %d live methods, %d live types", len(liveMethods), len(liveTypes))

	invalidated := InvalidateUnused(module, liveMethods)
	helper.Infof("invalidated %d dead method bodies", invalidated)

	ReorderMethods(module, liveMethods)

	renamedMethods := RenameDeadMethods(module, liveMethods)
	renamedTypes := RenameDeadTypes(module, liveTypes)
	helper.Infof("renamed %d dead methods, %d dead types", renamedMethods, renamedTypes)

	return Summary{
		LiveMethods:    len(liveMethods),
		LiveTypes:      len(liveTypes),
		Decrypted:      decrypted,
		Invalidated:    invalidated,
		RenamedMethods: renamedMethods,
		RenamedTypes:   renamedTypes,
	}, nil
}
