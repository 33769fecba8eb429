// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "errors"

// Errors
var (
	// ErrNilModule is returned when a pipeline operation is given a nil
	// assembly module.
	ErrNilModule = errors.New("clr: module is nil")

	// ErrEmptyLogPath is returned when LoadRoots is given an empty path.
	ErrEmptyLogPath = errors.New("clr: execution log path is empty")

	// ErrEmptyAssemblyPath is returned when Load or Save is given an empty
	// path.
	ErrEmptyAssemblyPath = errors.New("clr: assembly path is empty")
)
