// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import (
	"encoding/json"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// Load opens path, memory-maps it (mirroring the teacher's own File.New
// use of mmap.Map), and unmarshals its contents as the JSON-backed
// assembly object model. The assembly-I/O layer this tool consumes is, per
// spec.md §1, assumed to be a pre-existing library exposing the model
// described in §3; this JSON encoding stands in for that library's wire
// format.
func Load(path string) (*Module, error) {
	if path == "" {
		return nil, ErrEmptyAssemblyPath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer data.Unmap()

	var m Module
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	m.ensureIndex()

	return &m, nil
}

// Save marshals m as indented JSON and writes it to path, truncating any
// existing file. Per spec.md §7's fatal error band, an I/O failure here
// aborts the run; no partial output is left in place on an encoding error.
func Save(path string, m *Module) error {
	if path == "" {
		return ErrEmptyAssemblyPath
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
