// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import (
	"bufio"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadRoots is the log reader / roots loader (C9). It reads a
// newline-delimited, UTF-8 execution log (optionally BOM-prefixed, per the
// teacher's own DecodeUTF16String use of golang.org/x/text/encoding/unicode)
// and returns the set of distinct method full-names it names. Order is not
// significant and duplicates collapse into the same set entry; an empty
// line becomes an empty full-name, which simply fails to match any method
// later on.
func LoadRoots(path string) (map[string]struct{}, error) {
	if path == "" {
		return nil, ErrEmptyLogPath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := transform.NewReader(f, decoder)

	roots := make(map[string]struct{})
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		roots[scanner.Text()] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return roots, nil
}
