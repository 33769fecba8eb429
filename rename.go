// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import (
	"fmt"
	"sort"
)

// deadMethodPrefix and deadTypePrefix are the prefixes of the synthetic
// names (Method_<N>, Type_<N>) C7 rewrites dead names to.
const (
	deadMethodPrefix = "Method_"
	deadTypePrefix   = "Type_"
)

// ReorderMethods is the method reorderer half of C7. For every type with
// more than one method, it stably partitions the type's method list into
// live methods (first) and dead methods (after), preserving the original
// relative order within each partition. A type's method list is rewritten
// only when both partitions are non-empty; otherwise it is left untouched.
func ReorderMethods(m *Module, liveMethods map[string]struct{}) {
	for _, t := range m.AllTypes() {
		if len(t.Methods) <= 1 {
			continue
		}

		var live, dead []*MethodDef
		for _, meth := range t.Methods {
			if _, ok := liveMethods[meth.FullName]; ok {
				live = append(live, meth)
			} else {
				dead = append(dead, meth)
			}
		}
		if len(live) == 0 || len(dead) == 0 {
			continue
		}

		reordered := make([]*MethodDef, 0, len(t.Methods))
		reordered = append(reordered, live...)
		reordered = append(reordered, dead...)
		t.Methods = reordered
	}
}

// RenameDeadMethods is the dead-method renamer half of C7. It walks all
// types in type-enumeration order and renames every method that is
// neither live, a constructor, nor special-name to Method_<N>, where N is a
// monotonic counter shared across the whole run. There is deliberately no
// guard against re-renaming a method whose name already matches the
// Method_ template: unlike the dead-type renamer, a second pipeline run
// would renumber already-renamed dead methods with fresh names. This
// asymmetry is intentional parity with the source tool rather than an
// oversight.
func RenameDeadMethods(m *Module, liveMethods map[string]struct{}) int {
	counter := 0
	for _, t := range m.AllTypes() {
		for _, meth := range t.Methods {
			if _, ok := liveMethods[meth.FullName]; ok {
				continue
			}
			if meth.Constructor || meth.SpecialName {
				continue
			}
			meth.Name = fmt.Sprintf("%s%d", deadMethodPrefix, counter)
			counter++
		}
	}
	return counter
}

// RenameDeadTypes is the dead-type renamer half of C7. It collects every
// non-live type, orders them by ascending full-name length (ties broken by
// stable enumeration order), skips any type whose short name already
// starts with Type_, and renames the rest to Type_<N> with a monotonic
// counter. Ordering by name length biases renumbering toward shallower,
// shorter-named types first — a tie-breaker preserved here for determinism
// parity with the source tool rather than for any semantic reason.
func RenameDeadTypes(m *Module, liveTypes map[string]struct{}) int {
	var dead []*TypeDef
	for _, t := range m.AllTypes() {
		if _, ok := liveTypes[t.FullName]; !ok {
			dead = append(dead, t)
		}
	}
	sort.SliceStable(dead, func(i, j int) bool {
		return len(dead[i].FullName) < len(dead[j].FullName)
	})

	counter := 0
	renamed := 0
	for _, t := range dead {
		if hasDeadTypePrefix(t.Name) {
			continue
		}
		t.Name = fmt.Sprintf("%s%d", deadTypePrefix, counter)
		counter++
		renamed++
	}
	return renamed
}

// hasDeadTypePrefix reports whether name already carries the Type_
// synthetic-name prefix, guarding RenameDeadTypes against re-renaming a
// type on a second pipeline run.
func hasDeadTypePrefix(name string) bool {
	return len(name) >= len(deadTypePrefix) && name[:len(deadTypePrefix)] == deadTypePrefix
}
