// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "strings"

// mark is the type-reference walker (C1). It transitively marks the
// full-names a type reference names as live and enqueues newly-discovered
// ones for expansion by the reachability analyzer (C2).
//
// A generic-parameter reference names nothing concrete and is ignored. A
// generic-instance reference (e.g. Container<Foo, Bar>) is not itself a
// live key; its element type and each generic argument are marked instead,
// so Container<,>, Foo, and Bar each become live keys in their own right.
func mark(ref *TypeRef, liveTypes map[string]struct{}, queue *[]string) {
	if ref == nil || ref.IsGenericParam {
		return
	}
	if ref.IsGenericInstance {
		mark(ref.ElementType, liveTypes, queue)
		for _, arg := range ref.GenericArgs {
			mark(arg, liveTypes, queue)
		}
		return
	}
	if _, ok := liveTypes[ref.FullName]; !ok {
		liveTypes[ref.FullName] = struct{}{}
		*queue = append(*queue, ref.FullName)
	}
}

// isCompilerGenerated reports whether t looks compiler-generated: its short
// name contains '<' or '>', or it carries a CompilerGeneratedAttribute
// custom attribute. The name heuristic is coarse (per spec.md's Design
// Notes on this detector) but is kept exactly as specified for parity with
// this obfuscator's outputs.
func isCompilerGenerated(t *TypeDef) bool {
	if strings.ContainsAny(t.Name, "<>") {
		return true
	}
	for _, attr := range t.CustomAttributes {
		if attr.Type != nil && attr.Type.FullName == CompilerGeneratedAttribute {
			return true
		}
	}
	return false
}

// inheritsReflectedRoot walks t's base-type chain looking for the module's
// reflected-root base type. Resolution failure at any step terminates the
// walk as a negative answer rather than propagating an error.
func inheritsReflectedRoot(t *TypeDef, m *Module) bool {
	root := m.effectiveReflectedRoot()
	current := t
	for {
		if current.BaseType == nil {
			return false
		}
		if current.BaseType.FullName == root {
			return true
		}
		next, ok := current.BaseType.Resolve(m)
		if !ok {
			addAnomalyOnce(m, AnoUnresolvedBaseType+": "+current.FullName)
			return false
		}
		current = next
	}
}

// isAlwaysLive reports whether t belongs to the module's always-live floor:
// public and not compiler-generated, OR an enum, OR a transitive descendant
// of the reflected-root base type.
func isAlwaysLive(t *TypeDef, m *Module) bool {
	if t.Public && !isCompilerGenerated(t) {
		return true
	}
	if t.Enum {
		return true
	}
	return inheritsReflectedRoot(t, m)
}

// expandMethod marks everything spec.md §4.2 step 4 names as reachable from
// a dequeued method: its declaring type, return type, parameter types,
// generic-parameter constraints, and — for each instruction in its body —
// the callee (by full-name, directly into liveMethods), the type operand
// (via mark), or the field operand's type (via mark; the field itself is
// not tracked separately).
func expandMethod(meth *MethodDef, owner *TypeDef, m *Module, liveMethods, liveTypes map[string]struct{}, methodQueue, typeQueue *[]string) {
	mark(&TypeRef{FullName: owner.FullName}, liveTypes, typeQueue)
	mark(meth.ReturnType, liveTypes, typeQueue)
	for _, p := range meth.Params {
		mark(p, liveTypes, typeQueue)
	}
	for _, gp := range meth.GenericParams {
		for _, c := range gp.Constraints {
			mark(c, liveTypes, typeQueue)
		}
	}

	if meth.Body == nil {
		return
	}
	for _, instr := range meth.Body.Instructions {
		switch {
		case instr.MethodOperand != nil:
			callee := instr.MethodOperand.FullName
			if _, ok := liveMethods[callee]; !ok {
				liveMethods[callee] = struct{}{}
				*methodQueue = append(*methodQueue, callee)
			}
		case instr.TypeOperand != nil:
			mark(instr.TypeOperand, liveTypes, typeQueue)
		case instr.FieldOperand != nil:
			if field, ok := instr.FieldOperand.Resolve(m); ok {
				mark(field.Type, liveTypes, typeQueue)
			}
		}
	}
}

// expandType marks everything spec.md §4.2 step 4 names as reachable from a
// dequeued type: its base type, interfaces, field/property/event types,
// custom-attribute types, and generic-parameter constraints.
func expandType(t *TypeDef, liveTypes map[string]struct{}, typeQueue *[]string) {
	mark(t.BaseType, liveTypes, typeQueue)
	for _, iface := range t.Interfaces {
		mark(iface, liveTypes, typeQueue)
	}
	for _, f := range t.Fields {
		mark(f.Type, liveTypes, typeQueue)
	}
	for _, p := range t.Properties {
		mark(p.Type, liveTypes, typeQueue)
	}
	for _, e := range t.Events {
		mark(e.Type, liveTypes, typeQueue)
	}
	for _, attr := range t.CustomAttributes {
		mark(attr.Type, liveTypes, typeQueue)
	}
	for _, gp := range t.GenericParams {
		for _, c := range gp.Constraints {
			mark(c, liveTypes, typeQueue)
		}
	}
}

// IdentifyLiveCode is the reachability analyzer (C2). Given the module and
// a set of executed-method full-names (the trace roots), it computes the
// live-methods and live-types closures via a two-queue worklist fixed
// point. The analyzer never raises: unresolvable references are silently
// skipped, and termination is guaranteed because each full-name is
// enqueued at most once.
func IdentifyLiveCode(m *Module, roots map[string]struct{}) (liveMethods, liveTypes map[string]struct{}) {
	m.ensureIndex()

	ownerOf := make(map[string]*TypeDef)
	for _, t := range m.AllTypes() {
		for _, meth := range t.Methods {
			if _, ok := ownerOf[meth.FullName]; !ok {
				ownerOf[meth.FullName] = t
			}
		}
	}

	liveMethods = make(map[string]struct{})
	liveTypes = make(map[string]struct{})
	var methodQueue, typeQueue []string

	for root := range roots {
		if _, ok := m.methodIndex[root]; !ok {
			addAnomalyOnce(m, AnoRootNotFound+": "+root)
			continue
		}
		if _, already := liveMethods[root]; already {
			continue
		}
		liveMethods[root] = struct{}{}
		methodQueue = append(methodQueue, root)
	}

	for _, t := range m.AllTypes() {
		if !isAlwaysLive(t, m) {
			continue
		}
		if _, already := liveTypes[t.FullName]; already {
			continue
		}
		liveTypes[t.FullName] = struct{}{}
		typeQueue = append(typeQueue, t.FullName)
	}

	for len(methodQueue) > 0 || len(typeQueue) > 0 {
		for len(methodQueue) > 0 {
			name := methodQueue[0]
			methodQueue = methodQueue[1:]
			meth, ok := m.methodIndex[name]
			if !ok {
				continue
			}
			owner, ok := ownerOf[name]
			if !ok {
				continue
			}
			expandMethod(meth, owner, m, liveMethods, liveTypes, &methodQueue, &typeQueue)
		}
		for len(typeQueue) > 0 {
			name := typeQueue[0]
			typeQueue = typeQueue[1:]
			t, ok := m.typeIndex[name]
			if !ok {
				continue
			}
			expandType(t, liveTypes, &typeQueue)
		}
	}

	return liveMethods, liveTypes
}
