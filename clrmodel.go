// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "fmt"

// DefaultReflectedRoot is the base type whose descendants are presumed
// reachable via reflection even without a recorded call, per the
// obfuscator family this tool targets (Unity/Mono projects).
const DefaultReflectedRoot = "UnityEngine.Object"

// CompilerGeneratedAttribute is the full-name of the attribute type used,
// alongside the `<`/`>` name heuristic, to detect compiler-generated types.
const CompilerGeneratedAttribute = "System.Runtime.CompilerServices.CompilerGeneratedAttribute"

// Module is the root of the assembly object graph. It owns an ordered
// sequence of top-level types; each type may in turn own nested types.
type Module struct {
	Types []*TypeDef `json:"types"`

	// ReflectedRoot overrides DefaultReflectedRoot when non-empty.
	ReflectedRoot string `json:"reflected_root,omitempty"`

	// Anomalies collects non-fatal findings surfaced during a run
	// (unresolved roots, decryption helpers with no call sites, and
	// the like), following the teacher's File.Anomalies sink pattern.
	Anomalies []string `json:"anomalies,omitempty"`

	typeIndex   map[string]*TypeDef
	methodIndex map[string]*MethodDef
	fieldIndex  map[string]*FieldDef
}

// effectiveReflectedRoot returns the configured reflected-root base type,
// defaulting to DefaultReflectedRoot.
func (m *Module) effectiveReflectedRoot() string {
	if m.ReflectedRoot == "" {
		return DefaultReflectedRoot
	}
	return m.ReflectedRoot
}

// AllTypes returns every type in the module, top-level and nested, via a
// depth-first walk of the nesting tree.
func (m *Module) AllTypes() []*TypeDef {
	var out []*TypeDef
	var walk func([]*TypeDef)
	walk = func(types []*TypeDef) {
		for _, t := range types {
			out = append(out, t)
			walk(t.NestedTypes)
		}
	}
	walk(m.Types)
	return out
}

// buildIndex (re)builds the full-name lookup tables used for resolution.
// Duplicate keys retain the first occurrence encountered during the walk.
func (m *Module) buildIndex() {
	m.typeIndex = make(map[string]*TypeDef)
	m.methodIndex = make(map[string]*MethodDef)
	m.fieldIndex = make(map[string]*FieldDef)

	for _, t := range m.AllTypes() {
		if _, ok := m.typeIndex[t.FullName]; !ok {
			m.typeIndex[t.FullName] = t
		}
		for _, meth := range t.Methods {
			if _, ok := m.methodIndex[meth.FullName]; !ok {
				m.methodIndex[meth.FullName] = meth
			}
		}
		for _, f := range t.Fields {
			if _, ok := m.fieldIndex[f.FullName]; !ok {
				m.fieldIndex[f.FullName] = f
			}
		}
	}
}

// ensureIndex lazily builds the lookup tables on first use.
func (m *Module) ensureIndex() {
	if m.typeIndex == nil {
		m.buildIndex()
	}
}

// ResolveType looks up a type definition by full-name.
func (m *Module) ResolveType(fullName string) (*TypeDef, bool) {
	m.ensureIndex()
	t, ok := m.typeIndex[fullName]
	return t, ok
}

// ResolveMethod looks up a method definition by full-name.
func (m *Module) ResolveMethod(fullName string) (*MethodDef, bool) {
	m.ensureIndex()
	meth, ok := m.methodIndex[fullName]
	return meth, ok
}

// ResolveField looks up a field definition by full-name.
func (m *Module) ResolveField(fullName string) (*FieldDef, bool) {
	m.ensureIndex()
	f, ok := m.fieldIndex[fullName]
	return f, ok
}

// AddAnomaly records a non-fatal finding against the module.
func (m *Module) AddAnomaly(format string, args ...interface{}) {
	m.Anomalies = append(m.Anomalies, fmt.Sprintf(format, args...))
}

// TypeDef is a class or interface definition in the module.
type TypeDef struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`

	Public      bool `json:"public,omitempty"`
	Enum        bool `json:"enum,omitempty"`
	SpecialName bool `json:"special_name,omitempty"`

	// ValueType distinguishes structs/enums from reference types; the
	// default-value emitter (C3) needs this to pick ldnull vs. an
	// initobj sequence for "any other" return type.
	ValueType bool `json:"value_type,omitempty"`

	BaseType         *TypeRef           `json:"base_type,omitempty"`
	Interfaces       []*TypeRef         `json:"interfaces,omitempty"`
	Fields           []*FieldDef        `json:"fields,omitempty"`
	Properties       []*PropertyDef     `json:"properties,omitempty"`
	Events           []*EventDef        `json:"events,omitempty"`
	CustomAttributes []*CustomAttribute `json:"custom_attributes,omitempty"`
	GenericParams    []*GenericParam    `json:"generic_params,omitempty"`
	NestedTypes      []*TypeDef         `json:"nested_types,omitempty"`
	Methods          []*MethodDef       `json:"methods,omitempty"`
}

// MethodDef is a method definition belonging to exactly one type.
type MethodDef struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`

	ReturnType    *TypeRef        `json:"return_type,omitempty"`
	Params        []*TypeRef      `json:"params,omitempty"`
	GenericParams []*GenericParam `json:"generic_params,omitempty"`

	Static      bool `json:"static,omitempty"`
	Public      bool `json:"public,omitempty"`
	Constructor bool `json:"constructor,omitempty"`
	SpecialName bool `json:"special_name,omitempty"`
	Abstract    bool `json:"abstract,omitempty"`

	Body *Body `json:"body,omitempty"`
}

// FieldDef is a field definition. InitialValue is non-nil only for static
// fields whose initializer was stored as a raw blob in assembly metadata.
type FieldDef struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`

	Type   *TypeRef `json:"type,omitempty"`
	Static bool     `json:"static,omitempty"`

	InitialValue []byte `json:"initial_value,omitempty"`
}

// PropertyDef is a property definition.
type PropertyDef struct {
	FullName string   `json:"full_name"`
	Name     string   `json:"name"`
	Type     *TypeRef `json:"type,omitempty"`
}

// EventDef is an event definition.
type EventDef struct {
	FullName string   `json:"full_name"`
	Name     string   `json:"name"`
	Type     *TypeRef `json:"type,omitempty"`
}

// CustomAttribute is a custom attribute attached to a type, method, or
// other metadata entity.
type CustomAttribute struct {
	Type *TypeRef `json:"type,omitempty"`
}

// GenericParam is a generic type/method parameter with its constraints.
type GenericParam struct {
	Name        string     `json:"name"`
	Constraints []*TypeRef `json:"constraints,omitempty"`
}

// TypeRef is a possibly-unresolved reference to a type, potentially in a
// different module. A generic-instance reference exposes its element type
// and generic arguments rather than being itself a resolvable definition.
type TypeRef struct {
	FullName string `json:"full_name"`

	IsGenericParam    bool `json:"is_generic_param,omitempty"`
	IsGenericInstance bool `json:"is_generic_instance,omitempty"`

	ElementType *TypeRef   `json:"element_type,omitempty"`
	GenericArgs []*TypeRef `json:"generic_args,omitempty"`
}

// Resolve resolves the reference to its definition within m.
func (r *TypeRef) Resolve(m *Module) (*TypeDef, bool) {
	if r == nil || m == nil {
		return nil, false
	}
	return m.ResolveType(r.FullName)
}

// MethodRef is a possibly-unresolved reference to a method. Name is the
// short (undecorated) method name; FullName is the identity key.
type MethodRef struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`
}

// Resolve resolves the reference to its definition within m.
func (r *MethodRef) Resolve(m *Module) (*MethodDef, bool) {
	if r == nil || m == nil {
		return nil, false
	}
	return m.ResolveMethod(r.FullName)
}

// FieldRef is a possibly-unresolved reference to a field.
type FieldRef struct {
	FullName string `json:"full_name"`
}

// Resolve resolves the reference to its definition within m.
func (r *FieldRef) Resolve(m *Module) (*FieldDef, bool) {
	if r == nil || m == nil {
		return nil, false
	}
	return m.ResolveField(r.FullName)
}
