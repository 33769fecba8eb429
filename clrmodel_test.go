// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "testing"

func TestAllTypesWalksNestedTypes(t *testing.T) {
	m := &Module{
		Types: []*TypeDef{
			{FullName: "Outer", Name: "Outer", NestedTypes: []*TypeDef{
				{FullName: "Outer/Inner", Name: "Inner"},
			}},
		},
	}

	all := m.AllTypes()
	if len(all) != 2 {
		t.Fatalf("got %d types, want 2: %v", len(all), all)
	}
	if all[0].FullName != "Outer" || all[1].FullName != "Outer/Inner" {
		t.Errorf("got %v, want [Outer, Outer/Inner]", all)
	}
}

func TestBuildIndexRetainsFirstOccurrenceOnDuplicateKeys(t *testing.T) {
	first := &TypeDef{FullName: "Dup", Name: "First"}
	second := &TypeDef{FullName: "Dup", Name: "Second"}

	m := &Module{Types: []*TypeDef{first, second}}
	resolved, ok := m.ResolveType("Dup")
	if !ok {
		t.Fatalf("expected Dup to resolve")
	}
	if resolved != first {
		t.Errorf("expected the first occurrence to win, got %q", resolved.Name)
	}
}

func TestResolveOnNilReferenceFails(t *testing.T) {
	var ref *TypeRef
	if _, ok := ref.Resolve(&Module{}); ok {
		t.Errorf("expected a nil reference to fail to resolve")
	}
}

func TestAddAnomalyFormats(t *testing.T) {
	m := &Module{}
	m.AddAnomaly("missing %s at %d", "field", 3)

	if len(m.Anomalies) != 1 || m.Anomalies[0] != "missing field at 3" {
		t.Fatalf("got %v, want one formatted anomaly", m.Anomalies)
	}
}

func TestEffectiveReflectedRootDefaultsAndOverrides(t *testing.T) {
	m := &Module{}
	if m.effectiveReflectedRoot() != DefaultReflectedRoot {
		t.Errorf("got %q, want the default reflected root", m.effectiveReflectedRoot())
	}

	m.ReflectedRoot = "Custom.Root"
	if m.effectiveReflectedRoot() != "Custom.Root" {
		t.Errorf("got %q, want the overridden reflected root", m.effectiveReflectedRoot())
	}
}
