// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "testing"

func TestBodyIndexOfAndContains(t *testing.T) {
	a := NewInstruction(OpNop)
	b := NewInstruction(OpRet)
	body := &Body{Instructions: []*Instruction{a, b}}

	if body.IndexOf(a) != 0 || body.IndexOf(b) != 1 {
		t.Fatalf("unexpected indices: a=%d b=%d", body.IndexOf(a), body.IndexOf(b))
	}
	if !body.Contains(a) || !body.Contains(b) {
		t.Fatalf("expected both instructions to be present")
	}

	c := NewInstruction(OpDup)
	if body.Contains(c) {
		t.Errorf("did not expect an instruction never appended to be present")
	}
	if body.IndexOf(c) != -1 {
		t.Errorf("got %d, want -1 for an absent instruction", body.IndexOf(c))
	}
}

func TestBodyRemoveByPointerIdentity(t *testing.T) {
	a := NewInstruction(OpNop)
	b := NewInstruction(OpNop) // same opcode, distinct identity
	body := &Body{Instructions: []*Instruction{a, b}}

	if !body.Remove(a) {
		t.Fatalf("expected Remove(a) to succeed")
	}
	if body.Contains(a) {
		t.Errorf("did not expect a to remain after removal")
	}
	if !body.Contains(b) {
		t.Errorf("expected b (same opcode, different identity) to remain")
	}
	if body.Remove(a) {
		t.Errorf("expected a second Remove(a) to report no-op")
	}
}

func TestBodyReplaceAndClear(t *testing.T) {
	a := NewInstruction(OpNop)
	body := &Body{Instructions: []*Instruction{a}, InitLocals: true, Variables: []*Local{{Name: "x"}}}

	replacement := NewInstruction(OpRet)
	body.Replace(0, replacement)
	if body.At(0) != replacement {
		t.Fatalf("expected Replace to swap in the new instruction")
	}

	body.Clear()
	if len(body.Instructions) != 0 || len(body.Variables) != 0 || body.InitLocals {
		t.Errorf("expected Clear to empty all fields, got %+v", body)
	}
}

func TestNewLocalInstructionCarriesLocalOperand(t *testing.T) {
	local := &Local{Name: "tmp", Type: &TypeRef{FullName: "S"}}
	instr := NewLocalInstruction(OpLdloc, local)

	if instr.LocalOperand != local {
		t.Fatalf("expected LocalOperand to be set to the given local")
	}
	if instr.OpCode != OpLdloc {
		t.Errorf("got opcode %s, want %s", instr.OpCode, OpLdloc)
	}
}
