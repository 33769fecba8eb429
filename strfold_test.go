// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "testing"

const initializeArrayFullName = "System.Runtime.CompilerServices.RuntimeHelpers.InitializeArray"

// arraySetup builds the 5-instruction byte-array setup idiom of spec.md
// §4.3.3 against a field named fieldName holding blob.
func arraySetup(fieldName string, blob []byte) []*Instruction {
	return []*Instruction{
		NewIntInstruction(OpLdcI4, int64(len(blob))),
		NewInstruction(OpNewarr),
		NewInstruction(OpDup),
		NewFieldInstruction(OpLdtoken, &FieldRef{FullName: fieldName}),
		NewMethodInstruction(OpCall, &MethodRef{FullName: initializeArrayFullName, Name: initializeArrayMethodName}),
	}
}

// decryptionModule builds a module with one decryption-helper candidate and
// one call site whose setup idiom decrypts to "HelloA" given key bytes
// [0x10, 0x20, 0x30].
func decryptionModule() (*Module, []byte, []byte) {
	key := []byte{0x10, 0x20, 0x30}
	data := []byte{0x58, 0x45, 0x5C, 0x7C, 0x4F, 0x71} // "HelloA" XOR key (repeating)

	var instrs []*Instruction
	instrs = append(instrs, arraySetup("Holder.key", key)...)
	instrs = append(instrs, arraySetup("Holder.data", data)...)
	instrs = append(instrs, NewMethodInstruction(OpCall, &MethodRef{FullName: "Crypto.Decrypt", Name: "Decrypt"}))

	m := &Module{
		Types: []*TypeDef{
			{FullName: "Crypto", Name: "Crypto", Methods: []*MethodDef{
				{
					FullName:   "Crypto.Decrypt",
					Name:       "Decrypt",
					Static:     true,
					Public:     true,
					ReturnType: &TypeRef{FullName: typeString},
					Params:     []*TypeRef{{FullName: typeByteArray}, {FullName: typeByteArray}},
					Body:       &Body{Instructions: []*Instruction{NewInstruction(OpXor), NewInstruction(OpRet)}},
				},
			}},
			{FullName: "Holder", Name: "Holder",
				Fields: []*FieldDef{
					{FullName: "Holder.key", Name: "key", InitialValue: key},
					{FullName: "Holder.data", Name: "data", InitialValue: data},
				},
				Methods: []*MethodDef{
					{FullName: "Holder.Caller", Name: "Caller", Body: &Body{Instructions: instrs}},
				},
			},
		},
	}
	return m, key, data
}

func TestFoldStringDecryptionXORRoundTrip(t *testing.T) {
	m, _, _ := decryptionModule()

	decrypted := FoldStringDecryption(m)
	if decrypted != 1 {
		t.Fatalf("got %d decrypted, want 1", decrypted)
	}

	body := m.Types[1].Methods[0].Body
	if len(body.Instructions) != 1 {
		t.Fatalf("got %d instructions remaining, want 1: %v", len(body.Instructions), body.Instructions)
	}
	instr := body.Instructions[0]
	if instr.OpCode != OpLdstr || instr.StringOperand == nil {
		t.Fatalf("expected a single ldstr instruction, got %+v", instr)
	}
	if *instr.StringOperand != "HelloA" {
		t.Errorf("got plaintext %q, want %q", *instr.StringOperand, "HelloA")
	}
}

func TestXorDecodeTruncatesAtTerminator(t *testing.T) {
	key := []byte{0}
	data := []byte("Playergarbage")

	got := xorDecode(key, data)
	if got != "Player" {
		t.Errorf("got %q, want %q", got, "Player")
	}
}

func TestFoldStringDecryptionIdiomMismatch(t *testing.T) {
	m, _, _ := decryptionModule()

	caller := m.Types[1].Methods[0]
	// Corrupt the final InitializeArray call so the idiom no longer matches.
	lastSetupInstr := caller.Body.Instructions[9]
	lastSetupInstr.MethodOperand.Name = "NotInitializeArray"

	decrypted := FoldStringDecryption(m)
	if decrypted != 0 {
		t.Fatalf("got %d decrypted, want 0", decrypted)
	}
	if len(caller.Body.Instructions) != 11 {
		t.Fatalf("expected the call site to be left unchanged, got %d instructions", len(caller.Body.Instructions))
	}

	found := false
	for _, ano := range m.Anomalies {
		if ano == AnoCallSiteMalformed+": Crypto.Decrypt" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a malformed-call-site anomaly, got %v", m.Anomalies)
	}
}

func TestDiscoverHelpersSkipsNestedTypes(t *testing.T) {
	m := &Module{
		Types: []*TypeDef{
			{FullName: "Outer", Name: "Outer", NestedTypes: []*TypeDef{
				{FullName: "Outer/Inner", Name: "Inner", Methods: []*MethodDef{
					{
						FullName:   "Outer/Inner.Decrypt",
						Name:       "Decrypt",
						Static:     true,
						Public:     true,
						ReturnType: &TypeRef{FullName: typeString},
						Params:     []*TypeRef{{FullName: typeByteArray}, {FullName: typeByteArray}},
						Body:       &Body{Instructions: []*Instruction{NewInstruction(OpXor)}},
					},
				}},
			}},
		},
	}

	candidates := discoverHelpers(m)
	if len(candidates) != 0 {
		t.Errorf("expected no candidates among nested types, got %v", candidates)
	}
}

func TestIsDecryptionHelperRejectsWrongShape(t *testing.T) {
	notStatic := &MethodDef{Static: false, Public: true, ReturnType: &TypeRef{FullName: typeString},
		Params: []*TypeRef{{FullName: typeByteArray}, {FullName: typeByteArray}},
		Body:   &Body{Instructions: []*Instruction{NewInstruction(OpXor)}}}
	if isDecryptionHelper(notStatic) {
		t.Errorf("expected a non-static method to be rejected")
	}

	noXor := &MethodDef{Static: true, Public: true, ReturnType: &TypeRef{FullName: typeString},
		Params: []*TypeRef{{FullName: typeByteArray}, {FullName: typeByteArray}},
		Body:   &Body{Instructions: []*Instruction{NewInstruction(OpNop)}}}
	if isDecryptionHelper(noXor) {
		t.Errorf("expected a method with no xor opcode to be rejected")
	}
}
