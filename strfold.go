// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "strings"

// typeString is the full-name of the string return type a decryption
// helper candidate must declare.
const typeString = "System.String"

// typeByteArray is the full-name this tool expects for a System.Byte[]
// parameter type, matching the convention the object model uses for array
// element types.
const typeByteArray = "System.Byte[]"

// decryptionTerminator is the private-use sentinel code point a plaintext
// string is truncated at, per spec.md's "UTF-8 plaintext terminator".
const decryptionTerminator = '\uE44F'

// initializeArrayMethodName is the well-known compiler-emitted helper the
// setup idiom's fifth instruction must call.
const initializeArrayMethodName = "InitializeArray"

// isDecryptionHelper is the helper-discovery predicate of C5/C6 (spec.md
// §4.3.1): static, public, returns System.String, takes exactly two
// System.Byte[] parameters, has a body, and that body contains at least one
// xor opcode.
func isDecryptionHelper(meth *MethodDef) bool {
	if !meth.Static || !meth.Public {
		return false
	}
	if meth.ReturnType == nil || meth.ReturnType.FullName != typeString {
		return false
	}
	if len(meth.Params) != 2 {
		return false
	}
	for _, p := range meth.Params {
		if p == nil || p.FullName != typeByteArray {
			return false
		}
	}
	if meth.Body == nil {
		return false
	}
	for _, instr := range meth.Body.Instructions {
		if instr.OpCode == OpXor {
			return true
		}
	}
	return false
}

// discoverHelpers scans only the module's top-level types (never nested
// ones, per spec.md §4.3.1) and returns the full-names of every decryption
// helper candidate.
func discoverHelpers(m *Module) map[string]struct{} {
	candidates := make(map[string]struct{})
	for _, t := range m.Types {
		for _, meth := range t.Methods {
			if isDecryptionHelper(meth) {
				candidates[meth.FullName] = struct{}{}
			}
		}
	}
	return candidates
}

// callSite is one recorded call to a decryption-helper candidate.
type callSite struct {
	body *Body
	call *Instruction
}

// collectCallSites walks every method of every type (nested included) in
// type-enumeration order and records a callSite for each call instruction
// whose operand resolves to one of candidates. This discovery order is what
// FoldStringDecryption later reverses before patching.
func collectCallSites(m *Module, candidates map[string]struct{}) []callSite {
	var sites []callSite
	for _, t := range m.AllTypes() {
		for _, meth := range t.Methods {
			if meth.Body == nil {
				continue
			}
			for _, instr := range meth.Body.Instructions {
				if instr.OpCode != OpCall || instr.MethodOperand == nil {
					continue
				}
				if _, ok := candidates[instr.MethodOperand.FullName]; ok {
					sites = append(sites, callSite{body: meth.Body, call: instr})
				}
			}
		}
	}
	return sites
}

// setupMatch is one recognized 5-instruction byte-array setup idiom: the
// resolved field's initial-value blob, the five matched instructions in
// original order (for later pointer-identity removal), and the index of the
// first (ldc.i4) instruction, from which the backward walk continues for
// the next array.
type setupMatch struct {
	bytes      []byte
	instrs     []*Instruction
	startIndex int
}

// matchSetupIdiom attempts to match the 5-instruction setup idiom (spec.md
// §4.3.3) ending at endIndex (expected to be a `call InitializeArray`),
// walking backwards: ldc.i4.* ; newarr ; dup ; ldtoken <field> ; call
// InitializeArray. Any mismatch aborts with ok=false.
func matchSetupIdiom(body *Body, endIndex int, m *Module) (*setupMatch, bool) {
	startIndex := endIndex - 4
	if startIndex < 0 {
		return nil, false
	}

	iLen := body.At(startIndex)
	iArr := body.At(startIndex + 1)
	iDup := body.At(startIndex + 2)
	iTok := body.At(startIndex + 3)
	iCall := body.At(startIndex + 4)

	if iLen == nil || !IsLdcI4(iLen.OpCode) {
		return nil, false
	}
	if iArr == nil || iArr.OpCode != OpNewarr {
		return nil, false
	}
	if iDup == nil || iDup.OpCode != OpDup {
		return nil, false
	}
	if iTok == nil || iTok.OpCode != OpLdtoken || iTok.FieldOperand == nil {
		return nil, false
	}
	field, ok := iTok.FieldOperand.Resolve(m)
	if !ok || field.InitialValue == nil {
		return nil, false
	}
	if iCall == nil || iCall.OpCode != OpCall || iCall.MethodOperand == nil {
		return nil, false
	}
	if iCall.MethodOperand.Name != initializeArrayMethodName {
		return nil, false
	}

	return &setupMatch{
		bytes:      field.InitialValue,
		instrs:     []*Instruction{iLen, iArr, iDup, iTok, iCall},
		startIndex: startIndex,
	}, true
}

// xorDecode reconstructs the idiom's plaintext: data XOR key (key repeating
// via modulo), interpreted as UTF-8 and truncated at the first occurrence
// of decryptionTerminator.
func xorDecode(key, data []byte) string {
	plain := make([]byte, len(data))
	for i, b := range data {
		plain[i] = b ^ key[i%len(key)]
	}
	s := string(plain)
	if idx := strings.IndexRune(s, decryptionTerminator); idx >= 0 {
		s = s[:idx]
	}
	return s
}

// patchOutcome is the explicit per-site result the patch loop uses in place
// of exception-for-control-flow (spec.md's Design Notes on
// PatchDecryptionCall): every call site resolves to exactly one of these,
// and a malformed or skipped site never aborts the pass.
type patchOutcome int

const (
	outcomeSkipped patchOutcome = iota
	outcomeMalformed
	outcomePatched
)

// patchCallSite attempts to fold one call site (spec.md §4.3.3-4.3.4): it
// extracts the data array (immediately preceding the call) and the key
// array (immediately preceding that), XOR-decrypts, replaces the call with
// an ldstr of the plaintext, and removes the ten setup instructions.
func patchCallSite(site callSite, m *Module) patchOutcome {
	idx := site.body.IndexOf(site.call)
	if idx < 0 {
		return outcomeSkipped
	}
	if idx < 2 {
		return outcomeSkipped
	}

	dataMatch, ok := matchSetupIdiom(site.body, idx-1, m)
	if !ok {
		return outcomeMalformed
	}
	keyMatch, ok := matchSetupIdiom(site.body, dataMatch.startIndex-1, m)
	if !ok {
		return outcomeMalformed
	}
	if len(keyMatch.bytes) == 0 {
		return outcomeMalformed
	}

	plaintext := xorDecode(keyMatch.bytes, dataMatch.bytes)
	site.body.Replace(idx, NewStringInstruction(OpLdstr, plaintext))

	for _, instr := range keyMatch.instrs {
		if site.body.Contains(instr) {
			site.body.Remove(instr)
		}
	}
	for _, instr := range dataMatch.instrs {
		if site.body.Contains(instr) {
			site.body.Remove(instr)
		}
	}

	return outcomePatched
}

// FoldStringDecryption is the string-decryption folder (C5 + C6). It
// discovers decryption-helper candidates among the module's top-level
// types, collects every call site against them, and patches each one in
// reverse discovery order so that a body's earlier-in-stream sites keep
// valid indices while its later ones are folded first. It returns the
// count of call sites successfully patched, and never aborts on a
// malformed individual site.
func FoldStringDecryption(m *Module) int {
	candidates := discoverHelpers(m)
	if len(candidates) == 0 {
		return 0
	}

	sites := collectCallSites(m, candidates)

	called := make(map[string]struct{}, len(candidates))
	for _, site := range sites {
		called[site.call.MethodOperand.FullName] = struct{}{}
	}
	for helper := range candidates {
		if _, ok := called[helper]; !ok {
			addAnomalyOnce(m, AnoHelperNoCallSites+": "+helper)
		}
	}

	decrypted := 0
	for i := len(sites) - 1; i >= 0; i-- {
		switch patchCallSite(sites[i], m) {
		case outcomePatched:
			decrypted++
		case outcomeMalformed:
			addAnomalyOnce(m, AnoCallSiteMalformed+": "+sites[i].call.MethodOperand.FullName)
		}
	}

	return decrypted
}
