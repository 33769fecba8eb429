// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

// Well-known primitive return-type full-names recognized by the
// default-value emitter (C3).
const (
	typeVoid    = "System.Void"
	typeBoolean = "System.Boolean"
	typeChar    = "System.Char"
	typeSByte   = "System.SByte"
	typeByte    = "System.Byte"
	typeInt16   = "System.Int16"
	typeUInt16  = "System.UInt16"
	typeInt32   = "System.Int32"
	typeUInt32  = "System.UInt32"
	typeInt64   = "System.Int64"
	typeUInt64  = "System.UInt64"
	typeSingle  = "System.Single"
	typeDouble  = "System.Double"
)

var ldcI4ZeroFamily = map[string]struct{}{
	typeBoolean: {},
	typeChar:    {},
	typeSByte:   {},
	typeByte:    {},
	typeInt16:   {},
	typeUInt16:  {},
	typeInt32:   {},
	typeUInt32:  {},
}

var ldcI8ZeroFamily = map[string]struct{}{
	typeInt64:  {},
	typeUInt64: {},
}

// defaultValueSequence is the default-value emitter (C3). It produces the
// instruction sequence that loads the default value of returnType, plus any
// fresh locals that sequence needs and whether init-locals must be set as a
// result. A nil or System.Void returnType yields an empty sequence.
func defaultValueSequence(returnType *TypeRef, m *Module) (seq []*Instruction, locals []*Local, initLocals bool) {
	if returnType == nil || returnType.FullName == typeVoid {
		return nil, nil, false
	}

	def, resolved := returnType.Resolve(m)

	if resolved && def.Enum {
		return []*Instruction{NewIntInstruction(OpLdcI4, 0)}, nil, false
	}
	if _, ok := ldcI4ZeroFamily[returnType.FullName]; ok {
		return []*Instruction{NewIntInstruction(OpLdcI4, 0)}, nil, false
	}
	if _, ok := ldcI8ZeroFamily[returnType.FullName]; ok {
		return []*Instruction{NewIntInstruction(OpLdcI8, 0)}, nil, false
	}
	if returnType.FullName == typeSingle {
		return []*Instruction{NewFloatInstruction(OpLdcR4, 0)}, nil, false
	}
	if returnType.FullName == typeDouble {
		return []*Instruction{NewFloatInstruction(OpLdcR8, 0)}, nil, false
	}

	if resolved && def.ValueType {
		local := &Local{Name: "clr_default", Type: returnType}
		seq = []*Instruction{
			NewLocalInstruction(OpLdlocaS, local),
			NewTypeInstruction(OpInitobj, returnType),
			NewLocalInstruction(OpLdloc, local),
		}
		return seq, []*Local{local}, true
	}

	// Any other (reference) type.
	return []*Instruction{NewInstruction(OpLdnull)}, nil, false
}

// InvalidateBody is the body invalidator (C4). It clears method's body and
// replaces it with a minimal default-value-then-return sequence, returning
// false (and leaving the method untouched) if it has no body or is
// abstract.
func InvalidateBody(method *MethodDef, m *Module) bool {
	if method.Body == nil || method.Abstract {
		return false
	}

	body := method.Body
	body.Clear()

	seq, locals, initLocals := defaultValueSequence(method.ReturnType, m)
	body.Variables = append(body.Variables, locals...)
	if initLocals {
		body.InitLocals = true
	}
	for _, instr := range seq {
		body.Append(instr)
	}
	body.Append(NewInstruction(OpRet))

	return true
}

// InvalidateUnused runs InvalidateBody over every method whose full-name is
// not in liveMethods, returning the number of methods it actually
// invalidated.
func InvalidateUnused(m *Module, liveMethods map[string]struct{}) int {
	count := 0
	for _, t := range m.AllTypes() {
		for _, meth := range t.Methods {
			if _, live := liveMethods[meth.FullName]; live {
				continue
			}
			if InvalidateBody(meth, m) {
				count++
			}
		}
	}
	return count
}
