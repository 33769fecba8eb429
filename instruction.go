// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

// Instruction is one CIL instruction. The operand is carried as one of the
// typed *Operand fields below rather than as an interface{} value, so that
// an Instruction round-trips cleanly through encoding/json (the teacher's
// own MetadataTable.Content field shows the interface{}-operand approach,
// but that field is write-only in practice — it is never unmarshaled back
// into a concrete type, which this tool's Load/Save path needs to do).
// At most one *Operand field is populated on a given instruction; the
// constructors below enforce that.
type Instruction struct {
	OpCode OpCode `json:"op"`

	MethodOperand *MethodRef `json:"method_operand,omitempty"`
	TypeOperand   *TypeRef   `json:"type_operand,omitempty"`
	FieldOperand  *FieldRef  `json:"field_operand,omitempty"`
	LocalOperand  *Local     `json:"local_operand,omitempty"`
	IntOperand    *int64     `json:"int_operand,omitempty"`
	FloatOperand  *float64   `json:"float_operand,omitempty"`
	StringOperand *string    `json:"string_operand,omitempty"`
}

// NewInstruction builds an instruction with no operand (e.g. dup, ret, nop).
func NewInstruction(op OpCode) *Instruction {
	return &Instruction{OpCode: op}
}

// NewMethodInstruction builds an instruction whose operand is a method
// reference (e.g. call).
func NewMethodInstruction(op OpCode, ref *MethodRef) *Instruction {
	return &Instruction{OpCode: op, MethodOperand: ref}
}

// NewTypeInstruction builds an instruction whose operand is a type
// reference (e.g. newarr, initobj).
func NewTypeInstruction(op OpCode, ref *TypeRef) *Instruction {
	return &Instruction{OpCode: op, TypeOperand: ref}
}

// NewFieldInstruction builds an instruction whose operand is a field
// reference (e.g. ldtoken against a static field).
func NewFieldInstruction(op OpCode, ref *FieldRef) *Instruction {
	return &Instruction{OpCode: op, FieldOperand: ref}
}

// NewLocalInstruction builds an instruction whose operand is a local
// variable (e.g. ldloca.s, ldloc).
func NewLocalInstruction(op OpCode, local *Local) *Instruction {
	return &Instruction{OpCode: op, LocalOperand: local}
}

// NewIntInstruction builds an instruction whose operand is an immediate
// integer (e.g. ldc.i4.*, ldc.i8).
func NewIntInstruction(op OpCode, v int64) *Instruction {
	return &Instruction{OpCode: op, IntOperand: &v}
}

// NewFloatInstruction builds an instruction whose operand is an immediate
// float (e.g. ldc.r4, ldc.r8).
func NewFloatInstruction(op OpCode, v float64) *Instruction {
	return &Instruction{OpCode: op, FloatOperand: &v}
}

// NewStringInstruction builds an instruction whose operand is an immediate
// string (ldstr).
func NewStringInstruction(op OpCode, v string) *Instruction {
	return &Instruction{OpCode: op, StringOperand: &v}
}

// Local is a local variable declared in a method body.
type Local struct {
	Name string   `json:"name,omitempty"`
	Type *TypeRef `json:"type,omitempty"`
}

// ExceptionHandler describes one protected region of a body. Indices are
// instruction offsets into the owning Body.Instructions slice.
type ExceptionHandler struct {
	TryStart     int      `json:"try_start"`
	TryEnd       int      `json:"try_end"`
	HandlerStart int      `json:"handler_start"`
	HandlerEnd   int      `json:"handler_end"`
	CatchType    *TypeRef `json:"catch_type,omitempty"`
}

// Body is a method's instruction stream plus its locals and exception
// handlers. The source object model links instructions with previous
// pointers; this tool represents the same ordered, mutable sequence with an
// indexed slice plus pointer-identity lookup, per spec.md's Design Notes
// ("reimplementers may prefer an index-based walk inside a sequence-plus-
// hashmap structure").
type Body struct {
	Instructions      []*Instruction      `json:"instructions"`
	Variables         []*Local            `json:"variables,omitempty"`
	ExceptionHandlers []*ExceptionHandler `json:"exception_handlers,omitempty"`
	InitLocals        bool                `json:"init_locals,omitempty"`
}

// IndexOf returns the index of instr within the body, or -1 if absent.
// Lookup is by pointer identity, standing in for the source's previous-
// pointer walk.
func (b *Body) IndexOf(instr *Instruction) int {
	for i, ins := range b.Instructions {
		if ins == instr {
			return i
		}
	}
	return -1
}

// At returns the instruction at index i, or nil if i is out of range.
func (b *Body) At(i int) *Instruction {
	if i < 0 || i >= len(b.Instructions) {
		return nil
	}
	return b.Instructions[i]
}

// Contains reports whether instr is still present in the body.
func (b *Body) Contains(instr *Instruction) bool {
	return b.IndexOf(instr) >= 0
}

// Replace overwrites the instruction at index i in place.
func (b *Body) Replace(i int, instr *Instruction) {
	if i < 0 || i >= len(b.Instructions) {
		return
	}
	b.Instructions[i] = instr
}

// RemoveAt removes the instruction at index i.
func (b *Body) RemoveAt(i int) {
	if i < 0 || i >= len(b.Instructions) {
		return
	}
	b.Instructions = append(b.Instructions[:i], b.Instructions[i+1:]...)
}

// Remove removes instr if still present, reporting whether it removed
// anything. Callers that have already replaced or removed an overlapping
// instruction should guard with this rather than RemoveAt on a stale index.
func (b *Body) Remove(instr *Instruction) bool {
	i := b.IndexOf(instr)
	if i < 0 {
		return false
	}
	b.RemoveAt(i)
	return true
}

// Append adds instr to the end of the instruction stream.
func (b *Body) Append(instr *Instruction) {
	b.Instructions = append(b.Instructions, instr)
}

// Clear empties the instruction, exception-handler, and variable lists and
// resets InitLocals, leaving the body ready for a fresh instruction
// sequence to be appended.
func (b *Body) Clear() {
	b.Instructions = nil
	b.ExceptionHandlers = nil
	b.Variables = nil
	b.InitLocals = false
}
