// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "strings"

// OpCode is a CIL instruction mnemonic. Only the opcodes the rewrite engine
// needs to recognize or emit are named below; instructions carrying any
// other mnemonic pass through untouched.
type OpCode string

// Opcodes used by the reachability analyzer, the string-decryption folder,
// and the body rewriter.
const (
	OpNop      OpCode = "nop"
	OpDup      OpCode = "dup"
	OpPop      OpCode = "pop"
	OpNewarr   OpCode = "newarr"
	OpLdtoken  OpCode = "ldtoken"
	OpCall     OpCode = "call"
	OpCallvirt OpCode = "callvirt"
	OpRet      OpCode = "ret"
	OpLdstr    OpCode = "ldstr"
	OpLdnull   OpCode = "ldnull"
	OpLdloc    OpCode = "ldloc"
	OpLdlocaS  OpCode = "ldloca.s"
	OpInitobj  OpCode = "initobj"
	OpXor      OpCode = "xor"

	// The ldc.i4 family: ldc.i4, ldc.i4.s, ldc.i4.0..8, ldc.i4.m1. All
	// share the "ldc.i4" prefix; see IsLdcI4.
	OpLdcI4  OpCode = "ldc.i4"
	OpLdcI4S OpCode = "ldc.i4.s"
	OpLdcI8  OpCode = "ldc.i8"
	OpLdcR4  OpCode = "ldc.r4"
	OpLdcR8  OpCode = "ldc.r8"
)

// IsLdcI4 reports whether op is any member of the ldc.i4* immediate-load
// family, per the step-1 constraint of the setup idiom: "any int-immediate
// load (opcode name starts with ldc.i4)".
func IsLdcI4(op OpCode) bool {
	return strings.HasPrefix(string(op), "ldc.i4")
}

// IsReturnFamily reports whether op is a return-family opcode. Only ret is
// recognized; other body-ending opcodes such as throw or endfilter are not.
// ret is also the only return-family opcode this tool's body invalidator
// emits.
func IsReturnFamily(op OpCode) bool {
	switch op {
	case OpRet:
		return true
	default:
		return false
	}
}
