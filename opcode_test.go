// Copyright 2024 The Beebyte-mono-deobfuscator authors.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "testing"

func TestIsLdcI4Family(t *testing.T) {
	members := []OpCode{OpLdcI4, OpLdcI4S, "ldc.i4.0", "ldc.i4.m1"}
	for _, op := range members {
		if !IsLdcI4(op) {
			t.Errorf("expected %s to be recognized as an ldc.i4 family member", op)
		}
	}

	nonMembers := []OpCode{OpLdcI8, OpLdcR4, OpNop, OpCall}
	for _, op := range nonMembers {
		if IsLdcI4(op) {
			t.Errorf("did not expect %s to be recognized as an ldc.i4 family member", op)
		}
	}
}

func TestIsReturnFamily(t *testing.T) {
	if !IsReturnFamily(OpRet) {
		t.Errorf("expected ret to be a return-family opcode")
	}
	if IsReturnFamily(OpNop) {
		t.Errorf("did not expect nop to be a return-family opcode")
	}
}
