package bytecode

import (
	"strings"
	"testing"

	"gos/pkg/token"
)

func sampleChunk() *Chunk {
	c := &Chunk{}
	idx := c.AddConstant(token.Number(42))
	c.Emit(OpLoadConst)
	c.EmitByte(byte(idx))
	strIdx := c.AddConstant(token.Str("hi"))
	c.Emit(OpLoadConst)
	c.EmitByte(byte(strIdx))
	c.Emit(OpAdd)
	c.Emit(OpHalt)
	c.MaxSlot = 3
	return c
}

func TestSaveLoadRoundTrip(t *testing.T) {
	orig := sampleChunk()
	data := Save(orig)

	got, err := Load(data)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if string(got.Code) != string(orig.Code) {
		t.Errorf("Code = %v; want %v", got.Code, orig.Code)
	}
	if got.MaxSlot != orig.MaxSlot {
		t.Errorf("MaxSlot = %d; want %d", got.MaxSlot, orig.MaxSlot)
	}
	if len(got.Constants) != len(orig.Constants) {
		t.Fatalf("len(Constants) = %d; want %d", len(got.Constants), len(orig.Constants))
	}
	for i, c := range orig.Constants {
		if !c.Equal(got.Constants[i]) {
			t.Errorf("Constants[%d] = %v; want %v", i, got.Constants[i], c)
		}
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	if _, err := Load([]byte("not a gosb file")); err == nil {
		t.Fatal("expected an error loading a file with bad magic")
	}
}

func TestLoadRejectsTruncatedData(t *testing.T) {
	data := Save(sampleChunk())
	if _, err := Load(data[:len(data)-1]); err == nil {
		t.Fatal("expected an error loading truncated data")
	}
}

func TestEmitAndPatchU16(t *testing.T) {
	c := &Chunk{}
	c.Emit(OpJump)
	pos := len(c.Code)
	c.EmitU16(0)
	c.PatchU16(pos, 1234)
	if got := c.ReadU16(pos); got != 1234 {
		t.Errorf("ReadU16 = %d; want 1234", got)
	}
}

func TestDisassembleIncludesOpcodeNames(t *testing.T) {
	out := Disassemble(sampleChunk(), "sample")
	for _, want := range []string{"LOAD_CONST", "ADD", "HALT"} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q:\n%s", want, out)
		}
	}
}

func TestEncodeCBORProducesNonEmptyOutput(t *testing.T) {
	data, err := EncodeCBOR(sampleChunk())
	if err != nil {
		t.Fatalf("EncodeCBOR error: %v", err)
	}
	if len(data) == 0 {
		t.Error("EncodeCBOR returned no bytes")
	}
}

func TestOpString(t *testing.T) {
	if OpAdd.String() != "ADD" {
		t.Errorf("OpAdd.String() = %q; want %q", OpAdd.String(), "ADD")
	}
	if Op(200).String() != "UNKNOWN" {
		t.Errorf("out-of-range Op.String() = %q; want %q", Op(200).String(), "UNKNOWN")
	}
}
