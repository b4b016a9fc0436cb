package corpus

import (
	"testing"

	"github.com/chazu/magpie/ir"
)

func sampleProgram() *ir.Program {
	b := ir.NewProgramBuilder()
	b.Emit(ir.OpLoadBool, 0, 1)
	b.Emit(ir.OpBeginIf, 0)
	b.EmitLoadString(1, "taken")
	b.Emit(ir.OpBeginElse)
	b.EmitLoadString(1, "not taken")
	b.Emit(ir.OpEndIf)
	b.Emit(ir.OpReturn, 1)
	return b.Build()
}

func TestProgramWireRoundTrip(t *testing.T) {
	p := sampleProgram()
	data, err := MarshalProgram(p)
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	q, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram: %v", err)
	}

	if q.Len() != p.Len() {
		t.Fatalf("Len = %d, want %d", q.Len(), p.Len())
	}
	for i := 0; i < p.Len(); i++ {
		want, got := p.At(i), q.At(i)
		if got.Op != want.Op || got.Text != want.Text || len(got.Operands) != len(want.Operands) {
			t.Errorf("instruction %d = %v, want %v", i, got, want)
			continue
		}
		for j := range want.Operands {
			if got.Operands[j] != want.Operands[j] {
				t.Errorf("instruction %d operand %d = %d, want %d", i, j, got.Operands[j], want.Operands[j])
			}
		}
	}
}

func TestUnmarshalRejectsUnbalancedProgram(t *testing.T) {
	// Marshal does not re-validate, so an unbalanced program can be
	// encoded; the decoder must refuse to hand it to the analysis layer.
	p := ir.NewProgram(ir.Instruction{Op: ir.OpBeginIf, Operands: []int64{0}})
	data, err := MarshalProgram(p)
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	if _, err := UnmarshalProgram(data); err == nil {
		t.Errorf("unbalanced program should not decode")
	}
}

func TestUnmarshalRejectsUnknownOpcode(t *testing.T) {
	p := ir.NewProgram(ir.Instruction{Op: ir.Opcode(0xEE)})
	data, err := MarshalProgram(p)
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	if _, err := UnmarshalProgram(data); err == nil {
		t.Errorf("unknown opcode should not decode")
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalProgram([]byte{0xDE, 0xAD, 0xBE, 0xEF}); err == nil {
		t.Errorf("garbage should not decode")
	}
}

func TestProgramDigestIsStructural(t *testing.T) {
	a, err := ProgramDigest(sampleProgram())
	if err != nil {
		t.Fatalf("ProgramDigest: %v", err)
	}
	b, err := ProgramDigest(sampleProgram())
	if err != nil {
		t.Fatalf("ProgramDigest: %v", err)
	}
	if a != b {
		t.Errorf("identical programs should share a digest")
	}

	other := sampleProgram()
	other.SetAt(0, ir.NewInstruction(ir.OpLoadBool, 0, 0))
	c, err := ProgramDigest(other)
	if err != nil {
		t.Fatalf("ProgramDigest: %v", err)
	}
	if a == c {
		t.Errorf("different programs should not share a digest")
	}
}
