package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Instruction
// ---------------------------------------------------------------------------

// Instruction is one unit of the flat program representation: an opcode plus
// its operands. Operands are variable numbers or small immediates, depending
// on the opcode; string payloads (LOAD_STRING, COMMENT) live in Text.
//
// The structural analysis layer never inspects an instruction beyond its
// classification facets, so anything with an opcode in the table is a valid
// instruction from its point of view.
type Instruction struct {
	Op       Opcode
	Operands []int64
	Text     string
}

// NewInstruction creates an instruction with the given opcode and operands.
// It panics if the operand count does not match the opcode table; opcodes
// with a variable operand count accept any number.
func NewInstruction(op Opcode, operands ...int64) Instruction {
	info := op.Info()
	if info.NumOperands >= 0 && len(operands) != info.NumOperands {
		panic(fmt.Sprintf("ir.NewInstruction: %s takes %d operands, got %d",
			info.Name, info.NumOperands, len(operands)))
	}
	return Instruction{Op: op, Operands: operands}
}

// Nop returns a no-op instruction.
func Nop() Instruction {
	return Instruction{Op: OpNop}
}

// Comment returns a comment instruction carrying the given text.
func Comment(text string) Instruction {
	return Instruction{Op: OpComment, Text: text}
}

// LoadString returns a LOAD_STRING instruction defining the given output
// variable.
func LoadString(out int64, value string) Instruction {
	return Instruction{Op: OpLoadString, Operands: []int64{out}, Text: value}
}

// ---------------------------------------------------------------------------
// Classification facets
// ---------------------------------------------------------------------------

// IsBlockBegin reports whether this instruction opens a block.
func (instr Instruction) IsBlockBegin() bool { return instr.Op.IsBlockBegin() }

// IsBlockEnd reports whether this instruction closes a block.
func (instr Instruction) IsBlockEnd() bool { return instr.Op.IsBlockEnd() }

// IsBlockGroupBegin reports whether this instruction opens a block group.
func (instr Instruction) IsBlockGroupBegin() bool { return instr.Op.IsBlockGroupBegin() }

// IsBlockGroupEnd reports whether this instruction closes a block group.
func (instr Instruction) IsBlockGroupEnd() bool { return instr.Op.IsBlockGroupEnd() }

// IsSimple reports whether this instruction is a reduction candidate.
func (instr Instruction) IsSimple() bool { return instr.Op.IsSimple() }

// IsNop reports whether this instruction is the designated no-op.
func (instr Instruction) IsNop() bool { return instr.Op == OpNop }

// IsComment reports whether this instruction is a comment.
func (instr Instruction) IsComment() bool { return instr.Op == OpComment }

// ---------------------------------------------------------------------------
// Display
// ---------------------------------------------------------------------------

// String returns a textual rendering of the instruction.
func (instr Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(instr.Op.Name())
	for _, operand := range instr.Operands {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatInt(operand, 10))
	}
	if instr.Text != "" {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(instr.Text))
	}
	return sb.String()
}
