package ir

import "fmt"

// ---------------------------------------------------------------------------
// ProgramBuilder: helper for constructing programs
// ---------------------------------------------------------------------------

// ProgramBuilder helps construct instruction sequences with balanced block
// structure. It tracks nesting depth as instructions are emitted and panics
// on edits that could never form a well-formed program, so that generators
// fail at the emission site rather than in a later structural scan.
type ProgramBuilder struct {
	instrs []Instruction
	depth  int
}

// NewProgramBuilder creates a new program builder.
func NewProgramBuilder() *ProgramBuilder {
	return &ProgramBuilder{
		instrs: make([]Instruction, 0, 32),
	}
}

// Len returns the number of instructions emitted so far.
func (b *ProgramBuilder) Len() int {
	return len(b.instrs)
}

// Depth returns the current nesting depth.
func (b *ProgramBuilder) Depth() int {
	return b.depth
}

// Emit appends an instruction with the given opcode and operands.
func (b *ProgramBuilder) Emit(op Opcode, operands ...int64) {
	b.Append(NewInstruction(op, operands...))
}

// EmitComment appends a comment instruction.
func (b *ProgramBuilder) EmitComment(text string) {
	b.Append(Comment(text))
}

// EmitLoadString appends a LOAD_STRING instruction.
func (b *ProgramBuilder) EmitLoadString(out int64, value string) {
	b.Append(LoadString(out, value))
}

// Append appends a prebuilt instruction, updating the nesting depth.
// Panics if the instruction closes a block that was never opened.
func (b *ProgramBuilder) Append(instr Instruction) {
	if instr.IsBlockEnd() {
		b.depth--
		if b.depth < 0 {
			panic(fmt.Sprintf("ir.ProgramBuilder.Append: %s at %d closes a block that was never opened",
				instr.Op, len(b.instrs)))
		}
	}
	if instr.IsBlockBegin() {
		b.depth++
	}
	b.instrs = append(b.instrs, instr)
}

// Build finalizes and returns the program.
// Panics if any block is still open.
func (b *ProgramBuilder) Build() *Program {
	if b.depth != 0 {
		panic(fmt.Sprintf("ir.ProgramBuilder.Build: %d block(s) still open", b.depth))
	}
	return &Program{Instrs: b.instrs}
}
