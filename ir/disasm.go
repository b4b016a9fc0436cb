package ir

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Disassembly
// ---------------------------------------------------------------------------

// DisassembleInstruction returns the string representation of a single
// instruction at the given index and indentation level.
func DisassembleInstruction(instr Instruction, index, indent int) string {
	return fmt.Sprintf("%04d  %s%s", index, strings.Repeat("    ", indent), instr)
}

// Disassemble returns a full listing of the program, with block bodies
// indented one level per nesting depth.
func Disassemble(p *Program) string {
	var sb strings.Builder
	indent := 0
	for i := 0; i < p.Len(); i++ {
		instr := p.At(i)
		if instr.IsBlockEnd() && indent > 0 {
			indent--
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(DisassembleInstruction(instr, i, indent))
		if instr.IsBlockBegin() {
			indent++
		}
	}
	return sb.String()
}
