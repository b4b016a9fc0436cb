package ir

import "fmt"

// ---------------------------------------------------------------------------
// Program
// ---------------------------------------------------------------------------

// Program is an ordered sequence of instructions. Control flow is encoded as
// matched begin/end marker instructions embedded in the flat sequence; the
// Block/BlockGroup layer in blocks.go recovers the implicit nesting.
//
// A Program has exactly one writer at a time. Structural views (Block,
// BlockGroup) hold plain indices into the program and are invalidated the
// moment the program is edited; they must not be retained across a mutation.
type Program struct {
	Instrs []Instruction
}

// NewProgram creates a program from the given instructions.
func NewProgram(instrs ...Instruction) *Program {
	return &Program{Instrs: instrs}
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Instrs)
}

// At returns the instruction at the given index.
// Panics if index is out of range.
func (p *Program) At(index int) Instruction {
	if index < 0 || index >= len(p.Instrs) {
		panic(fmt.Sprintf("ir.Program.At: index %d out of range [0, %d)", index, len(p.Instrs)))
	}
	return p.Instrs[index]
}

// SetAt replaces the instruction at the given index.
// Panics if index is out of range.
func (p *Program) SetAt(index int, instr Instruction) {
	if index < 0 || index >= len(p.Instrs) {
		panic(fmt.Sprintf("ir.Program.SetAt: index %d out of range [0, %d)", index, len(p.Instrs)))
	}
	p.Instrs[index] = instr
}

// Clone returns a deep copy of the program.
func (p *Program) Clone() *Program {
	instrs := make([]Instruction, len(p.Instrs))
	copy(instrs, p.Instrs)
	for i := range instrs {
		if len(instrs[i].Operands) > 0 {
			operands := make([]int64, len(instrs[i].Operands))
			copy(operands, instrs[i].Operands)
			instrs[i].Operands = operands
		}
	}
	return &Program{Instrs: instrs}
}

// ---------------------------------------------------------------------------
// Structural validation
// ---------------------------------------------------------------------------

// Validate checks that the program's block structure is well formed: every
// block begin has a matching end, internal boundaries appear only inside an
// open group, and nesting never goes negative. It is the non-panicking check
// used at trust boundaries (wire decode, corpus import); the analysis
// algorithms themselves treat malformed input as a fatal invariant violation.
func Validate(p *Program) error {
	depth := 0
	for i := 0; i < p.Len(); i++ {
		instr := p.At(i)
		if !instr.Op.IsKnown() {
			return fmt.Errorf("ir: unknown opcode 0x%02X at %d", byte(instr.Op), i)
		}
		if instr.IsBlockEnd() {
			depth--
			if depth < 0 {
				return fmt.Errorf("ir: unmatched %s at %d", instr.Op.Name(), i)
			}
		}
		if instr.IsBlockBegin() {
			depth++
		}
	}
	if depth != 0 {
		return fmt.Errorf("ir: %d unterminated block(s) at end of program", depth)
	}
	return nil
}
