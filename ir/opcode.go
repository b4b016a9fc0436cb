package ir

import "fmt"

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode identifies the operation performed by an instruction.
type Opcode byte

// Miscellaneous
const (
	OpNop     Opcode = 0x00 // no operation
	OpComment Opcode = 0x01 // free-form comment, ignored by execution
)

// Value producers
const (
	OpLoadInt    Opcode = 0x10 // load integer constant into output variable
	OpLoadFloat  Opcode = 0x11 // load float constant (bits carried as int64)
	OpLoadBool   Opcode = 0x12 // load boolean constant (0 or 1)
	OpLoadString Opcode = 0x13 // load string constant (carried in Text)
)

// Computation
const (
	OpBinary  Opcode = 0x20 // binary arithmetic: out, lhs, rhs, operator
	OpCompare Opcode = 0x21 // comparison: out, lhs, rhs, operator
	OpCall    Opcode = 0x22 // call: out, callee, args...
	OpReturn  Opcode = 0x23 // return value from enclosing function
)

// Control flow markers. These encode nested structure in the flat
// instruction sequence as matched begin/end pairs.
const (
	OpBeginIf       Opcode = 0x30 // open an if block: condition input
	OpBeginElse     Opcode = 0x31 // close the if block, open the else block
	OpEndIf         Opcode = 0x32 // close an if/else group
	OpBeginWhile    Opcode = 0x33 // open a while block: condition input
	OpEndWhile      Opcode = 0x34 // close a while group
	OpBeginTry      Opcode = 0x35 // open a try block
	OpBeginCatch    Opcode = 0x36 // close the try block, open the catch block
	OpBeginFinally  Opcode = 0x37 // close the previous block, open the finally block
	OpEndTryCatch   Opcode = 0x38 // close a try/catch/finally group
	OpBeginFunction Opcode = 0x39 // open a function definition block
	OpEndFunction   Opcode = 0x3A // close a function definition group
)

// ---------------------------------------------------------------------------
// Opcode attributes
// ---------------------------------------------------------------------------

// Attr is a bit set of classification attributes for an opcode.
type Attr uint8

const (
	// AttrBlockBegin marks opcodes that open a block.
	AttrBlockBegin Attr = 1 << iota

	// AttrBlockEnd marks opcodes that close a block. An opcode carrying
	// both AttrBlockBegin and AttrBlockEnd (e.g. BEGIN_ELSE) is an
	// internal boundary between two blocks of the same group.
	AttrBlockEnd

	// AttrSimple marks opcodes that can be removed from a program without
	// structural consequences. Block boundary opcodes are never simple.
	AttrSimple
)

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name        string // human-readable name
	NumOperands int    // number of operands (-1 = variable)
	Attrs       Attr   // classification attributes
}

// opcodeTable maps opcodes to their metadata.
var opcodeTable = map[Opcode]OpcodeInfo{
	OpNop:     {"NOP", 0, AttrSimple},
	OpComment: {"COMMENT", 0, AttrSimple},

	OpLoadInt:    {"LOAD_INT", 2, AttrSimple},
	OpLoadFloat:  {"LOAD_FLOAT", 2, AttrSimple},
	OpLoadBool:   {"LOAD_BOOL", 2, AttrSimple},
	OpLoadString: {"LOAD_STRING", 1, AttrSimple},

	OpBinary:  {"BINARY", 4, AttrSimple},
	OpCompare: {"COMPARE", 4, AttrSimple},
	OpCall:    {"CALL", -1, AttrSimple},
	OpReturn:  {"RETURN", 1, AttrSimple},

	OpBeginIf:       {"BEGIN_IF", 1, AttrBlockBegin},
	OpBeginElse:     {"BEGIN_ELSE", 0, AttrBlockBegin | AttrBlockEnd},
	OpEndIf:         {"END_IF", 0, AttrBlockEnd},
	OpBeginWhile:    {"BEGIN_WHILE", 1, AttrBlockBegin},
	OpEndWhile:      {"END_WHILE", 0, AttrBlockEnd},
	OpBeginTry:      {"BEGIN_TRY", 0, AttrBlockBegin},
	OpBeginCatch:    {"BEGIN_CATCH", 1, AttrBlockBegin | AttrBlockEnd},
	OpBeginFinally:  {"BEGIN_FINALLY", 0, AttrBlockBegin | AttrBlockEnd},
	OpEndTryCatch:   {"END_TRY_CATCH", 0, AttrBlockEnd},
	OpBeginFunction: {"BEGIN_FUNCTION", -1, AttrBlockBegin},
	OpEndFunction:   {"END_FUNCTION", 0, AttrBlockEnd},
}

// Info returns the metadata for an opcode.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", byte(op))}
}

// Name returns the human-readable name for an opcode.
func (op Opcode) Name() string {
	return op.Info().Name
}

// IsKnown reports whether the opcode exists in the opcode table.
func (op Opcode) IsKnown() bool {
	_, ok := opcodeTable[op]
	return ok
}

// String implements the Stringer interface.
func (op Opcode) String() string {
	return op.Name()
}

// ---------------------------------------------------------------------------
// Classification facets
// ---------------------------------------------------------------------------

// IsBlockBegin reports whether the opcode opens a block.
func (op Opcode) IsBlockBegin() bool {
	return op.Info().Attrs&AttrBlockBegin != 0
}

// IsBlockEnd reports whether the opcode closes a block.
func (op Opcode) IsBlockEnd() bool {
	return op.Info().Attrs&AttrBlockEnd != 0
}

// IsBlockGroupBegin reports whether the opcode opens a block group:
// a block begin that does not also close a preceding block.
func (op Opcode) IsBlockGroupBegin() bool {
	return op.IsBlockBegin() && !op.IsBlockEnd()
}

// IsBlockGroupEnd reports whether the opcode closes a block group:
// a block end that does not also open a following block.
func (op Opcode) IsBlockGroupEnd() bool {
	return op.IsBlockEnd() && !op.IsBlockBegin()
}

// IsSimple reports whether instructions with this opcode are candidates
// for structural reduction.
func (op Opcode) IsSimple() bool {
	return op.Info().Attrs&AttrSimple != 0
}
