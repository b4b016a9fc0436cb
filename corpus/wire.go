// Package corpus persists and exchanges magpie programs: a canonical CBOR
// wire encoding plus a SQLite-backed, content-addressed program store.
package corpus

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/chazu/magpie/ir"
)

// WireVersion is the current program wire format version.
const WireVersion uint32 = 1

// cborEncMode holds CBOR encoding options with canonical mode for
// deterministic encoding, so equal programs always produce equal bytes and
// digests.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("corpus: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// wireInstruction is the on-wire form of a single instruction.
type wireInstruction struct {
	Op       uint8   `cbor:"1,keyasint"`
	Operands []int64 `cbor:"2,keyasint,omitempty"`
	Text     string  `cbor:"3,keyasint,omitempty"`
}

// wireProgram is the on-wire envelope for a program.
type wireProgram struct {
	Version      uint32            `cbor:"1,keyasint"`
	Instructions []wireInstruction `cbor:"2,keyasint"`
}

// MarshalProgram serializes a program to canonical CBOR bytes.
func MarshalProgram(p *ir.Program) ([]byte, error) {
	w := wireProgram{
		Version:      WireVersion,
		Instructions: make([]wireInstruction, p.Len()),
	}
	for i := 0; i < p.Len(); i++ {
		instr := p.At(i)
		w.Instructions[i] = wireInstruction{
			Op:       uint8(instr.Op),
			Operands: instr.Operands,
			Text:     instr.Text,
		}
	}
	return cborEncMode.Marshal(&w)
}

// UnmarshalProgram deserializes a program from CBOR bytes. Decoded programs
// are structurally validated before being returned, so a malformed or
// unbalanced payload never reaches the analysis layer.
func UnmarshalProgram(data []byte) (*ir.Program, error) {
	var w wireProgram
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("corpus: unmarshal program: %w", err)
	}
	if w.Version != WireVersion {
		return nil, fmt.Errorf("corpus: unsupported wire version %d (want %d)", w.Version, WireVersion)
	}
	p := &ir.Program{Instrs: make([]ir.Instruction, len(w.Instructions))}
	for i, wi := range w.Instructions {
		p.Instrs[i] = ir.Instruction{
			Op:       ir.Opcode(wi.Op),
			Operands: wi.Operands,
			Text:     wi.Text,
		}
	}
	if err := ir.Validate(p); err != nil {
		return nil, fmt.Errorf("corpus: decoded program is malformed: %w", err)
	}
	return p, nil
}

// ProgramDigest returns the BLAKE3 digest of a program's canonical encoding.
// Structurally identical programs share a digest, which is what the store's
// deduplication keys on.
func ProgramDigest(p *ir.Program) ([32]byte, error) {
	data, err := MarshalProgram(p)
	if err != nil {
		return [32]byte{}, err
	}
	return blake3.Sum256(data), nil
}
