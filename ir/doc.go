// Package ir implements magpie's flat intermediate representation.
//
// This package contains:
//   - Opcode definitions and classification attributes
//   - The Instruction and Program types
//   - Block/BlockGroup structural analysis over the flat encoding
//   - A program builder and disassembler
package ir
