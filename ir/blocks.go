package ir

import "fmt"

// ---------------------------------------------------------------------------
// Block: one nesting level bounded by a matching begin/end pair
// ---------------------------------------------------------------------------

// Block represents one nested level of a program: a contiguous index range
// [head, tail] anchored by a matching block begin/end pair at equal nesting
// depth. A Block never owns the program; it borrows a read-only view plus two
// indices, and is invalidated by any edit to the underlying program.
type Block struct {
	head int
	tail int
	code *Program
}

// NewBlock creates a block from a known (head, tail) pair. It panics if
// either endpoint has the wrong facet or if the structural match does not
// round-trip.
func NewBlock(head, tail int, code *Program) Block {
	if !code.At(head).IsBlockBegin() {
		panic(fmt.Sprintf("ir.NewBlock: instruction %d (%s) is not a block begin", head, code.At(head).Op))
	}
	if !code.At(tail).IsBlockEnd() {
		panic(fmt.Sprintf("ir.NewBlock: instruction %d (%s) is not a block end", tail, code.At(tail).Op))
	}
	if FindBlockEnd(head, code) != tail {
		panic(fmt.Sprintf("ir.NewBlock: %d and %d are not a matching begin/end pair", head, tail))
	}
	return Block{head: head, tail: tail, code: code}
}

// BlockStartingAt creates the block opened by the begin instruction at the
// given index, deriving the matching end. Panics if the index is not a block
// begin.
func BlockStartingAt(head int, code *Program) Block {
	if !code.At(head).IsBlockBegin() {
		panic(fmt.Sprintf("ir.BlockStartingAt: instruction %d (%s) is not a block begin", head, code.At(head).Op))
	}
	return Block{head: head, tail: FindBlockEnd(head, code), code: code}
}

// BlockEndingAt creates the block closed by the end instruction at the given
// index, deriving the matching begin. Panics if the index is not a block end.
func BlockEndingAt(tail int, code *Program) Block {
	if !code.At(tail).IsBlockEnd() {
		panic(fmt.Sprintf("ir.BlockEndingAt: instruction %d (%s) is not a block end", tail, code.At(tail).Op))
	}
	return Block{head: FindBlockBegin(tail, code), tail: tail, code: code}
}

// Head returns the index of the block's begin instruction.
func (b Block) Head() int { return b.head }

// Tail returns the index of the block's end instruction.
func (b Block) Tail() int { return b.tail }

// Size returns the index span covered by the block.
func (b Block) Size() int { return b.tail - b.head }

// Begin returns the block's begin instruction.
func (b Block) Begin() Instruction { return b.code.At(b.head) }

// End returns the block's end instruction.
func (b Block) End() Instruction { return b.code.At(b.tail) }

// Contains reports whether the given index lies strictly inside the block
// body, excluding the boundary instructions themselves.
func (b Block) Contains(index int) bool {
	return index > b.head && index < b.tail
}

// ---------------------------------------------------------------------------
// BlockGroup: sibling blocks sharing one opening/closing pair
// ---------------------------------------------------------------------------

// BlockGroup represents a sequence of blocks that share a single opening and
// closing instruction, e.g. if/elseif/else/endif. Consecutive entries of
// blockInstructions each bound one block. Same borrowing discipline as Block.
type BlockGroup struct {
	code              *Program
	blockInstructions []int
}

// NewBlockGroup creates a block group from the ordered list of its boundary
// instruction indices. The first index must be a block group begin, the last
// a block group end, and the list must bound at least one block.
func NewBlockGroup(blockInstructions []int, code *Program) BlockGroup {
	if len(blockInstructions) < 2 {
		panic(fmt.Sprintf("ir.NewBlockGroup: need at least 2 boundary instructions, got %d", len(blockInstructions)))
	}
	head, tail := blockInstructions[0], blockInstructions[len(blockInstructions)-1]
	if !code.At(head).IsBlockGroupBegin() {
		panic(fmt.Sprintf("ir.NewBlockGroup: instruction %d (%s) is not a block group begin", head, code.At(head).Op))
	}
	if !code.At(tail).IsBlockGroupEnd() {
		panic(fmt.Sprintf("ir.NewBlockGroup: instruction %d (%s) is not a block group end", tail, code.At(tail).Op))
	}
	return BlockGroup{code: code, blockInstructions: blockInstructions}
}

// BlockGroupStartingAt creates the block group opened at the given index,
// collecting all of its boundary instructions. Panics if the index is not a
// block group begin.
func BlockGroupStartingAt(head int, code *Program) BlockGroup {
	return NewBlockGroup(CollectBlockGroup(head, code), code)
}

// BlockGroupAround creates the block group surrounding the given index. The
// index may point at any instruction of the group, boundary or body.
func BlockGroupAround(index int, code *Program) BlockGroup {
	return BlockGroupStartingAt(FindBlockGroupHead(index, code), code)
}

// Head returns the index of the group's opening instruction.
func (g BlockGroup) Head() int { return g.blockInstructions[0] }

// Tail returns the index of the group's closing instruction.
func (g BlockGroup) Tail() int { return g.blockInstructions[len(g.blockInstructions)-1] }

// Size returns the index span covered by the group.
func (g BlockGroup) Size() int { return g.Tail() - g.Head() }

// NumBlocks returns the number of blocks in the group.
func (g BlockGroup) NumBlocks() int { return len(g.blockInstructions) - 1 }

// BlockInstructions returns the indices of all boundary instructions of the
// group, opening instruction first, closing instruction last.
func (g BlockGroup) BlockInstructions() []int { return g.blockInstructions }

// Block returns the i-th block of the group.
func (g BlockGroup) Block(i int) Block {
	return Block{head: g.blockInstructions[i], tail: g.blockInstructions[i+1], code: g.code}
}

// Blocks returns all blocks of the group in order.
func (g BlockGroup) Blocks() []Block {
	blocks := make([]Block, g.NumBlocks())
	for i := range blocks {
		blocks[i] = g.Block(i)
	}
	return blocks
}

// ---------------------------------------------------------------------------
// Depth-tracking scans
// ---------------------------------------------------------------------------
//
// All scans share one technique: walk the instruction sequence in one
// direction from a known anchor, keeping an integer nesting depth that starts
// at 1, and stop when the depth reaches 0 at a structurally consistent
// instruction. Running off the end of the program means the program is
// malformed, which is an invariant violation upstream of this package and
// always fatal here.

// FindBlockEnd returns the index of the block end matching the block begin
// at the given index.
func FindBlockEnd(head int, code *Program) int {
	if !code.At(head).IsBlockBegin() {
		panic(fmt.Sprintf("ir.FindBlockEnd: instruction %d (%s) is not a block begin", head, code.At(head).Op))
	}
	depth := 1
	for i := head + 1; i < code.Len(); i++ {
		instr := code.At(i)
		if instr.IsBlockEnd() {
			depth--
			if depth == 0 {
				return i
			}
		}
		if instr.IsBlockBegin() {
			depth++
		}
	}
	panic(fmt.Sprintf("ir.FindBlockEnd: malformed program: no end for block begin at %d", head))
}

// FindBlockBegin returns the index of the block begin matching the block end
// at the given index.
func FindBlockBegin(tail int, code *Program) int {
	if !code.At(tail).IsBlockEnd() {
		panic(fmt.Sprintf("ir.FindBlockBegin: instruction %d (%s) is not a block end", tail, code.At(tail).Op))
	}
	depth := 1
	for i := tail - 1; i >= 0; i-- {
		instr := code.At(i)
		// Scanning backwards, a begin closes a level before an end can
		// reopen one, so the decrement and zero check come first.
		if instr.IsBlockBegin() {
			depth--
			if depth == 0 {
				return i
			}
		}
		if instr.IsBlockEnd() {
			depth++
		}
	}
	panic(fmt.Sprintf("ir.FindBlockBegin: malformed program: no begin for block end at %d", tail))
}

// FindBlockGroupHead returns the index of the opening instruction of the
// block group containing the given index. The index may point anywhere in
// the group, including at a boundary instruction.
func FindBlockGroupHead(index int, code *Program) int {
	if code.At(index).IsBlockGroupBegin() {
		return index
	}
	depth := 1
	for i := index - 1; i >= 0; i-- {
		instr := code.At(i)
		// Internal boundaries (both begin and end) must not terminate
		// this scan, so the end increment is applied before the begin
		// decrement: they cancel out and the scan continues.
		if instr.IsBlockEnd() {
			depth++
		}
		if instr.IsBlockBegin() {
			depth--
			if depth == 0 {
				if !instr.IsBlockGroupBegin() {
					panic(fmt.Sprintf("ir.FindBlockGroupHead: malformed program: %d (%s) closes the scan but is not a group begin", i, instr.Op))
				}
				return i
			}
		}
	}
	panic(fmt.Sprintf("ir.FindBlockGroupHead: malformed program: no group head surrounding %d", index))
}

// CollectBlockGroup returns the indices of all boundary instructions of the
// block group opened at the given index: the head itself, every internal
// boundary at the group's own nesting level, and the closing instruction.
func CollectBlockGroup(head int, code *Program) []int {
	if !code.At(head).IsBlockGroupBegin() {
		panic(fmt.Sprintf("ir.CollectBlockGroup: instruction %d (%s) is not a block group begin", head, code.At(head).Op))
	}
	blockInstructions := []int{head}
	depth := 1
	for i := head + 1; i < code.Len(); i++ {
		instr := code.At(i)
		if instr.IsBlockEnd() {
			depth--
			if depth == 0 {
				blockInstructions = append(blockInstructions, i)
				if !instr.IsBlockBegin() {
					// Group end: the scan is complete.
					return blockInstructions
				}
				// Internal boundary: the next sibling block opens here.
			}
		}
		if instr.IsBlockBegin() {
			depth++
		}
	}
	panic(fmt.Sprintf("ir.CollectBlockGroup: malformed program: no end for block group at %d", head))
}

// FindAllBlockGroups enumerates every block group in the program in a single
// linear pass. Groups are returned in the order in which they close, so an
// inner group precedes the group that contains it.
func FindAllBlockGroups(code *Program) []BlockGroup {
	var groups []BlockGroup
	var stack [][]int
	for i := 0; i < code.Len(); i++ {
		instr := code.At(i)
		switch {
		case instr.IsBlockGroupBegin():
			stack = append(stack, []int{i})
		case instr.IsBlockEnd():
			if len(stack) == 0 {
				panic(fmt.Sprintf("ir.FindAllBlockGroups: malformed program: unmatched %s at %d", instr.Op, i))
			}
			top := len(stack) - 1
			stack[top] = append(stack[top], i)
			if !instr.IsBlockBegin() {
				groups = append(groups, NewBlockGroup(stack[top], code))
				stack = stack[:top]
			}
		}
	}
	if len(stack) != 0 {
		panic(fmt.Sprintf("ir.FindAllBlockGroups: malformed program: %d unterminated group(s)", len(stack)))
	}
	return groups
}
