package ir

import (
	"testing"
)

// makeProgram builds a program from bare opcodes. Operands are irrelevant to
// the structural layer, so they are left empty.
func makeProgram(ops ...Opcode) *Program {
	instrs := make([]Instruction, len(ops))
	for i, op := range ops {
		instrs[i] = Instruction{Op: op}
	}
	return &Program{Instrs: instrs}
}

// mustPanic asserts that fn panics.
func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s should panic", name)
		}
	}()
	fn()
}

// ---------------------------------------------------------------------------
// Matching begin/end scans
// ---------------------------------------------------------------------------

func TestFindBlockEndSimple(t *testing.T) {
	p := makeProgram(OpBeginIf, OpLoadInt, OpLoadInt, OpEndIf)
	if got := FindBlockEnd(0, p); got != 3 {
		t.Errorf("FindBlockEnd(0) = %d, want 3", got)
	}
}

func TestFindBlockBeginSimple(t *testing.T) {
	p := makeProgram(OpBeginWhile, OpLoadInt, OpEndWhile)
	if got := FindBlockBegin(2, p); got != 0 {
		t.Errorf("FindBlockBegin(2) = %d, want 0", got)
	}
}

func TestFindBlockEndNested(t *testing.T) {
	// 0: BEGIN_IF
	// 1:   BEGIN_WHILE
	// 2:   END_WHILE
	// 3: END_IF
	p := makeProgram(OpBeginIf, OpBeginWhile, OpEndWhile, OpEndIf)
	if got := FindBlockEnd(0, p); got != 3 {
		t.Errorf("FindBlockEnd(0) = %d, want 3", got)
	}
	if got := FindBlockEnd(1, p); got != 2 {
		t.Errorf("FindBlockEnd(1) = %d, want 2", got)
	}
}

func TestFindBlockEndStopsAtElse(t *testing.T) {
	// The if block ends at BEGIN_ELSE, not at END_IF.
	p := makeProgram(OpBeginIf, OpLoadInt, OpBeginElse, OpLoadInt, OpEndIf)
	if got := FindBlockEnd(0, p); got != 2 {
		t.Errorf("FindBlockEnd(0) = %d, want 2", got)
	}
	if got := FindBlockEnd(2, p); got != 4 {
		t.Errorf("FindBlockEnd(2) = %d, want 4", got)
	}
}

func TestFindBlockBeginStopsAtElse(t *testing.T) {
	p := makeProgram(OpBeginIf, OpLoadInt, OpBeginElse, OpLoadInt, OpEndIf)
	if got := FindBlockBegin(4, p); got != 2 {
		t.Errorf("FindBlockBegin(4) = %d, want 2", got)
	}
	if got := FindBlockBegin(2, p); got != 0 {
		t.Errorf("FindBlockBegin(2) = %d, want 0", got)
	}
}

// richProgram covers every structural shape in one program:
//
//	0: BEGIN_FUNCTION
//	1:   BEGIN_TRY
//	2:     BEGIN_IF
//	3:       LOAD_INT
//	4:     BEGIN_ELSE
//	5:       BEGIN_WHILE
//	6:         LOAD_INT
//	7:       END_WHILE
//	8:     END_IF
//	9:   BEGIN_CATCH
//	10:    LOAD_INT
//	11:  BEGIN_FINALLY
//	12:    NOP
//	13:  END_TRY_CATCH
//	14: END_FUNCTION
func richProgram() *Program {
	return makeProgram(
		OpBeginFunction,
		OpBeginTry,
		OpBeginIf,
		OpLoadInt,
		OpBeginElse,
		OpBeginWhile,
		OpLoadInt,
		OpEndWhile,
		OpEndIf,
		OpBeginCatch,
		OpLoadInt,
		OpBeginFinally,
		OpNop,
		OpEndTryCatch,
		OpEndFunction,
	)
}

func TestBlockScanRoundTrip(t *testing.T) {
	p := richProgram()
	for i := 0; i < p.Len(); i++ {
		if p.At(i).IsBlockBegin() {
			end := FindBlockEnd(i, p)
			if got := FindBlockBegin(end, p); got != i {
				t.Errorf("FindBlockBegin(FindBlockEnd(%d)) = %d, want %d", i, got, i)
			}
		}
		if p.At(i).IsBlockEnd() {
			begin := FindBlockBegin(i, p)
			if got := FindBlockEnd(begin, p); got != i {
				t.Errorf("FindBlockEnd(FindBlockBegin(%d)) = %d, want %d", i, got, i)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Group head lookup and group collection
// ---------------------------------------------------------------------------

func TestFindBlockGroupHead(t *testing.T) {
	p := richProgram()
	cases := []struct {
		index int
		want  int
	}{
		{0, 0},   // group begin returns itself
		{2, 2},   // inner group begin
		{3, 2},   // if body belongs to the if group
		{4, 2},   // internal boundary belongs to its group
		{6, 5},   // while body
		{8, 2},   // group end
		{10, 1},  // catch body belongs to the try group
		{11, 1},  // finally boundary
		{13, 1},  // try group end
		{14, 0},  // function group end
	}
	for _, c := range cases {
		if got := FindBlockGroupHead(c.index, p); got != c.want {
			t.Errorf("FindBlockGroupHead(%d) = %d, want %d", c.index, got, c.want)
		}
	}
}

func TestCollectBlockGroupIfElse(t *testing.T) {
	p := makeProgram(OpBeginIf, OpLoadInt, OpBeginElse, OpLoadInt, OpEndIf)
	got := CollectBlockGroup(0, p)
	want := []int{0, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("CollectBlockGroup(0) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CollectBlockGroup(0)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCollectBlockGroupTryCatchFinally(t *testing.T) {
	p := makeProgram(OpBeginTry, OpLoadInt, OpBeginCatch, OpLoadInt, OpBeginFinally, OpNop, OpEndTryCatch)
	got := CollectBlockGroup(0, p)
	want := []int{0, 2, 4, 6}
	if len(got) != len(want) {
		t.Fatalf("CollectBlockGroup(0) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CollectBlockGroup(0)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCollectBlockGroupSkipsNestedGroups(t *testing.T) {
	p := richProgram()
	got := CollectBlockGroup(1, p) // the try group
	want := []int{1, 9, 11, 13}
	if len(got) != len(want) {
		t.Fatalf("CollectBlockGroup(1) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CollectBlockGroup(1)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Block construction
// ---------------------------------------------------------------------------

func TestNewBlockValidPair(t *testing.T) {
	p := makeProgram(OpBeginIf, OpLoadInt, OpEndIf)
	b := NewBlock(0, 2, p)
	if b.Head() != 0 || b.Tail() != 2 || b.Size() != 2 {
		t.Errorf("block = {%d, %d, size %d}, want {0, 2, size 2}", b.Head(), b.Tail(), b.Size())
	}
	if !b.Contains(1) || b.Contains(0) || b.Contains(2) {
		t.Errorf("Contains should hold for body indices only")
	}
}

func TestNewBlockRejectsNonMatchingPair(t *testing.T) {
	// Both endpoints have the right facets, but they are not each
	// other's structural match.
	p := makeProgram(OpBeginIf, OpEndIf, OpBeginIf, OpEndIf)
	mustPanic(t, "NewBlock(0, 3)", func() { NewBlock(0, 3, p) })
}

func TestNewBlockRejectsWrongFacets(t *testing.T) {
	p := makeProgram(OpBeginIf, OpLoadInt, OpEndIf)
	mustPanic(t, "NewBlock with non-begin head", func() { NewBlock(1, 2, p) })
	mustPanic(t, "NewBlock with non-end tail", func() { NewBlock(0, 1, p) })
}

func TestBlockStartingAtAndEndingAt(t *testing.T) {
	p := richProgram()
	b := BlockStartingAt(5, p)
	if b.Head() != 5 || b.Tail() != 7 {
		t.Errorf("BlockStartingAt(5) = {%d, %d}, want {5, 7}", b.Head(), b.Tail())
	}
	b = BlockEndingAt(8, p)
	if b.Head() != 4 || b.Tail() != 8 {
		t.Errorf("BlockEndingAt(8) = {%d, %d}, want {4, 8}", b.Head(), b.Tail())
	}
	mustPanic(t, "BlockStartingAt on plain instruction", func() { BlockStartingAt(3, p) })
	mustPanic(t, "BlockEndingAt on plain instruction", func() { BlockEndingAt(3, p) })
}

// ---------------------------------------------------------------------------
// BlockGroup construction
// ---------------------------------------------------------------------------

func TestBlockGroupIfElse(t *testing.T) {
	p := makeProgram(OpBeginIf, OpLoadInt, OpBeginElse, OpLoadInt, OpEndIf)
	g := BlockGroupStartingAt(0, p)

	if g.NumBlocks() != 2 {
		t.Errorf("NumBlocks = %d, want 2", g.NumBlocks())
	}
	if g.Head() != 0 || g.Tail() != 4 || g.Size() != 4 {
		t.Errorf("group = {%d, %d, size %d}, want {0, 4, size 4}", g.Head(), g.Tail(), g.Size())
	}
	if n := len(g.BlockInstructions()); g.NumBlocks() != n-1 {
		t.Errorf("NumBlocks = %d, want len(BlockInstructions)-1 = %d", g.NumBlocks(), n-1)
	}

	// Consecutive boundary indices bound the group's blocks.
	for i := 0; i < g.NumBlocks(); i++ {
		b := g.Block(i)
		if b.Head() != g.BlockInstructions()[i] {
			t.Errorf("Block(%d).Head = %d, want %d", i, b.Head(), g.BlockInstructions()[i])
		}
		if b.Tail() != g.BlockInstructions()[i+1] {
			t.Errorf("Block(%d).Tail = %d, want %d", i, b.Tail(), g.BlockInstructions()[i+1])
		}
	}
}

func TestBlockGroupAround(t *testing.T) {
	p := richProgram()
	g := BlockGroupAround(10, p) // catch body -> try group
	if g.Head() != 1 || g.Tail() != 13 {
		t.Errorf("BlockGroupAround(10) = {%d, %d}, want {1, 13}", g.Head(), g.Tail())
	}
	if g.NumBlocks() != 3 {
		t.Errorf("NumBlocks = %d, want 3", g.NumBlocks())
	}
}

func TestNewBlockGroupRejectsInvalidBoundaries(t *testing.T) {
	p := makeProgram(OpBeginIf, OpLoadInt, OpBeginElse, OpLoadInt, OpEndIf)
	mustPanic(t, "NewBlockGroup with one index", func() { NewBlockGroup([]int{0}, p) })
	mustPanic(t, "NewBlockGroup starting at internal boundary", func() { NewBlockGroup([]int{2, 4}, p) })
	mustPanic(t, "NewBlockGroup ending at internal boundary", func() { NewBlockGroup([]int{0, 2}, p) })
}

// ---------------------------------------------------------------------------
// Whole-program enumeration
// ---------------------------------------------------------------------------

func TestFindAllBlockGroupsNested(t *testing.T) {
	// Two nested one-block groups: the inner group closes first.
	p := makeProgram(OpBeginIf, OpBeginIf, OpEndIf, OpEndIf)
	groups := FindAllBlockGroups(p)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].Head() != 1 || groups[0].Tail() != 2 {
		t.Errorf("groups[0] = {%d, %d}, want inner {1, 2}", groups[0].Head(), groups[0].Tail())
	}
	if groups[1].Head() != 0 || groups[1].Tail() != 3 {
		t.Errorf("groups[1] = {%d, %d}, want outer {0, 3}", groups[1].Head(), groups[1].Tail())
	}
}

func TestFindAllBlockGroupsRichProgram(t *testing.T) {
	p := richProgram()
	groups := FindAllBlockGroups(p)
	// Close order: while, if/else, try/catch/finally, function.
	wantHeads := []int{5, 2, 1, 0}
	wantTails := []int{7, 8, 13, 14}
	if len(groups) != len(wantHeads) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(wantHeads))
	}
	for i, g := range groups {
		if g.Head() != wantHeads[i] || g.Tail() != wantTails[i] {
			t.Errorf("groups[%d] = {%d, %d}, want {%d, %d}", i, g.Head(), g.Tail(), wantHeads[i], wantTails[i])
		}
	}
}

// Any two groups of a well-formed program are either disjoint or fully
// nested, and together the top-level groups cover every index that lies
// between a matched top-level begin/end pair.
func TestBlockGroupPartition(t *testing.T) {
	p := makeProgram(
		OpLoadInt,
		OpBeginIf, OpLoadInt, OpEndIf,
		OpLoadInt,
		OpBeginWhile, OpBeginTry, OpBeginCatch, OpEndTryCatch, OpEndWhile,
		OpLoadInt,
	)
	groups := FindAllBlockGroups(p)

	for i, a := range groups {
		for j, b := range groups {
			if i == j {
				continue
			}
			disjoint := a.Tail() < b.Head() || b.Tail() < a.Head()
			nested := (a.Head() > b.Head() && a.Tail() < b.Tail()) ||
				(b.Head() > a.Head() && b.Tail() < a.Tail())
			if !disjoint && !nested {
				t.Errorf("groups {%d,%d} and {%d,%d} partially overlap",
					a.Head(), a.Tail(), b.Head(), b.Tail())
			}
		}
	}

	// Top-level group spans reproduce exactly the indices covered by
	// matched top-level begin/end pairs.
	covered := make([]bool, p.Len())
	for _, g := range groups {
		if isTopLevel(p, g.Head()) {
			for i := g.Head(); i <= g.Tail(); i++ {
				covered[i] = true
			}
		}
	}
	wantCovered := []bool{false, true, true, true, false, true, true, true, true, true, false}
	for i := range wantCovered {
		if covered[i] != wantCovered[i] {
			t.Errorf("covered[%d] = %v, want %v", i, covered[i], wantCovered[i])
		}
	}
}

// isTopLevel reports whether the instruction at the given index sits at
// nesting depth 0.
func isTopLevel(p *Program, index int) bool {
	depth := 0
	for i := 0; i < index; i++ {
		instr := p.At(i)
		if instr.IsBlockEnd() {
			depth--
		}
		if instr.IsBlockBegin() {
			depth++
		}
	}
	return depth == 0
}

// ---------------------------------------------------------------------------
// Malformed programs
// ---------------------------------------------------------------------------

func TestUnmatchedBeginIsFatal(t *testing.T) {
	p := makeProgram(OpBeginIf, OpLoadInt)
	mustPanic(t, "FindBlockEnd on unmatched begin", func() { FindBlockEnd(0, p) })
	mustPanic(t, "BlockStartingAt on unmatched begin", func() { BlockStartingAt(0, p) })
	mustPanic(t, "CollectBlockGroup on unmatched begin", func() { CollectBlockGroup(0, p) })
	mustPanic(t, "FindAllBlockGroups on unbalanced program", func() { FindAllBlockGroups(p) })
}

func TestUnmatchedEndIsFatal(t *testing.T) {
	p := makeProgram(OpLoadInt, OpEndIf)
	mustPanic(t, "FindBlockBegin on unmatched end", func() { FindBlockBegin(1, p) })
	mustPanic(t, "BlockEndingAt on unmatched end", func() { BlockEndingAt(1, p) })
	mustPanic(t, "FindAllBlockGroups on unmatched end", func() { FindAllBlockGroups(p) })
}

func TestFindBlockGroupHeadOutsideAnyGroupIsFatal(t *testing.T) {
	p := makeProgram(OpLoadInt, OpLoadInt)
	mustPanic(t, "FindBlockGroupHead outside any group", func() { FindBlockGroupHead(1, p) })
}
