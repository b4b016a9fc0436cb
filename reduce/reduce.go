// Package reduce shrinks programs by replacing instructions with no-ops
// while an external verifier confirms the program stays valid.
package reduce

import "github.com/chazu/magpie/ir"

// Verifier judges whether a candidate edit keeps a program valid.
//
// TryNop attempts to replace the instruction at index with a no-op. It
// commits the replacement into the program and returns true iff the edited
// program still satisfies the verifier's validity criterion; on rejection it
// must leave the program unchanged. A verifier is typically expensive (it
// re-executes the candidate against a target runtime), so callers must treat
// TryNop as a blocking call; cancellation and timeouts are the verifier's
// responsibility.
type Verifier interface {
	TryNop(p *ir.Program, index int) bool
}

// Instructions performs one reduction pass over the program, visiting
// candidate positions from the last index down to 0. Walking backwards keeps
// not-yet-visited indices stable regardless of what the verifier commits.
//
// Positions are skipped without a verifier call if the instruction is not
// simple, or is already a no-op or a comment. Everything else is delegated to
// the verifier; this function performs no validity judgment of its own and
// never retries a rejected removal. It returns the number of instructions
// that were nopped out.
func Instructions(p *ir.Program, verifier Verifier) int {
	removed := 0
	for i := p.Len() - 1; i >= 0; i-- {
		instr := p.At(i)
		if !instr.IsSimple() {
			continue
		}
		if instr.IsNop() || instr.IsComment() {
			continue
		}
		if verifier.TryNop(p, i) {
			removed++
		}
	}
	return removed
}

// ToFixpoint runs reduction passes until a pass removes nothing further.
// With a deterministic verifier the second pass is already a no-op, but a
// verifier whose criterion depends on earlier removals (e.g. one that
// tolerates an edit only after a dependent instruction is gone) can make
// additional passes productive. Returns the total number of instructions
// removed.
func ToFixpoint(p *ir.Program, verifier Verifier) int {
	total := 0
	for {
		removed := Instructions(p, verifier)
		total += removed
		if removed == 0 {
			return total
		}
	}
}
