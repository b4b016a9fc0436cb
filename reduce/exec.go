package reduce

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/tliron/commonlog"

	"github.com/chazu/magpie/corpus"
	"github.com/chazu/magpie/ir"

	_ "github.com/tliron/commonlog/simple"
)

// ---------------------------------------------------------------------------
// ExecVerifier: validity oracle backed by an external target process
// ---------------------------------------------------------------------------

// ExecVerifier judges candidate programs by running an external command with
// the wire-encoded program on stdin. Exit status 0 means the program is
// still valid. Each attempt runs under its own timeout.
type ExecVerifier struct {
	// Command is the argv of the target process. Must not be empty.
	Command []string

	// Timeout bounds a single verification run. Zero means no timeout.
	// A run that times out counts as a rejection.
	Timeout time.Duration

	log commonlog.Logger
}

// NewExecVerifier creates a verifier that runs the given command.
func NewExecVerifier(command []string, timeout time.Duration) (*ExecVerifier, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("reduce: exec verifier needs a non-empty command")
	}
	return &ExecVerifier{
		Command: command,
		Timeout: timeout,
		log:     commonlog.GetLogger("magpie.reduce"),
	}, nil
}

// TryNop implements Verifier. The edit is staged on a copy of the program,
// so a rejected or failed run never leaves the caller's program partially
// modified; the no-op is committed in place only after the target accepts.
func (v *ExecVerifier) TryNop(p *ir.Program, index int) bool {
	candidate := p.Clone()
	candidate.SetAt(index, ir.Nop())

	data, err := corpus.MarshalProgram(candidate)
	if err != nil {
		// Encoding a structurally valid program cannot fail; a candidate
		// that does not encode is not worth attempting.
		v.log.Errorf("encoding candidate failed: %s", err.Error())
		return false
	}

	ctx := context.Background()
	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, v.Command[0], v.Command[1:]...)
	cmd.Stdin = bytes.NewReader(data)
	if err := cmd.Run(); err != nil {
		// Nonzero exit, timeout, or spawn failure: the edit is rejected.
		v.log.Debugf("rejected nop at %d: %s", index, err.Error())
		return false
	}

	p.SetAt(index, ir.Nop())
	return true
}
