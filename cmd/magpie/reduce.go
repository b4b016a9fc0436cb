package main

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/magpie/corpus"
	"github.com/chazu/magpie/ir"
	"github.com/chazu/magpie/reduce"
)

// ReduceCmd reduces a program as far as the configured oracle allows and
// writes the result back out.
type ReduceCmd struct {
	Input  string `arg:"" help:"Program file to reduce" type:"existingfile"`
	Output string `name:"output" short:"o" help:"Output file (default: overwrite input)"`
	Store  bool   `name:"store" help:"Also store the reduced program in the corpus"`
}

func (c *ReduceCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := commonlog.GetLogger("magpie")

	p, err := readProgram(c.Input)
	if err != nil {
		return err
	}
	before := countLive(p)

	verifier, err := reduce.NewExecVerifier(cfg.Oracle.Command, cfg.Oracle.Timeout())
	if err != nil {
		return err
	}

	removed := reduce.ToFixpoint(p, verifier)
	log.Infof("removed %d of %d live instructions", removed, before)

	output := c.Output
	if output == "" {
		output = c.Input
	}
	if err := writeProgram(output, p); err != nil {
		return err
	}

	if c.Store {
		store, err := corpus.Open(cfg.CorpusPath())
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Put(p)
		if err != nil {
			return err
		}
		fmt.Printf("stored as %s\n", id)
	}

	fmt.Printf("reduced %s: %d removed, %d live instructions remain\n", c.Input, removed, before-removed)
	return nil
}

// countLive counts instructions that are neither no-ops nor comments.
func countLive(p *ir.Program) int {
	n := 0
	for i := 0; i < p.Len(); i++ {
		instr := p.At(i)
		if !instr.IsNop() && !instr.IsComment() {
			n++
		}
	}
	return n
}

// readProgram loads a wire-encoded program from a file.
func readProgram(path string) (*ir.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	p, err := corpus.UnmarshalProgram(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// writeProgram writes a program to a file in wire encoding.
func writeProgram(path string, p *ir.Program) error {
	data, err := corpus.MarshalProgram(p)
	if err != nil {
		return fmt.Errorf("encoding program: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
