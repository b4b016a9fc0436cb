package main

import (
	"fmt"

	"github.com/chazu/magpie/corpus"
	"github.com/chazu/magpie/ir"
)

// DisasmCmd prints a human-readable listing of a program.
type DisasmCmd struct {
	Input string `arg:"" help:"Program file to disassemble" type:"existingfile"`
}

func (c *DisasmCmd) Run() error {
	p, err := readProgram(c.Input)
	if err != nil {
		return err
	}
	fmt.Println(ir.Disassemble(p))
	return nil
}

// ImportCmd imports program files into the corpus.
type ImportCmd struct {
	Files []string `arg:"" help:"Program files to import" type:"existingfile"`
}

func (c *ImportCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := corpus.Open(cfg.CorpusPath())
	if err != nil {
		return err
	}
	defer store.Close()

	for _, file := range c.Files {
		p, err := readProgram(file)
		if err != nil {
			return err
		}
		id, err := store.Put(p)
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s (%d instructions)\n", file, id, p.Len())
	}
	return nil
}

// ExportCmd exports a program from the corpus to a file.
type ExportCmd struct {
	ID     string `arg:"" help:"Program id to export"`
	Output string `arg:"" help:"Output file"`
}

func (c *ExportCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := corpus.Open(cfg.CorpusPath())
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Get(c.ID)
	if err != nil {
		return err
	}
	return writeProgram(c.Output, p)
}

// StatsCmd prints corpus statistics.
type StatsCmd struct{}

func (c *StatsCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := corpus.Open(cfg.CorpusPath())
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count()
	if err != nil {
		return err
	}

	instrs, groups := 0, 0
	err = store.Each(func(id string, p *ir.Program) error {
		instrs += p.Len()
		groups += len(ir.FindAllBlockGroups(p))
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("programs:     %d\n", count)
	fmt.Printf("instructions: %d\n", instrs)
	fmt.Printf("block groups: %d\n", groups)
	return nil
}
