// Command magpie is the CLI for the magpie program-reduction toolkit.
// It provides commands for reducing programs against a validity oracle,
// disassembling programs, and managing the program corpus.
package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/tliron/commonlog"

	"github.com/chazu/magpie/config"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// CLI defines the command-line interface for magpie.
var CLI struct {
	// Global flags
	ConfigDir string `name:"config-dir" short:"C" help:"Directory containing magpie.toml" default:"." type:"path"`
	Verbose   int    `name:"verbose" short:"v" type:"counter" help:"Increase log verbosity"`

	Reduce  ReduceCmd   `cmd:"" help:"Reduce a program against the configured oracle"`
	Disasm  DisasmCmd   `cmd:"" help:"Disassemble a program"`
	Corpus  CorpusGroup `cmd:"" help:"Corpus operations (import, export, stats)"`
	Version VersionCmd  `cmd:"" help:"Print version information"`
}

// CorpusGroup contains corpus maintenance operations.
type CorpusGroup struct {
	Import ImportCmd `cmd:"" help:"Import program files into the corpus"`
	Export ExportCmd `cmd:"" help:"Export a program from the corpus to a file"`
	Stats  StatsCmd  `cmd:"" help:"Print corpus statistics"`
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("magpie %s\n", version)
	return nil
}

// loadConfig loads magpie.toml from the configured directory.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("magpie"),
		kong.Description("Mutation-fuzzer IR toolkit: structural analysis, corpus management, and program reduction"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	commonlog.Configure(CLI.Verbose, nil)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
