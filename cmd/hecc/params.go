package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	glog "github.com/golang/glog"
	"github.com/google/subcommands"

	"github.com/aerius-labs/hecc-go/internal/config"
	"github.com/aerius-labs/hecc-go/internal/framing"
)

// paramsCmd validates code parameters and prints their costs.
type paramsCmd struct {
	settings settingsFlags
	size     int
}

func (*paramsCmd) Name() string     { return "params" }
func (*paramsCmd) Synopsis() string { return "validates k/t/n and prints shard counts" }
func (*paramsCmd) Usage() string {
	return `Usage: hecc params [--k=K] [--t=T] [--n=N] [--size=BYTES]

Flags:
`
}
func (p *paramsCmd) SetFlags(f *flag.FlagSet) {
	p.settings.register(f)
	f.IntVar(&p.size, "size", 0, "Payload size in bytes used for the shard counts.")
}

func (p *paramsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := p.settings.resolve(f)
	if err != nil {
		glog.Errorf("Invalid configuration: %v", err)
		return subcommands.ExitUsageError
	}
	if p.size < 0 {
		glog.Errorf("Negative size %d", p.size)
		return subcommands.ExitUsageError
	}
	if err := framing.CheckLength(p.size); err != nil {
		glog.Errorf("Size %d: %v", p.size, err)
		return subcommands.ExitUsageError
	}

	printParams(os.Stdout, cfg, p.size)
	return subcommands.ExitSuccess
}

func printParams(w io.Writer, cfg *config.Config, size int) {
	blocks := framing.NumBlocks(size, cfg.K)
	fmt.Fprintf(w, "k=%d t=%d n=%d\n", cfg.K, cfg.T, cfg.N)
	fmt.Fprintf(w, "threshold:  %d shards per block\n", cfg.Params().Threshold())
	fmt.Fprintf(w, "tolerates:  %d lost shards per block\n", cfg.N-cfg.Params().Threshold())
	fmt.Fprintf(w, "expansion:  %.2fx\n", float64(cfg.N)/float64(cfg.K))
	fmt.Fprintf(w, "payload:    %d bytes -> %d blocks, %d shards\n", size, blocks, blocks*cfg.N)
}
