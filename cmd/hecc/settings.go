package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/aerius-labs/hecc-go/internal/config"
	"github.com/aerius-labs/hecc-go/internal/prf"
)

// settingsFlags are shared by every command that needs code parameters.
// Flags given explicitly override the config file.
type settingsFlags struct {
	configFile string
	k, t, n    int
	keep       int
	seed       string
	source     string
	workers    int
}

func (s *settingsFlags) register(f *flag.FlagSet) {
	def := config.Default()
	f.StringVar(&s.configFile, "config-file", "", "Path to a YAML run configuration. Optional.")
	f.IntVar(&s.k, "k", def.K, "Message bytes per block (K).")
	f.IntVar(&s.t, "t", def.T, "Hiding bytes per block (T).")
	f.IntVar(&s.n, "n", def.N, "Shards per block (N), at most 255.")
	f.IntVar(&s.keep, "keep", def.Keep, "Shards kept per block before recovery; 0 keeps K+T.")
	f.StringVar(&s.seed, "seed", def.Seed, "Seed for the deterministic sources. Random when empty.")
	f.StringVar(&s.source, "source", def.Source, "Randomness source: shake, poseidon or system.")
	f.IntVar(&s.workers, "workers", def.Workers, "Blocks encoded or decoded concurrently.")
}

// resolve loads the config file, if any, and applies explicitly set flags
func (s *settingsFlags) resolve(f *flag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if s.configFile != "" {
		var err error
		if cfg, err = config.Load(s.configFile); err != nil {
			return nil, err
		}
	}

	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "k":
			cfg.K = s.k
		case "t":
			cfg.T = s.t
		case "n":
			cfg.N = s.n
		case "keep":
			cfg.Keep = s.keep
		case "seed":
			cfg.Seed = s.seed
		case "source":
			cfg.Source = s.source
		case "workers":
			cfg.Workers = s.workers
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSource builds the hiding randomness source and returns the seed that
// also drives shard erasure. An empty seed is replaced by a random one.
func newSource(cfg *config.Config) (io.Reader, []byte, error) {
	seed := []byte(cfg.Seed)
	if len(seed) == 0 {
		var err error
		if seed, err = prf.NewSeed(rand.Reader); err != nil {
			return nil, nil, fmt.Errorf("generating seed: %w", err)
		}
	}

	switch cfg.Source {
	case config.SourceShake:
		return prf.NewShakeStream(seed), seed, nil
	case config.SourcePoseidon:
		return prf.NewPoseidonStream(xxhash.Sum64(seed)), seed, nil
	case config.SourceSystem:
		return rand.Reader, seed, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown source %q", config.ErrInvalidConfig, cfg.Source)
}
