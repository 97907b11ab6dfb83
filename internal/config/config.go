// Package config loads run settings for the hecc command
package config

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/aerius-labs/hecc-go/codeword"
)

// Randomness sources accepted in Config.Source
const (
	SourceShake    = "shake"
	SourcePoseidon = "poseidon"
	SourceSystem   = "system"
)

// ErrInvalidConfig wraps every validation failure that is not a parameter error
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config describes one shred/recover run.
// YAML 1.1 reads a bare n or y key as a boolean, so the code parameters use
// spelled-out keys.
type Config struct {
	K int `json:"message_symbols"`
	T int `json:"hiding_symbols"`
	N int `json:"shards"`

	// Keep is the number of shards retained per block; 0 means K+T
	Keep int `json:"keep"`

	// Seed keys the deterministic sources; empty picks a random seed
	Seed   string `json:"seed,omitempty"`
	Source string `json:"source"`

	Workers int `json:"workers"`
}

// Default returns the settings used when no file is given
func Default() *Config {
	return &Config{
		K:       16,
		T:       6,
		N:       32,
		Source:  SourceShake,
		Workers: 1,
	}
}

// Load reads a YAML file on top of Default and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Params returns the code parameters
func (c *Config) Params() codeword.Params {
	return codeword.Params{K: c.K, T: c.T, N: c.N}
}

// KeepCount resolves Keep, substituting K+T for 0
func (c *Config) KeepCount() int {
	if c.Keep == 0 {
		return c.Params().Threshold()
	}
	return c.Keep
}

// Validate checks the parameters and the run settings
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("k=%d t=%d n=%d: %w", c.K, c.T, c.N, err)
	}
	if c.Keep < 0 || c.Keep > c.N {
		return fmt.Errorf("%w: keep %d outside [0, %d]", ErrInvalidConfig, c.Keep, c.N)
	}
	switch c.Source {
	case SourceShake, SourcePoseidon, SourceSystem:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative workers %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}
