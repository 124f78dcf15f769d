// Package config loads and validates the benchmark configuration for the
// kite CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kite-ml/kite/internal/score"
)

// Config selects a score function and the batch geometry the CLI runs it over.
type Config struct {
	// ScoreFunc names the variant: transe, rotate or ote.
	ScoreFunc string `yaml:"score_func"`

	// Gamma is the margin offset subtracted from raw distances.
	Gamma float32 `yaml:"gamma"`

	// EmbedDim is the entity embedding width.
	EmbedDim int `yaml:"embed_dim"`

	// PhaseScale maps raw rotate relation values onto [-π, π] (rotate only).
	PhaseScale float32 `yaml:"phase_scale"`

	// NumElem is the transform block size (ote only).
	NumElem int `yaml:"num_elem"`

	// ScaleType is the ote scale rule: 0 none, 1 abs, 2 exp.
	ScaleType int `yaml:"scale_type"`

	// Entities and Relations size the embedding tables.
	Entities  int `yaml:"entities"`
	Relations int `yaml:"relations"`

	// BatchSize is the positive triples per scoring call; NegSamples the
	// candidates per anchor on the wide axis.
	BatchSize  int `yaml:"batch_size"`
	NegSamples int `yaml:"neg_samples"`

	// Seed fixes the embedding initialization.
	Seed int64 `yaml:"seed"`
}

// Default returns a configuration that exercises all three variants on small
// tables.
func Default() Config {
	return Config{
		ScoreFunc:  "transe",
		Gamma:      12.0,
		EmbedDim:   128,
		PhaseScale: 0.1,
		NumElem:    4,
		ScaleType:  0,
		Entities:   1000,
		Relations:  50,
		BatchSize:  256,
		NegSamples: 64,
		Seed:       42,
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration before any table or scorer is built.
func (c Config) Validate() error {
	switch score.Kind(c.ScoreFunc) {
	case score.KindTransE, score.KindRotatE, score.KindOTE:
	default:
		return fmt.Errorf("unknown score function %q", c.ScoreFunc)
	}
	if c.EmbedDim <= 0 {
		return fmt.Errorf("embed_dim must be positive, got %d", c.EmbedDim)
	}
	if c.Entities <= 0 || c.Relations <= 0 {
		return fmt.Errorf("entities and relations must be positive, got %d and %d", c.Entities, c.Relations)
	}
	if c.BatchSize <= 0 || c.NegSamples <= 0 {
		return fmt.Errorf("batch_size and neg_samples must be positive, got %d and %d", c.BatchSize, c.NegSamples)
	}
	switch score.Kind(c.ScoreFunc) {
	case score.KindRotatE:
		if c.EmbedDim%2 != 0 {
			return fmt.Errorf("rotate needs an even embed_dim, got %d", c.EmbedDim)
		}
		if c.PhaseScale == 0 {
			return fmt.Errorf("rotate needs a non-zero phase_scale")
		}
	case score.KindOTE:
		if c.NumElem <= 0 {
			return fmt.Errorf("ote needs a positive num_elem, got %d", c.NumElem)
		}
		if c.EmbedDim%c.NumElem != 0 {
			return fmt.Errorf("embed_dim %d is not divisible by num_elem %d", c.EmbedDim, c.NumElem)
		}
		if c.ScaleType < 0 || c.ScaleType > 2 {
			return fmt.Errorf("scale_type must be 0, 1 or 2, got %d", c.ScaleType)
		}
	}
	return nil
}

// Params maps the configuration onto score-function hyperparameters.
func (c Config) Params() score.Params {
	return score.Params{
		Gamma:      c.Gamma,
		PhaseScale: c.PhaseScale,
		NumElem:    c.NumElem,
		Scale:      score.ScaleType(c.ScaleType),
	}
}

// RelationDim returns the relation embedding width the selected variant
// expects for the configured entity width.
func (c Config) RelationDim() int {
	switch score.Kind(c.ScoreFunc) {
	case score.KindRotatE:
		return c.EmbedDim / 2
	case score.KindOTE:
		scale := 0
		if c.ScaleType > 0 {
			scale = 1
		}
		return (c.EmbedDim / c.NumElem) * c.NumElem * (c.NumElem + scale)
	default:
		return c.EmbedDim
	}
}
