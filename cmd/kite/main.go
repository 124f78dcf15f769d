// Package main provides the kite CLI.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kite-ml/kite/internal/config"
	"github.com/kite-ml/kite/internal/embed"
	"github.com/kite-ml/kite/internal/score"
	"github.com/kite-ml/kite/internal/tensor"
)

const version = "v0.1.0"

var (
	benchConfigPath string
	benchRounds     int
)

var rootCmd = &cobra.Command{
	Use:   "kite",
	Short: "Knowledge-graph embedding scoring for Go",
	Long: `Kite implements the score functions used to train knowledge-graph
embedding models: translational distance (TransE), complex rotation (RotatE)
and orthogonal linear transform (OTE).`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Kite %s — knowledge-graph embedding scoring\n", version)
		fmt.Println("Use 'kite bench' to benchmark a score function")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kite %s\n", version)
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark a score function over random embedding tables",
	Long: `Benchmark builds random entity and relation embedding tables, gathers a
batch of triples plus a wide negative-candidate batch, and times forward and
inverse scoring for the configured variant.

Example usage:
  kite bench                          # defaults (transe, 128 dims)
  kite bench --config bench.yaml      # variant and sizes from YAML
  kite bench --rounds 20              # more timing rounds`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().StringVar(&benchConfigPath, "config", "", "YAML config file (defaults used when empty)")
	benchCmd.Flags().IntVar(&benchRounds, "rounds", 10, "Timing rounds per direction")
}

func runBench(cmd *cobra.Command, args []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("run_id", uuid.NewString()).Logger()

	cfg := config.Default()
	if benchConfigPath != "" {
		var err error
		if cfg, err = config.Load(benchConfigPath); err != nil {
			return err
		}
	}

	sf, err := score.New(score.Kind(cfg.ScoreFunc), cfg.Params())
	if err != nil {
		return err
	}

	logger.Info().
		Str("score_func", cfg.ScoreFunc).
		Int("embed_dim", cfg.EmbedDim).
		Int("relation_dim", cfg.RelationDim()).
		Int("batch_size", cfg.BatchSize).
		Int("neg_samples", cfg.NegSamples).
		Msg("benchmark starting")

	rng := rand.New(rand.NewSource(cfg.Seed))
	initRange := (cfg.Gamma + 2.0) / float32(cfg.EmbedDim)

	entities, err := embed.NewTable(cfg.Entities, cfg.EmbedDim, initRange, rng)
	if err != nil {
		return fmt.Errorf("entity table: %w", err)
	}
	relations, err := embed.NewTable(cfg.Relations, cfg.RelationDim(), initRange, rng)
	if err != nil {
		return fmt.Errorf("relation table: %w", err)
	}

	heads, rels, tails, negTails, err := sampleBatch(cfg, entities, relations, rng)
	if err != nil {
		return fmt.Errorf("sample batch: %w", err)
	}

	if err := timeDirection(logger, "forward", benchRounds, func() (*tensor.Dense, error) {
		return sf.Score(heads, rels, tails)
	}); err != nil {
		return err
	}
	if err := timeDirection(logger, "forward_negatives", benchRounds, func() (*tensor.Dense, error) {
		return sf.Score(heads, rels, negTails)
	}); err != nil {
		return err
	}
	if err := timeDirection(logger, "inverse", benchRounds, func() (*tensor.Dense, error) {
		return sf.InverseScore(heads, rels, tails)
	}); err != nil {
		return err
	}

	logger.Info().Msg("benchmark finished")
	return nil
}

// sampleBatch gathers a positive triple batch and a wide tail-candidate batch
// from the tables.
func sampleBatch(cfg config.Config, entities, relations *embed.Table, rng *rand.Rand) (heads, rels, tails, negTails *tensor.Dense, err error) {
	headIDs := make([]int, cfg.BatchSize)
	relIDs := make([]int, cfg.BatchSize)
	tailIDs := make([]int, cfg.BatchSize)
	for i := range headIDs {
		headIDs[i] = rng.Intn(cfg.Entities)
		relIDs[i] = rng.Intn(cfg.Relations)
		tailIDs[i] = rng.Intn(cfg.Entities)
	}
	negIDs := make([]int, cfg.BatchSize*cfg.NegSamples)
	for i := range negIDs {
		negIDs[i] = rng.Intn(cfg.Entities)
	}

	if heads, err = entities.Gather(headIDs); err != nil {
		return nil, nil, nil, nil, err
	}
	if rels, err = relations.Gather(relIDs); err != nil {
		return nil, nil, nil, nil, err
	}
	if tails, err = entities.Gather(tailIDs); err != nil {
		return nil, nil, nil, nil, err
	}
	if negTails, err = entities.GatherCandidates(negIDs, cfg.BatchSize, cfg.NegSamples); err != nil {
		return nil, nil, nil, nil, err
	}
	return heads, rels, tails, negTails, nil
}

// timeDirection runs one scoring direction repeatedly and logs timing and
// score statistics.
func timeDirection(logger zerolog.Logger, name string, rounds int, run func() (*tensor.Dense, error)) error {
	var scores *tensor.Dense
	start := time.Now()
	for i := 0; i < rounds; i++ {
		var err error
		if scores, err = run(); err != nil {
			return fmt.Errorf("%s scoring: %w", name, err)
		}
	}
	elapsed := time.Since(start)

	data := scores.Data()
	var mean float64
	for _, v := range data {
		mean += float64(v)
	}
	mean /= float64(len(data))

	logger.Info().
		Str("direction", name).
		Str("shape", fmt.Sprintf("%v", scores.Shape())).
		Int("triples", len(data)).
		Float64("mean_score", mean).
		Dur("per_round", elapsed/time.Duration(rounds)).
		Msg("scored")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
