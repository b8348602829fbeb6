package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/squidpickles/bipbuffer"
)

func init() {
	cmd := newSimulateCmd()
	cmd.Flags().Int("steps", 0, "Number of random operations")
	cmd.Flags().Int64("seed", 0, "Random seed")
	v := loader.Viper()
	if err := v.BindPFlag("simulate.steps", cmd.Flags().Lookup("steps")); err != nil {
		panic(err)
	}
	if err := v.BindPFlag("simulate.seed", cmd.Flags().Lookup("seed")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(cmd)
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a random workload and check buffer invariants",
		Long: `The simulate command drives a buffer with a seeded random mix of reserve,
commit, read, decommit and clear calls. After every call it validates the region
layout and checks that data comes out in the order it went in.

Example:
  bipstage simulate --steps 1000000 --seed 7 --capacity 4096 --chunk 512`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate()
		},
	}
	return cmd
}

func runSimulate() error {
	logger.Info("Starting simulation",
		zap.Int("steps", cfg.Simulate.Steps),
		zap.Int64("seed", cfg.Simulate.Seed),
		zap.Int("capacity", cfg.Buffer.Capacity),
		zap.Int("chunk", cfg.Buffer.Chunk),
	)

	res, err := simulate(cfg.Simulate.Steps, cfg.Simulate.Seed, cfg.Buffer.Capacity, cfg.Buffer.Chunk)
	if err != nil {
		return err
	}

	m := res.metrics
	fmt.Fprintf(os.Stdout, "steps:               %d\n", res.steps)
	fmt.Fprintf(os.Stdout, "elements in:         %d\n", res.produced)
	fmt.Fprintf(os.Stdout, "elements out:        %d\n", res.consumed)
	fmt.Fprintf(os.Stdout, "reservations:        %d\n", m.Reservations)
	fmt.Fprintf(os.Stdout, "reservation refused: %d\n", m.ReservationsFailed)
	fmt.Fprintf(os.Stdout, "wraps:               %d\n", m.Wraps)
	fmt.Fprintf(os.Stdout, "final utilization:   %.1f%%\n", m.Utilization*100)
	return nil
}

type simResult struct {
	steps    int
	produced uint64
	consumed uint64
	metrics  bipbuffer.Metrics
}

// simulate writes an increasing sequence of values through a buffer and
// fails on the first layout violation or out-of-order value.
func simulate(steps int, seed int64, capacity, chunk int) (simResult, error) {
	rng := rand.New(rand.NewSource(seed))
	b := bipbuffer.New[uint64](capacity)

	var (
		res      simResult
		next     uint64 // next value to write
		expected uint64 // next value to read
		block    []uint64
	)

	for step := 1; step <= steps; step++ {
		switch op := rng.Intn(100); {
		case op < 35:
			var err error
			block, err = b.Reserve(rng.Intn(chunk + 1))
			if err != nil && !errors.Is(err, bipbuffer.ErrNoSpace) {
				return res, errors.Wrapf(err, "step %d: reserve", step)
			}
			if err == nil {
				for i := range block {
					block[i] = next + uint64(i)
				}
			}
		case op < 65:
			n := rng.Intn(len(block) + 1)
			err := b.Commit(n)
			if err != nil && !errors.Is(err, bipbuffer.ErrNoReservation) {
				return res, errors.Wrapf(err, "step %d: commit", step)
			}
			if err == nil {
				next += uint64(n)
				res.produced += uint64(n)
			}
			block = nil
		case op < 99:
			data, err := b.Read()
			if errors.Is(err, bipbuffer.ErrNoData) {
				break
			}
			for i, v := range data {
				if v != expected+uint64(i) {
					return res, errors.Errorf("step %d: read %d at offset %d, want %d", step, v, i, expected+uint64(i))
				}
			}
			released, err := b.Decommit(rng.Intn(len(data) + 1))
			if err != nil {
				return res, errors.Wrapf(err, "step %d: decommit", step)
			}
			expected += uint64(released)
			res.consumed += uint64(released)
		default:
			b.Clear()
			expected = next
			block = nil
		}

		if err := b.Validate(); err != nil {
			return res, errors.Wrapf(err, "step %d", step)
		}
		if got := b.CommittedLen(); uint64(got) != next-expected {
			return res, errors.Errorf("step %d: %d committed, want %d", step, got, next-expected)
		}
		res.steps = step
	}

	res.metrics = b.Metrics()
	return res, nil
}
