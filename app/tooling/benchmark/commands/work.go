// Package commands contains the functionality for the benchmark tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the time it took to mine each block.
type Stats struct {
	Blocks     int
	Mean       time.Duration
	StdDev     time.Duration
	Difficulty uint64
}

// Work mines the number of blocks on a fresh ledger and reports the time it
// took to mine each one along with the running average. Over enough blocks
// the average settles around the mine rate.
func Work(ctx context.Context, out io.Writer, blocks int, evHandler state.EventHandler) (Stats, error) {
	st := state.New(state.Config{
		EvHandler: evHandler,
	})

	// The genesis timestamp is fixed in the past, so the first interval is
	// measured from an initial block instead.
	prev, err := st.AddBlock(ctx, database.RawPayload("initial"))
	if err != nil {
		return Stats{}, fmt.Errorf("mining initial block: %w", err)
	}
	times := make([]float64, 0, blocks)

	for i := 0; i < blocks; i++ {
		block, err := st.AddBlock(ctx, database.RawPayload(fmt.Sprintf("block %d", i)))
		if err != nil {
			return Stats{}, fmt.Errorf("mining block %d: %w", i, err)
		}

		timeDiff := float64(block.Timestamp - prev.Timestamp)
		times = append(times, timeDiff)
		prev = block

		fmt.Fprintf(out, "Time to mine block: %.0fms. Difficulty: %d. Average time: %.2fms\n",
			timeDiff, block.Difficulty, stat.Mean(times, nil))
	}

	if len(times) == 0 {
		return Stats{Difficulty: prev.Difficulty}, nil
	}

	mean, stdDev := stat.MeanStdDev(times, nil)
	if len(times) == 1 {
		stdDev = 0
	}

	s := Stats{
		Blocks:     len(times),
		Mean:       time.Duration(mean * float64(time.Millisecond)),
		StdDev:     time.Duration(stdDev * float64(time.Millisecond)),
		Difficulty: prev.Difficulty,
	}

	fmt.Fprintf(out, "Blocks: %d. Mean: %v. StdDev: %v. Final difficulty: %d\n", s.Blocks, s.Mean, s.StdDev, s.Difficulty)

	return s, nil
}
