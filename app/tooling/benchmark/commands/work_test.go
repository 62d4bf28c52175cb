package commands_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/app/tooling/benchmark/commands"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestWork(t *testing.T) {
	t.Log("Given the need to measure the time it takes to mine.")
	{
		t.Logf("\tTest 0:\tWhen mining a handful of blocks.")
		{
			var buf bytes.Buffer
			s, err := commands.Work(context.Background(), &buf, 3, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the blocks : %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine the blocks.", success)

			if s.Blocks != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould report three blocks : %d", failed, s.Blocks)
			}
			t.Logf("\t%s\tTest 0:\tShould report three blocks.", success)

			// Starting at the initial difficulty the blocks come well inside
			// the mine rate, so the statistics stay within a few multiples
			// of it.
			limit := 10 * genesis.MineRateDuration()
			if s.Mean < 0 || s.Mean > limit {
				t.Fatalf("\t%s\tTest 0:\tShould report a mean within %v : %v", failed, limit, s.Mean)
			}
			if s.StdDev > limit {
				t.Fatalf("\t%s\tTest 0:\tShould report a standard deviation within %v : %v", failed, limit, s.StdDev)
			}
			t.Logf("\t%s\tTest 0:\tShould measure from the initial block, not genesis.", success)

			if got := strings.Count(buf.String(), "Time to mine block"); got != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould print a line per block : %d", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould print a line per block.", success)
		}

		t.Logf("\tTest 1:\tWhen the context is cancelled.")
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			var buf bytes.Buffer
			if _, err := commands.Work(ctx, &buf, 3, nil); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould stop mining.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould stop mining.", success)
		}
	}
}
