package database_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func noEvents(v string, args ...any) {}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start every chain from the same block.")
	{
		t.Logf("\tTest 0:\tWhen asking for the genesis block.")
		{
			g := database.Genesis()

			if g.Timestamp != 1 || g.LastHash != "-----" || g.Hash != "hash-one" || g.Nonce != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould get back the fixed genesis values: %+v", failed, g)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the fixed genesis values.", success)

			if g.Difficulty != genesis.InitialDifficulty {
				t.Fatalf("\t%s\tTest 0:\tShould start with the initial difficulty: %d", failed, g.Difficulty)
			}
			t.Logf("\t%s\tTest 0:\tShould start with the initial difficulty.", success)

			if g.Data.Kind() != database.PayloadTransactions || len(g.Data.Transactions()) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould carry an empty set of transactions.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould carry an empty set of transactions.", success)

			if signature.Hash(g) != signature.Hash(database.Genesis()) {
				t.Fatalf("\t%s\tTest 0:\tShould get back the same block every time.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the same block every time.", success)
		}
	}
}

func Test_MineBlock(t *testing.T) {
	t.Log("Given the need to mine a block.")
	{
		t.Logf("\tTest 0:\tWhen mining on top of genesis.")
		{
			last := database.Genesis()
			data := database.RawPayload("block-data")

			block, err := database.MineBlock(context.Background(), last, data, noEvents)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine a block: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine a block.", success)

			if block.LastHash != last.Hash {
				t.Logf("\t%s\tTest 0:\tgot: %s", failed, block.LastHash)
				t.Logf("\t%s\tTest 0:\texp: %s", failed, last.Hash)
				t.Fatalf("\t%s\tTest 0:\tShould link to the last block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould link to the last block.", success)

			if raw, ok := block.Data.Raw(); !ok || raw != "block-data" {
				t.Fatalf("\t%s\tTest 0:\tShould carry the data: %v", failed, block.Data)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the data.", success)

			if block.Hash != block.ComputeHash() {
				t.Fatalf("\t%s\tTest 0:\tShould hash to its own fields.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hash to its own fields.", success)

			if !database.IsHashSolved(block.Difficulty, block.Hash) {
				t.Fatalf("\t%s\tTest 0:\tShould solve the proof of work: %s", failed, block.Hash)
			}
			t.Logf("\t%s\tTest 0:\tShould solve the proof of work.", success)

			if d := int64(block.Difficulty) - int64(last.Difficulty); d != 1 && d != -1 {
				t.Fatalf("\t%s\tTest 0:\tShould adjust the difficulty by one: %d", failed, d)
			}
			t.Logf("\t%s\tTest 0:\tShould adjust the difficulty by one.", success)
		}

		t.Logf("\tTest 1:\tWhen the context is cancelled.")
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := database.MineBlock(ctx, database.Genesis(), database.RawPayload("x"), noEvents); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould stop mining.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould stop mining.", success)
		}
	}
}

func Test_AdjustDifficulty(t *testing.T) {
	type table struct {
		name       string
		difficulty uint64
		elapsed    int64
		exp        uint64
	}

	tt := []table{
		{name: "fast", difficulty: 3, elapsed: genesis.MineRate - 100, exp: 4},
		{name: "slow", difficulty: 3, elapsed: genesis.MineRate + 100, exp: 2},
		{name: "exact", difficulty: 3, elapsed: genesis.MineRate, exp: 2},
		{name: "floor", difficulty: 1, elapsed: genesis.MineRate + 100, exp: 1},
		{name: "zero", difficulty: 0, elapsed: genesis.MineRate + 100, exp: 1},
	}

	t.Log("Given the need to adjust the difficulty toward the mine rate.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s block.", testID, tst.name)
			{
				f := func(t *testing.T) {
					last := database.Block{
						Timestamp:  time.Now().UnixMilli(),
						Difficulty: tst.difficulty,
					}

					got := database.AdjustDifficulty(last, last.Timestamp+tst.elapsed)
					if got != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, got)
						t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get back the right difficulty.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right difficulty.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_IsHashSolved(t *testing.T) {
	type table struct {
		name       string
		hash       string
		difficulty uint64
		exp        bool
	}

	tt := []table{
		{name: "nibble", hash: "0fff", difficulty: 4, exp: true},
		{name: "nibble-short", hash: "0fff", difficulty: 5, exp: false},
		{name: "bits", hash: "1fff", difficulty: 3, exp: true},
		{name: "bits-short", hash: "1fff", difficulty: 4, exp: false},
		{name: "bytes", hash: "00007f", difficulty: 17, exp: true},
		{name: "not-hex", hash: "hash-one", difficulty: 1, exp: false},
		{name: "empty", hash: "", difficulty: 0, exp: false},
	}

	t.Log("Given the need to check leading zero bits.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking hash %q at difficulty %d.", testID, tst.hash, tst.difficulty)
			{
				f := func(t *testing.T) {
					if got := database.IsHashSolved(tst.difficulty, tst.hash); got != tst.exp {
						t.Fatalf("\t%s\tTest %d:\tShould get back %v.", failed, testID, tst.exp)
					}
					t.Logf("\t%s\tTest %d:\tShould get back %v.", success, testID, tst.exp)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_BlockJSON(t *testing.T) {
	kp, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}

	tx, err := database.NewTx(kp, "foo-address", 65, genesis.StartingBalance)
	if err != nil {
		t.Fatalf("Should be able to create a transaction: %s", err)
	}

	t.Log("Given the need to send blocks across the wire.")
	{
		payloads := []database.Payload{
			database.RawPayload("Bears"),
			database.TxPayload([]database.Tx{tx, database.NewRewardTx(kp.Address())}),
		}

		for testID, payload := range payloads {
			t.Logf("\tTest %d:\tWhen handling a %s payload.", testID, payload.Kind())
			{
				block, err := database.MineBlock(context.Background(), database.Genesis(), payload, noEvents)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
				}

				data, err := json.Marshal(block)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to marshal the block: %s", failed, testID, err)
				}

				var got database.Block
				if err := json.Unmarshal(data, &got); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the block: %s", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to round trip the block.", success, testID)

				if got.Data.Kind() != payload.Kind() {
					t.Fatalf("\t%s\tTest %d:\tShould keep the payload kind.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould keep the payload kind.", success, testID)

				if got.ComputeHash() != block.Hash {
					t.Fatalf("\t%s\tTest %d:\tShould still hash to the same value.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould still hash to the same value.", success, testID)

				for _, tx := range got.Data.Transactions() {
					if err := database.ValidateTx(tx); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould still validate transactions: %s", failed, testID, err)
					}
				}
				t.Logf("\t%s\tTest %d:\tShould still validate transactions.", success, testID)
			}
		}
	}
}

func Test_Clone(t *testing.T) {
	kp, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}

	t.Log("Given the need to hand out copies of blocks.")
	{
		t.Logf("\tTest 0:\tWhen changing the output map of a cloned block.")
		{
			reward := database.NewRewardTx(kp.Address())
			block := database.Block{Data: database.TxPayload([]database.Tx{reward})}

			cpy := block.Clone()
			cpy.Data.Transactions()[0].OutputMap[kp.Address()] = 999999

			if block.Data.Transactions()[0].OutputMap[kp.Address()] != genesis.MiningReward {
				t.Fatalf("\t%s\tTest 0:\tShould not change the original block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not change the original block.", success)
		}
	}
}
