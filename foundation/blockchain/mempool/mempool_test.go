package mempool_test

import (
	"context"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newTx(t *testing.T, kp signature.KeyPair, recipient string, amount uint64, timestamp int64) database.Tx {
	t.Helper()

	tx, err := database.NewTx(kp, recipient, amount, genesis.StartingBalance)
	if err != nil {
		t.Fatalf("Should be able to create a transaction: %s", err)
	}
	tx.Input.Timestamp = timestamp

	return tx
}

func newKeyPair(t *testing.T) signature.KeyPair {
	t.Helper()

	kp, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}

	return kp
}

// =============================================================================

func TestCRUD(t *testing.T) {
	bill := newKeyPair(t)
	pavl := newKeyPair(t)

	t.Log("Given the need to validate mempool api.")
	{
		t.Logf("\tTest 0:\tWhen handling a set of transactions.")
		{
			mp := mempool.New()

			txs := []database.Tx{
				newTx(t, bill, "foo-address", 65, 300),
				newTx(t, pavl, "bar-address", 10, 100),
				newTx(t, bill, "baz-address", 30, 200),
			}
			for _, tx := range txs {
				mp.Upsert(tx)
			}

			if mp.Count() != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould be able to add new transactions: %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 0:\tShould be able to add new transactions.", success)

			mp.Upsert(txs[0])
			if mp.Count() != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould replace a transaction with the same id: %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 0:\tShould replace a transaction with the same id.", success)

			valid := mp.ValidTransactions()
			if len(valid) != 3 || valid[0].ID != txs[1].ID || valid[1].ID != txs[2].ID || valid[2].ID != txs[0].ID {
				t.Fatalf("\t%s\tTest 0:\tShould get back valid transactions oldest first.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get back valid transactions oldest first.", success)

			best := mp.PickBest()
			if len(best) != 2 || best[0].ID != txs[1].ID || best[1].ID != txs[2].ID {
				t.Fatalf("\t%s\tTest 0:\tShould pick one transaction per sender: %v", failed, best)
			}
			t.Logf("\t%s\tTest 0:\tShould pick one transaction per sender.", success)

			existing, exists := mp.ExistingTransaction(bill.Address())
			if !exists || existing.ID != txs[0].ID {
				t.Fatalf("\t%s\tTest 0:\tShould find the most recent transaction for a sender.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find the most recent transaction for a sender.", success)

			if _, exists := mp.ExistingTransaction("foo-address"); exists {
				t.Fatalf("\t%s\tTest 0:\tShould not find a transaction for an unknown sender.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not find a transaction for an unknown sender.", success)

			mp.Delete(txs[1])
			if mp.Count() != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould be able to remove a transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to remove a transaction.", success)

			mp.Truncate()
			if mp.Count() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould be able to truncate mempool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to truncate mempool.", success)
		}
	}
}

func TestValidTransactions(t *testing.T) {
	kp := newKeyPair(t)

	t.Log("Given the need to only mine valid transactions.")
	{
		t.Logf("\tTest 0:\tWhen the pool holds a tampered transaction.")
		{
			mp := mempool.New()

			good := newTx(t, kp, "foo-address", 65, 100)
			bad := newTx(t, kp, "bar-address", 10, 200)
			bad.OutputMap[kp.Address()] = 999999

			mp.Upsert(good)
			mp.Upsert(bad)

			valid := mp.ValidTransactions()
			if len(valid) != 1 || valid[0].ID != good.ID {
				t.Fatalf("\t%s\tTest 0:\tShould only get back the valid transaction: %v", failed, valid)
			}
			t.Logf("\t%s\tTest 0:\tShould only get back the valid transaction.", success)
		}
	}
}

func TestCopy(t *testing.T) {
	kp := newKeyPair(t)

	t.Log("Given the need to hand out the pool.")
	{
		t.Logf("\tTest 0:\tWhen changing a copy of the pool.")
		{
			mp := mempool.New()

			tx := newTx(t, kp, "foo-address", 65, 100)
			mp.Upsert(tx)

			cpy := mp.Copy()
			cpy[tx.ID].OutputMap["foo-address"] = 999999
			delete(cpy, tx.ID)

			pool := mp.Copy()
			got, exists := pool[tx.ID]
			if !exists || got.OutputMap["foo-address"] != 65 {
				t.Fatalf("\t%s\tTest 0:\tShould not change the pool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not change the pool.", success)
		}

		t.Logf("\tTest 1:\tWhen replacing the pool.")
		{
			mp := mempool.New()
			mp.Upsert(newTx(t, kp, "foo-address", 65, 100))

			other := newTx(t, kp, "bar-address", 10, 200)
			mp.Replace(map[string]database.Tx{other.ID: other})

			pool := mp.Copy()
			if _, exists := pool[other.ID]; !exists || len(pool) != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould adopt the new pool.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould adopt the new pool.", success)
		}
	}
}

func TestClearBlockchainTransactions(t *testing.T) {
	kp := newKeyPair(t)
	other := newKeyPair(t)

	t.Log("Given the need to drop transactions once they are mined.")
	{
		t.Logf("\tTest 0:\tWhen a block holds a pooled transaction.")
		{
			mp := mempool.New()

			mined := newTx(t, kp, "foo-address", 65, 100)
			pending := newTx(t, other, "bar-address", 10, 200)
			mp.Upsert(mined)
			mp.Upsert(pending)

			block, err := database.MineBlock(context.Background(), database.Genesis(), database.TxPayload([]database.Tx{mined}), func(string, ...any) {})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine a block: %s", failed, err)
			}

			mp.ClearBlockchainTransactions([]database.Block{database.Genesis(), block})

			pool := mp.Copy()
			if _, exists := pool[mined.ID]; exists {
				t.Fatalf("\t%s\tTest 0:\tShould remove the mined transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould remove the mined transaction.", success)

			if _, exists := pool[pending.ID]; !exists {
				t.Fatalf("\t%s\tTest 0:\tShould keep the pending transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the pending transaction.", success)
		}
	}
}
