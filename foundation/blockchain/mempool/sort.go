package mempool

import (
	"sort"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// sortByTimestamp orders the transactions by the time they were signed.
func sortByTimestamp(txs []database.Tx) {
	sort.Sort(byTimestamp(txs))
}

// oldestPerSender takes transactions ordered by timestamp and keeps the
// first one for every sender. A block can't carry two transactions from
// the same sender since both would claim the same balance.
func oldestPerSender(txs []database.Tx) []database.Tx {

	/*
		Bill: {Timestamp: 100, To: "foo-address", Amount: 65},
		Pavl: {Timestamp: 150, To: "bar-address", Amount: 10},
		Bill: {Timestamp: 200, To: "baz-address", Amount: 30},

		Bill's second transaction waits for the next block. By then its
		input amount no longer matches the ledger and the miner drops it.
	*/

	seen := make(map[string]bool)

	var final []database.Tx
	for _, tx := range txs {
		if seen[tx.Input.Address] {
			continue
		}
		seen[tx.Input.Address] = true
		final = append(final, tx)
	}

	return final
}

// =============================================================================

// byTimestamp provides sorting support by the input timestamp.
type byTimestamp []database.Tx

// Len returns the number of transactions in the list.
func (bt byTimestamp) Len() int {
	return len(bt)
}

// Less helps to sort the list by timestamp in ascending order. Ties are
// broken on the id so the order is stable across calls.
func (bt byTimestamp) Less(i, j int) bool {
	if bt[i].Input.Timestamp == bt[j].Input.Timestamp {
		return bt[i].ID < bt[j].ID
	}
	return bt[i].Input.Timestamp < bt[j].Input.Timestamp
}

// Swap moves transactions in the order of the timestamp value.
func (bt byTimestamp) Swap(i, j int) {
	bt[i], bt[j] = bt[j], bt[i]
}
