// Package mempool maintains the pool of transactions waiting to be mined.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Mempool represents a cache of pending transactions keyed by transaction id.
type Mempool struct {
	pool map[string]database.Tx
	mu   sync.RWMutex
}

// New constructs an empty mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]database.Tx),
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool and returns the new
// size of the pool.
func (mp *Mempool) Upsert(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[tx.ID] = tx.Clone()

	return len(mp.pool)
}

// Delete removes a transaction from the mempool.
func (mp *Mempool) Delete(tx database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, tx.ID)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]database.Tx)
}

// Replace swaps the pool for the specified set of transactions. This is
// used to adopt the pool of another node.
func (mp *Mempool) Replace(pool map[string]database.Tx) {
	cpy := make(map[string]database.Tx, len(pool))
	for id, tx := range pool {
		cpy[id] = tx.Clone()
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = cpy
}

// Copy returns a deep copy of the pool keyed by transaction id.
func (mp *Mempool) Copy() map[string]database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make(map[string]database.Tx, len(mp.pool))
	for id, tx := range mp.pool {
		cpy[id] = tx.Clone()
	}

	return cpy
}

// ExistingTransaction returns the pending transaction sent by the address.
// When the address has more than one, the most recent is returned.
func (mp *Mempool) ExistingTransaction(address string) (database.Tx, bool) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var (
		found  database.Tx
		exists bool
	)
	for _, tx := range mp.pool {
		if tx.Input.Address != address {
			continue
		}
		if !exists || tx.Input.Timestamp > found.Input.Timestamp {
			found = tx
			exists = true
		}
	}

	if !exists {
		return database.Tx{}, false
	}

	return found.Clone(), true
}

// ValidTransactions returns the transactions in the pool that pass
// validation, oldest first.
func (mp *Mempool) ValidTransactions() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var txs []database.Tx
	for _, tx := range mp.pool {
		if tx.IsValid() {
			txs = append(txs, tx.Clone())
		}
	}

	sortByTimestamp(txs)

	return txs
}

// PickBest returns the next set of transactions for a block. Only valid
// transactions are considered and a sender gets at most one transaction,
// the oldest one it has pending.
func (mp *Mempool) PickBest() []database.Tx {
	return oldestPerSender(mp.ValidTransactions())
}

// ClearBlockchainTransactions removes every transaction that is already
// part of the chain.
func (mp *Mempool) ClearBlockchainTransactions(blocks []database.Block) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, block := range blocks {
		for _, tx := range block.Data.Transactions() {
			delete(mp.pool, tx.ID)
		}
	}
}
