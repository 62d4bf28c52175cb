package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// RetrieveChain returns a deep copy of the chain. Changing the copy never
// changes the chain held by the state.
func (s *State) RetrieveChain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := make([]database.Block, len(s.blocks))
	for i, block := range s.blocks {
		blocks[i] = block.Clone()
	}

	return blocks
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.blocks[len(s.blocks)-1].Clone()
}

// Height returns the number of blocks in the chain, genesis included.
func (s *State) Height() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.blocks)
}

// RetrieveMempool returns a copy of the pending transactions keyed by id.
func (s *State) RetrieveMempool() map[string]database.Tx {
	return s.mempool.Copy()
}

// withChain calls the function with the chain while holding the read lock.
// The function must not hold on to the blocks or change them.
func (s *State) withChain(fn func(blocks []database.Block)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fn(s.blocks)
}
