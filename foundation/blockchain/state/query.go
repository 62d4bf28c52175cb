package state

import (
	"sort"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// QueryBlocksPage returns a page of blocks with the newest block first.
// Pages start at 1. A page past the end of the chain is empty.
func (s *State) QueryBlocksPage(page int, perPage int) []database.Block {
	if page < 1 || perPage < 1 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	end := len(s.blocks) - (page-1)*perPage
	if end <= 0 {
		return nil
	}

	start := max(end-perPage, 0)

	out := make([]database.Block, 0, end-start)
	for i := end - 1; i >= start; i-- {
		out = append(out, s.blocks[i].Clone())
	}

	return out
}

// QueryBalance derives the balance of the address from the current chain.
func (s *State) QueryBalance(address string) uint64 {
	var balance uint64
	s.withChain(func(blocks []database.Block) {
		balance = wallet.CalculateBalance(blocks, address)
	})

	return balance
}

// QueryKnownAddresses returns every address that has received value on the
// chain, sorted. The reserved reward address is never included.
func (s *State) QueryKnownAddresses() []string {
	known := make(map[string]bool)
	s.withChain(func(blocks []database.Block) {
		for _, block := range blocks {
			for _, tx := range block.Data.Transactions() {
				for address := range tx.OutputMap {
					known[address] = true
				}
			}
		}
	})
	delete(known, genesis.RewardAddress)

	addresses := make([]string, 0, len(known))
	for address := range known {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	return addresses
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}
