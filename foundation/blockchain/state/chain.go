package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// AddBlock mines a new block carrying the data on top of the latest block
// and appends it to the chain. The work is performed without holding the
// lock. If the chain changed while mining, the block is mined again on top
// of the new latest block. The only failure is the context being cancelled.
func (s *State) AddBlock(ctx context.Context, data database.Payload) (database.Block, error) {
	s.evHandler("state: AddBlock: started: kind[%s]", data.Kind())
	defer s.evHandler("state: AddBlock: completed")

	data = data.Clone()

	for {
		parent := s.RetrieveLatestBlock()

		block, err := database.MineBlock(ctx, parent, data, s.evHandler)
		if err != nil {
			return database.Block{}, err
		}

		// Just check one more time we were not cancelled.
		if err := ctx.Err(); err != nil {
			return database.Block{}, err
		}

		if s.appendBlock(parent, block) {
			s.evHandler("state: AddBlock: appended: blk[%s]: height[%d]", block.Hash, s.Height())
			return block.Clone(), nil
		}

		s.evHandler("state: AddBlock: latest block changed while mining: parent[%s]: mining again", parent.Hash)
	}
}

// appendBlock adds the block to the chain only if its parent is still the
// latest block.
func (s *State) appendBlock(parent database.Block, block database.Block) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.blocks[len(s.blocks)-1].Hash != parent.Hash {
		return false
	}

	s.blocks = append(s.blocks, block)

	return true
}

// ReplaceChain swaps the current chain for the candidate if the candidate is
// longer and valid. Transaction data is only checked when asked for. On
// success any mining in progress is cancelled and onSuccess is called once
// the lock is released. A rejected candidate leaves the chain untouched.
func (s *State) ReplaceChain(candidate []database.Block, validateTransactions bool, onSuccess func()) error {
	s.evHandler("state: ReplaceChain: started: candidate[%d]: validateTransactions[%v]", len(candidate), validateTransactions)
	defer s.evHandler("state: ReplaceChain: completed")

	// If a mining operation is running it needs to stop. The worker will
	// not start new work until done is called, which happens once the chain
	// has been swapped and the callback has run.
	done, err := s.replaceChain(candidate, validateTransactions)
	if err != nil {
		return err
	}
	defer done()

	if onSuccess != nil {
		s.evHandler("state: ReplaceChain: running success callback")
		onSuccess()
	}

	return nil
}

// replaceChain performs the checks and the swap as one critical section.
func (s *State) replaceChain(candidate []database.Block, validateTransactions bool) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(candidate) <= len(s.blocks) {
		s.evHandler("state: ReplaceChain: REJECTED: the incoming chain must be longer: current[%d]: candidate[%d]", len(s.blocks), len(candidate))
		return nil, fmt.Errorf("%w: current[%d], candidate[%d]", ErrChainTooShort, len(s.blocks), len(candidate))
	}

	if err := database.ValidateChain(candidate); err != nil {
		s.evHandler("state: ReplaceChain: REJECTED: the incoming chain must be valid: %s", err)
		return nil, err
	}

	if validateTransactions {
		if err := ValidateTransactionData(candidate, s.evHandler); err != nil {
			s.evHandler("state: ReplaceChain: REJECTED: the incoming chain has invalid data: %s", err)
			return nil, err
		}
	}

	blocks := make([]database.Block, len(candidate))
	for i, block := range candidate {
		blocks[i] = block.Clone()
	}

	done := s.signalCancelMining()

	s.blocks = blocks
	s.evHandler("state: ReplaceChain: ACCEPTED: replacing chain: height[%d]: latestBlk[%s]", len(blocks), blocks[len(blocks)-1].Hash)

	return done, nil
}
