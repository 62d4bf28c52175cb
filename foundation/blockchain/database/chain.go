package database

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// ValidateChain checks the structure of a candidate chain. It starts with
// the genesis block and every block after it links to its parent, hashes
// to its own fields, solves its proof of work and moves the difficulty by
// no more than one without dropping below one.
func ValidateChain(blocks []Block) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: chain is empty", ErrChainInvalid)
	}

	if signature.Hash(blocks[0]) != signature.Hash(Genesis()) {
		return fmt.Errorf("%w: first block is not genesis", ErrChainInvalid)
	}

	for i := 1; i < len(blocks); i++ {
		if err := ValidateBlock(blocks[i], blocks[i-1]); err != nil {
			return fmt.Errorf("%w: blk[%d]: %s", ErrChainInvalid, i, err)
		}
	}

	return nil
}

// IsValidChain is the boolean form of ValidateChain.
func IsValidChain(blocks []Block) bool {
	return ValidateChain(blocks) == nil
}

// ValidateBlock takes a block and validates it against its parent.
func ValidateBlock(block Block, parent Block) error {
	if block.LastHash != parent.Hash {
		return fmt.Errorf("last hash doesn't match parent, got %s, exp %s", block.LastHash, parent.Hash)
	}

	if hash := block.ComputeHash(); block.Hash != hash {
		return fmt.Errorf("hash doesn't match block fields, got %s, exp %s", block.Hash, hash)
	}

	if block.Difficulty < 1 {
		return fmt.Errorf("difficulty %d is below the minimum of 1", block.Difficulty)
	}

	if diff(block.Difficulty, parent.Difficulty) > 1 {
		return fmt.Errorf("difficulty jumped, parent %d, block %d", parent.Difficulty, block.Difficulty)
	}

	if !IsHashSolved(block.Difficulty, block.Hash) {
		return fmt.Errorf("hash %s doesn't solve difficulty %d", block.Hash, block.Difficulty)
	}

	return nil
}

func diff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
