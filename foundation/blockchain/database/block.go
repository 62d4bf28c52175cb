// Package database defines the blocks and transactions of the ledger and the
// rules that validate them.
package database

import (
	"context"
	"encoding/hex"
	"math/bits"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Block represents a mined unit of the chain. Once mined a block is never
// changed, the hash recomputed from its own fields must always match.
type Block struct {
	Timestamp  int64   `json:"timestamp"`  // Unix milliseconds when the block was mined.
	LastHash   string  `json:"last_hash"`  // Hash of the previous block in the chain.
	Hash       string  `json:"hash"`       // Hash of this block's fields.
	Nonce      uint64  `json:"nonce"`      // Value identified to solve the hash solution.
	Difficulty uint64  `json:"difficulty"` // Number of leading zero bits needed to solve the hash solution.
	Data       Payload `json:"data"`       // Raw value or set of transactions.
}

// Genesis returns the first block shared by every chain.
func Genesis() Block {
	g := genesis.Block()

	return Block{
		Timestamp:  g.Timestamp,
		LastHash:   g.LastHash,
		Hash:       g.Hash,
		Nonce:      g.Nonce,
		Difficulty: g.Difficulty,
		Data:       TxPayload(nil),
	}
}

// MineBlock constructs a new block on top of the last block and performs
// the work to find a nonce that solves the proof of work puzzle. The search
// only stops early when the context is cancelled.
func MineBlock(ctx context.Context, lastBlock Block, data Payload, evHandler func(v string, args ...any)) (Block, error) {
	evHandler("database: MineBlock: MINING: started: lastBlk[%s]", lastBlock.Hash)
	defer evHandler("database: MineBlock: MINING: completed")

	var nonce uint64
	for {
		nonce++
		if nonce%1_000_000 == 0 {
			evHandler("database: MineBlock: MINING: attempts[%d]", nonce)
		}

		// Did we get cancelled trying to solve the problem.
		if err := ctx.Err(); err != nil {
			evHandler("database: MineBlock: MINING: CANCELLED")
			return Block{}, err
		}

		// The difficulty follows the timestamp, so it is recalculated on
		// every attempt.
		timestamp := time.Now().UnixMilli()
		difficulty := AdjustDifficulty(lastBlock, timestamp)

		hash := signature.Hash(timestamp, lastBlock.Hash, difficulty, nonce, data)
		if !IsHashSolved(difficulty, hash) {
			continue
		}

		evHandler("database: MineBlock: MINING: SOLVED: lastBlk[%s]: newBlk[%s]: difficulty[%d]: attempts[%d]", lastBlock.Hash, hash, difficulty, nonce)

		nb := Block{
			Timestamp:  timestamp,
			LastHash:   lastBlock.Hash,
			Hash:       hash,
			Nonce:      nonce,
			Difficulty: difficulty,
			Data:       data,
		}

		return nb, nil
	}
}

// AdjustDifficulty returns the difficulty for a block mined at the
// specified timestamp on top of the last block. Blocks that come faster
// than the mine rate get harder, slower ones get easier, never below 1.
func AdjustDifficulty(lastBlock Block, timestamp int64) uint64 {
	difficulty := lastBlock.Difficulty

	if timestamp-lastBlock.Timestamp < genesis.MineRate {
		return difficulty + 1
	}

	if difficulty <= 1 {
		return 1
	}

	return difficulty - 1
}

// ComputeHash recomputes the hash from the block's own fields.
func (b Block) ComputeHash() string {
	return signature.Hash(b.Timestamp, b.LastHash, b.Difficulty, b.Nonce, b.Data)
}

// Clone returns a deep copy of the block so the caller can't change the
// transactions of the original.
func (b Block) Clone() Block {
	b.Data = b.Data.Clone()
	return b
}

// IsHashSolved checks the hash to make sure it complies with the proof of
// work rules. The hex hash is read as bits and needs at least difficulty
// leading zero bits.
func IsHashSolved(difficulty uint64, hash string) bool {
	raw, err := hex.DecodeString(hash)
	if err != nil || len(raw) == 0 {
		return false
	}

	return leadingZeroBits(raw) >= difficulty
}

// leadingZeroBits counts the zero bits before the first set bit.
func leadingZeroBits(raw []byte) uint64 {
	var zeros uint64
	for _, b := range raw {
		if b != 0 {
			return zeros + uint64(bits.LeadingZeros8(b))
		}
		zeros += 8
	}

	return zeros
}
