// Package genesis maintains the protocol constants and the values of the
// genesis block every chain starts from.
package genesis

import "time"

// Protocol constants shared by every node on the ledger.
const (
	MineRate          = 1000 // Target time between blocks in milliseconds.
	InitialDifficulty = 3    // Number of leading zero bits for the genesis block.
	StartingBalance   = 1000 // Balance of an address that never sent a transaction.
	MiningReward      = 50   // Amount credited to a miner for each block.
)

// RewardAddress is the reserved input address used by reward transactions.
// No key pair maps to this value.
const RewardAddress = "*authorized-reward*"

// Genesis represents the fixed values of the first block.
type Genesis struct {
	Timestamp  int64
	LastHash   string
	Hash       string
	Difficulty uint64
	Nonce      uint64
}

// Block returns the genesis values. They never change.
func Block() Genesis {
	return Genesis{
		Timestamp:  1,
		LastHash:   "-----",
		Hash:       "hash-one",
		Difficulty: InitialDifficulty,
		Nonce:      0,
	}
}

// MineRateDuration returns the mine rate as a duration for reporting.
func MineRateDuration() time.Duration {
	return MineRate * time.Millisecond
}
