// Package wallet holds an account's key pair, derives its balance from the
// chain and constructs signed transactions.
package wallet

import (
	"crypto/ecdsa"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Wallet represents an account on the ledger. The balance is never stored,
// it's recalculated from the chain every time it's needed.
type Wallet struct {
	keys signature.KeyPair
}

// New constructs a wallet with a fresh key pair.
func New() (Wallet, error) {
	keys, err := signature.GenerateKeyPair()
	if err != nil {
		return Wallet{}, err
	}

	return Wallet{keys: keys}, nil
}

// FromPrivateKey constructs a wallet for an existing private key.
func FromPrivateKey(privateKey *ecdsa.PrivateKey) Wallet {
	return Wallet{keys: signature.NewKeyPair(privateKey)}
}

// Address returns the public key of the wallet which is the account address.
func (w Wallet) Address() string {
	return w.keys.Address()
}

// Sign signs the value with the wallet's private key.
func (w Wallet) Sign(value any) (string, error) {
	return w.keys.Sign(value)
}

// PrivateKey returns the wallet's private key so it can be saved.
func (w Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.keys.PrivateKey()
}

// Balance returns the wallet's balance on the specified chain.
func (w Wallet) Balance(blocks []database.Block) uint64 {
	return CalculateBalance(blocks, w.Address())
}

// CreateTransaction recalculates the balance from the chain and constructs
// a transaction sending amount to the recipient.
func (w Wallet) CreateTransaction(recipient string, amount uint64, blocks []database.Block) (database.Tx, error) {
	return database.NewTx(w, recipient, amount, w.Balance(blocks))
}

// =============================================================================

// CalculateBalance derives the balance of the address from the chain. The
// most recent transaction sent by the address is its checkpoint: the change
// it returned to itself is the starting point, otherwise the starting
// balance is used. Every amount received after the checkpoint is added.
func CalculateBalance(blocks []database.Block, address string) uint64 {
	type position struct {
		block int
		tx    int
	}

	// Locate the most recent transaction sent by this address. Ties on the
	// timestamp go to the one later in the chain.
	var (
		checkpoint    position
		hasCheckpoint bool
		checkpointAt  int64
	)
	for i, block := range blocks {
		for j, tx := range block.Data.Transactions() {
			if tx.Input.Address != address {
				continue
			}

			if !hasCheckpoint || tx.Input.Timestamp >= checkpointAt {
				checkpoint = position{block: i, tx: j}
				checkpointAt = tx.Input.Timestamp
				hasCheckpoint = true
			}
		}
	}

	balance := uint64(genesis.StartingBalance)
	if hasCheckpoint {
		balance = blocks[checkpoint.block].Data.Transactions()[checkpoint.tx].OutputMap[address]
	}

	for i, block := range blocks {
		for j, tx := range block.Data.Transactions() {
			if hasCheckpoint && checkpoint == (position{block: i, tx: j}) {
				continue
			}

			value, exists := tx.OutputMap[address]
			if !exists {
				continue
			}

			if hasCheckpoint && tx.Input.Timestamp <= checkpointAt {
				continue
			}

			balance += value
		}
	}

	return balance
}
