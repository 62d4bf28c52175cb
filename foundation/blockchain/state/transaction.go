package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// ErrBalanceMismatch is returned when a submitted transaction claims an
// amount the ledger doesn't derive for its sender.
var ErrBalanceMismatch = errors.New("input amount does not match ledger balance")

// UpsertWalletTransaction sends value from the wallet. When the wallet
// already has a pending transaction the new output is added to it,
// otherwise a new transaction is created from the ledger balance.
func (s *State) UpsertWalletTransaction(w wallet.Wallet, recipient string, amount uint64) (database.Tx, error) {
	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	tx, exists := s.mempool.ExistingTransaction(w.Address())
	switch {
	case exists:
		if err := tx.Update(w, recipient, amount); err != nil {
			return database.Tx{}, err
		}
		s.evHandler("state: UpsertWalletTransaction: updated tx[%s]", tx)

	default:
		var err error
		s.withChain(func(blocks []database.Block) {
			tx, err = w.CreateTransaction(recipient, amount, blocks)
		})
		if err != nil {
			return database.Tx{}, err
		}
		s.evHandler("state: UpsertWalletTransaction: created tx[%s]", tx)
	}

	s.mempool.Upsert(tx)

	return tx, nil
}

// UpsertMempool accepts a transaction signed outside of the node. It must
// be valid and claim the balance the ledger derives for the sender.
func (s *State) UpsertMempool(tx database.Tx) error {
	if tx.IsReward() {
		return fmt.Errorf("%w: tx[%s] can only be issued by a miner", database.ErrInvalidReward, tx)
	}

	if err := database.ValidateTx(tx); err != nil {
		return err
	}

	balance := s.QueryBalance(tx.Input.Address)
	if tx.Input.Amount != balance {
		return fmt.Errorf("%w: tx[%s]: amount %d, balance %d", ErrBalanceMismatch, tx, tx.Input.Amount, balance)
	}

	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	n := s.mempool.Upsert(tx)
	s.evHandler("state: UpsertMempool: tx[%s]: pool[%d]", tx, n)

	return nil
}

// ReplaceMempool adopts the pool of another node.
func (s *State) ReplaceMempool(pool map[string]database.Tx) {
	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	s.mempool.Replace(pool)
	s.evHandler("state: ReplaceMempool: pool[%d]", len(pool))
}

// ClearMinedTransactions removes every pending transaction that is already
// on the chain. It's the callback used after a chain is replaced.
func (s *State) ClearMinedTransactions() {
	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	s.withChain(func(blocks []database.Block) {
		s.mempool.ClearBlockchainTransactions(blocks)
	})
	s.evHandler("state: ClearMinedTransactions: pool[%d]", s.mempool.Count())
}
