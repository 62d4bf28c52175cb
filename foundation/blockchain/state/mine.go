package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no transactions ready to be mined.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// MineNewBlock takes the pending transactions that are still backed by the
// ledger, rewards the miner and adds them to the chain as a new block. The
// mined transactions are then removed from the mempool.
func (s *State) MineNewBlock(ctx context.Context, minerAddress string) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: select transactions")

	txs := s.selectTransactions()
	if len(txs) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: txs[%d]", len(txs))

	txs = append(txs, database.NewRewardTx(minerAddress))

	block, err := s.AddBlock(ctx, database.TxPayload(txs))
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: remove mined transactions from mempool")

	s.ClearMinedTransactions()

	return block, nil
}

// selectTransactions picks the next transactions from the mempool and drops
// the ones whose input amount no longer matches the ledger. Those can never
// be mined so they are removed from the mempool.
func (s *State) selectTransactions() []database.Tx {
	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	var final []database.Tx
	s.withChain(func(blocks []database.Block) {
		for _, tx := range s.mempool.PickBest() {
			balance := wallet.CalculateBalance(blocks, tx.Input.Address)
			if tx.Input.Amount != balance {
				s.evHandler("state: MineNewBlock: MINING: WARNING: dropping stale tx[%s]: amount[%d]: balance[%d]", tx, tx.Input.Amount, balance)
				s.mempool.Delete(tx)
				continue
			}
			final = append(final, tx)
		}
	})

	return final
}
