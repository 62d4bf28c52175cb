package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// ValidateTransactionData checks the transactions carried by every block
// after genesis. A block may hold at most one reward and the reward must
// have the fixed shape. Every other transaction must be valid, claim the
// balance the ledger derives for its sender at that point of the chain and
// be the only transaction from that sender in the block. No transaction may
// appear twice in the same block. Blocks carrying raw data are skipped.
func ValidateTransactionData(blocks []database.Block, evHandler EventHandler) error {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	for i := 1; i < len(blocks); i++ {
		block := blocks[i]
		if block.Data.Kind() != database.PayloadTransactions {
			continue
		}

		var rewards int
		ids := make(map[string]bool)
		senders := make(map[string]bool)

		for _, tx := range block.Data.Transactions() {
			if ids[tx.ID] {
				ev("state: ValidateTransactionData: blk[%d]: an identical transaction appears more than once: tx[%s]", i, tx)
				return fmt.Errorf("%w: blk[%d]: duplicate tx[%s]", ErrTransactionSetInvalid, i, tx)
			}
			ids[tx.ID] = true

			if tx.IsReward() {
				rewards++
				if rewards > 1 {
					ev("state: ValidateTransactionData: blk[%d]: miner rewards exceed limit", i)
					return fmt.Errorf("%w: blk[%d]: rewards[%d]", ErrTransactionSetInvalid, i, rewards)
				}

				if err := database.ValidateRewardTx(tx); err != nil {
					ev("state: ValidateTransactionData: blk[%d]: miner reward amount is invalid: %s", i, err)
					return fmt.Errorf("%w: blk[%d]: %w", ErrTransactionSetInvalid, i, err)
				}

				continue
			}

			if err := database.ValidateTx(tx); err != nil {
				ev("state: ValidateTransactionData: blk[%d]: invalid transaction: %s", i, err)
				return fmt.Errorf("%w: blk[%d]: %w", ErrTransactionSetInvalid, i, err)
			}

			if senders[tx.Input.Address] {
				ev("state: ValidateTransactionData: blk[%d]: sender has more than one transaction: tx[%s]", i, tx)
				return fmt.Errorf("%w: blk[%d]: double spend tx[%s]", ErrTransactionSetInvalid, i, tx)
			}
			senders[tx.Input.Address] = true

			balance := wallet.CalculateBalance(blocks[:i], tx.Input.Address)
			if tx.Input.Amount != balance {
				ev("state: ValidateTransactionData: blk[%d]: invalid input amount: tx[%s]: amount[%d]: balance[%d]", i, tx, tx.Input.Amount, balance)
				return fmt.Errorf("%w: blk[%d]: tx[%s]: amount %d, balance %d", ErrTransactionSetInvalid, i, tx, tx.Input.Amount, balance)
			}
		}
	}

	return nil
}

// ValidTransactionData is the boolean form of ValidateTransactionData.
func ValidTransactionData(blocks []database.Block, evHandler EventHandler) bool {
	return ValidateTransactionData(blocks, evHandler) == nil
}
