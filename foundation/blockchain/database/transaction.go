package database

import (
	"fmt"
	"math"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/google/uuid"
)

// Signer represents the behavior required to sign transactions on behalf
// of an account.
type Signer interface {
	Address() string
	Sign(value any) (string, error)
}

// =============================================================================

// Input describes who is spending and how much they hold.
type Input struct {
	Timestamp int64  `json:"timestamp"`           // Unix milliseconds when the transaction was signed.
	Amount    uint64 `json:"amount"`              // Balance of the sender at signing time.
	Address   string `json:"address"`             // Public key of the sender.
	Signature string `json:"signature,omitempty"` // Signature over the output map.
}

// Tx is a signed value transfer. The output map holds every destination of
// the input amount, including the change returned to the sender.
type Tx struct {
	ID        string            `json:"id"`
	OutputMap map[string]uint64 `json:"output_map"`
	Input     Input             `json:"input"`
}

// NewTx constructs a transaction sending amount to the recipient and the
// rest of the balance back to the signer.
func NewTx(signer Signer, recipient string, amount uint64, balance uint64) (Tx, error) {
	sender := signer.Address()

	if recipient == "" || recipient == sender {
		return Tx{}, fmt.Errorf("%w: %q", ErrInvalidRecipient, recipient)
	}

	if amount > balance {
		return Tx{}, fmt.Errorf("%w: amount %d, balance %d", ErrInsufficientFunds, amount, balance)
	}

	outputMap := map[string]uint64{
		recipient: amount,
		sender:    balance - amount,
	}

	sig, err := signer.Sign(outputMap)
	if err != nil {
		return Tx{}, fmt.Errorf("signing output map: %w", err)
	}

	tx := Tx{
		ID:        uuid.NewString(),
		OutputMap: outputMap,
		Input: Input{
			Timestamp: time.Now().UnixMilli(),
			Amount:    balance,
			Address:   sender,
			Signature: sig,
		},
	}

	return tx, nil
}

// NewRewardTx constructs the transaction crediting the miner for a block.
// It has no signature, the reserved input address marks it as a reward.
func NewRewardTx(minerAddress string) Tx {
	return Tx{
		ID: uuid.NewString(),
		OutputMap: map[string]uint64{
			minerAddress: genesis.MiningReward,
		},
		Input: Input{
			Timestamp: time.Now().UnixMilli(),
			Amount:    genesis.MiningReward,
			Address:   genesis.RewardAddress,
		},
	}
}

// Update sends more value from the same sender within this transaction.
// The amount is taken from the sender's change and the output map is
// signed again.
func (tx *Tx) Update(signer Signer, recipient string, amount uint64) error {
	sender := signer.Address()

	if sender != tx.Input.Address {
		return fmt.Errorf("%w: signer %s does not own transaction %s", ErrSignatureMismatch, sender, tx.ID)
	}

	if recipient == "" || recipient == sender {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, recipient)
	}

	change := tx.OutputMap[sender]
	if amount > change {
		return fmt.Errorf("%w: amount %d, balance %d", ErrInsufficientFunds, amount, change)
	}

	outputMap := make(map[string]uint64, len(tx.OutputMap)+1)
	for address, value := range tx.OutputMap {
		outputMap[address] = value
	}
	outputMap[recipient] += amount
	outputMap[sender] = change - amount

	sig, err := signer.Sign(outputMap)
	if err != nil {
		return fmt.Errorf("signing output map: %w", err)
	}

	tx.OutputMap = outputMap
	tx.Input.Timestamp = time.Now().UnixMilli()
	tx.Input.Signature = sig

	return nil
}

// IsReward reports whether this is a reward transaction.
func (tx Tx) IsReward() bool {
	return tx.Input.Address == genesis.RewardAddress
}

// IsValid is the boolean form of ValidateTx.
func (tx Tx) IsValid() bool {
	return ValidateTx(tx) == nil
}

// Clone returns a deep copy of the transaction.
func (tx Tx) Clone() Tx {
	if tx.OutputMap == nil {
		return tx
	}

	outputMap := make(map[string]uint64, len(tx.OutputMap))
	for address, value := range tx.OutputMap {
		outputMap[address] = value
	}
	tx.OutputMap = outputMap

	return tx
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%.10s", tx.ID, tx.Input.Address)
}

// =============================================================================

// ValidateTx checks the output map adds up to the input amount and the
// signature matches the output map. Reward transactions are checked for
// their fixed shape instead.
func ValidateTx(tx Tx) error {
	if tx.IsReward() {
		return ValidateRewardTx(tx)
	}

	total, ok := outputTotal(tx.OutputMap)
	if !ok || total != tx.Input.Amount {
		return fmt.Errorf("%w: tx[%s]: outputs %d, amount %d", ErrOutputSumMismatch, tx, total, tx.Input.Amount)
	}

	if !signature.Verify(tx.Input.Address, tx.OutputMap, tx.Input.Signature) {
		return fmt.Errorf("%w: tx[%s]", ErrSignatureMismatch, tx)
	}

	return nil
}

// ValidateRewardTx checks a reward transaction credits exactly one miner
// with exactly the mining reward.
func ValidateRewardTx(tx Tx) error {
	if !tx.IsReward() {
		return fmt.Errorf("%w: tx[%s] is not a reward", ErrInvalidReward, tx)
	}

	if len(tx.OutputMap) != 1 {
		return fmt.Errorf("%w: tx[%s]: outputs[%d]", ErrInvalidReward, tx, len(tx.OutputMap))
	}

	for _, value := range tx.OutputMap {
		if value != genesis.MiningReward {
			return fmt.Errorf("%w: tx[%s]: reward %d, exp %d", ErrInvalidReward, tx, value, genesis.MiningReward)
		}
	}

	if tx.Input.Amount != genesis.MiningReward {
		return fmt.Errorf("%w: tx[%s]: amount %d, exp %d", ErrInvalidReward, tx, tx.Input.Amount, genesis.MiningReward)
	}

	return nil
}

// outputTotal sums the output map and reports false on overflow.
func outputTotal(outputMap map[string]uint64) (uint64, bool) {
	var total uint64
	for _, value := range outputMap {
		if value > math.MaxUint64-total {
			return 0, false
		}
		total += value
	}

	return total, true
}
