package database

import "errors"

// Set of errors for transaction and chain validation.
var (
	ErrInsufficientFunds = errors.New("amount exceeds balance")
	ErrInvalidRecipient  = errors.New("invalid recipient")
	ErrOutputSumMismatch = errors.New("output total does not match input amount")
	ErrSignatureMismatch = errors.New("signature does not match output map")
	ErrInvalidReward     = errors.New("invalid mining reward")
	ErrChainInvalid      = errors.New("chain is invalid")
)
