// Package errs provides types and support for reporting request failures.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (t *Trusted) Error() string {
	return t.Err.Error()
}

// Unwrap exposes the wrapped ledger error.
func (t *Trusted) Unwrap() error {
	return t.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var t *Trusted
	return errors.As(err, &t)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var t *Trusted
	if !errors.As(err, &t) {
		return nil
	}
	return t
}

// =============================================================================

// rejections maps the errors the ledger returns for bad input to the status
// reported back to the caller.
var rejections = []struct {
	err    error
	status int
}{
	{state.ErrChainTooShort, http.StatusConflict},
	{state.ErrNoTransactions, http.StatusConflict},
	{state.ErrTransactionSetInvalid, http.StatusBadRequest},
	{state.ErrBalanceMismatch, http.StatusBadRequest},
	{database.ErrChainInvalid, http.StatusBadRequest},
	{database.ErrInsufficientFunds, http.StatusBadRequest},
	{database.ErrInvalidRecipient, http.StatusBadRequest},
	{database.ErrOutputSumMismatch, http.StatusBadRequest},
	{database.ErrSignatureMismatch, http.StatusBadRequest},
	{database.ErrInvalidReward, http.StatusBadRequest},
}

// FromLedger converts an error returned by the ledger into a trusted error
// when it was caused by the caller's input. Any other error is returned
// unchanged and is reported as an internal failure.
func FromLedger(err error) error {
	if err == nil || IsTrusted(err) {
		return err
	}

	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return NewTrusted(err, r.status)
		}
	}

	return err
}
