// Package state is the core API for the ledger and implements all the
// business rules for extending, replacing and validating the chain.
package state

import (
	"errors"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// Set of errors for rejecting a replacement chain. A structurally broken
// chain is reported with database.ErrChainInvalid.
var (
	ErrChainTooShort         = errors.New("chain is not longer than the current chain")
	ErrTransactionSetInvalid = errors.New("chain has invalid transaction data")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the chain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining transactions.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining() (done func())
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	EvHandler EventHandler
}

// State manages the chain and the pool of pending transactions.
type State struct {
	evHandler EventHandler

	mu     sync.RWMutex
	blocks []database.Block

	poolMu  sync.Mutex
	mempool *mempool.Mempool

	Worker Worker
}

// New constructs a new ledger holding only the genesis block.
func New(cfg Config) *State {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	state := State{
		evHandler: ev,
		blocks:    []database.Block{database.Genesis()},
		mempool:   mempool.New(),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all mining activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}
}

// signalCancelMining asks the worker to stop any mining in progress. The
// worker waits for done to be called before it picks up new work.
func (s *State) signalCancelMining() (done func()) {
	if s.Worker == nil {
		return func() {}
	}

	return s.Worker.SignalCancelMining()
}

// SignalStartMining asks the worker to mine the pending transactions. It
// does nothing when no worker is running.
func (s *State) SignalStartMining() {
	if s.Worker == nil {
		return
	}

	s.Worker.SignalStartMining()
}
