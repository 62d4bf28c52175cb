// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Wallet wallet.Wallet
	NS     *nameservice.NameService
	WS     websocket.Upgrader
	Evts   *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(evt); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Blocks returns the full chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// BlocksLength returns the number of blocks in the chain.
func (h Handlers) BlocksLength(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, length{Length: h.State.Height()}, http.StatusOK)
}

// BlocksPage returns a page of blocks with the newest block first.
func (h Handlers) BlocksPage(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	page, err := strconv.Atoi(web.Param(r, "id"))
	if err != nil || page < 1 {
		return errs.NewTrusted(errors.New("page must be a positive number"), http.StatusBadRequest)
	}

	return web.Respond(ctx, w, h.State.QueryBlocksPage(page, blocksPerPage), http.StatusOK)
}

// Mine adds a block holding the raw data from the request.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req mineRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	block, err := h.State.AddBlock(ctx, database.RawPayload(req.Data))
	if err != nil {
		return err
	}

	h.Log.Infow("mine raw block", "traceid", v.TraceID, "hash", block.Hash, "difficulty", block.Difficulty)

	return web.Respond(ctx, w, block, http.StatusCreated)
}

// Transact creates or extends the pending transaction of the node's wallet.
func (h Handlers) Transact(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req transactRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("transact", "traceid", v.TraceID, "from", h.NS.Lookup(h.Wallet.Address()), "to", h.NS.Lookup(req.Recipient), "amount", req.Amount)

	tx, err := h.State.UpsertWalletTransaction(h.Wallet, req.Recipient, req.Amount)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, transactResponse{Type: "success", Transaction: tx}, http.StatusOK)
}

// SubmitTransaction adds a transaction signed by an external wallet to the
// pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "id", tx.ID, "from", h.NS.Lookup(tx.Input.Address), "amount", tx.Input.Amount)

	if err := h.State.UpsertMempool(tx); err != nil {
		return err
	}

	return web.Respond(ctx, w, transactResponse{Type: "success", Transaction: tx}, http.StatusOK)
}

// Mempool returns the pending transactions by id.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// MineTransactions signals the worker to mine the pending transactions.
func (h Handlers) MineTransactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.QueryMempoolLength() == 0 {
		return errs.NewTrusted(state.ErrNoTransactions, http.StatusConflict)
	}

	h.State.SignalStartMining()

	return web.Respond(ctx, w, status{Status: "mining signalled"}, http.StatusAccepted)
}

// WalletInfo returns the address and balance of the node's wallet.
func (h Handlers) WalletInfo(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := h.Wallet.Address()

	info := walletInfo{
		Address: address,
		Name:    h.NS.Lookup(address),
		Balance: h.State.QueryBalance(address),
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// KnownAddresses returns every address that has received value.
func (h Handlers) KnownAddresses(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addresses := h.State.QueryKnownAddresses()

	known := make([]knownAddress, len(addresses))
	for i, address := range addresses {
		known[i] = knownAddress{
			Address: address,
			Name:    h.NS.Lookup(address),
		}
	}

	return web.Respond(ctx, w, known, http.StatusOK)
}
