// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"net/http"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Chain returns the node's full chain so a peer can adopt it.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// ReplaceChain takes a chain received from a peer and adopts it when it's
// longer and valid. The pending transactions it mined are dropped.
func (h Handlers) ReplaceChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var blocks []database.Block
	if err := web.Decode(r, &blocks); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("replace chain", "traceid", v.TraceID, "height", len(blocks))

	if err := h.State.ReplaceChain(blocks, true, h.State.ClearMinedTransactions); err != nil {
		return err
	}

	resp := struct {
		Status string `json:"status"`
		Height int    `json:"height"`
	}{
		Status: "chain replaced",
		Height: h.State.Height(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the pending transactions by id.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// ReplaceMempool adopts the pending transactions of a peer.
func (h Handlers) ReplaceMempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var pool map[string]database.Tx
	if err := web.Decode(r, &pool); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("replace mempool", "traceid", v.TraceID, "count", len(pool))

	h.State.ReplaceMempool(pool)

	return web.Respond(ctx, w, nil, http.StatusNoContent)
}
