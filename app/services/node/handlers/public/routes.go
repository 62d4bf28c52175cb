package public

import (
	"net/http"

	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log       *zap.SugaredLogger
	State     *state.State
	Wallet    wallet.Wallet
	NS        *nameservice.NameService
	Evts      *events.Events
	RateLimit int
	RateBurst int
}

// Routes binds all the public routes.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:    cfg.Log,
		State:  cfg.State,
		Wallet: cfg.Wallet,
		NS:     cfg.NS,
		WS:     websocket.Upgrader{},
		Evts:   cfg.Evts,
	}

	const version = "v1"

	// Submissions share one limiter since both land in the same pool.
	limit := mid.RateLimit(cfg.RateLimit, cfg.RateBurst)

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/blocks", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/length", pbl.BlocksLength)
	app.Handle(http.MethodGet, version, "/blocks/page/:id", pbl.BlocksPage)
	app.Handle(http.MethodPost, version, "/mine", pbl.Mine)
	app.Handle(http.MethodPost, version, "/transact", pbl.Transact, limit)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction, limit)
	app.Handle(http.MethodGet, version, "/transaction-pool-map", pbl.Mempool)
	app.Handle(http.MethodGet, version, "/mine-transactions", pbl.MineTransactions)
	app.Handle(http.MethodGet, version, "/wallet-info", pbl.WalletInfo)
	app.Handle(http.MethodGet, version, "/known-addresses", pbl.KnownAddresses)
}
