package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func run(args ...string) (string, error) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return strings.TrimSpace(buf.String()), err
}

func TestWallet(t *testing.T) {
	dir := t.TempDir()

	st := state.New(state.Config{})

	nodeWallet, err := wallet.New()
	if err != nil {
		t.Fatalf("Should be able to create a wallet: %s", err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to create a name service: %s", err)
	}

	srv := httptest.NewServer(handlers.PublicMux(handlers.MuxConfig{
		Shutdown:  make(chan os.Signal, 1),
		Log:       zap.NewNop().Sugar(),
		Metrics:   metrics.New(st),
		State:     st,
		Wallet:    nodeWallet,
		NS:        ns,
		Evts:      events.New(),
		RateLimit: 100,
		RateBurst: 100,
	}))
	defer srv.Close()

	t.Log("Given the need to manage a wallet from the command line.")
	{
		var address string

		t.Logf("\tTest 0:\tWhen generating a key.")
		{
			out, err := run("generate", "-p", dir, "-a", "kennedy")
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a key : %s", failed, err)
			}
			address = out
			t.Logf("\t%s\tTest 0:\tShould be able to generate a key.", success)

			if _, err := run("generate", "-p", dir, "-a", "kennedy"); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould refuse to overwrite the key.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould refuse to overwrite the key.", success)

			out, err = run("address", "-p", dir, "-a", "kennedy.ecdsa")
			if err != nil || out != address {
				t.Fatalf("\t%s\tTest 0:\tShould print the same address : %q %v", failed, out, err)
			}
			t.Logf("\t%s\tTest 0:\tShould print the same address.", success)
		}

		t.Logf("\tTest 1:\tWhen asking for the balance.")
		{
			out, err := run("balance", "-p", dir, "-a", "kennedy", "-u", srv.URL)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to get the balance : %s", failed, err)
			}

			if out != "1000" {
				t.Fatalf("\t%s\tTest 1:\tShould get the starting balance : %q", failed, out)
			}
			t.Logf("\t%s\tTest 1:\tShould get the starting balance of %d.", success, genesis.StartingBalance)
		}

		t.Logf("\tTest 2:\tWhen sending value.")
		{
			out, err := run("send", "-p", dir, "-a", "kennedy", "-u", srv.URL, "-t", "foo-recipient", "-v", "40")
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to send : %s", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould be able to send.", success)

			tx, exists := st.RetrieveMempool()[out]
			if !exists {
				t.Fatalf("\t%s\tTest 2:\tShould find the transaction in the pool : %q", failed, out)
			}

			if tx.Input.Address != address || tx.OutputMap["foo-recipient"] != 40 {
				t.Fatalf("\t%s\tTest 2:\tShould hold the signed transfer : %s", failed, tx)
			}
			t.Logf("\t%s\tTest 2:\tShould hold the signed transfer.", success)

			if _, err := run("send", "-p", dir, "-a", "kennedy", "-u", srv.URL, "-t", "foo-recipient", "-v", "5000"); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould refuse an amount over the balance.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould refuse an amount over the balance.", success)
		}
	}
}
