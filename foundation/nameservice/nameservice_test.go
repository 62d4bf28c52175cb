package nameservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestLookup(t *testing.T) {
	t.Log("Given the need to name addresses from key files.")
	{
		t.Logf("\tTest 0:\tWhen the folder holds a key file.")
		{
			root := t.TempDir()

			w, err := wallet.New()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create a wallet: %s", failed, err)
			}

			if err := crypto.SaveECDSA(filepath.Join(root, "kennedy.ecdsa"), w.PrivateKey()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save the key: %s", failed, err)
			}
			if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0600); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to write a file: %s", failed, err)
			}

			ns, err := nameservice.New(root)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to load the folder: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to load the folder.", success)

			if name := ns.Lookup(w.Address()); name != "kennedy" {
				t.Fatalf("\t%s\tTest 0:\tShould find the name for the address: %s", failed, name)
			}
			t.Logf("\t%s\tTest 0:\tShould find the name for the address.", success)

			if name := ns.Lookup("foo-address"); name != "foo-address" {
				t.Fatalf("\t%s\tTest 0:\tShould return unknown addresses as is: %s", failed, name)
			}
			t.Logf("\t%s\tTest 0:\tShould return unknown addresses as is.", success)

			if len(ns.Copy()) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould only load key files.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould only load key files.", success)
		}
	}
}
