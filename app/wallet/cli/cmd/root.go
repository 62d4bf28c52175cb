// Package cmd contains the wallet app commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	url         string
)

const (
	keyExtension = ".ecdsa"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.ecdsa", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
}

var rootCmd = &cobra.Command{
	Use:           "wallet",
	Short:         "Your simple ledger wallet",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command named on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	name := accountName
	if !strings.HasSuffix(name, keyExtension) {
		name += keyExtension
	}

	return filepath.Join(accountPath, name)
}

func loadWallet() (wallet.Wallet, error) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("loading key: %w", err)
	}

	return wallet.FromPrivateKey(privateKey), nil
}

// fetchChain retrieves the node's chain. Balances are derived locally from
// it so the node never has to be trusted with the arithmetic.
func fetchChain() ([]database.Block, error) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/blocks", url))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var blocks []database.Block
	if err := json.NewDecoder(resp.Body).Decode(&blocks); err != nil {
		return nil, fmt.Errorf("decoding chain: %w", err)
	}

	if err := database.ValidateChain(blocks); err != nil {
		return nil, fmt.Errorf("node returned a chain that fails validation: %w", err)
	}

	return blocks, nil
}

func responseError(resp *http.Response) error {
	var er struct {
		Error string `json:"error"`
	}

	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &er); err != nil || er.Error == "" {
		return fmt.Errorf("node responded %s", resp.Status)
	}

	return fmt.Errorf("node responded %s: %s", resp.Status, er.Error)
}
