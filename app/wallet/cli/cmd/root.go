// Package cmd contains wallet app
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ardanlabs/algoapps/business/core/chain"
	"github.com/ardanlabs/algoapps/foundation/account"
	"github.com/ardanlabs/algoapps/foundation/algod"
	"github.com/ardanlabs/algoapps/foundation/logger"
	"github.com/ardanlabs/algoapps/foundation/nameservice"
	"github.com/ardanlabs/algoapps/foundation/sandbox"
	"github.com/ardanlabs/algoapps/foundation/validate"
	"github.com/spf13/cobra"
)

const sandboxToken = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

var (
	accountName string
	accountPath string
	nodeURL     string
	indexerURL  string
	token       string
	sandboxDir  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private", "Name of the account file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zalgo/accounts/", "Path to the directory with account files.")
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:4001", "Url of the algod node.")
	rootCmd.PersistentFlags().StringVar(&indexerURL, "indexer-url", "http://localhost:8980", "Url of the indexer.")
	rootCmd.PersistentFlags().StringVar(&token, "token", sandboxToken, "Api token of the node and indexer.")
	rootCmd.PersistentFlags().StringVar(&sandboxDir, "sandbox-dir", "", "Folder holding the sandbox script.")
}

var rootCmd = &cobra.Command{
	Use:          "wallet",
	Short:        "Your simple algorand wallet",
	SilenceUsage: true,
}

// Execute runs the wallet until the command completes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// =============================================================================

func accountFile() string {
	return filepath.Join(accountPath, accountName+account.Extension)
}

func newNameService() (*nameservice.NameService, error) {
	ns, err := nameservice.New(accountPath)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	return ns, nil
}

// loadAccount returns the account saved under the account name anywhere in
// the account path.
func loadAccount(ns *nameservice.NameService) (account.Account, error) {
	act, exists := ns.Account(accountName)
	if !exists {
		return account.Account{}, fmt.Errorf("account %q not found in %s", accountName, accountPath)
	}
	return act, nil
}

// currentAccount loads the account named by the account flag.
func currentAccount() (account.Account, error) {
	ns, err := newNameService()
	if err != nil {
		return account.Account{}, err
	}
	return loadAccount(ns)
}

// resolveAddress turns the name of a saved account into its address. Any
// other value must be a valid address.
func resolveAddress(ns *nameservice.NameService, nameOrAddress string) (string, error) {
	if act, exists := ns.Account(nameOrAddress); exists {
		return act.Address(), nil
	}

	if err := validate.Var(nameOrAddress, "required,algoaddr"); err != nil {
		return "", fmt.Errorf("%q is not a saved account or an address: %w", nameOrAddress, err)
	}

	return nameOrAddress, nil
}

// displayName returns the saved name of the address or nothing when the
// address isn't saved.
func displayName(ns *nameservice.NameService, address string) string {
	if name := ns.Lookup(address); name != address {
		return name
	}
	return ""
}

func newClient() (*algod.Client, error) {
	return algod.New(algod.Config{Address: nodeURL, Token: token})
}

func newChain() (*chain.Chain, error) {
	log, err := logger.New("WALLET", "stderr")
	if err != nil {
		return nil, err
	}

	client, err := newClient()
	if err != nil {
		return nil, err
	}

	return chain.New(log, client), nil
}

func sandboxFunder(ctx context.Context) (account.Account, error) {
	idx, err := algod.NewIndexer(algod.Config{Address: indexerURL, Token: token})
	if err != nil {
		return account.Account{}, err
	}

	return chain.SandboxFunder(ctx, idx, sandbox.New(sandboxDir))
}
