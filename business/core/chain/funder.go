package chain

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/ardanlabs/algoapps/foundation/account"
)

// AccountLister is the behavior required to search the network's accounts.
type AccountLister interface {
	Accounts(ctx context.Context) ([]models.Account, error)
}

// Exporter is the behavior required to export the mnemonic of an account
// held by the node's wallet.
type Exporter interface {
	Passphrase(ctx context.Context, address string) (string, error)
}

// GenesisFunder returns the address of the first account funded in the
// genesis block that isn't participating in consensus. On a sandbox this is
// the account that holds the test funds.
func GenesisFunder(ctx context.Context, idx AccountLister) (string, error) {
	accounts, err := idx.Accounts(ctx)
	if err != nil {
		return "", fmt.Errorf("listing accounts: %w", err)
	}

	for _, act := range accounts {
		if act.CreatedAtRound == 0 && act.Status == "Offline" {
			return act.Address, nil
		}
	}

	return "", ErrNoFunder
}

// SandboxFunder returns the genesis funder with its signing key, exported
// from the sandbox wallet.
func SandboxFunder(ctx context.Context, idx AccountLister, ex Exporter) (account.Account, error) {
	address, err := GenesisFunder(ctx, idx)
	if err != nil {
		return account.Account{}, err
	}

	phrase, err := ex.Passphrase(ctx, address)
	if err != nil {
		return account.Account{}, fmt.Errorf("exporting funder %s: %w", address, err)
	}

	funder, err := account.FromMnemonic(phrase)
	if err != nil {
		return account.Account{}, fmt.Errorf("loading funder %s: %w", address, err)
	}

	if funder.Address() != address {
		return account.Account{}, fmt.Errorf("exported key for %s belongs to %s", address, funder.Address())
	}

	return funder, nil
}
