// Package account provides support for the key pairs that sign transactions.
// Accounts live only in memory unless they are explicitly saved.
package account

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Extension is the file extension of saved accounts.
const Extension = ".mnemonic"

// Signer is the behavior required to sign transactions for an address.
type Signer interface {
	Address() string
	SignTransaction(tx types.Transaction) (txID string, stx []byte, err error)
}

// =============================================================================

// Account is a private key and the address derived from it.
type Account struct {
	address    types.Address
	privateKey ed25519.PrivateKey
}

// Generate constructs a new account from a random key.
func Generate() Account {
	act := crypto.GenerateAccount()

	return Account{
		address:    act.Address,
		privateKey: act.PrivateKey,
	}
}

// FromPrivateKey constructs the account for the private key.
func FromPrivateKey(privateKey ed25519.PrivateKey) (Account, error) {
	act, err := crypto.AccountFromPrivateKey(privateKey)
	if err != nil {
		return Account{}, fmt.Errorf("deriving account: %w", err)
	}

	return Account{
		address:    act.Address,
		privateKey: act.PrivateKey,
	}, nil
}

// FromMnemonic constructs the account for the 25 word mnemonic.
func FromMnemonic(phrase string) (Account, error) {
	privateKey, err := mnemonic.ToPrivateKey(strings.TrimSpace(phrase))
	if err != nil {
		return Account{}, fmt.Errorf("decoding mnemonic: %w", err)
	}

	return FromPrivateKey(privateKey)
}

// Address returns the address of the account.
func (a Account) Address() string {
	return a.address.String()
}

// Sender returns the address in the form transactions carry it.
func (a Account) Sender() types.Address {
	return a.address
}

// PrivateKey returns the signing key of the account.
func (a Account) PrivateKey() ed25519.PrivateKey {
	return a.privateKey
}

// Mnemonic returns the 25 word mnemonic for the private key.
func (a Account) Mnemonic() (string, error) {
	return mnemonic.FromPrivateKey(a.privateKey)
}

// SignTransaction signs the transaction and returns its id and the msgpack
// encoded signed transaction.
func (a Account) SignTransaction(tx types.Transaction) (string, []byte, error) {
	if len(a.privateKey) == 0 {
		return "", nil, errors.New("account has no private key")
	}

	return crypto.SignTransaction(a.privateKey, tx)
}

// String implements the fmt.Stringer interface for logging.
func (a Account) String() string {
	return a.Address()
}

// =============================================================================

// Save writes the account's mnemonic to the file at path.
func Save(path string, a Account) error {
	phrase, err := a.Mnemonic()
	if err != nil {
		return fmt.Errorf("encoding mnemonic: %w", err)
	}

	if !strings.HasSuffix(path, Extension) {
		path += Extension
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating folder: %w", err)
	}

	if err := os.WriteFile(path, []byte(phrase+"\n"), 0600); err != nil {
		return fmt.Errorf("writing account: %w", err)
	}

	return nil
}

// Load reads the account saved in the file at path.
func Load(path string) (Account, error) {
	if !strings.HasSuffix(path, Extension) {
		path += Extension
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Account{}, fmt.Errorf("reading account: %w", err)
	}

	return FromMnemonic(string(data))
}
