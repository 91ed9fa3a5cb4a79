// Package nameservice reads a folder of saved accounts and creates a name
// service lookup for their addresses.
package nameservice

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/algoapps/foundation/account"
)

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	names    map[string]string
	accounts map[string]account.Account
}

// New constructs a name service with the accounts saved in the folder. The
// name of an account is its file name without the extension. A folder that
// doesn't exist yet holds no accounts.
func New(root string) (*NameService, error) {
	ns := NameService{
		names:    make(map[string]string),
		accounts: make(map[string]account.Account),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			if fileName == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != account.Extension {
			return nil
		}

		act, err := account.Load(fileName)
		if err != nil {
			return fmt.Errorf("loading %s: %w", fileName, err)
		}

		name := strings.TrimSuffix(filepath.Base(fileName), account.Extension)
		ns.names[act.Address()] = name
		ns.accounts[name] = act

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified address.
func (ns *NameService) Lookup(address string) string {
	name, exists := ns.names[address]
	if !exists {
		return address
	}
	return name
}

// Account returns the account saved under the name.
func (ns *NameService) Account(name string) (account.Account, bool) {
	act, exists := ns.accounts[name]
	return act, exists
}

// Copy returns a copy of the map of addresses and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.names))
	for address, name := range ns.names {
		cpy[address] = name
	}
	return cpy
}
