// Package donation provides the donation escrow. Funds sent to the escrow
// address can only leave it as a solo payment to the benefactor.
package donation

import (
	"github.com/ardanlabs/algoapps/foundation/teal"
)

// Version is the TEAL version the program is compiled for.
const Version = 5

// EscrowProgram returns the source of the stateless program guarding the
// escrow for the specified benefactor address.
func EscrowProgram(benefactor string) (string, error) {
	program := teal.And(
		teal.Eq(teal.Txn.TypeEnum(), teal.TxnType.Payment),
		teal.Eq(teal.Txn.Receiver(), teal.Addr(benefactor)),
		teal.Eq(teal.Global.GroupSize(), teal.Int(1)),
	)

	return teal.Compile(program, teal.ModeSignature, Version)
}
