package chain

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ardanlabs/algoapps/foundation/algod"
)

// Signature is a compiled program used as a logic signature. Funds sent to
// its address can only leave in transactions the program approves.
type Signature struct {
	program []byte
	address types.Address
	lsa     crypto.LogicSigAccount
}

// CompileSignature compiles the TEAL source into a logic signature.
func (ch *Chain) CompileSignature(ctx context.Context, source string) (Signature, error) {
	cr, err := ch.node.Compile(ctx, source)
	if err != nil {
		return Signature{}, fmt.Errorf("compiling signature: %w", err)
	}

	program, err := algod.Program(cr)
	if err != nil {
		return Signature{}, fmt.Errorf("decoding program: %w", err)
	}

	lsa, err := crypto.MakeLogicSigAccountEscrowChecked(program, nil)
	if err != nil {
		return Signature{}, fmt.Errorf("constructing logic sig: %w", err)
	}

	address, err := lsa.Address()
	if err != nil {
		return Signature{}, fmt.Errorf("deriving escrow address: %w", err)
	}

	if address.String() != cr.Hash {
		return Signature{}, fmt.Errorf("escrow address %s does not match compiled hash %s", address, cr.Hash)
	}

	sig := Signature{
		program: program,
		address: address,
		lsa:     lsa,
	}

	return sig, nil
}

// Address returns the escrow address of the program.
func (sig Signature) Address() string {
	return sig.address.String()
}

// Program returns the compiled bytecode.
func (sig Signature) Program() []byte {
	return sig.program
}

// SignTransaction authorizes the transaction with the program.
func (sig Signature) SignTransaction(tx types.Transaction) (string, []byte, error) {
	return crypto.SignLogicSigAccountTransaction(sig.lsa, tx)
}
