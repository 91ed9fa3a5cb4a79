// Package counter provides the counter application. The application keeps a
// single global integer that callers can add to or deduct from, one call at a
// time.
package counter

import (
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ardanlabs/algoapps/foundation/teal"
)

// Version is the TEAL version the programs are compiled for.
const Version = 5

// Key is the global state key holding the counter.
const Key = "Count"

// Schemas for the application. The counter is the only global value and
// there is no local state, so accounts can't opt in.
var (
	GlobalSchema = types.StateSchema{NumUint: 1, NumByteSlice: 0}
	LocalSchema  = types.StateSchema{NumUint: 0, NumByteSlice: 0}
)

// =============================================================================

// ApprovalProgram returns the source of the approval program.
func ApprovalProgram() (string, error) {
	count := teal.NewScratchVar(teal.TypeUint64)

	onCreation := teal.Seq(
		teal.AppGlobalPut(teal.Bytes(Key), teal.Int(0)),
		teal.Approve(),
	)

	add := teal.Seq(
		count.Store(teal.AppGlobalGet(teal.Bytes(Key))),
		teal.AppGlobalPut(teal.Bytes(Key), teal.Plus(count.Load(), teal.Int(1))),
		teal.Approve(),
	)

	deduct := teal.Seq(
		count.Store(teal.AppGlobalGet(teal.Bytes(Key))),
		teal.If(teal.Gt(count.Load(), teal.Int(0)),
			teal.AppGlobalPut(teal.Bytes(Key), teal.Minus(count.Load(), teal.Int(1))),
		),
		teal.Approve(),
	)

	// Calls are only honored when they are not part of a larger group.
	solo := teal.Eq(teal.Global.GroupSize(), teal.Int(1))

	handleNoOp := teal.Cond(
		teal.Branch{Cond: teal.And(solo, teal.Eq(teal.Txn.ApplicationArgs(0), teal.Bytes(string(OpAdd)))), Body: add},
		teal.Branch{Cond: teal.And(solo, teal.Eq(teal.Txn.ApplicationArgs(0), teal.Bytes(string(OpDeduct)))), Body: deduct},
	)

	program := teal.Cond(
		teal.Branch{Cond: teal.Eq(teal.Txn.ApplicationID(), teal.Int(0)), Body: onCreation},
		teal.Branch{Cond: teal.Eq(teal.Txn.OnCompletion(), teal.OnComplete.OptIn), Body: teal.Reject()},
		teal.Branch{Cond: teal.Eq(teal.Txn.OnCompletion(), teal.OnComplete.CloseOut), Body: teal.Reject()},
		teal.Branch{Cond: teal.Eq(teal.Txn.OnCompletion(), teal.OnComplete.UpdateApplication), Body: teal.Reject()},
		teal.Branch{Cond: teal.Eq(teal.Txn.OnCompletion(), teal.OnComplete.DeleteApplication), Body: teal.Reject()},
		teal.Branch{Cond: teal.Eq(teal.Txn.OnCompletion(), teal.OnComplete.NoOp), Body: handleNoOp},
	)

	return teal.Compile(program, teal.ModeApplication, Version)
}

// ClearProgram returns the source of the clear state program.
func ClearProgram() (string, error) {
	return teal.Compile(teal.Approve(), teal.ModeApplication, Version)
}
