package chain

import (
	"errors"
	"fmt"
)

// Set of errors returned by the workflows.
var (
	ErrNoFunder        = errors.New("no genesis funder account found")
	ErrFundsMismatch   = errors.New("number of addresses and amounts differ")
	ErrNoApplicationID = errors.New("confirmed transaction has no application id")
)

// MaxGroupSize is the most transactions the node accepts in one group.
const MaxGroupSize = 16

// ErrGroupTooLarge is matched by errors for groups over MaxGroupSize.
var ErrGroupTooLarge = errors.New("transaction group too large")

// GroupSizeError is returned when a workflow would build a group larger
// than the node accepts. Nothing is submitted.
type GroupSizeError struct {
	Size int
}

// Error implements the error interface.
func (gse *GroupSizeError) Error() string {
	return fmt.Sprintf("transaction group too large: %d transactions, max %d", gse.Size, MaxGroupSize)
}

// Is allows errors.Is to match ErrGroupTooLarge.
func (gse *GroupSizeError) Is(target error) bool {
	return target == ErrGroupTooLarge
}

// =============================================================================

// TxError represents a failure of a submitted transaction. The step names
// the workflow step that was running.
type TxError struct {
	Step string
	TxID string
	Err  error
}

// Error implements the error interface.
func (txe *TxError) Error() string {
	if txe.TxID == "" {
		return fmt.Sprintf("%s: %s", txe.Step, txe.Err)
	}
	return fmt.Sprintf("%s: txid %s: %s", txe.Step, txe.TxID, txe.Err)
}

// Unwrap provides access to the underlying error.
func (txe *TxError) Unwrap() error {
	return txe.Err
}

// IsTxError checks if an error of type TxError exists.
func IsTxError(err error) bool {
	var txe *TxError
	return errors.As(err, &txe)
}
