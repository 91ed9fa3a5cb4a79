package algod

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/encoding/json"
)

// ErrConfirmationTimeout is returned when a transaction is not confirmed
// within the round budget.
var ErrConfirmationTimeout = errors.New("confirmation timeout")

// =============================================================================

// Error is returned when the node rejects a request. Compile failures and
// transactions refused by the transaction pool arrive this way.
type Error struct {
	Status  int
	Path    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("algod: %s: status %d: %s", e.Path, e.Status, e.Message)
}

// IsError checks if an error of type Error exists.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// GetError returns a copy of the Error pointer.
func GetError(err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}
	return e
}

// toError converts the "HTTP <status>: <body>" errors the sdk reports for a
// non 2xx response into an Error. Any other error is wrapped with the path.
func toError(path string, err error) error {
	msg := err.Error()

	rest, found := strings.CutPrefix(msg, "HTTP ")
	if !found {
		return fmt.Errorf("requesting %s: %w", path, err)
	}

	code, body, found := strings.Cut(rest, ": ")
	if !found {
		return fmt.Errorf("requesting %s: %w", path, err)
	}

	status, perr := strconv.Atoi(code)
	if perr != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}

	var er struct {
		Message string `json:"message"`
	}
	if err := json.LenientDecode([]byte(body), &er); err != nil || er.Message == "" {
		er.Message = strings.TrimSpace(body)
	}

	return &Error{Status: status, Path: path, Message: er.Message}
}

// =============================================================================

// PoolError is returned when the node reports the pending transaction was
// dropped from the transaction pool.
type PoolError struct {
	TxID   string
	Reason string
}

// Error implements the error interface.
func (pe *PoolError) Error() string {
	return fmt.Sprintf("pool error: txid %s: %s", pe.TxID, pe.Reason)
}

// IsPoolError checks if an error of type PoolError exists.
func IsPoolError(err error) bool {
	var pe *PoolError
	return errors.As(err, &pe)
}
