// Package chain composes node calls into the single-shot workflows used to
// deploy and exercise the applications: compile, build, sign, submit and
// wait. A failing step stops the workflow and nothing is compensated.
package chain

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ardanlabs/algoapps/foundation/account"
	"github.com/ardanlabs/algoapps/foundation/algod"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default round budgets for confirmation.
const (
	DefaultConfirmRounds = 5
	EscrowConfirmRounds  = 10
)

// Node is the behavior required from the node client.
type Node interface {
	algod.Poller
	Compile(ctx context.Context, source string) (models.CompileResponse, error)
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)
	AccountInfo(ctx context.Context, address string) (models.Account, error)
	ApplicationInfo(ctx context.Context, appID uint64) (models.Application, error)
}

// Option represents a change to the default chain settings.
type Option func(ch *Chain)

// WithConfirmRounds sets the round budget for confirming transactions.
func WithConfirmRounds(rounds uint64) Option {
	return func(ch *Chain) {
		ch.rounds = rounds
	}
}

// =============================================================================

// Chain runs workflows against a node.
type Chain struct {
	log    *zap.SugaredLogger
	node   Node
	rounds uint64
}

// New constructs a chain for running workflows against the node.
func New(log *zap.SugaredLogger, node Node, options ...Option) *Chain {
	ch := Chain{
		log:    log,
		node:   node,
		rounds: DefaultConfirmRounds,
	}

	for _, option := range options {
		option(&ch)
	}

	return &ch
}

// CompileProgram compiles the TEAL source and returns the bytecode.
func (ch *Chain) CompileProgram(ctx context.Context, source string) ([]byte, error) {
	cr, err := ch.node.Compile(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("compiling program: %w", err)
	}

	program, err := algod.Program(cr)
	if err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}

	return program, nil
}

// =============================================================================

// Txn pairs a transaction with the signer that authorizes it.
type Txn struct {
	Tx     types.Transaction
	Signer account.Signer
}

// SendTransactions signs every transaction with the signer and submits them.
func (ch *Chain) SendTransactions(ctx context.Context, signer account.Signer, txs ...types.Transaction) (models.PendingTransactionInfoResponse, error) {
	txns := make([]Txn, len(txs))
	for i, tx := range txs {
		txns[i] = Txn{Tx: tx, Signer: signer}
	}

	return ch.Submit(ctx, ch.rounds, txns...)
}

// Submit signs and submits the transactions and waits for the first to
// confirm. More than one transaction is submitted as an atomic group, so
// they all confirm or all fail. No transactions is a no-op and more than
// MaxGroupSize is rejected before anything is signed.
func (ch *Chain) Submit(ctx context.Context, rounds uint64, txns ...Txn) (models.PendingTransactionInfoResponse, error) {
	if len(txns) == 0 {
		return models.PendingTransactionInfoResponse{}, nil
	}

	if len(txns) > MaxGroupSize {
		return models.PendingTransactionInfoResponse{}, &GroupSizeError{Size: len(txns)}
	}

	traceID := uuid.NewString()

	// Bind a group together by stamping every member with the group id.
	if len(txns) > 1 {
		txs := make([]types.Transaction, len(txns))
		for i, txn := range txns {
			txs[i] = txn.Tx
		}

		gid, err := crypto.ComputeGroupID(txs)
		if err != nil {
			return models.PendingTransactionInfoResponse{}, &TxError{Step: "group", Err: err}
		}

		for i := range txns {
			txns[i].Tx.Group = gid
		}
	}

	// Sign each member and concatenate the encodings for submission.
	var raw []byte
	var firstID string
	for i, txn := range txns {
		txID, stx, err := txn.Signer.SignTransaction(txn.Tx)
		if err != nil {
			return models.PendingTransactionInfoResponse{}, &TxError{Step: "sign", Err: err}
		}

		if i == 0 {
			firstID = txID
		}
		raw = append(raw, stx...)
	}

	ch.log.Infow("submit", "traceid", traceID, "status", "sending", "txid", firstID, "size", len(txns))

	if _, err := ch.node.SendRawTransaction(ctx, raw); err != nil {
		return models.PendingTransactionInfoResponse{}, &TxError{Step: "send", TxID: firstID, Err: err}
	}

	pt, err := algod.WaitForConfirmation(ctx, ch.node, firstID, rounds)
	if err != nil {
		return models.PendingTransactionInfoResponse{}, &TxError{Step: "confirm", TxID: firstID, Err: err}
	}

	ch.log.Infow("submit", "traceid", traceID, "status", "confirmed", "txid", firstID, "round", pt.ConfirmedRound)

	return pt, nil
}
