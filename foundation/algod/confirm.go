package algod

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
)

// Poller is the behavior required to wait on a submitted transaction.
type Poller interface {
	Status(ctx context.Context) (models.NodeStatus, error)
	StatusAfterBlock(ctx context.Context, round uint64) (models.NodeStatus, error)
	PendingTransactionInfo(ctx context.Context, txID string) (models.PendingTransactionInfoResponse, error)
}

// WaitForConfirmation polls the node once per round until the transaction is
// confirmed, the pool reports an error or maxRounds rounds have passed.
func WaitForConfirmation(ctx context.Context, p Poller, txID string, maxRounds uint64) (models.PendingTransactionInfoResponse, error) {
	if maxRounds == 0 {
		return models.PendingTransactionInfoResponse{}, fmt.Errorf("%w: txid %s: round budget is zero", ErrConfirmationTimeout, txID)
	}

	status, err := p.Status(ctx)
	if err != nil {
		return models.PendingTransactionInfoResponse{}, fmt.Errorf("node status: %w", err)
	}

	start := status.LastRound + 1

	for round := start; round < start+maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return models.PendingTransactionInfoResponse{}, err
		}

		pt, err := p.PendingTransactionInfo(ctx, txID)
		if err != nil {
			return models.PendingTransactionInfoResponse{}, fmt.Errorf("pending transaction %s: %w", txID, err)
		}

		if pt.ConfirmedRound > 0 {
			return pt, nil
		}

		if pt.PoolError != "" {
			return models.PendingTransactionInfoResponse{}, &PoolError{TxID: txID, Reason: pt.PoolError}
		}

		if _, err := p.StatusAfterBlock(ctx, round); err != nil {
			return models.PendingTransactionInfoResponse{}, fmt.Errorf("waiting for round %d: %w", round, err)
		}
	}

	return models.PendingTransactionInfoResponse{}, fmt.Errorf("%w: txid %s not confirmed within %d rounds", ErrConfirmationTimeout, txID, maxRounds)
}
