package chain

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ardanlabs/algoapps/foundation/account"
)

// Pay sends the amount of microalgos from one account to another.
func (ch *Chain) Pay(ctx context.Context, from account.Signer, to string, amount uint64) (models.PendingTransactionInfoResponse, error) {
	tx, err := ch.payment(ctx, from.Address(), to, amount)
	if err != nil {
		return models.PendingTransactionInfoResponse{}, err
	}

	pt, err := ch.SendTransactions(ctx, from, tx)
	if err != nil {
		return models.PendingTransactionInfoResponse{}, err
	}

	ch.log.Infow("pay", "from", from.Address(), "to", to, "amount", amount)

	return pt, nil
}

// LogicSigPay sends the amount of microalgos out of the escrow held by the
// signature. The node runs the program to decide if the payment is allowed.
func (ch *Chain) LogicSigPay(ctx context.Context, sig Signature, to string, amount uint64) (models.PendingTransactionInfoResponse, error) {
	tx, err := ch.payment(ctx, sig.Address(), to, amount)
	if err != nil {
		return models.PendingTransactionInfoResponse{}, err
	}

	rounds := ch.rounds
	if rounds < EscrowConfirmRounds {
		rounds = EscrowConfirmRounds
	}

	pt, err := ch.Submit(ctx, rounds, Txn{Tx: tx, Signer: sig})
	if err != nil {
		return models.PendingTransactionInfoResponse{}, err
	}

	ch.log.Infow("logic sig pay", "escrow", sig.Address(), "to", to, "amount", amount)

	return pt, nil
}

// FundAccounts pays each address its amount from the funder. More than one
// address is funded in a single group, so at most MaxGroupSize addresses
// can be funded in one call.
func (ch *Chain) FundAccounts(ctx context.Context, funder account.Signer, addresses []string, amounts []uint64) error {
	if len(addresses) == 0 || len(addresses) != len(amounts) {
		return ErrFundsMismatch
	}

	if len(addresses) > MaxGroupSize {
		return &GroupSizeError{Size: len(addresses)}
	}

	sp, err := ch.node.SuggestedParams(ctx)
	if err != nil {
		return fmt.Errorf("suggested params: %w", err)
	}

	txs := make([]types.Transaction, len(addresses))
	for i, to := range addresses {
		tx, err := transaction.MakePaymentTxn(funder.Address(), to, amounts[i], nil, "", sp)
		if err != nil {
			return fmt.Errorf("building payment txn to %s: %w", to, err)
		}
		txs[i] = tx
	}

	if _, err := ch.SendTransactions(ctx, funder, txs...); err != nil {
		return err
	}

	ch.log.Infow("fund accounts", "funder", funder.Address(), "accounts", len(addresses))

	return nil
}

func (ch *Chain) payment(ctx context.Context, from string, to string, amount uint64) (types.Transaction, error) {
	sp, err := ch.node.SuggestedParams(ctx)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("suggested params: %w", err)
	}

	tx, err := transaction.MakePaymentTxn(from, to, amount, nil, "", sp)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("building payment txn: %w", err)
	}

	return tx, nil
}
