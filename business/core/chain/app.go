package chain

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ardanlabs/algoapps/foundation/account"
	"github.com/ardanlabs/algoapps/foundation/appstate"
	"github.com/google/uuid"
)

// CreateApp deploys an application and returns the id the network assigned.
func (ch *Chain) CreateApp(ctx context.Context, creator account.Signer, approval []byte, clearState []byte, global types.StateSchema, local types.StateSchema) (uint64, error) {
	sender, err := types.DecodeAddress(creator.Address())
	if err != nil {
		return 0, fmt.Errorf("decoding creator: %w", err)
	}

	sp, err := ch.node.SuggestedParams(ctx)
	if err != nil {
		return 0, fmt.Errorf("suggested params: %w", err)
	}

	tx, err := transaction.MakeApplicationCreateTx(false, approval, clearState, global, local, nil, nil, nil, nil, sp, sender, nil, types.Digest{}, [32]byte{}, types.ZeroAddress)
	if err != nil {
		return 0, fmt.Errorf("building create txn: %w", err)
	}

	pt, err := ch.SendTransactions(ctx, creator, tx)
	if err != nil {
		return 0, err
	}

	if pt.ApplicationIndex == 0 {
		return 0, ErrNoApplicationID
	}

	ch.log.Infow("create app", "creator", creator.Address(), "appid", pt.ApplicationIndex)

	return pt.ApplicationIndex, nil
}

// CallApp makes a NoOp call to the application with the arguments.
func (ch *Chain) CallApp(ctx context.Context, caller account.Signer, appID uint64, args ...[]byte) error {
	return ch.CallAppGroup(ctx, caller, appID, args)
}

// CallAppGroup makes several NoOp calls to the application as one atomic
// group. Each call is given a unique note so identical calls stay distinct.
func (ch *Chain) CallAppGroup(ctx context.Context, caller account.Signer, appID uint64, calls ...[][]byte) error {
	if len(calls) == 0 {
		return nil
	}

	sender, err := types.DecodeAddress(caller.Address())
	if err != nil {
		return fmt.Errorf("decoding caller: %w", err)
	}

	sp, err := ch.node.SuggestedParams(ctx)
	if err != nil {
		return fmt.Errorf("suggested params: %w", err)
	}

	txs := make([]types.Transaction, len(calls))
	for i, args := range calls {
		var note []byte
		if len(calls) > 1 {
			note = []byte(uuid.NewString())
		}

		tx, err := transaction.MakeApplicationNoOpTx(appID, args, []string{caller.Address()}, nil, nil, sp, sender, note, types.Digest{}, [32]byte{}, types.ZeroAddress)
		if err != nil {
			return fmt.Errorf("building call txn: %w", err)
		}
		txs[i] = tx
	}

	if _, err := ch.SendTransactions(ctx, caller, txs...); err != nil {
		return err
	}

	ch.log.Infow("call app", "caller", caller.Address(), "appid", appID, "calls", len(calls))

	return nil
}

// OptIn opts the accounts into the application. Several accounts are opted
// in as one group, each signing its own transaction.
func (ch *Chain) OptIn(ctx context.Context, appID uint64, accounts ...account.Signer) error {
	if len(accounts) == 0 {
		return nil
	}

	sp, err := ch.node.SuggestedParams(ctx)
	if err != nil {
		return fmt.Errorf("suggested params: %w", err)
	}

	txns := make([]Txn, len(accounts))
	for i, act := range accounts {
		sender, err := types.DecodeAddress(act.Address())
		if err != nil {
			return fmt.Errorf("decoding account: %w", err)
		}

		tx, err := transaction.MakeApplicationOptInTx(appID, nil, nil, nil, nil, sp, sender, nil, types.Digest{}, [32]byte{}, types.ZeroAddress)
		if err != nil {
			return fmt.Errorf("building opt in txn: %w", err)
		}

		txns[i] = Txn{Tx: tx, Signer: act}
	}

	if _, err := ch.Submit(ctx, ch.rounds, txns...); err != nil {
		return err
	}

	return nil
}

// =============================================================================

// GlobalState returns the application's global state.
func (ch *Chain) GlobalState(ctx context.Context, appID uint64) (appstate.State, error) {
	app, err := ch.node.ApplicationInfo(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("application info: %w", err)
	}

	return appstate.Format(app.Params.GlobalState)
}

// CreatorGlobalState returns the global state of an application through
// the creator's account. An application the creator did not create has an
// empty state.
func (ch *Chain) CreatorGlobalState(ctx context.Context, creator string, appID uint64) (appstate.State, error) {
	act, err := ch.node.AccountInfo(ctx, creator)
	if err != nil {
		return nil, fmt.Errorf("account info: %w", err)
	}

	for _, app := range act.CreatedApps {
		if app.Id == appID {
			return appstate.Format(app.Params.GlobalState)
		}
	}

	return appstate.State{}, nil
}
