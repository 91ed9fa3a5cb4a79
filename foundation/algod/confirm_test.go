package algod_test

import (
	"context"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/ardanlabs/algoapps/foundation/algod"
	"github.com/ardanlabs/algoapps/foundation/algod/algodtest"
)

// poller scripts the node's answers to a confirmation wait.
type poller struct {
	lastRound uint64
	answers   []models.PendingTransactionInfoResponse
	lookupErr error
	polls     int
	waits     []uint64
}

func (p *poller) Status(ctx context.Context) (models.NodeStatus, error) {
	return models.NodeStatus{LastRound: p.lastRound}, nil
}

func (p *poller) StatusAfterBlock(ctx context.Context, round uint64) (models.NodeStatus, error) {
	p.waits = append(p.waits, round)
	return models.NodeStatus{LastRound: round + 1}, nil
}

func (p *poller) PendingTransactionInfo(ctx context.Context, txID string) (models.PendingTransactionInfoResponse, error) {
	p.polls++
	if p.lookupErr != nil {
		return models.PendingTransactionInfoResponse{}, p.lookupErr
	}
	if p.polls > len(p.answers) {
		return models.PendingTransactionInfoResponse{}, nil
	}
	return p.answers[p.polls-1], nil
}

// =============================================================================

func Test_WaitForConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Log("Given the need to wait for a transaction to confirm.")
	{
		t.Logf("\tTest 0:\tWhen the transaction confirms on the third poll.")
		{
			p := poller{
				lastRound: 20,
				answers: []models.PendingTransactionInfoResponse{
					{},
					{},
					{ConfirmedRound: 23, ApplicationIndex: 5},
				},
			}

			pt, err := algod.WaitForConfirmation(ctx, &p, "TX", 5)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould confirm the transaction: %s", failed, err)
			}
			if pt.ConfirmedRound != 23 || pt.ApplicationIndex != 5 {
				t.Fatalf("\t%s\tTest 0:\tShould get back the confirmed record: %+v", failed, pt)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the confirmed record.", success)

			if len(p.waits) != 2 || p.waits[0] != 21 || p.waits[1] != 22 {
				t.Fatalf("\t%s\tTest 0:\tShould wait on rounds 21 and 22, got %v.", failed, p.waits)
			}
			t.Logf("\t%s\tTest 0:\tShould wait one round per poll.", success)
		}

		t.Logf("\tTest 1:\tWhen the pool reports an error.")
		{
			p := poller{
				lastRound: 20,
				answers: []models.PendingTransactionInfoResponse{
					{PoolError: "transaction rejected by logic"},
				},
			}

			_, err := algod.WaitForConfirmation(ctx, &p, "TX", 5)
			var pe *algod.PoolError
			if !errors.As(err, &pe) {
				t.Fatalf("\t%s\tTest 1:\tShould get back a pool error: %v", failed, err)
			}
			if pe.Reason != "transaction rejected by logic" || p.polls != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould fail on the first poll: %s after %d polls", failed, pe.Reason, p.polls)
			}
			t.Logf("\t%s\tTest 1:\tShould fail immediately with the pool error.", success)
		}

		t.Logf("\tTest 2:\tWhen the transaction never confirms.")
		{
			p := poller{lastRound: 20}

			_, err := algod.WaitForConfirmation(ctx, &p, "TX", 4)
			if !errors.Is(err, algod.ErrConfirmationTimeout) {
				t.Fatalf("\t%s\tTest 2:\tShould time out: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould time out.", success)

			if p.polls != 4 {
				t.Fatalf("\t%s\tTest 2:\tShould poll exactly the round budget, got %d.", failed, p.polls)
			}
			t.Logf("\t%s\tTest 2:\tShould poll exactly the round budget.", success)
		}

		t.Logf("\tTest 3:\tWhen the pending lookup fails.")
		{
			lookupErr := errors.New("connection refused")
			p := poller{lastRound: 20, lookupErr: lookupErr}

			_, err := algod.WaitForConfirmation(ctx, &p, "TX", 4)
			if !errors.Is(err, lookupErr) {
				t.Fatalf("\t%s\tTest 3:\tShould get back the lookup error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould get back the lookup error.", success)
		}

		t.Logf("\tTest 4:\tWhen the context is canceled.")
		{
			ctx, cancel := context.WithCancel(ctx)
			cancel()

			p := poller{lastRound: 20}
			_, err := algod.WaitForConfirmation(ctx, &p, "TX", 4)
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest 4:\tShould stop with the context error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 4:\tShould stop with the context error.", success)
		}

		t.Logf("\tTest 5:\tWhen the round budget is zero.")
		{
			p := poller{lastRound: 20}
			_, err := algod.WaitForConfirmation(ctx, &p, "TX", 0)
			if !errors.Is(err, algod.ErrConfirmationTimeout) || p.polls != 0 {
				t.Fatalf("\t%s\tTest 5:\tShould time out without polling: %v", failed, err)
			}
			t.Logf("\t%s\tTest 5:\tShould time out without polling.", success)
		}
	}
}

func Test_WaitAgainstNode(t *testing.T) {
	srv := algodtest.New()
	defer srv.Close()

	srv.SetConfirmDelay(0)

	client, err := algod.New(srv.Config())
	if err != nil {
		t.Fatalf("Should be able to construct a client: %s", err)
	}

	_, err = algod.WaitForConfirmation(context.Background(), client, "UNKNOWN", 3)
	if e := algod.GetError(err); e == nil || e.Status != 404 {
		t.Fatalf("Should get back the node's not found error: %v", err)
	}
}
