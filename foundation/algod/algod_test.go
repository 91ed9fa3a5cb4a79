package algod_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/ardanlabs/algoapps/foundation/algod"
	"github.com/ardanlabs/algoapps/foundation/algod/algodtest"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_Client(t *testing.T) {
	srv := algodtest.New()
	defer srv.Close()

	client, err := algod.New(srv.Config())
	if err != nil {
		t.Fatalf("Should be able to construct a client: %s", err)
	}

	ctx := context.Background()

	t.Log("Given the need to talk to a node.")
	{
		t.Logf("\tTest 0:\tWhen asking for the node status.")
		{
			ns, err := client.Status(ctx)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to get the status: %s", failed, err)
			}
			if ns.LastRound != srv.Round() {
				t.Fatalf("\t%s\tTest 0:\tShould get back round %d, got %d.", failed, srv.Round(), ns.LastRound)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the last round.", success)
		}

		t.Logf("\tTest 1:\tWhen compiling source.")
		{
			cr, err := client.Compile(ctx, "#pragma version 5\nint 1\n")
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to compile: %s", failed, err)
			}
			program, err := algod.Program(cr)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to decode the program: %s", failed, err)
			}
			if cr.Hash != algodtest.ProgramAddress(program) {
				t.Fatalf("\t%s\tTest 1:\tShould get back the program address.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould get back the program and its address.", success)
		}

		t.Logf("\tTest 2:\tWhen the node rejects the source.")
		{
			srv.SetCompile(func(source string) error {
				return errors.New("1: unknown opcode: intt")
			})
			defer srv.SetCompile(nil)

			_, err := client.Compile(ctx, "intt 1")
			e := algod.GetError(err)
			if e == nil {
				t.Fatalf("\t%s\tTest 2:\tShould get back a node error: %v", failed, err)
			}
			if e.Status != http.StatusBadRequest || e.Message != "1: unknown opcode: intt" {
				t.Logf("\t%s\tTest 2:\tgot: %d %s", failed, e.Status, e.Message)
				t.Fatalf("\t%s\tTest 2:\tShould get back the node message.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould get back the node message.", success)
		}

		t.Logf("\tTest 3:\tWhen asking for suggested params.")
		{
			sp, err := client.SuggestedParams(ctx)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to get params: %s", failed, err)
			}
			if uint64(sp.FirstRoundValid) != srv.Round() || uint64(sp.LastRoundValid) != srv.Round()+1000 {
				t.Fatalf("\t%s\tTest 3:\tShould get a 1000 round validity window, got %d-%d.", failed, sp.FirstRoundValid, sp.LastRoundValid)
			}
			if sp.GenesisID != "sandnet-v1" || len(sp.GenesisHash) != 32 || sp.MinFee != 1000 {
				t.Fatalf("\t%s\tTest 3:\tShould get the genesis and fee values: %+v", failed, sp)
			}
			t.Logf("\t%s\tTest 3:\tShould get back usable params.", success)
		}

		t.Logf("\tTest 4:\tWhen asking for an unknown application.")
		{
			_, err := client.ApplicationInfo(ctx, 99)
			e := algod.GetError(err)
			if e == nil || e.Status != http.StatusNotFound {
				t.Fatalf("\t%s\tTest 4:\tShould get back a not found error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 4:\tShould get back a not found error.", success)
		}

		t.Logf("\tTest 5:\tWhen asking for a known application.")
		{
			srv.SetApplication(models.Application{
				Id: 7,
				Params: models.ApplicationParams{
					Creator: "creator",
					GlobalState: []models.TealKeyValue{
						{Key: "Q291bnQ=", Value: models.TealValue{Type: 2, Uint: 3}},
					},
				},
			})

			app, err := client.ApplicationInfo(ctx, 7)
			if err != nil {
				t.Fatalf("\t%s\tTest 5:\tShould be able to get the application: %s", failed, err)
			}
			if len(app.Params.GlobalState) != 1 || app.Params.GlobalState[0].Value.Uint != 3 {
				t.Fatalf("\t%s\tTest 5:\tShould get back the global state: %+v", failed, app.Params)
			}
			t.Logf("\t%s\tTest 5:\tShould get back the global state.", success)
		}
	}
}

func Test_BadToken(t *testing.T) {
	srv := algodtest.New()
	defer srv.Close()

	cfg := srv.Config()
	cfg.Token = "bad"

	client, err := algod.New(cfg)
	if err != nil {
		t.Fatalf("Should be able to construct a client: %s", err)
	}

	_, err = client.Status(context.Background())
	if e := algod.GetError(err); e == nil || e.Status != http.StatusUnauthorized {
		t.Fatalf("Should be rejected with a bad token: %v", err)
	}
}

func Test_BadConfig(t *testing.T) {
	addresses := []string{
		"",
		"localhost:4001",
		"ftp://localhost:4001",
	}

	t.Log("Given the need to reject unusable node addresses.")
	{
		for i, address := range addresses {
			t.Logf("\tTest %d:\tWhen using address %q.", i, address)
			{
				if _, err := algod.New(algod.Config{Address: address}); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould reject the address.", failed, i)
				}
				if _, err := algod.NewIndexer(algod.Config{Address: address}); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould reject the indexer address.", failed, i)
				}
				t.Logf("\t%s\tTest %d:\tShould reject the address.", success, i)
			}
		}
	}
}

func Test_IndexerAccounts(t *testing.T) {
	srv := algodtest.New()
	defer srv.Close()

	srv.SetIndexerAccounts([]models.Account{
		{Address: "A", CreatedAtRound: 0, Status: "Offline"},
		{Address: "B", CreatedAtRound: 4, Status: "Offline"},
		{Address: "C", CreatedAtRound: 6, Status: "Online"},
	})

	idx, err := algod.NewIndexer(srv.Config())
	if err != nil {
		t.Fatalf("Should be able to construct an indexer client: %s", err)
	}

	ctx := context.Background()

	t.Log("Given the need to list the accounts the indexer knows.")
	{
		t.Logf("\tTest 0:\tWhen every account fits in one page.")
		{
			accounts, err := idx.Accounts(ctx)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to list accounts: %s", failed, err)
			}
			if len(accounts) != 3 || accounts[0].Address != "A" {
				t.Fatalf("\t%s\tTest 0:\tShould get back the indexer accounts: %+v", failed, accounts)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the indexer accounts.", success)
		}

		t.Logf("\tTest 1:\tWhen the indexer pages two accounts at a time.")
		{
			srv.SetIndexerPageSize(2)
			before := srv.Calls("indexer-accounts")

			accounts, err := idx.Accounts(ctx)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to list accounts: %s", failed, err)
			}
			if len(accounts) != 3 || accounts[2].Address != "C" {
				t.Fatalf("\t%s\tTest 1:\tShould get back every page: %+v", failed, accounts)
			}
			if pages := srv.Calls("indexer-accounts") - before; pages != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould follow the next token once, got %d requests.", failed, pages)
			}
			t.Logf("\t%s\tTest 1:\tShould follow the next token to the last page.", success)
		}
	}
}
