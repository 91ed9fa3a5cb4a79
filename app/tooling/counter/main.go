// This program deploys the counter application to a sandbox network, calls
// it and prints its global state along the way.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/algoapps/business/contracts/counter"
	"github.com/ardanlabs/algoapps/business/core/chain"
	"github.com/ardanlabs/algoapps/foundation/account"
	"github.com/ardanlabs/algoapps/foundation/algod"
	"github.com/ardanlabs/algoapps/foundation/appstate"
	"github.com/ardanlabs/algoapps/foundation/logger"
	"github.com/ardanlabs/algoapps/foundation/sandbox"
	"github.com/ardanlabs/algoapps/foundation/validate"
	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("COUNTER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// Values in a .env file are applied to the environment first so the
	// creator's mnemonic can stay out of the shell history.
	_ = godotenv.Load()

	cfg := struct {
		conf.Version
		Algod struct {
			Address string        `conf:"default:http://localhost:4001" validate:"required,http_url"`
			Token   string        `conf:"default:aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa,mask"`
			Timeout time.Duration `conf:"default:10s"`
		}
		Indexer struct {
			Address string `conf:"default:http://localhost:8980" validate:"required,http_url"`
			Token   string `conf:"default:aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa,mask"`
		}
		Creator struct {
			Mnemonic string `conf:"mask"`
		}
		Sandbox struct {
			Dir string
		}
		Confirm struct {
			Rounds uint64 `conf:"default:5" validate:"gt=0"`
		}
		Ops     string        `conf:"help:comma separated list of Add and Deduct calls to make after the first Add"`
		Timeout time.Duration `conf:"default:5m"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "counter application demo",
		},
	}

	const prefix = "COUNTER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	if err := validate.Check(cfg); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ops, err := counter.ParseOps(cfg.Ops)
	if err != nil {
		return fmt.Errorf("parsing ops: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting counter", "version", build)
	defer log.Infow("counter complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	// =========================================================================
	// Node Support

	client, err := algod.New(algod.Config{
		Address: cfg.Algod.Address,
		Token:   cfg.Algod.Token,
		Timeout: cfg.Algod.Timeout,
	})
	if err != nil {
		return fmt.Errorf("constructing algod client: %w", err)
	}

	ch := chain.New(log, client, chain.WithConfirmRounds(cfg.Confirm.Rounds))

	// Without a configured mnemonic the sandbox funder creates the app.
	var creator account.Account
	switch cfg.Creator.Mnemonic {
	case "":
		idx, err := algod.NewIndexer(algod.Config{Address: cfg.Indexer.Address, Token: cfg.Indexer.Token})
		if err != nil {
			return fmt.Errorf("constructing indexer client: %w", err)
		}

		creator, err = chain.SandboxFunder(ctx, idx, sandbox.New(cfg.Sandbox.Dir))
		if err != nil {
			return fmt.Errorf("loading sandbox funder: %w", err)
		}

	default:
		creator, err = account.FromMnemonic(cfg.Creator.Mnemonic)
		if err != nil {
			return fmt.Errorf("loading creator: %w", err)
		}
	}

	log.Infow("startup", "status", "creator loaded", "creator", creator)

	// =========================================================================
	// Deploy

	approval, err := counter.ApprovalProgram()
	if err != nil {
		return fmt.Errorf("building approval program: %w", err)
	}

	clearSrc, err := counter.ClearProgram()
	if err != nil {
		return fmt.Errorf("building clear program: %w", err)
	}

	approvalBin, err := ch.CompileProgram(ctx, approval)
	if err != nil {
		return err
	}

	clearBin, err := ch.CompileProgram(ctx, clearSrc)
	if err != nil {
		return err
	}

	appID, err := ch.CreateApp(ctx, creator, approvalBin, clearBin, counter.GlobalSchema, counter.LocalSchema)
	if err != nil {
		return fmt.Errorf("creating app: %w", err)
	}

	if err := logState(ctx, log, ch, creator, appID); err != nil {
		return err
	}

	// =========================================================================
	// Calls

	ops = append([]counter.Op{counter.OpAdd}, ops...)
	for _, op := range ops {
		if err := ch.CallApp(ctx, creator, appID, op.Args()...); err != nil {
			return fmt.Errorf("calling %s: %w", op, err)
		}

		if err := logState(ctx, log, ch, creator, appID); err != nil {
			return err
		}
	}

	state, err := ch.GlobalState(ctx, appID)
	if err != nil {
		return err
	}

	got, err := state.Uint(counter.Key)
	if err != nil {
		return err
	}

	if exp := counter.Replay(ops...); got != uint64(exp) {
		return fmt.Errorf("count is %d after %v, expected %d", got, ops, exp)
	}

	return nil
}

func logState(ctx context.Context, log *zap.SugaredLogger, ch *chain.Chain, creator account.Account, appID uint64) error {
	state, err := ch.CreatorGlobalState(ctx, creator.Address(), appID)
	if err != nil {
		return fmt.Errorf("reading state: %w", err)
	}

	log.Infow("global state", "appid", appID, "state", fields(state))

	return nil
}

func fields(state appstate.State) map[string]string {
	m := make(map[string]string, len(state))
	for _, key := range state.Keys() {
		m[key] = state[key].String()
	}
	return m
}
