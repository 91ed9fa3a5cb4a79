// This program compiles the donation escrow for a benefactor, funds it and
// withdraws the donation to the benefactor through the logic signature.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/algoapps/business/contracts/donation"
	"github.com/ardanlabs/algoapps/business/core/chain"
	"github.com/ardanlabs/algoapps/foundation/account"
	"github.com/ardanlabs/algoapps/foundation/algod"
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
	log, err := logger.New("DONATION")
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
		Sender struct {
			Mnemonic string `conf:"mask"`
		}
		Sandbox struct {
			Dir string
		}
		Benefactor string        `conf:"default:UFAGBH5BHBAKDSSSBKP6LAZ7VFIA3ETNK7LVNEH6KXRRNTYE6WYHTEMEGU" validate:"required,algoaddr"`
		Donation   uint64        `conf:"default:2000000" validate:"gt=0"`
		Withdraw   uint64        `conf:"default:1000000" validate:"gt=0"`
		Timeout    time.Duration `conf:"default:5m"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "donation escrow demo",
		},
	}

	const prefix = "DONATION"
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

	if cfg.Withdraw > cfg.Donation {
		return fmt.Errorf("withdraw %d is more than the donation %d", cfg.Withdraw, cfg.Donation)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting donation", "version", build)
	defer log.Infow("donation complete")

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

	ch := chain.New(log, client)

	var sender account.Account
	switch cfg.Sender.Mnemonic {
	case "":
		idx, err := algod.NewIndexer(algod.Config{Address: cfg.Indexer.Address, Token: cfg.Indexer.Token})
		if err != nil {
			return fmt.Errorf("constructing indexer client: %w", err)
		}

		sender, err = chain.SandboxFunder(ctx, idx, sandbox.New(cfg.Sandbox.Dir))
		if err != nil {
			return fmt.Errorf("loading sandbox funder: %w", err)
		}

	default:
		sender, err = account.FromMnemonic(cfg.Sender.Mnemonic)
		if err != nil {
			return fmt.Errorf("loading sender: %w", err)
		}
	}

	// =========================================================================
	// Escrow

	source, err := donation.EscrowProgram(cfg.Benefactor)
	if err != nil {
		return fmt.Errorf("building escrow program: %w", err)
	}

	sig, err := ch.CompileSignature(ctx, source)
	if err != nil {
		return err
	}

	log.Infow("escrow", "address", sig.Address(), "benefactor", cfg.Benefactor)

	if _, err := ch.Pay(ctx, sender, sig.Address(), cfg.Donation); err != nil {
		return fmt.Errorf("funding escrow: %w", err)
	}

	pt, err := ch.LogicSigPay(ctx, sig, cfg.Benefactor, cfg.Withdraw)
	if err != nil {
		return fmt.Errorf("withdrawing: %w", err)
	}

	log.Infow("withdraw", "benefactor", cfg.Benefactor, "amount", cfg.Withdraw, "round", pt.ConfirmedRound)

	return nil
}
