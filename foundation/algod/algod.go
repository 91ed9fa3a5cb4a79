// Package algod provides a thin client for the REST api of an Algorand node
// and the indexer on top of the sdk clients. Every call is a single request:
// failures are returned to the caller and never retried.
package algod

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	sdkalgod "github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/indexer"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ardanlabs/algoapps/foundation/validate"
)

// defaultTimeout bounds a request when the config doesn't.
const defaultTimeout = time.Minute

// Config represents the settings for connecting to a node.
type Config struct {
	Address string        `json:"address" validate:"required,http_url"`
	Token   string        `json:"token"`
	Timeout time.Duration `json:"timeout"`
}

// address validates the config and returns the base address of the api.
func (cfg Config) address() (string, error) {
	if err := validate.Check(cfg); err != nil {
		return "", fmt.Errorf("validating config: %w", err)
	}

	return strings.TrimSuffix(cfg.Address, "/"), nil
}

func (cfg Config) timeout() time.Duration {
	if cfg.Timeout == 0 {
		return defaultTimeout
	}
	return cfg.Timeout
}

// Program decodes the bytecode of a compile response.
func Program(cr models.CompileResponse) ([]byte, error) {
	return base64.StdEncoding.DecodeString(cr.Result)
}

// =============================================================================

// Client is a client for the algod api.
type Client struct {
	api     *sdkalgod.Client
	timeout time.Duration
}

// New constructs a client for the node at the configured address.
func New(cfg Config) (*Client, error) {
	address, err := cfg.address()
	if err != nil {
		return nil, err
	}

	api, err := sdkalgod.MakeClient(address, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("constructing algod client: %w", err)
	}

	return &Client{api: api, timeout: cfg.timeout()}, nil
}

// Compile asks the node to assemble the TEAL source.
func (c *Client) Compile(ctx context.Context, source string) (models.CompileResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cr, err := c.api.TealCompile([]byte(source)).Do(ctx)
	if err != nil {
		return models.CompileResponse{}, toError("/v2/teal/compile", err)
	}

	return cr, nil
}

// Status returns the current status of the node.
func (c *Client) Status(ctx context.Context) (models.NodeStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ns, err := c.api.Status().Do(ctx)
	if err != nil {
		return models.NodeStatus{}, toError("/v2/status", err)
	}

	return ns, nil
}

// StatusAfterBlock blocks until the node has seen the round after the one
// specified and then returns the node status.
func (c *Client) StatusAfterBlock(ctx context.Context, round uint64) (models.NodeStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ns, err := c.api.StatusAfterBlock(round).Do(ctx)
	if err != nil {
		return models.NodeStatus{}, toError(fmt.Sprintf("/v2/status/wait-for-block-after/%d", round), err)
	}

	return ns, nil
}

// PendingTransactionInfo returns the node's view of a submitted transaction.
func (c *Client) PendingTransactionInfo(ctx context.Context, txID string) (models.PendingTransactionInfoResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pt, _, err := c.api.PendingTransactionInformation(txID).Do(ctx)
	if err != nil {
		return models.PendingTransactionInfoResponse{}, toError("/v2/transactions/pending/"+txID, err)
	}

	return pt, nil
}

// SendRawTransaction submits msgpack encoded signed transactions. A group
// is submitted as the concatenation of its members. The id of the first
// transaction is returned.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	txID, err := c.api.SendRawTransaction(raw).Do(ctx)
	if err != nil {
		return "", toError("/v2/transactions", err)
	}

	return txID, nil
}

// SuggestedParams returns the parameters for building a transaction valid
// for the next thousand rounds from the node's last round.
func (c *Client) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	sp, err := c.api.SuggestedParams().Do(ctx)
	if err != nil {
		return types.SuggestedParams{}, toError("/v2/transactions/params", err)
	}

	return sp, nil
}

// AccountInfo returns the node's view of the account.
func (c *Client) AccountInfo(ctx context.Context, address string) (models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	act, err := c.api.AccountInformation(address).Do(ctx)
	if err != nil {
		return models.Account{}, toError("/v2/accounts/"+address, err)
	}

	return act, nil
}

// ApplicationInfo returns the deployed application.
func (c *Client) ApplicationInfo(ctx context.Context, appID uint64) (models.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	app, err := c.api.GetApplicationByID(appID).Do(ctx)
	if err != nil {
		return models.Application{}, toError(fmt.Sprintf("/v2/applications/%d", appID), err)
	}

	return app, nil
}

// =============================================================================

// Indexer is a client for the indexer api.
type Indexer struct {
	api     *indexer.Client
	timeout time.Duration
}

// NewIndexer constructs a client for the indexer at the configured address.
func NewIndexer(cfg Config) (*Indexer, error) {
	address, err := cfg.address()
	if err != nil {
		return nil, err
	}

	api, err := indexer.MakeClient(address, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("constructing indexer client: %w", err)
	}

	return &Indexer{api: api, timeout: cfg.timeout()}, nil
}

// Accounts returns the accounts known to the indexer, following the paging
// tokens until every page is read.
func (idx *Indexer) Accounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	var next string

	for {
		ar, err := idx.page(ctx, next)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, ar.Accounts...)
		if ar.NextToken == "" || len(ar.Accounts) == 0 {
			return accounts, nil
		}
		next = ar.NextToken
	}
}

func (idx *Indexer) page(ctx context.Context, next string) (models.AccountsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, idx.timeout)
	defer cancel()

	search := idx.api.SearchAccounts()
	if next != "" {
		search = search.NextToken(next)
	}

	ar, err := search.Do(ctx)
	if err != nil {
		return models.AccountsResponse{}, toError("/v2/accounts", err)
	}

	return ar, nil
}
