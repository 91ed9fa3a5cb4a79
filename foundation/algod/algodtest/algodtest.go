// Package algodtest provides an in-process stand in for the algod and
// indexer apis. It serves canned node behavior so clients can be tested
// without a running network. It does not evaluate programs: tests decide
// which submissions are rejected and what state the node reports.
package algodtest

import (
	"bytes"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/encoding/json"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ardanlabs/algoapps/foundation/algod"
	"github.com/dimfeld/httptreemux/v5"
)

// Token is the api token the server accepts.
const Token = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// programVersion leads every compiled program.
const programVersion = 0x05

// Submission is a group of signed transactions received in one request.
type Submission struct {
	Txns  []types.SignedTxn
	TxIDs []string
}

// SubmitFunc decides the fate of a submission. Returning an error rejects
// the request the way the node does for an invalid group. Returning a non
// empty reason accepts the request and reports a pool error later.
type SubmitFunc func(sub Submission) (poolError string, err error)

// CompileFunc decides the fate of a compile request.
type CompileFunc func(source string) error

// pending tracks a submitted transaction.
type pending struct {
	confirmAt uint64
	poolError string
	appIndex  uint64
	stx       types.SignedTxn
}

// Server is a fake node.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	round       uint64
	delay       uint64
	nextAppID   uint64
	pending     map[string]*pending
	submissions []Submission
	accounts    map[string]models.Account
	apps        map[uint64]models.Application
	indexer     []models.Account
	pageSize    int
	calls       map[string]int
	submit      SubmitFunc
	compile     CompileFunc
}

// New starts a fake node. Transactions confirm one round after submission.
func New() *Server {
	s := Server{
		round:     10,
		delay:     1,
		nextAppID: 1,
		pending:   make(map[string]*pending),
		accounts:  make(map[string]models.Account),
		apps:      make(map[uint64]models.Application),
		calls:     make(map[string]int),
	}

	mux := httptreemux.NewContextMux()
	mux.POST("/v2/teal/compile", s.handleCompile)
	mux.GET("/v2/status", s.handleStatus)
	mux.GET("/v2/status/wait-for-block-after/:round", s.handleStatusAfter)
	mux.GET("/v2/transactions/pending/:txid", s.handlePending)
	mux.POST("/v2/transactions", s.handleSend)
	mux.GET("/v2/transactions/params", s.handleParams)
	mux.GET("/v2/accounts/:address", s.handleAccount)
	mux.GET("/v2/applications/:id", s.handleApplication)
	mux.GET("/v2/accounts", s.handleIndexerAccounts)

	s.Server = httptest.NewServer(s.auth(mux))
	return &s
}

// Config returns the client configuration for the server.
func (s *Server) Config() algod.Config {
	return algod.Config{
		Address: s.URL,
		Token:   Token,
	}
}

// =============================================================================

// SetConfirmDelay sets how many rounds after submission a transaction
// confirms. Zero means it never confirms.
func (s *Server) SetConfirmDelay(rounds uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delay = rounds
}

// SetSubmit installs the function deciding the fate of submissions.
func (s *Server) SetSubmit(fn SubmitFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submit = fn
}

// SetCompile installs the function deciding the fate of compile requests.
func (s *Server) SetCompile(fn CompileFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.compile = fn
}

// SetAccount stores the account the node reports for its address.
func (s *Server) SetAccount(act models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[act.Address] = act
}

// SetApplication stores the application the node reports for its id.
func (s *Server) SetApplication(app models.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apps[app.Id] = app
}

// SetIndexerAccounts stores the accounts the indexer reports.
func (s *Server) SetIndexerAccounts(accounts []models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.indexer = accounts
}

// SetIndexerPageSize sets how many accounts the indexer returns per page.
// Zero returns every account in one page.
func (s *Server) SetIndexerPageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pageSize = size
}

// Submissions returns a copy of the accepted submissions.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()

	cpy := make([]Submission, len(s.submissions))
	copy(cpy, s.submissions)
	return cpy
}

// Calls returns how many times the route was requested.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[route]
}

// Round returns the current round of the node.
func (s *Server) Round() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.round
}

// ProgramAddress returns the escrow address of the compiled program.
func ProgramAddress(program []byte) string {
	sum := sha512.Sum512_256(append([]byte("Program"), program...))
	return types.Address(sum).String()
}

// =============================================================================

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Algo-API-Token") != Token && r.Header.Get("X-Indexer-API-Token") != Token {
			respondError(w, http.StatusUnauthorized, "Invalid API Token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) count(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[route]++
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	s.count("compile")

	source, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	fn := s.compile
	s.mu.Unlock()

	if fn != nil {
		if err := fn(string(source)); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	// The source bytes behind a version byte stand in for the assembled
	// program, so it never reads as printable text.
	program := append([]byte{programVersion}, source...)
	resp := models.CompileResponse{
		Hash:   ProgramAddress(program),
		Result: base64.StdEncoding.EncodeToString(program),
	}
	respond(w, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.count("status")

	s.mu.Lock()
	defer s.mu.Unlock()

	respond(w, models.NodeStatus{LastRound: s.round})
}

func (s *Server) handleStatusAfter(w http.ResponseWriter, r *http.Request) {
	s.count("status-after")

	round, err := strconv.ParseUint(httptreemux.ContextParams(r.Context())["round"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round <= round {
		s.round = round + 1
	}
	respond(w, models.NodeStatus{LastRound: s.round})
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	s.count("pending")

	txID := httptreemux.ContextParams(r.Context())["txid"]

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.pending[txID]
	if !exists {
		respondError(w, http.StatusNotFound, "txn does not exist")
		return
	}

	pt := models.PendingTransactionInfoResponse{Transaction: p.stx}
	switch {
	case p.poolError != "":
		pt.PoolError = p.poolError
	case p.confirmAt != 0 && s.round >= p.confirmAt:
		pt.ConfirmedRound = p.confirmAt
		pt.ApplicationIndex = p.appIndex
	}

	// The sdk always asks for the pending record as msgpack.
	if r.URL.Query().Get("format") == "msgpack" {
		w.Header().Set("Content-Type", "application/msgpack")
		w.WriteHeader(http.StatusOK)
		w.Write(msgpack.Encode(pt))
		return
	}
	respond(w, pt)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	s.count("send")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var sub Submission
	dec := msgpack.NewDecoder(bytes.NewReader(body))
	for {
		var stx types.SignedTxn
		err := dec.Decode(&stx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("msgpack decode error: %s", err))
			return
		}
		sub.Txns = append(sub.Txns, stx)
		sub.TxIDs = append(sub.TxIDs, crypto.GetTxID(stx.Txn))
	}

	if len(sub.Txns) == 0 {
		respondError(w, http.StatusBadRequest, "empty transaction group")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var poolError string
	if s.submit != nil {
		poolError, err = s.submit(sub)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	for i, txID := range sub.TxIDs {
		p := pending{poolError: poolError, stx: sub.Txns[i]}
		if s.delay > 0 {
			p.confirmAt = s.round + s.delay
		}

		txn := sub.Txns[i].Txn
		if txn.Type == types.ApplicationCallTx && txn.ApplicationID == 0 {
			p.appIndex = s.nextAppID
			s.nextAppID++
		}

		s.pending[txID] = &p
	}
	s.submissions = append(s.submissions, sub)

	respond(w, models.PostTransactionsResponse{Txid: sub.TxIDs[0]})
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	s.count("params")

	s.mu.Lock()
	defer s.mu.Unlock()

	hash := sha512.Sum512_256([]byte("sandnet-v1"))
	tp := models.TransactionParametersResponse{
		ConsensusVersion: "future",
		Fee:              0,
		GenesisHash:      hash[:],
		GenesisId:        "sandnet-v1",
		LastRound:        s.round,
		MinFee:           1000,
	}
	respond(w, tp)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	s.count("account")

	address := httptreemux.ContextParams(r.Context())["address"]

	s.mu.Lock()
	defer s.mu.Unlock()

	act, exists := s.accounts[address]
	if !exists {
		act = models.Account{Address: address, Status: "Offline", Round: s.round}
	}
	respond(w, act)
}

func (s *Server) handleApplication(w http.ResponseWriter, r *http.Request) {
	s.count("application")

	id, err := strconv.ParseUint(httptreemux.ContextParams(r.Context())["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	app, exists := s.apps[id]
	if !exists {
		respondError(w, http.StatusNotFound, "application does not exist")
		return
	}
	respond(w, app)
}

func (s *Server) handleIndexerAccounts(w http.ResponseWriter, r *http.Request) {
	s.count("indexer-accounts")

	s.mu.Lock()
	defer s.mu.Unlock()

	var start int
	if next := r.URL.Query().Get("next"); next != "" {
		n, err := strconv.Atoi(next)
		if err != nil || n < 0 || n > len(s.indexer) {
			respondError(w, http.StatusBadRequest, "invalid next token")
			return
		}
		start = n
	}

	end := len(s.indexer)
	if s.pageSize > 0 && start+s.pageSize < end {
		end = start + s.pageSize
	}

	resp := models.AccountsResponse{
		Accounts:     s.indexer[start:end],
		CurrentRound: s.round,
	}
	if end < len(s.indexer) {
		resp.NextToken = strconv.Itoa(end)
	}
	respond(w, resp)
}

// =============================================================================

func respond(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(json.Encode(data))
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(json.Encode(struct {
		Message string `json:"message"`
	}{Message: message}))
}
