// Package rest exposes the portal's JSON API.
//
// Every /api/* route except login requires a Bearer session token; the
// middleware resolves it to a dealer identity and stores it in the request
// context.
package rest

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/sreedharv/ptrportal/internal/directory"
	apperrors "github.com/sreedharv/ptrportal/internal/platform/errors"
	"github.com/sreedharv/ptrportal/internal/services/portal/bank"
	"github.com/sreedharv/ptrportal/internal/services/portal/filing"
	"github.com/sreedharv/ptrportal/internal/services/portal/settlement"
	"github.com/sreedharv/ptrportal/internal/services/portal/token"
)

// Server routes portal API requests to the domain services.
type Server struct {
	dir        directory.Directory
	tokens     *token.Service
	bank       *bank.Simulator
	settlement *settlement.Engine
	filing     *filing.Service
}

// NewServer wires the API over its backing services.
func NewServer(
	dir directory.Directory,
	tokens *token.Service,
	bankSim *bank.Simulator,
	engine *settlement.Engine,
	filingSvc *filing.Service,
) *Server {
	return &Server{
		dir:        dir,
		tokens:     tokens,
		bank:       bankSim,
		settlement: engine,
		filing:     filingSvc,
	}
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.Handle("GET /api/validate-token", s.requireToken(s.handleValidateToken))
	mux.Handle("GET /api/dealer-info", s.requireToken(s.handleDealerInfo))
	mux.Handle("GET /api/dealer-by-ptin/{ptin}", s.requireToken(s.handleDealerByPTIN))
	mux.Handle("GET /api/bank-details", s.requireToken(s.handleBankDetails))

	mux.Handle("POST /api/submit-return", s.requireToken(s.handleSubmitReturn))
	mux.Handle("GET /api/returns", s.requireToken(s.handleListReturns))
	mux.Handle("POST /api/submit-payment", s.requireToken(s.handleSubmitPayment))

	mux.Handle("POST /api/validate-bank-account", s.requireToken(s.handleValidateBankAccount))
	mux.Handle("POST /api/store-transaction-success", s.requireToken(s.handleStoreTransactionSuccess))
	mux.Handle("GET /api/transaction-history", s.requireToken(s.handleTransactionHistory))
	mux.Handle("GET /api/transaction/{transactionId}", s.requireToken(s.handleGetTransaction))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

// writeJSONError renders any error as the API failure shape, resolving the
// HTTP status from its domain code.
func writeJSONError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	message := "internal error"
	var domainErr *apperrors.Error
	if stderrors.As(err, &domainErr) {
		message = domainErr.Message
	}
	writeJSON(w, code.HTTPStatus(), errorResponse{Message: message, Code: string(code)})
}

func decodeJSON(r *http.Request, target any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(target)
}
