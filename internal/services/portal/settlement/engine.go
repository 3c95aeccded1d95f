// Package settlement finalizes e-payments into completed transaction
// records.
//
// The engine guarantees that one logical payment, identified by the
// (ptin, challan number, bank reference) triple, produces exactly one
// durable record with exactly one CRN, no matter how many times the client
// retries the confirmation.
package settlement

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/sreedharv/ptrportal/internal/platform/errors"
	"github.com/sreedharv/ptrportal/internal/platform/id"
	"github.com/sreedharv/ptrportal/internal/platform/refnum"
	"github.com/sreedharv/ptrportal/internal/services/portal/storage"
)

const (
	// StatusCompleted is the only terminal status this engine writes.
	StatusCompleted = "Completed"
	// merchantName and typeOfTax are fixed document display values.
	merchantName = "Telangana"
	typeOfTax    = "Telangana Commercial Tax"
)

// tracerName identifies engine spans in trace exports.
const tracerName = "github.com/sreedharv/ptrportal/internal/services/portal/settlement"

// FinalizeInput carries everything the engine needs to record a completed
// transaction: the payment intent fields plus the bank authentication
// result.
type FinalizeInput struct {
	PTIN          string
	Name          string
	TaxType       string
	Purpose       string
	TaxPeriodFrom string
	TaxPeriodTo   string
	Amount        float64
	Remarks       string
	Date          string

	BankName      string
	AccountNumber string
	AccountHolder string

	ChallanNo   string
	DDOCode     string
	HOA         string
	BankRef     string
	EPaymentRef string
	PaymentID   string

	BankTimestamp time.Time
}

// Engine reconciles finalize calls against the transaction store.
type Engine struct {
	store   storage.TransactionStore
	mintCRN func() (string, error)
	newID   func() (string, error)
	clock   func() time.Time
}

// NewEngine builds a settlement engine over a transaction store.
func NewEngine(store storage.TransactionStore) *Engine {
	return &Engine{
		store:   store,
		mintCRN: refnum.NewCRN,
		newID:   id.NewID,
		clock:   time.Now,
	}
}

// Finalize records a completed transaction exactly once per identity
// triple.
//
// A first call mints a fresh CRN and inserts the record. Any later call
// with the same triple, including one that loses the insert race to a
// concurrent duplicate, refreshes the existing record's completion
// timestamp and returns it with the original CRN. The store's uniqueness
// constraint, not the pre-insert lookup, is what makes this safe.
func (e *Engine) Finalize(ctx context.Context, input FinalizeInput) (storage.CompletedTransaction, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "settlement.Finalize")
	defer span.End()

	if err := validateFinalizeInput(input); err != nil {
		return storage.CompletedTransaction{}, err
	}

	key := storage.TransactionKey{
		PTIN:      input.PTIN,
		ChallanNo: input.ChallanNo,
		BankRef:   input.BankRef,
	}
	span.SetAttributes(
		attribute.String("settlement.ptin", key.PTIN),
		attribute.String("settlement.challan_no", key.ChallanNo),
	)

	existing, err := e.store.GetCompletedTransactionByKey(ctx, key)
	switch {
	case err == nil:
		return e.refresh(ctx, span, existing.ID)
	case errors.Is(err, storage.ErrNotFound):
		// First finalize for this triple; fall through to insert.
	default:
		return storage.CompletedTransaction{}, apperrors.Wrap(apperrors.CodeStorageFailure, "look up transaction", err)
	}

	record, err := e.buildRecord(input)
	if err != nil {
		return storage.CompletedTransaction{}, err
	}

	err = e.store.InsertCompletedTransaction(ctx, record)
	if errors.Is(err, storage.ErrAlreadyExists) {
		// Lost the insert race to a concurrent duplicate. The winner's
		// record is authoritative; discard ours and refresh theirs.
		winner, lookupErr := e.store.GetCompletedTransactionByKey(ctx, key)
		if lookupErr != nil {
			return storage.CompletedTransaction{}, apperrors.Wrap(apperrors.CodeStorageFailure, "look up winning transaction", lookupErr)
		}
		return e.refresh(ctx, span, winner.ID)
	}
	if err != nil {
		return storage.CompletedTransaction{}, apperrors.Wrap(apperrors.CodeStorageFailure, "insert transaction", err)
	}

	span.SetAttributes(attribute.Bool("settlement.duplicate", false))
	return record, nil
}

// refresh handles the duplicate path: only the completion timestamp moves.
func (e *Engine) refresh(ctx context.Context, span trace.Span, recordID string) (storage.CompletedTransaction, error) {
	refreshed, err := e.store.RefreshTransactionCompletion(ctx, recordID, e.clock().UTC())
	if err != nil {
		return storage.CompletedTransaction{}, apperrors.Wrap(apperrors.CodeStorageFailure, "refresh transaction completion", err)
	}
	span.SetAttributes(attribute.Bool("settlement.duplicate", true))
	return refreshed, nil
}

func (e *Engine) buildRecord(input FinalizeInput) (storage.CompletedTransaction, error) {
	recordID, err := e.newID()
	if err != nil {
		return storage.CompletedTransaction{}, apperrors.Wrap(apperrors.CodeStorageFailure, "mint transaction id", err)
	}
	crn, err := e.mintCRN()
	if err != nil {
		return storage.CompletedTransaction{}, apperrors.Wrap(apperrors.CodeStorageFailure, "mint crn", err)
	}

	now := e.clock().UTC()
	bankTimestamp := input.BankTimestamp.UTC()
	if bankTimestamp.IsZero() {
		bankTimestamp = now
	}

	return storage.CompletedTransaction{
		ID:            recordID,
		PTIN:          input.PTIN,
		Name:          input.Name,
		TaxType:       input.TaxType,
		Purpose:       input.Purpose,
		TaxPeriodFrom: input.TaxPeriodFrom,
		TaxPeriodTo:   input.TaxPeriodTo,
		Amount:        input.Amount,
		Remarks:       input.Remarks,
		Date:          input.Date,
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		AccountHolder: input.AccountHolder,
		ChallanNo:     input.ChallanNo,
		DDOCode:       input.DDOCode,
		HOA:           input.HOA,
		BankRef:       input.BankRef,
		CRN:           crn,
		EPaymentRef:   input.EPaymentRef,
		PaymentID:     input.PaymentID,
		MerchantName:  merchantName,
		TypeOfTax:     typeOfTax,
		Status:        StatusCompleted,
		BankTimestamp: bankTimestamp,
		CompletedAt:   now,
	}, nil
}

// validateFinalizeInput fails fast on missing identity, amount, or bank
// fields before any store call.
func validateFinalizeInput(input FinalizeInput) error {
	if strings.TrimSpace(input.PTIN) == "" {
		return apperrors.New(apperrors.CodeSettlementMissingFields, "ptin is required")
	}
	if input.Amount == 0 {
		return apperrors.New(apperrors.CodeSettlementMissingFields, "amount is required")
	}
	if strings.TrimSpace(input.BankName) == "" {
		return apperrors.New(apperrors.CodeSettlementMissingFields, "bank name is required")
	}
	return nil
}
