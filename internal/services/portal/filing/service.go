// Package filing handles return submission, payment intent submission, and
// history reads for authenticated dealers.
package filing

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/sreedharv/ptrportal/internal/platform/errors"
	"github.com/sreedharv/ptrportal/internal/platform/id"
	"github.com/sreedharv/ptrportal/internal/platform/refnum"
	"github.com/sreedharv/ptrportal/internal/services/portal/storage"
)

// Store is the persistence surface the filing service needs.
type Store interface {
	storage.ReturnStore
	storage.PaymentStore
	storage.TransactionStore
}

// Service exposes filing operations over the portal store.
type Service struct {
	store          Store
	newID          func() (string, error)
	mintSettlement func() (string, error)
	clock          func() time.Time
}

// NewService builds a filing service over a store.
func NewService(store Store) *Service {
	return &Service{
		store:          store,
		newID:          id.NewID,
		mintSettlement: refnum.NewSettlementID,
		clock:          time.Now,
	}
}

// SubmitReturn validates and persists a filed tax return. Returns are
// append-only; there is no update path.
func (s *Service) SubmitReturn(ctx context.Context, record storage.TaxReturn) (storage.TaxReturn, error) {
	if strings.TrimSpace(record.PTIN) == "" {
		return storage.TaxReturn{}, apperrors.New(apperrors.CodeReturnMissingFields, "ptin is required")
	}
	if strings.TrimSpace(record.TaxPeriod) == "" {
		return storage.TaxReturn{}, apperrors.New(apperrors.CodeReturnMissingFields, "tax period is required")
	}
	if len(record.LineItems) == 0 {
		return storage.TaxReturn{}, apperrors.New(apperrors.CodeReturnMissingFields, "line items are required")
	}

	recordID, err := s.newID()
	if err != nil {
		return storage.TaxReturn{}, apperrors.Wrap(apperrors.CodeStorageFailure, "mint return id", err)
	}
	record.ID = recordID
	record.SubmittedAt = s.clock().UTC()

	if err := s.store.InsertReturn(ctx, record); err != nil {
		return storage.TaxReturn{}, apperrors.Wrap(apperrors.CodeStorageFailure, "insert return", err)
	}
	return record, nil
}

// ListReturns reads the dealer's filed returns, newest first.
func (s *Service) ListReturns(ctx context.Context, ptin string) ([]storage.TaxReturn, error) {
	records, err := s.store.ListReturns(ctx, ptin, storage.HistoryLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageFailure, "list returns", err)
	}
	return records, nil
}

// SubmitPayment validates a payment intent, mints its settlement
// transaction ID, and persists it.
func (s *Service) SubmitPayment(ctx context.Context, intent storage.PaymentIntent) (storage.PaymentIntent, error) {
	if strings.TrimSpace(intent.PTIN) == "" {
		return storage.PaymentIntent{}, apperrors.New(apperrors.CodePaymentMissingFields, "ptin is required")
	}
	if strings.TrimSpace(intent.TaxType) == "" {
		return storage.PaymentIntent{}, apperrors.New(apperrors.CodePaymentMissingFields, "tax type is required")
	}
	if intent.Amount == 0 {
		return storage.PaymentIntent{}, apperrors.New(apperrors.CodePaymentMissingFields, "amount is required")
	}

	intentID, err := s.newID()
	if err != nil {
		return storage.PaymentIntent{}, apperrors.Wrap(apperrors.CodeStorageFailure, "mint payment id", err)
	}
	settlementID, err := s.mintSettlement()
	if err != nil {
		return storage.PaymentIntent{}, apperrors.Wrap(apperrors.CodeStorageFailure, "mint settlement id", err)
	}
	intent.ID = intentID
	intent.SettlementID = settlementID
	intent.SubmittedAt = s.clock().UTC()

	if err := s.store.InsertPayment(ctx, intent); err != nil {
		return storage.PaymentIntent{}, apperrors.Wrap(apperrors.CodeStorageFailure, "insert payment", err)
	}
	return intent, nil
}

// ListTransactions reads the dealer's completed transactions, most recent
// completion first.
func (s *Service) ListTransactions(ctx context.Context, ptin string) ([]storage.CompletedTransaction, error) {
	records, err := s.store.ListCompletedTransactions(ctx, ptin, storage.HistoryLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageFailure, "list transactions", err)
	}
	return records, nil
}

// GetTransaction reads one completed transaction by its row ID.
func (s *Service) GetTransaction(ctx context.Context, transactionID string) (storage.CompletedTransaction, error) {
	record, err := s.store.GetCompletedTransaction(ctx, transactionID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.CompletedTransaction{}, apperrors.New(apperrors.CodeTransactionNotFound, "transaction not found")
	}
	if err != nil {
		return storage.CompletedTransaction{}, apperrors.Wrap(apperrors.CodeStorageFailure, "get transaction", err)
	}
	return record, nil
}
