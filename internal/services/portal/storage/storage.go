// Package storage defines persistence contracts for portal state.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// HistoryLimit caps return and transaction history reads.
const HistoryLimit = 50

// ReturnLineItem is one pay-bracket line of a filed return.
type ReturnLineItem struct {
	PayRange      string  `json:"payRange"`
	TaxRate       float64 `json:"taxRate"`
	EmployeeCount int     `json:"employeeCount"`
	TaxPayable    float64 `json:"taxPayable"`
}

// TaxReturn is one filed professional-tax return. Append-only.
type TaxReturn struct {
	ID             string
	PTIN           string
	Name           string
	Division       string
	Circle         string
	ProfessionType string
	TaxPeriod      string
	ReturnType     string
	LineItems      []ReturnLineItem
	TotalPayable   float64
	SubmittedAt    time.Time
}

// PaymentIntent is one submitted e-payment request with its minted
// settlement transaction ID. Immutable once created.
type PaymentIntent struct {
	ID            string
	PTIN          string
	Name          string
	TaxType       string
	Purpose       string
	TaxPeriodFrom string
	TaxPeriodTo   string
	Amount        float64
	Remarks       string
	Date          string
	SettlementID  string
	SubmittedAt   time.Time
}

// CompletedTransaction is the durable record of a finalized payment.
//
// For reconciliation purposes a transaction is identified by the
// (PTIN, ChallanNo, BankRef) triple; at most one record exists per triple.
type CompletedTransaction struct {
	ID            string
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
	CRN         string
	EPaymentRef string
	PaymentID   string

	MerchantName string
	TypeOfTax    string

	Status        string
	BankTimestamp time.Time
	CompletedAt   time.Time
}

// TransactionKey is the reconciliation identity triple.
type TransactionKey struct {
	PTIN      string
	ChallanNo string
	BankRef   string
}

// Key returns the reconciliation triple for the transaction.
func (t CompletedTransaction) Key() TransactionKey {
	return TransactionKey{PTIN: t.PTIN, ChallanNo: t.ChallanNo, BankRef: t.BankRef}
}

// ReturnStore persists filed tax returns.
type ReturnStore interface {
	InsertReturn(ctx context.Context, record TaxReturn) error
	ListReturns(ctx context.Context, ptin string, limit int) ([]TaxReturn, error)
}

// PaymentStore persists payment intents.
type PaymentStore interface {
	InsertPayment(ctx context.Context, intent PaymentIntent) error
}

// TransactionStore persists completed transactions.
//
// InsertCompletedTransaction must be backed by a uniqueness constraint on
// the reconciliation triple and return ErrAlreadyExists when the triple is
// taken; that constraint, not caller-side checks, is what keeps concurrent
// finalize calls from minting two records for one payment.
type TransactionStore interface {
	InsertCompletedTransaction(ctx context.Context, record CompletedTransaction) error
	GetCompletedTransaction(ctx context.Context, id string) (CompletedTransaction, error)
	GetCompletedTransactionByKey(ctx context.Context, key TransactionKey) (CompletedTransaction, error)
	RefreshTransactionCompletion(ctx context.Context, id string, completedAt time.Time) (CompletedTransaction, error)
	ListCompletedTransactions(ctx context.Context, ptin string, limit int) ([]CompletedTransaction, error)
}
