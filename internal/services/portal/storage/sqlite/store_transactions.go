package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sreedharv/ptrportal/internal/services/portal/storage"
)

const transactionColumns = `id, ptin, name, tax_type, purpose,
       tax_period_from, tax_period_to, amount, remarks, date,
       bank_name, account_number, account_holder,
       challan_no, ddo_code, hoa, bank_ref, crn,
       epayment_ref, payment_id, merchant_name, type_of_tax,
       status, bank_timestamp, completed_at`

// InsertCompletedTransaction persists one completed transaction.
//
// Returns storage.ErrAlreadyExists when the (ptin, challan_no, bank_ref)
// triple is already taken; the UNIQUE index decides, so concurrent inserts
// for one payment resolve to exactly one winner.
func (s *Store) InsertCompletedTransaction(ctx context.Context, record storage.CompletedTransaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("transaction id is required")
	}
	if strings.TrimSpace(record.PTIN) == "" {
		return fmt.Errorf("ptin is required")
	}
	if strings.TrimSpace(record.CRN) == "" {
		return fmt.Errorf("crn is required")
	}
	completedAt := record.CompletedAt.UTC()
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}
	bankTimestamp := record.BankTimestamp.UTC()
	if bankTimestamp.IsZero() {
		bankTimestamp = completedAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO completed_transactions (
		   id, ptin, name, tax_type, purpose,
		   tax_period_from, tax_period_to, amount, remarks, date,
		   bank_name, account_number, account_holder,
		   challan_no, ddo_code, hoa, bank_ref, crn,
		   epayment_ref, payment_id, merchant_name, type_of_tax,
		   status, bank_timestamp, completed_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.PTIN,
		record.Name,
		record.TaxType,
		record.Purpose,
		record.TaxPeriodFrom,
		record.TaxPeriodTo,
		record.Amount,
		record.Remarks,
		record.Date,
		record.BankName,
		record.AccountNumber,
		record.AccountHolder,
		record.ChallanNo,
		record.DDOCode,
		record.HOA,
		record.BankRef,
		record.CRN,
		record.EPaymentRef,
		record.PaymentID,
		record.MerchantName,
		record.TypeOfTax,
		record.Status,
		toMillis(bankTimestamp),
		toMillis(completedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert completed transaction: %w", err)
	}
	return nil
}

// GetCompletedTransaction returns one transaction by row ID.
func (s *Store) GetCompletedTransaction(ctx context.Context, id string) (storage.CompletedTransaction, error) {
	if err := ctx.Err(); err != nil {
		return storage.CompletedTransaction{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CompletedTransaction{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.CompletedTransaction{}, fmt.Errorf("transaction id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+transactionColumns+`
		   FROM completed_transactions
		  WHERE id = ?`,
		id,
	)
	return scanTransaction(row)
}

// GetCompletedTransactionByKey returns the transaction for an identity triple.
func (s *Store) GetCompletedTransactionByKey(ctx context.Context, key storage.TransactionKey) (storage.CompletedTransaction, error) {
	if err := ctx.Err(); err != nil {
		return storage.CompletedTransaction{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CompletedTransaction{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(key.PTIN) == "" || strings.TrimSpace(key.ChallanNo) == "" || strings.TrimSpace(key.BankRef) == "" {
		return storage.CompletedTransaction{}, fmt.Errorf("transaction key is incomplete")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+transactionColumns+`
		   FROM completed_transactions
		  WHERE ptin = ? AND challan_no = ? AND bank_ref = ?`,
		key.PTIN,
		key.ChallanNo,
		key.BankRef,
	)
	return scanTransaction(row)
}

// RefreshTransactionCompletion updates only the completion timestamp and
// returns the refreshed record. Every other field, the CRN included, stays
// as first written.
func (s *Store) RefreshTransactionCompletion(ctx context.Context, id string, completedAt time.Time) (storage.CompletedTransaction, error) {
	if err := ctx.Err(); err != nil {
		return storage.CompletedTransaction{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CompletedTransaction{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.CompletedTransaction{}, fmt.Errorf("transaction id is required")
	}
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE completed_transactions SET completed_at = ? WHERE id = ?`,
		toMillis(completedAt),
		id,
	)
	if err != nil {
		return storage.CompletedTransaction{}, fmt.Errorf("refresh transaction completion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.CompletedTransaction{}, fmt.Errorf("refresh transaction completion: %w", err)
	}
	if affected == 0 {
		return storage.CompletedTransaction{}, storage.ErrNotFound
	}
	return s.GetCompletedTransaction(ctx, id)
}

// ListCompletedTransactions returns a dealer's transactions by completion
// time descending, capped at limit.
func (s *Store) ListCompletedTransactions(ctx context.Context, ptin string, limit int) ([]storage.CompletedTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	ptin = strings.TrimSpace(ptin)
	if ptin == "" {
		return nil, fmt.Errorf("ptin is required")
	}
	if limit <= 0 || limit > storage.HistoryLimit {
		limit = storage.HistoryLimit
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+transactionColumns+`
		   FROM completed_transactions
		  WHERE ptin = ?
		  ORDER BY completed_at DESC
		  LIMIT ?`,
		ptin,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list completed transactions: %w", err)
	}
	defer rows.Close()

	var records []storage.CompletedTransaction
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list completed transactions: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (storage.CompletedTransaction, error) {
	var record storage.CompletedTransaction
	var bankTimestamp int64
	var completedAt int64
	err := row.Scan(
		&record.ID,
		&record.PTIN,
		&record.Name,
		&record.TaxType,
		&record.Purpose,
		&record.TaxPeriodFrom,
		&record.TaxPeriodTo,
		&record.Amount,
		&record.Remarks,
		&record.Date,
		&record.BankName,
		&record.AccountNumber,
		&record.AccountHolder,
		&record.ChallanNo,
		&record.DDOCode,
		&record.HOA,
		&record.BankRef,
		&record.CRN,
		&record.EPaymentRef,
		&record.PaymentID,
		&record.MerchantName,
		&record.TypeOfTax,
		&record.Status,
		&bankTimestamp,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CompletedTransaction{}, storage.ErrNotFound
		}
		return storage.CompletedTransaction{}, fmt.Errorf("scan completed transaction: %w", err)
	}
	record.BankTimestamp = fromMillis(bankTimestamp)
	record.CompletedAt = fromMillis(completedAt)
	return record, nil
}
