package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sreedharv/ptrportal/internal/services/portal/storage"
)

// InsertPayment persists one payment intent.
func (s *Store) InsertPayment(ctx context.Context, intent storage.PaymentIntent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(intent.ID) == "" {
		return fmt.Errorf("payment id is required")
	}
	if strings.TrimSpace(intent.PTIN) == "" {
		return fmt.Errorf("ptin is required")
	}
	if strings.TrimSpace(intent.SettlementID) == "" {
		return fmt.Errorf("settlement id is required")
	}
	submittedAt := intent.SubmittedAt.UTC()
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO payment_intents (
		   id, ptin, name, tax_type, purpose,
		   tax_period_from, tax_period_to, amount,
		   remarks, date, settlement_id, submitted_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		intent.ID,
		intent.PTIN,
		intent.Name,
		intent.TaxType,
		intent.Purpose,
		intent.TaxPeriodFrom,
		intent.TaxPeriodTo,
		intent.Amount,
		intent.Remarks,
		intent.Date,
		intent.SettlementID,
		toMillis(submittedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert payment intent: %w", err)
	}
	return nil
}
