package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sreedharv/ptrportal/internal/services/portal/storage"
)

// InsertReturn persists one filed tax return.
func (s *Store) InsertReturn(ctx context.Context, record storage.TaxReturn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("return id is required")
	}
	if strings.TrimSpace(record.PTIN) == "" {
		return fmt.Errorf("ptin is required")
	}
	if strings.TrimSpace(record.TaxPeriod) == "" {
		return fmt.Errorf("tax period is required")
	}
	if len(record.LineItems) == 0 {
		return fmt.Errorf("line items are required")
	}
	submittedAt := record.SubmittedAt.UTC()
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	lineItems, err := json.Marshal(record.LineItems)
	if err != nil {
		return fmt.Errorf("encode line items: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tax_returns (
		   id, ptin, name, division, circle,
		   profession_type, tax_period, return_type,
		   line_items_json, total_payable, submitted_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.PTIN,
		record.Name,
		record.Division,
		record.Circle,
		record.ProfessionType,
		record.TaxPeriod,
		record.ReturnType,
		string(lineItems),
		record.TotalPayable,
		toMillis(submittedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert tax return: %w", err)
	}
	return nil
}

// ListReturns returns a dealer's filed returns, newest first, capped at limit.
func (s *Store) ListReturns(ctx context.Context, ptin string, limit int) ([]storage.TaxReturn, error) {
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
		`SELECT id, ptin, name, division, circle,
		        profession_type, tax_period, return_type,
		        line_items_json, total_payable, submitted_at
		   FROM tax_returns
		  WHERE ptin = ?
		  ORDER BY submitted_at DESC
		  LIMIT ?`,
		ptin,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list tax returns: %w", err)
	}
	defer rows.Close()

	var records []storage.TaxReturn
	for rows.Next() {
		var record storage.TaxReturn
		var lineItems string
		var submittedAt int64
		if err := rows.Scan(
			&record.ID,
			&record.PTIN,
			&record.Name,
			&record.Division,
			&record.Circle,
			&record.ProfessionType,
			&record.TaxPeriod,
			&record.ReturnType,
			&lineItems,
			&record.TotalPayable,
			&submittedAt,
		); err != nil {
			return nil, fmt.Errorf("list tax returns: %w", err)
		}
		if err := json.Unmarshal([]byte(lineItems), &record.LineItems); err != nil {
			return nil, fmt.Errorf("decode line items for %s: %w", record.ID, err)
		}
		record.SubmittedAt = fromMillis(submittedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tax returns: %w", err)
	}
	return records, nil
}
