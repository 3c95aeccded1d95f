package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sreedharv/ptrportal/internal/services/portal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "portal.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestInsertListReturnsRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.April, 10, 11, 0, 0, 0, time.UTC)
	record := storage.TaxReturn{
		ID:             "ret-1",
		PTIN:           "36123456001",
		Name:           "Suhani pvt ltd.",
		Division:       "L B Nagar",
		Circle:         "Uppal",
		ProfessionType: "Company",
		TaxPeriod:      "2026-03",
		ReturnType:     "Monthly",
		LineItems: []storage.ReturnLineItem{
			{PayRange: "Up to 15,000", TaxRate: 0, EmployeeCount: 12, TaxPayable: 0},
			{PayRange: "15,001 to 20,000", TaxRate: 150, EmployeeCount: 4, TaxPayable: 600},
		},
		TotalPayable: 600,
		SubmittedAt:  now,
	}
	if err := store.InsertReturn(context.Background(), record); err != nil {
		t.Fatalf("insert return: %v", err)
	}

	got, err := store.ListReturns(context.Background(), "36123456001", storage.HistoryLimit)
	if err != nil {
		t.Fatalf("list returns: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("return count = %d, want 1", len(got))
	}
	if got[0].TotalPayable != 600 {
		t.Fatalf("total payable = %v, want 600", got[0].TotalPayable)
	}
	if len(got[0].LineItems) != 2 {
		t.Fatalf("line item count = %d, want 2", len(got[0].LineItems))
	}
	if got[0].LineItems[1].EmployeeCount != 4 {
		t.Fatalf("employee count = %d, want 4", got[0].LineItems[1].EmployeeCount)
	}
	if !got[0].SubmittedAt.Equal(now) {
		t.Fatalf("submitted at = %v, want %v", got[0].SubmittedAt, now)
	}
}

func TestListReturnsNewestFirstAndCapped(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < storage.HistoryLimit+5; i++ {
		record := storage.TaxReturn{
			ID:             fmt.Sprintf("ret-%03d", i),
			PTIN:           "36123456002",
			Name:           "Hindustan Packages pvt.ltd",
			Division:       "L B Nagar",
			Circle:         "Uppal",
			ProfessionType: "Company",
			TaxPeriod:      "2026-03",
			ReturnType:     "Monthly",
			LineItems:      []storage.ReturnLineItem{{PayRange: "Up to 15,000", EmployeeCount: 1}},
			SubmittedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.InsertReturn(context.Background(), record); err != nil {
			t.Fatalf("insert return %d: %v", i, err)
		}
	}

	got, err := store.ListReturns(context.Background(), "36123456002", 0)
	if err != nil {
		t.Fatalf("list returns: %v", err)
	}
	if len(got) != storage.HistoryLimit {
		t.Fatalf("return count = %d, want cap %d", len(got), storage.HistoryLimit)
	}
	for i := 1; i < len(got); i++ {
		if got[i].SubmittedAt.After(got[i-1].SubmittedAt) {
			t.Fatalf("returns not sorted newest first at index %d", i)
		}
	}
}

func TestInsertReturnValidation(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	err := store.InsertReturn(context.Background(), storage.TaxReturn{ID: "ret-x", PTIN: "36123456001"})
	if err == nil {
		t.Fatal("expected missing tax period to fail")
	}
	err = store.InsertReturn(context.Background(), storage.TaxReturn{
		ID: "ret-y", PTIN: "36123456001", TaxPeriod: "2026-03",
	})
	if err == nil {
		t.Fatal("expected missing line items to fail")
	}
}

func TestInsertPaymentRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	intent := storage.PaymentIntent{
		ID:            "pay-1",
		PTIN:          "36123456001",
		Name:          "Suhani pvt ltd.",
		TaxType:       "PT",
		Purpose:       "Monthly Tax",
		TaxPeriodFrom: "2026-03-01",
		TaxPeriodTo:   "2026-03-31",
		Amount:        5000,
		Date:          "2026-04-10",
		SettlementID:  "36100000000001",
		SubmittedAt:   time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC),
	}
	if err := store.InsertPayment(context.Background(), intent); err != nil {
		t.Fatalf("insert payment: %v", err)
	}
	if err := store.InsertPayment(context.Background(), intent); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate payment id error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestInsertPaymentRequiresSettlementID(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	err := store.InsertPayment(context.Background(), storage.PaymentIntent{
		ID: "pay-2", PTIN: "36123456001",
	})
	if err == nil {
		t.Fatal("expected missing settlement id to fail")
	}
}
