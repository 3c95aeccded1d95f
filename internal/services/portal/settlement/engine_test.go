package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/sreedharv/ptrportal/internal/platform/errors"
	"github.com/sreedharv/ptrportal/internal/platform/refnum"
	"github.com/sreedharv/ptrportal/internal/services/portal/storage"
)

// memoryStore is an in-memory TransactionStore with the same triple
// uniqueness guarantee the SQLite index provides.
type memoryStore struct {
	mu      sync.Mutex
	byID    map[string]storage.CompletedTransaction
	byKey   map[storage.TransactionKey]string
	inserts int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		byID:  make(map[string]storage.CompletedTransaction),
		byKey: make(map[storage.TransactionKey]string),
	}
}

func (m *memoryStore) InsertCompletedTransaction(_ context.Context, record storage.CompletedTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byKey[record.Key()]; taken {
		return storage.ErrAlreadyExists
	}
	m.byID[record.ID] = record
	m.byKey[record.Key()] = record.ID
	m.inserts++
	return nil
}

func (m *memoryStore) GetCompletedTransaction(_ context.Context, id string) (storage.CompletedTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.byID[id]
	if !ok {
		return storage.CompletedTransaction{}, storage.ErrNotFound
	}
	return record, nil
}

func (m *memoryStore) GetCompletedTransactionByKey(_ context.Context, key storage.TransactionKey) (storage.CompletedTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byKey[key]
	if !ok {
		return storage.CompletedTransaction{}, storage.ErrNotFound
	}
	return m.byID[id], nil
}

func (m *memoryStore) RefreshTransactionCompletion(_ context.Context, id string, completedAt time.Time) (storage.CompletedTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.byID[id]
	if !ok {
		return storage.CompletedTransaction{}, storage.ErrNotFound
	}
	record.CompletedAt = completedAt.UTC()
	m.byID[id] = record
	return record, nil
}

func (m *memoryStore) ListCompletedTransactions(_ context.Context, ptin string, limit int) ([]storage.CompletedTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var records []storage.CompletedTransaction
	for _, record := range m.byID {
		if record.PTIN == ptin {
			records = append(records, record)
		}
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func sampleInput() FinalizeInput {
	return FinalizeInput{
		PTIN:          "36123456001",
		Name:          "Suhani pvt ltd.",
		TaxType:       "PT",
		Purpose:       "Monthly Tax",
		TaxPeriodFrom: "2026-03-01",
		TaxPeriodTo:   "2026-03-31",
		Amount:        5000,
		Date:          "2026-04-10",
		BankName:      "State Bank of India",
		AccountNumber: "6785 4367 3593 5479",
		AccountHolder: "Raman Kumar",
		ChallanNo:     "C1",
		DDOCode:       "25022501001",
		HOA:           "0028-00-107-01",
		BankRef:       "1000000001",
		BankTimestamp: time.Date(2026, time.April, 10, 12, 30, 0, 0, time.UTC),
	}
}

func TestFinalizeFirstCallMintsCRN(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	engine := NewEngine(store)

	record, err := engine.Finalize(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !refnum.IsDigits(record.CRN, refnum.CRNDigits) {
		t.Fatalf("crn = %q, want %d digits", record.CRN, refnum.CRNDigits)
	}
	if record.Status != StatusCompleted {
		t.Fatalf("status = %q, want %q", record.Status, StatusCompleted)
	}
	if record.MerchantName != "Telangana" {
		t.Fatalf("merchant = %q, want Telangana", record.MerchantName)
	}
	if store.inserts != 1 {
		t.Fatalf("insert count = %d, want 1", store.inserts)
	}
}

func TestFinalizeIsIdempotentPerTriple(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	engine := NewEngine(store)
	base := time.Date(2026, time.April, 10, 12, 31, 0, 0, time.UTC)
	engine.clock = func() time.Time { return base }

	first, err := engine.Finalize(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("first finalize: %v", err)
	}

	engine.clock = func() time.Time { return base.Add(time.Minute) }
	second, err := engine.Finalize(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}

	if second.CRN != first.CRN {
		t.Fatalf("crn changed on retry: %q -> %q", first.CRN, second.CRN)
	}
	if second.ID != first.ID {
		t.Fatalf("record id changed on retry: %q -> %q", first.ID, second.ID)
	}
	if !second.CompletedAt.After(first.CompletedAt) {
		t.Fatalf("completed at not refreshed: %v -> %v", first.CompletedAt, second.CompletedAt)
	}
	if store.inserts != 1 {
		t.Fatalf("insert count = %d, want exactly 1", store.inserts)
	}
}

func TestFinalizeDistinctChallansMintDistinctCRNs(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	engine := NewEngine(store)

	first, err := engine.Finalize(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("first finalize: %v", err)
	}

	input := sampleInput()
	input.ChallanNo = "C2"
	second, err := engine.Finalize(context.Background(), input)
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}

	if first.CRN == second.CRN {
		t.Fatalf("distinct challans shared crn %q", first.CRN)
	}
	if first.ID == second.ID {
		t.Fatalf("distinct challans shared record id %q", first.ID)
	}
	if store.inserts != 2 {
		t.Fatalf("insert count = %d, want 2", store.inserts)
	}
}

// racingStore reports not-found on lookup but already-exists on insert,
// which is exactly what a finalize call observes when it loses the
// check-then-act race to a concurrent duplicate.
type racingStore struct {
	*memoryStore
	winner  storage.CompletedTransaction
	lookups int
}

func (r *racingStore) GetCompletedTransactionByKey(ctx context.Context, key storage.TransactionKey) (storage.CompletedTransaction, error) {
	r.lookups++
	if r.lookups == 1 {
		return storage.CompletedTransaction{}, storage.ErrNotFound
	}
	return r.memoryStore.GetCompletedTransactionByKey(ctx, key)
}

func TestFinalizeLostInsertRaceFallsBackToRefresh(t *testing.T) {
	t.Parallel()

	inner := newMemoryStore()
	store := &racingStore{memoryStore: inner}
	engine := NewEngine(store)

	// The concurrent winner's record lands between our lookup and insert.
	winner := storage.CompletedTransaction{
		ID:        "winner-id",
		PTIN:      "36123456001",
		ChallanNo: "C1",
		BankRef:   "1000000001",
		CRN:       "100000000042",
		Status:    StatusCompleted,
	}
	if err := inner.InsertCompletedTransaction(context.Background(), winner); err != nil {
		t.Fatalf("seed winner: %v", err)
	}

	record, err := engine.Finalize(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("finalize after lost race: %v", err)
	}
	if record.CRN != "100000000042" {
		t.Fatalf("crn = %q, want the winner's %q", record.CRN, "100000000042")
	}
	if record.ID != "winner-id" {
		t.Fatalf("id = %q, want the winner's record", record.ID)
	}
	if inner.inserts != 1 {
		t.Fatalf("insert count = %d, want only the winner's insert", inner.inserts)
	}
}

func TestFinalizeValidatesRequiredFields(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	engine := NewEngine(store)

	cases := []struct {
		name   string
		mutate func(*FinalizeInput)
	}{
		{"missing ptin", func(in *FinalizeInput) { in.PTIN = "" }},
		{"missing amount", func(in *FinalizeInput) { in.Amount = 0 }},
		{"missing bank name", func(in *FinalizeInput) { in.BankName = "" }},
	}
	for _, tc := range cases {
		input := sampleInput()
		tc.mutate(&input)
		_, err := engine.Finalize(context.Background(), input)
		if apperrors.CodeOf(err) != apperrors.CodeSettlementMissingFields {
			t.Fatalf("%s: code = %q, want %q", tc.name, apperrors.CodeOf(err), apperrors.CodeSettlementMissingFields)
		}
	}
	if store.inserts != 0 {
		t.Fatalf("validation failures touched the store: %d inserts", store.inserts)
	}
}

func TestFinalizePropagatesStoreFailures(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	engine := NewEngine(store)
	engine.mintCRN = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := engine.Finalize(context.Background(), sampleInput())
	if apperrors.CodeOf(err) != apperrors.CodeStorageFailure {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeStorageFailure)
	}
}
