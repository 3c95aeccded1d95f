package token

import (
	"errors"
	"testing"
	"time"

	"github.com/sreedharv/ptrportal/internal/directory"
	apperrors "github.com/sreedharv/ptrportal/internal/platform/errors"
)

var testDealer = directory.Dealer{PTIN: "36123456001", Name: "Suhani pvt ltd."}

func newTestService(t *testing.T, now time.Time) *Service {
	t.Helper()
	svc, err := NewService([]byte("test-secret"), DefaultTTL)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	svc.now = func() time.Time { return now }
	return svc
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	signed, err := svc.Issue(testDealer)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := svc.Verify(signed)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.PTIN != testDealer.PTIN {
		t.Fatalf("ptin = %q, want %q", claims.PTIN, testDealer.PTIN)
	}
	if claims.Name != testDealer.Name {
		t.Fatalf("name = %q, want %q", claims.Name, testDealer.Name)
	}
	if !claims.ExpiresAt.Equal(now.Add(DefaultTTL)) {
		t.Fatalf("expires at = %v, want %v", claims.ExpiresAt, now.Add(DefaultTTL))
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, issued)
	signed, err := svc.Issue(testDealer)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(DefaultTTL + time.Minute) }
	_, err = svc.Verify(signed)
	if apperrors.CodeOf(err) != apperrors.CodeTokenExpired {
		t.Fatalf("expired token code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeTokenExpired)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)
	issuer := newTestService(t, now)
	signed, err := issuer.Issue(testDealer)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	verifier, err := NewService([]byte("other-secret"), DefaultTTL)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	verifier.now = func() time.Time { return now }

	_, err = verifier.Verify(signed)
	if apperrors.CodeOf(err) != apperrors.CodeTokenInvalid {
		t.Fatalf("forged token code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeTokenInvalid)
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())
	_, err := svc.Verify("  ")
	if apperrors.CodeOf(err) != apperrors.CodeTokenMissing {
		t.Fatalf("empty token code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeTokenMissing)
	}
}

func TestNewServiceRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, DefaultTTL); err == nil {
		t.Fatal("expected missing secret error")
	}
	var domainErr *apperrors.Error
	_, err := NewService(nil, 0)
	if errors.As(err, &domainErr) {
		t.Fatal("constructor errors are plain, not domain errors")
	}
}
