// Package bank simulates the bank leg of an e-payment.
//
// The simulator validates banking credentials against the identity
// directory and mints a bank reference. Nothing here is persisted; the
// result is consumed by the settlement engine.
package bank

import (
	"context"
	"strings"
	"time"

	"github.com/sreedharv/ptrportal/internal/directory"
	apperrors "github.com/sreedharv/ptrportal/internal/platform/errors"
	"github.com/sreedharv/ptrportal/internal/platform/refnum"
)

// AuthInput carries one bank authentication attempt with its transaction
// context.
type AuthInput struct {
	BankName string
	Holder   string
	Password string

	ChallanNo string
	DDOCode   string
	HOA       string
	Amount    float64
}

// AuthResult is a successful bank authentication. Ephemeral.
type AuthResult struct {
	BankName      string
	AccountNumber string
	AccountHolder string
	BankRef       string

	ChallanNo string
	DDOCode   string
	HOA       string
	Amount    float64
	Timestamp time.Time
}

// Simulator validates bank credentials and mints bank references.
type Simulator struct {
	dir     directory.Directory
	mintRef func() (string, error)
	clock   func() time.Time
}

// NewSimulator builds a simulator over the identity directory.
func NewSimulator(dir directory.Directory) *Simulator {
	return &Simulator{
		dir:     dir,
		mintRef: refnum.NewBankRef,
		clock:   time.Now,
	}
}

// Authenticate checks the credential triple and mints a bank reference.
//
// Wrong bank, wrong holder, and wrong password all yield the same generic
// failure; the response must not reveal which component was rejected.
func (s *Simulator) Authenticate(ctx context.Context, input AuthInput) (AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return AuthResult{}, err
	}
	if s == nil || s.dir == nil {
		return AuthResult{}, apperrors.New(apperrors.CodeUnknown, "bank directory is not configured")
	}
	if strings.TrimSpace(input.BankName) == "" ||
		strings.TrimSpace(input.Holder) == "" ||
		input.Password == "" {
		return AuthResult{}, authFailure()
	}

	account, err := s.dir.FindBankAccount(input.BankName, input.Holder, input.Password)
	if err != nil {
		return AuthResult{}, authFailure()
	}

	ref, err := s.mintRef()
	if err != nil {
		return AuthResult{}, apperrors.Wrap(apperrors.CodeUnknown, "mint bank reference", err)
	}

	return AuthResult{
		BankName:      account.Bank,
		AccountNumber: account.AccountNo,
		AccountHolder: account.Holder,
		BankRef:       ref,
		ChallanNo:     input.ChallanNo,
		DDOCode:       input.DDOCode,
		HOA:           input.HOA,
		Amount:        input.Amount,
		Timestamp:     s.clock().UTC(),
	}, nil
}

func authFailure() error {
	return apperrors.New(
		apperrors.CodeBankAuthFailed,
		"Invalid banking credentials. Please check your account holder name and password.",
	)
}
