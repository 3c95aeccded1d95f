// Package refnum mints the fixed-length decimal reference numbers used by
// the portal: settlement transaction IDs, bank references, and CRNs.
//
// It uses crypto/rand so references drawn by concurrent requests come from
// independent, high-entropy sources.
package refnum

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// CRNDigits is the length of a customer reference number.
	CRNDigits = 12
	// BankRefDigits is the length of a bank-minted reference.
	BankRefDigits = 10
	// settlementDigits is the random portion of a settlement transaction ID.
	settlementDigits = 12
	// SettlementPrefix starts every settlement transaction ID.
	SettlementPrefix = "36"
)

// Mint returns an exactly n-digit decimal string.
//
// The value is drawn uniformly from [10^(n-1), 10^n), so the leading digit
// is never zero and the string never collapses below n digits.
func Mint(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("digit count must be greater than zero")
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9))

	offset, err := crand.Int(crand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("read random reference: %w", err)
	}
	return new(big.Int).Add(low, offset).String(), nil
}

// NewCRN mints a 12-digit customer reference number.
func NewCRN() (string, error) {
	return Mint(CRNDigits)
}

// NewBankRef mints a 10-digit bank reference.
func NewBankRef() (string, error) {
	return Mint(BankRefDigits)
}

// NewSettlementID mints a 14-digit settlement transaction ID with the fixed
// "36" prefix.
func NewSettlementID() (string, error) {
	suffix, err := Mint(settlementDigits)
	if err != nil {
		return "", err
	}
	return SettlementPrefix + suffix, nil
}

// IsDigits reports whether value is exactly n decimal digits.
func IsDigits(value string, n int) bool {
	if len(value) != n {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// HasSettlementPrefix reports whether value is a well-formed settlement
// transaction ID.
func HasSettlementPrefix(value string) bool {
	return strings.HasPrefix(value, SettlementPrefix) &&
		IsDigits(value, len(SettlementPrefix)+settlementDigits)
}
