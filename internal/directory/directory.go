// Package directory provides the read-only identity directory for dealers
// and simulated bank accounts.
//
// The directory is the portal's source of truth for who may log in and
// which bank credentials the payment simulator accepts. Lookups are exact
// match with no case normalization. Secrets are held only as bcrypt hashes.
package directory

import "errors"

var (
	// ErrNotFound indicates no directory entry matches the lookup key.
	ErrNotFound = errors.New("directory entry not found")
	// ErrCredentialMismatch indicates an entry exists but the presented
	// secret does not match. Callers surface it identically to ErrNotFound
	// so failures never reveal which credential component was wrong.
	ErrCredentialMismatch = errors.New("directory credentials do not match")
)

// Dealer is a registered dealer's public directory entry.
type Dealer struct {
	PTIN     string
	Name     string
	Division string
	Circle   string
}

// BankAccount is a simulated bank account's public directory entry.
type BankAccount struct {
	Bank      string
	AccountNo string
	Holder    string
}

// Directory resolves dealers and bank accounts by natural key.
type Directory interface {
	// FindDealerByID returns the dealer registered under ptin.
	FindDealerByID(ptin string) (Dealer, error)
	// FindDealerByCredentials returns the dealer only when both the PTIN
	// and the portal password match.
	FindDealerByCredentials(ptin, password string) (Dealer, error)
	// FindBankAccount returns the account only when bank name, account
	// holder, and banking password all match.
	FindBankAccount(bank, holder, password string) (BankAccount, error)
	// Dealers lists all dealer entries.
	Dealers() []Dealer
	// BankAccounts lists all bank account entries.
	BankAccounts() []BankAccount
}
