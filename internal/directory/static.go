package directory

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Static is the fixture-backed directory implementation.
//
// All entries are loaded and hashed at construction; lookups never mutate
// state, so a Static is safe for unlimited concurrent readers.
type Static struct {
	dealers      []Dealer
	dealerHashes map[string][]byte
	accounts     []BankAccount
	accountHash  map[bankKey][]byte
}

type bankKey struct {
	bank   string
	holder string
}

// NewStatic builds the directory from the bundled Annexure fixtures.
func NewStatic() (*Static, error) {
	return newStatic(bcrypt.DefaultCost)
}

func newStatic(cost int) (*Static, error) {
	s := &Static{
		dealerHashes: make(map[string][]byte, len(dealerFixtures)),
		accountHash:  make(map[bankKey][]byte, len(bankFixtures)),
	}
	for _, fixture := range dealerFixtures {
		hash, err := bcrypt.GenerateFromPassword([]byte(fixture.password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash dealer secret for %s: %w", fixture.PTIN, err)
		}
		s.dealers = append(s.dealers, fixture.Dealer)
		s.dealerHashes[fixture.PTIN] = hash
	}
	for _, fixture := range bankFixtures {
		hash, err := bcrypt.GenerateFromPassword([]byte(fixture.password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash bank secret for %s: %w", fixture.Holder, err)
		}
		s.accounts = append(s.accounts, fixture.BankAccount)
		s.accountHash[bankKey{bank: fixture.Bank, holder: fixture.Holder}] = hash
	}
	return s, nil
}

// FindDealerByID returns the dealer registered under ptin.
func (s *Static) FindDealerByID(ptin string) (Dealer, error) {
	for _, dealer := range s.dealers {
		if dealer.PTIN == ptin {
			return dealer, nil
		}
	}
	return Dealer{}, ErrNotFound
}

// FindDealerByCredentials returns the dealer when PTIN and password match.
func (s *Static) FindDealerByCredentials(ptin, password string) (Dealer, error) {
	dealer, err := s.FindDealerByID(ptin)
	if err != nil {
		return Dealer{}, err
	}
	hash := s.dealerHashes[ptin]
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return Dealer{}, ErrCredentialMismatch
	}
	return dealer, nil
}

// FindBankAccount returns the account when bank, holder, and password match.
func (s *Static) FindBankAccount(bank, holder, password string) (BankAccount, error) {
	hash, ok := s.accountHash[bankKey{bank: bank, holder: holder}]
	if !ok {
		return BankAccount{}, ErrNotFound
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return BankAccount{}, ErrCredentialMismatch
	}
	for _, account := range s.accounts {
		if account.Bank == bank && account.Holder == holder {
			return account, nil
		}
	}
	return BankAccount{}, ErrNotFound
}

// Dealers lists all dealer entries.
func (s *Static) Dealers() []Dealer {
	out := make([]Dealer, len(s.dealers))
	copy(out, s.dealers)
	return out
}

// BankAccounts lists all bank account entries.
func (s *Static) BankAccounts() []BankAccount {
	out := make([]BankAccount, len(s.accounts))
	copy(out, s.accounts)
	return out
}

var _ Directory = (*Static)(nil)
