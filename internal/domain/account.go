package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType discriminates the two account variants.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
)

// Account is a tagged variant over the checking/savings account types.
// OverdraftLimit is meaningful only for checking accounts, InterestRate
// only for savings accounts; the unused field stays zero.
type Account struct {
	ID             int64           `json:"id"`
	Number         string          `json:"number"`
	Balance        decimal.Decimal `json:"balance"`
	ClientID       int64           `json:"client_id"`
	Type           AccountType     `json:"type"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
}

// Floor returns the lowest balance the account may reach: zero for
// savings accounts, the negated overdraft limit for checking accounts.
func (a *Account) Floor() decimal.Decimal {
	if a.Type == AccountChecking {
		return a.OverdraftLimit.Neg()
	}
	return decimal.Zero
}

// Debit decreases the balance by amount if the result stays at or above
// the variant floor. It reports whether the debit was applied; when it
// reports false the balance is unchanged.
func (a *Account) Debit(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	next := a.Balance.Sub(amount)
	if next.LessThan(a.Floor()) {
		return false
	}
	a.Balance = next
	return true
}

// Credit increases the balance by amount. It fails only for
// non-positive amounts.
func (a *Account) Credit(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	a.Balance = a.Balance.Add(amount)
	return true
}

type AccountRepository interface {
	CreateAccount(account *Account) error
	GetAccount(id int64) (*Account, error)
	// GetAccountByNumber returns (nil, nil) when no account carries the number.
	GetAccountByNumber(number string) (*Account, error)
	ListAccounts() ([]*Account, error)
	ListAccountsByClient(clientID int64) ([]*Account, error)
	UpdateAccount(account *Account) error
	UpdateAccountBalance(id int64, newBalance decimal.Decimal) error
	DeleteAccount(id int64) error
}
