package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType labels a ledger entry. A transfer is recorded as a
// withdrawal leg on the source account and a deposit leg on the
// destination account, never as a type of its own.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// Transaction is one immutable monetary event in the ledger. Records
// are only ever created by the operation engine; there is no update
// path, at this layer or at the repository.
type Transaction struct {
	ID        int64           `json:"id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	Location  string          `json:"location"`
	AccountID int64           `json:"account_id"`
}

type TransactionRepository interface {
	CreateTransaction(tx *Transaction) error
	GetTransaction(id int64) (*Transaction, error)
	// ListTransactionsByAccount returns the account's ledger entries
	// ordered by date descending.
	ListTransactionsByAccount(accountID int64) ([]*Transaction, error)
	// ListTransactions returns the full ledger ordered by date descending.
	ListTransactions() ([]*Transaction, error)
	// DeleteTransaction is an administrative escape hatch, not part of
	// the normal operation flow.
	DeleteTransaction(id int64) error
}
