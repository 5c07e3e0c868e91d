package service

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"solubank/internal/domain"
)

// LedgerService is the read side of the ledger: filtering, sorting and
// grouping projections over the persisted collections. Every query is
// total; an empty ledger yields empty results, never an error.
type LedgerService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewLedgerService(store domain.Store, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		logger: logger,
	}
}

// AccountHistory lists an account's ledger entries, newest first.
func (s *LedgerService) AccountHistory(accountID int64) ([]*domain.Transaction, error) {
	if _, err := s.store.Accounts().GetAccount(accountID); err != nil {
		return nil, err
	}
	return s.store.Transactions().ListTransactionsByAccount(accountID)
}

// AccountHistoryByAmount lists an account's ledger entries with the
// largest amounts first.
func (s *LedgerService) AccountHistoryByAmount(accountID int64) ([]*domain.Transaction, error) {
	transactions, err := s.AccountHistory(accountID)
	if err != nil {
		return nil, err
	}

	sorted := make([]*domain.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	return sorted, nil
}

func (s *LedgerService) GetTransaction(id int64) (*domain.Transaction, error) {
	return s.store.Transactions().GetTransaction(id)
}

// DeleteTransaction removes a ledger record. Administrative use only;
// the normal flow never touches recorded transactions.
func (s *LedgerService) DeleteTransaction(id int64) error {
	return s.store.Transactions().DeleteTransaction(id)
}

func (s *LedgerService) FilterByMinAmount(min decimal.Decimal) ([]*domain.Transaction, error) {
	return s.filter(func(tx *domain.Transaction) bool {
		return tx.Amount.GreaterThanOrEqual(min)
	})
}

func (s *LedgerService) FilterByDate(date time.Time) ([]*domain.Transaction, error) {
	return s.filter(func(tx *domain.Transaction) bool {
		return sameDay(tx.Date, date)
	})
}

func (s *LedgerService) FilterByLocation(fragment string) ([]*domain.Transaction, error) {
	needle := strings.ToLower(fragment)
	return s.filter(func(tx *domain.Transaction) bool {
		return strings.Contains(strings.ToLower(tx.Location), needle)
	})
}

func (s *LedgerService) ListTransactions() ([]*domain.Transaction, error) {
	return s.store.Transactions().ListTransactions()
}

func (s *LedgerService) filter(keep func(*domain.Transaction) bool) ([]*domain.Transaction, error) {
	transactions, err := s.store.Transactions().ListTransactions()
	if err != nil {
		return nil, err
	}

	matches := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if keep(tx) {
			matches = append(matches, tx)
		}
	}
	return matches, nil
}

func (s *LedgerService) GroupByType() (map[domain.TransactionType][]*domain.Transaction, error) {
	transactions, err := s.store.Transactions().ListTransactions()
	if err != nil {
		return nil, err
	}

	groups := make(map[domain.TransactionType][]*domain.Transaction)
	for _, tx := range transactions {
		groups[tx.Type] = append(groups[tx.Type], tx)
	}
	return groups, nil
}

func (s *LedgerService) GroupByAccount() (map[int64][]*domain.Transaction, error) {
	transactions, err := s.store.Transactions().ListTransactions()
	if err != nil {
		return nil, err
	}

	groups := make(map[int64][]*domain.Transaction)
	for _, tx := range transactions {
		groups[tx.AccountID] = append(groups[tx.AccountID], tx)
	}
	return groups, nil
}

// AverageAmount returns the mean transaction amount for the account,
// zero when the account has no transactions.
func (s *LedgerService) AverageAmount(accountID int64) (decimal.Decimal, error) {
	transactions, err := s.AccountHistory(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(transactions) == 0 {
		return decimal.Zero, nil
	}

	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}
	return total.Div(decimal.NewFromInt(int64(len(transactions)))), nil
}

// ClientVolume sums the transaction amounts across every account the
// client owns.
func (s *LedgerService) ClientVolume(clientID int64) (decimal.Decimal, error) {
	if _, err := s.store.Clients().GetClient(clientID); err != nil {
		return decimal.Zero, err
	}

	accounts, err := s.store.Accounts().ListAccountsByClient(clientID)
	if err != nil {
		return decimal.Zero, err
	}

	owned := make(map[int64]bool, len(accounts))
	for _, account := range accounts {
		owned[account.ID] = true
	}

	transactions, err := s.store.Transactions().ListTransactions()
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, tx := range transactions {
		if owned[tx.AccountID] {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
