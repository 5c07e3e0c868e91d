package service

import (
	"io"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"solubank/internal/domain"
	"solubank/internal/errors"
)

// memStore is an in-memory persistence gateway for engine tests. It
// implements all three repositories itself and rolls WithTransaction
// back by snapshotting its maps.
type memStore struct {
	clients      map[int64]*domain.Client
	accounts     map[int64]*domain.Account
	transactions map[int64]*domain.Transaction

	nextClientID      int64
	nextAccountID     int64
	nextTransactionID int64
}

var _ domain.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		clients:      make(map[int64]*domain.Client),
		accounts:     make(map[int64]*domain.Account),
		transactions: make(map[int64]*domain.Transaction),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *memStore) Clients() domain.ClientRepository           { return s }
func (s *memStore) Accounts() domain.AccountRepository         { return s }
func (s *memStore) Transactions() domain.TransactionRepository { return s }

func (s *memStore) WithTransaction(fn func(domain.Store) error) error {
	snapshot := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *memStore) snapshot() *memStore {
	clone := newMemStore()
	clone.nextClientID = s.nextClientID
	clone.nextAccountID = s.nextAccountID
	clone.nextTransactionID = s.nextTransactionID
	for id, c := range s.clients {
		cc := *c
		clone.clients[id] = &cc
	}
	for id, a := range s.accounts {
		ac := *a
		clone.accounts[id] = &ac
	}
	for id, t := range s.transactions {
		tc := *t
		clone.transactions[id] = &tc
	}
	return clone
}

func (s *memStore) restore(snapshot *memStore) {
	s.clients = snapshot.clients
	s.accounts = snapshot.accounts
	s.transactions = snapshot.transactions
	s.nextClientID = snapshot.nextClientID
	s.nextAccountID = snapshot.nextAccountID
	s.nextTransactionID = snapshot.nextTransactionID
}

// --- ClientRepository ---

func (s *memStore) CreateClient(client *domain.Client) error {
	s.nextClientID++
	client.ID = s.nextClientID
	copied := *client
	s.clients[client.ID] = &copied
	return nil
}

func (s *memStore) GetClient(id int64) (*domain.Client, error) {
	client, ok := s.clients[id]
	if !ok {
		return nil, errors.ErrClientNotFound
	}
	copied := *client
	return &copied, nil
}

func (s *memStore) ListClients() ([]*domain.Client, error) {
	ids := make([]int64, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	clients := make([]*domain.Client, 0, len(ids))
	for _, id := range ids {
		copied := *s.clients[id]
		clients = append(clients, &copied)
	}
	return clients, nil
}

func (s *memStore) UpdateClient(client *domain.Client) error {
	if _, ok := s.clients[client.ID]; !ok {
		return errors.ErrClientNotFound
	}
	copied := *client
	s.clients[client.ID] = &copied
	return nil
}

func (s *memStore) DeleteClient(id int64) error {
	if _, ok := s.clients[id]; !ok {
		return errors.ErrClientNotFound
	}
	delete(s.clients, id)
	// Mirror the schema's cascading deletes.
	for accountID, account := range s.accounts {
		if account.ClientID == id {
			delete(s.accounts, accountID)
			for txID, tx := range s.transactions {
				if tx.AccountID == accountID {
					delete(s.transactions, txID)
				}
			}
		}
	}
	return nil
}

// --- AccountRepository ---

func (s *memStore) CreateAccount(account *domain.Account) error {
	for _, existing := range s.accounts {
		if existing.Number == account.Number {
			return errors.ErrDuplicateAccountNumber
		}
	}
	s.nextAccountID++
	account.ID = s.nextAccountID
	copied := *account
	s.accounts[account.ID] = &copied
	return nil
}

func (s *memStore) GetAccount(id int64) (*domain.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (s *memStore) GetAccountByNumber(number string) (*domain.Account, error) {
	for _, account := range s.accounts {
		if account.Number == number {
			copied := *account
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListAccounts() ([]*domain.Account, error) {
	ids := make([]int64, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		copied := *s.accounts[id]
		accounts = append(accounts, &copied)
	}
	return accounts, nil
}

func (s *memStore) ListAccountsByClient(clientID int64) ([]*domain.Account, error) {
	all, _ := s.ListAccounts()
	accounts := make([]*domain.Account, 0, len(all))
	for _, account := range all {
		if account.ClientID == clientID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (s *memStore) UpdateAccount(account *domain.Account) error {
	if _, ok := s.accounts[account.ID]; !ok {
		return errors.ErrAccountNotFound
	}
	copied := *account
	s.accounts[account.ID] = &copied
	return nil
}

func (s *memStore) UpdateAccountBalance(id int64, newBalance decimal.Decimal) error {
	account, ok := s.accounts[id]
	if !ok {
		return errors.ErrAccountNotFound
	}
	account.Balance = newBalance
	return nil
}

func (s *memStore) DeleteAccount(id int64) error {
	if _, ok := s.accounts[id]; !ok {
		return errors.ErrAccountNotFound
	}
	delete(s.accounts, id)
	for txID, tx := range s.transactions {
		if tx.AccountID == id {
			delete(s.transactions, txID)
		}
	}
	return nil
}

// --- TransactionRepository ---

func (s *memStore) CreateTransaction(tx *domain.Transaction) error {
	s.nextTransactionID++
	tx.ID = s.nextTransactionID
	copied := *tx
	s.transactions[tx.ID] = &copied
	return nil
}

func (s *memStore) GetTransaction(id int64) (*domain.Transaction, error) {
	tx, ok := s.transactions[id]
	if !ok {
		return nil, errors.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (s *memStore) ListTransactionsByAccount(accountID int64) ([]*domain.Transaction, error) {
	all, _ := s.ListTransactions()
	transactions := make([]*domain.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.AccountID == accountID {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

func (s *memStore) ListTransactions() ([]*domain.Transaction, error) {
	transactions := make([]*domain.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		copied := *tx
		transactions = append(transactions, &copied)
	}
	// Date descending, newest id first on ties, matching the gateway.
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.After(transactions[j].Date)
		}
		return transactions[i].ID > transactions[j].ID
	})
	return transactions, nil
}

func (s *memStore) DeleteTransaction(id int64) error {
	if _, ok := s.transactions[id]; !ok {
		return errors.ErrTransactionNotFound
	}
	delete(s.transactions, id)
	return nil
}
