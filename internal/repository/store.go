package repository

import (
	"database/sql"
	"log/slog"

	"solubank/internal/domain"
	"solubank/internal/errors"
)

// Store is the Postgres persistence gateway. It hands out the three
// repositories over a shared executor and scopes multi-write
// operations into a single database transaction.
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

var _ domain.Store = (*Store)(nil)

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		executor: db,
		logger:   logger,
	}
}

func (s *Store) Clients() domain.ClientRepository {
	return NewClientRepository(s.executor, s.logger)
}

func (s *Store) Accounts() domain.AccountRepository {
	return NewAccountRepository(s.executor, s.logger)
}

func (s *Store) Transactions() domain.TransactionRepository {
	return NewTransactionRepository(s.executor, s.logger)
}

// WithTransaction executes fn against a transactional Store. All
// writes made through it commit together, or roll back together when
// fn returns an error or panics.
func (s *Store) WithTransaction(fn func(domain.Store) error) error {
	// Only the root store holds a *sql.DB that can begin transactions.
	db, ok := s.executor.(*sql.DB)
	if !ok {
		return errors.ErrCannotBeginTransaction
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.NewAppError(errors.GatewayError, "failed to begin transaction").WithDetails(err.Error())
	}

	txStore := &Store{
		executor: &TxWrapper{Tx: tx},
		logger:   s.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
