package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"solubank/internal/domain"
	"solubank/internal/errors"
)

// OperationService is the operation engine: it is the only component
// that moves balances, and every successful move appends exactly one
// ledger record. Each operation runs inside a single store transaction
// so the balance update and the ledger append land together.
type OperationService struct {
	store  domain.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewOperationService(store domain.Store, logger *slog.Logger) *OperationService {
	return &OperationService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (s *OperationService) Deposit(accountID int64, amount decimal.Decimal, location string) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	var tx *domain.Transaction
	err := s.store.WithTransaction(func(store domain.Store) error {
		var err error
		tx, err = depositLeg(store, accountID, amount, location, s.now())
		return err
	})
	if err != nil {
		s.logger.Warn("Deposit failed", "account_id", accountID, "amount", amount, "error", err)
		return nil, err
	}

	s.logger.Info("Deposit completed", "account_id", accountID, "amount", amount, "transaction_id", tx.ID)
	return tx, nil
}

func (s *OperationService) Withdraw(accountID int64, amount decimal.Decimal, location string) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	var tx *domain.Transaction
	err := s.store.WithTransaction(func(store domain.Store) error {
		var err error
		tx, err = withdrawLeg(store, accountID, amount, location, s.now())
		return err
	})
	if err != nil {
		s.logger.Warn("Withdrawal failed", "account_id", accountID, "amount", amount, "error", err)
		return nil, err
	}

	s.logger.Info("Withdrawal completed", "account_id", accountID, "amount", amount, "transaction_id", tx.ID)
	return tx, nil
}

// TransferResult carries the two ledger legs of a completed transfer.
type TransferResult struct {
	Withdrawal *domain.Transaction `json:"withdrawal"`
	Deposit    *domain.Transaction `json:"deposit"`
}

// Transfer debits the source and credits the destination inside one
// transaction scope: if either leg fails, neither account changes and
// no ledger records survive.
func (s *OperationService) Transfer(sourceID, destID int64, amount decimal.Decimal) (*TransferResult, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}
	if sourceID == destID {
		return nil, errors.ErrSameAccountTransfer
	}

	var result TransferResult
	err := s.store.WithTransaction(func(store domain.Store) error {
		withdrawal, err := withdrawLeg(store, sourceID, amount,
			fmt.Sprintf("transfer out to account %d", destID), s.now())
		if err != nil {
			return err
		}

		deposit, err := depositLeg(store, destID, amount,
			fmt.Sprintf("transfer in from account %d", sourceID), s.now())
		if err != nil {
			return err
		}

		result.Withdrawal = withdrawal
		result.Deposit = deposit
		return nil
	})
	if err != nil {
		s.logger.Warn("Transfer failed",
			"source_account_id", sourceID,
			"destination_account_id", destID,
			"amount", amount,
			"error", err)
		return nil, err
	}

	s.logger.Info("Transfer completed",
		"source_account_id", sourceID,
		"destination_account_id", destID,
		"amount", amount)
	return &result, nil
}

func withdrawLeg(store domain.Store, accountID int64, amount decimal.Decimal, location string, date time.Time) (*domain.Transaction, error) {
	account, err := store.Accounts().GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	if !account.Debit(amount) {
		return nil, errors.ErrInsufficientFunds
	}

	if err := store.Accounts().UpdateAccountBalance(account.ID, account.Balance); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Date:      date,
		Amount:    amount,
		Type:      domain.TransactionWithdrawal,
		Location:  location,
		AccountID: account.ID,
	}
	if err := store.Transactions().CreateTransaction(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func depositLeg(store domain.Store, accountID int64, amount decimal.Decimal, location string, date time.Time) (*domain.Transaction, error) {
	account, err := store.Accounts().GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	account.Credit(amount)

	if err := store.Accounts().UpdateAccountBalance(account.ID, account.Balance); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Date:      date,
		Amount:    amount,
		Type:      domain.TransactionDeposit,
		Location:  location,
		AccountID: account.ID,
	}
	if err := store.Transactions().CreateTransaction(tx); err != nil {
		return nil, err
	}
	return tx, nil
}
