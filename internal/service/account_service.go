package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"solubank/internal/domain"
	"solubank/internal/errors"
)

type AccountService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewAccountService(store domain.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		logger: logger,
	}
}

// OpenAccountRequest carries the caller's choices for a new account.
// Number may be empty, in which case one is generated.
type OpenAccountRequest struct {
	ClientID       int64
	Number         string
	Type           domain.AccountType
	InitialBalance decimal.Decimal
	OverdraftLimit decimal.Decimal
	InterestRate   decimal.Decimal
}

func (s *AccountService) OpenAccount(req OpenAccountRequest) (*domain.Account, error) {
	switch req.Type {
	case domain.AccountChecking:
		if req.OverdraftLimit.IsNegative() {
			return nil, errors.NewAppError(errors.InvalidInput, "overdraft limit must not be negative")
		}
	case domain.AccountSavings:
		if req.InterestRate.IsNegative() {
			return nil, errors.NewAppError(errors.InvalidInput, "interest rate must not be negative")
		}
	default:
		return nil, errors.NewAppErrorf(errors.InvalidInput, "unknown account type %q", req.Type)
	}

	if _, err := s.store.Clients().GetClient(req.ClientID); err != nil {
		return nil, err
	}

	number := strings.TrimSpace(req.Number)
	if number == "" {
		number = newAccountNumber()
	} else {
		existing, err := s.store.Accounts().GetAccountByNumber(number)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, errors.ErrDuplicateAccountNumber
		}
	}

	account := &domain.Account{
		Number:   number,
		Balance:  req.InitialBalance,
		ClientID: req.ClientID,
		Type:     req.Type,
	}
	if req.Type == domain.AccountChecking {
		account.OverdraftLimit = req.OverdraftLimit
	} else {
		account.InterestRate = req.InterestRate
	}

	if account.Balance.LessThan(account.Floor()) {
		return nil, errors.NewAppError(errors.InvalidInput, "initial balance is below the account floor")
	}

	if err := s.store.Accounts().CreateAccount(account); err != nil {
		return nil, err
	}

	s.logger.Info("Account opened",
		"account_id", account.ID,
		"number", account.Number,
		"type", account.Type,
		"client_id", account.ClientID)
	return account, nil
}

func newAccountNumber() string {
	return fmt.Sprintf("SB-%s", strings.ToUpper(uuid.New().String()[:18]))
}

func (s *AccountService) GetAccount(id int64) (*domain.Account, error) {
	return s.store.Accounts().GetAccount(id)
}

func (s *AccountService) GetAccountByNumber(number string) (*domain.Account, error) {
	account, err := s.store.Accounts().GetAccountByNumber(number)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.ErrAccountNotFound
	}
	return account, nil
}

func (s *AccountService) ListAccounts() ([]*domain.Account, error) {
	return s.store.Accounts().ListAccounts()
}

func (s *AccountService) ListAccountsByClient(clientID int64) ([]*domain.Account, error) {
	if _, err := s.store.Clients().GetClient(clientID); err != nil {
		return nil, err
	}
	return s.store.Accounts().ListAccountsByClient(clientID)
}

// UpdateAccountParams replaces the variant-specific parameters. The
// balance is untouched; only the operation engine moves balances.
func (s *AccountService) UpdateAccountParams(id int64, overdraftLimit, interestRate decimal.Decimal) (*domain.Account, error) {
	account, err := s.store.Accounts().GetAccount(id)
	if err != nil {
		return nil, err
	}

	switch account.Type {
	case domain.AccountChecking:
		if overdraftLimit.IsNegative() {
			return nil, errors.NewAppError(errors.InvalidInput, "overdraft limit must not be negative")
		}
		account.OverdraftLimit = overdraftLimit
	case domain.AccountSavings:
		if interestRate.IsNegative() {
			return nil, errors.NewAppError(errors.InvalidInput, "interest rate must not be negative")
		}
		account.InterestRate = interestRate
	}

	if err := s.store.Accounts().UpdateAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) DeleteAccount(id int64) error {
	return s.store.Accounts().DeleteAccount(id)
}

// BalanceExtremes returns the accounts carrying the highest and lowest
// balances, or nils when no accounts exist.
func (s *AccountService) BalanceExtremes() (highest, lowest *domain.Account, err error) {
	accounts, err := s.store.Accounts().ListAccounts()
	if err != nil {
		return nil, nil, err
	}

	for _, account := range accounts {
		if highest == nil || account.Balance.GreaterThan(highest.Balance) {
			highest = account
		}
		if lowest == nil || account.Balance.LessThan(lowest.Balance) {
			lowest = account
		}
	}
	return highest, lowest, nil
}
