package repository

import (
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"solubank/internal/domain"
	"solubank/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

const accountColumns = `id, number, balance, client_id, account_type, overdraft_limit, interest_rate`

// variantColumns splits the account variant into the discriminator and
// the two nullable columns backing the single accounts table.
func variantColumns(account *domain.Account) (string, interface{}, interface{}) {
	switch account.Type {
	case domain.AccountChecking:
		return string(domain.AccountChecking), account.OverdraftLimit.String(), nil
	case domain.AccountSavings:
		return string(domain.AccountSavings), nil, account.InterestRate.String()
	}
	return string(account.Type), nil, nil
}

func (r *accountRepository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts (number, balance, client_id, account_type, overdraft_limit, interest_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	accountType, overdraft, interest := variantColumns(account)

	err := r.db.QueryRow(
		query,
		account.Number,
		account.Balance.String(),
		account.ClientID,
		accountType,
		overdraft,
		interest,
	).Scan(&account.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			r.logger.Warn("Duplicate account number", "number", account.Number)
			return errors.ErrDuplicateAccountNumber
		}
		r.logger.Error("Failed to create account", "number", account.Number, "error", err)
		return errors.NewAppError(errors.GatewayError, "failed to create account").WithDetails(err.Error())
	}

	r.logger.Info("Account created", "account_id", account.ID, "number", account.Number)
	return nil
}

func (r *accountRepository) GetAccount(id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(query, id)
}

func (r *accountRepository) GetAccountByNumber(number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = $1`

	account, err := r.scanOne(query, number)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.AccountNotFound {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) scanOne(query string, arg interface{}) (*domain.Account, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		r.logger.Error("Failed to query account", "error", err)
		return nil, errors.NewAppError(errors.GatewayError, "failed to get account").WithDetails(err.Error())
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.NewAppError(errors.GatewayError, "failed to get account").WithDetails(err.Error())
		}
		return nil, errors.ErrAccountNotFound
	}

	return scanAccountRow(rows)
}

func scanAccountRow(rows *sql.Rows) (*domain.Account, error) {
	var (
		account      domain.Account
		balanceStr   string
		accountType  string
		overdraftStr sql.NullString
		interestStr  sql.NullString
	)

	err := rows.Scan(
		&account.ID,
		&account.Number,
		&balanceStr,
		&account.ClientID,
		&accountType,
		&overdraftStr,
		&interestStr,
	)
	if err != nil {
		return nil, errors.NewAppError(errors.GatewayError, "failed to scan account").WithDetails(err.Error())
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, errors.NewAppError(errors.GatewayError, "failed to parse balance").WithDetails(err.Error())
	}
	account.Balance = balance

	switch domain.AccountType(accountType) {
	case domain.AccountChecking:
		account.Type = domain.AccountChecking
		if overdraftStr.Valid {
			limit, err := decimal.NewFromString(overdraftStr.String)
			if err != nil {
				return nil, errors.NewAppError(errors.GatewayError, "failed to parse overdraft limit").WithDetails(err.Error())
			}
			account.OverdraftLimit = limit
		}
	case domain.AccountSavings:
		account.Type = domain.AccountSavings
		if interestStr.Valid {
			rate, err := decimal.NewFromString(interestStr.String)
			if err != nil {
				return nil, errors.NewAppError(errors.GatewayError, "failed to parse interest rate").WithDetails(err.Error())
			}
			account.InterestRate = rate
		}
	default:
		return nil, errors.NewAppErrorf(errors.UnknownAccountType, "unknown account type %q", accountType)
	}

	return &account, nil
}

func (r *accountRepository) ListAccounts() ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`
	return r.scanList(query, nil)
}

func (r *accountRepository) ListAccountsByClient(clientID int64) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE client_id = $1 ORDER BY id`
	return r.scanList(query, &clientID)
}

func (r *accountRepository) scanList(query string, param *int64) ([]*domain.Account, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if param != nil {
		rows, err = r.db.Query(query, *param)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, errors.NewAppError(errors.GatewayError, "failed to list accounts").WithDetails(err.Error())
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			// An unreadable variant poisons only its own row; the rest
			// of the batch stays readable.
			if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.UnknownAccountType {
				r.logger.Warn("Skipping undecodable account row", "error", err)
				continue
			}
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.GatewayError, "failed to read accounts").WithDetails(err.Error())
	}

	return accounts, nil
}

func (r *accountRepository) UpdateAccount(account *domain.Account) error {
	query := `
		UPDATE accounts
		SET balance = $1, overdraft_limit = $2, interest_rate = $3
		WHERE id = $4
	`

	_, overdraft, interest := variantColumns(account)

	result, err := r.db.Exec(query, account.Balance.String(), overdraft, interest, account.ID)
	if err != nil {
		r.logger.Error("Failed to update account", "account_id", account.ID, "error", err)
		return errors.NewAppError(errors.GatewayError, "failed to update account").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.GatewayError, "failed to get rows affected").WithDetails(err.Error())
	}
	if rowsAffected == 0 {
		return errors.ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) UpdateAccountBalance(id int64, newBalance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1 WHERE id = $2`

	result, err := r.db.Exec(query, newBalance.String(), id)
	if err != nil {
		r.logger.Error("Failed to update account balance", "account_id", id, "error", err)
		return errors.NewAppError(errors.GatewayError, "failed to update account balance").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.GatewayError, "failed to get rows affected").WithDetails(err.Error())
	}
	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "account_id", id)
		return errors.ErrAccountNotFound
	}

	r.logger.Info("Account balance updated", "account_id", id, "new_balance", newBalance)
	return nil
}

func (r *accountRepository) DeleteAccount(id int64) error {
	// Transactions for the account cascade via foreign key.
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Error("Failed to delete account", "account_id", id, "error", err)
		return errors.NewAppError(errors.GatewayError, "failed to delete account").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.GatewayError, "failed to get rows affected").WithDetails(err.Error())
	}
	if rowsAffected == 0 {
		return errors.ErrAccountNotFound
	}

	r.logger.Info("Account deleted", "account_id", id)
	return nil
}
