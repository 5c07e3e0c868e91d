package repository

import (
	"database/sql"
	"log/slog"

	"github.com/shopspring/decimal"

	"solubank/internal/domain"
	"solubank/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) CreateTransaction(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (occurred_on, amount, tx_type, location, account_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		tx.Date,
		tx.Amount.String(),
		string(tx.Type),
		tx.Location,
		tx.AccountID,
	).Scan(&tx.ID)

	if err != nil {
		r.logger.Error("Failed to create transaction",
			"account_id", tx.AccountID,
			"type", tx.Type,
			"amount", tx.Amount,
			"error", err)
		return errors.NewAppError(errors.GatewayError, "failed to create transaction").WithDetails(err.Error())
	}

	r.logger.Info("Transaction recorded", "transaction_id", tx.ID, "account_id", tx.AccountID, "type", tx.Type)
	return nil
}

func (r *transactionRepository) GetTransaction(id int64) (*domain.Transaction, error) {
	query := `
		SELECT id, occurred_on, amount, tx_type, location, account_id
		FROM transactions WHERE id = $1
	`

	var (
		tx        domain.Transaction
		amountStr string
		txType    string
	)

	err := r.db.QueryRow(query, id).Scan(
		&tx.ID,
		&tx.Date,
		&amountStr,
		&txType,
		&tx.Location,
		&tx.AccountID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", "transaction_id", id, "error", err)
		return nil, errors.NewAppError(errors.GatewayError, "failed to get transaction").WithDetails(err.Error())
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, errors.NewAppError(errors.GatewayError, "failed to parse amount").WithDetails(err.Error())
	}
	tx.Amount = amount
	tx.Type = domain.TransactionType(txType)

	return &tx, nil
}

func (r *transactionRepository) ListTransactionsByAccount(accountID int64) ([]*domain.Transaction, error) {
	query := `
		SELECT id, occurred_on, amount, tx_type, location, account_id
		FROM transactions WHERE account_id = $1
		ORDER BY occurred_on DESC, id DESC
	`
	return r.scanList(query, &accountID)
}

func (r *transactionRepository) ListTransactions() ([]*domain.Transaction, error) {
	query := `
		SELECT id, occurred_on, amount, tx_type, location, account_id
		FROM transactions
		ORDER BY occurred_on DESC, id DESC
	`
	return r.scanList(query, nil)
}

func (r *transactionRepository) scanList(query string, param *int64) ([]*domain.Transaction, error) {
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
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, errors.NewAppError(errors.GatewayError, "failed to list transactions").WithDetails(err.Error())
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var (
			tx        domain.Transaction
			amountStr string
			txType    string
		)
		err := rows.Scan(&tx.ID, &tx.Date, &amountStr, &txType, &tx.Location, &tx.AccountID)
		if err != nil {
			return nil, errors.NewAppError(errors.GatewayError, "failed to scan transaction").WithDetails(err.Error())
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, errors.NewAppError(errors.GatewayError, "failed to parse amount").WithDetails(err.Error())
		}
		tx.Amount = amount
		tx.Type = domain.TransactionType(txType)

		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.GatewayError, "failed to read transactions").WithDetails(err.Error())
	}

	return transactions, nil
}

func (r *transactionRepository) DeleteTransaction(id int64) error {
	query := `DELETE FROM transactions WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Error("Failed to delete transaction", "transaction_id", id, "error", err)
		return errors.NewAppError(errors.GatewayError, "failed to delete transaction").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.GatewayError, "failed to get rows affected").WithDetails(err.Error())
	}
	if rowsAffected == 0 {
		return errors.ErrTransactionNotFound
	}

	r.logger.Warn("Transaction deleted", "transaction_id", id)
	return nil
}
