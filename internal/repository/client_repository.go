package repository

import (
	"database/sql"
	"log/slog"

	"solubank/internal/domain"
	"solubank/internal/errors"
)

type clientRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewClientRepository(db SQLExecutor, logger *slog.Logger) domain.ClientRepository {
	return &clientRepository{
		db:     db,
		logger: logger,
	}
}

func (r *clientRepository) CreateClient(client *domain.Client) error {
	query := `
		INSERT INTO clients (name, email)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(query, client.Name, client.Email).Scan(&client.ID)
	if err != nil {
		r.logger.Error("Failed to create client", "name", client.Name, "error", err)
		return errors.NewAppError(errors.GatewayError, "failed to create client").WithDetails(err.Error())
	}

	r.logger.Info("Client created", "client_id", client.ID)
	return nil
}

func (r *clientRepository) GetClient(id int64) (*domain.Client, error) {
	query := `SELECT id, name, email FROM clients WHERE id = $1`

	var client domain.Client
	err := r.db.QueryRow(query, id).Scan(&client.ID, &client.Name, &client.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrClientNotFound
		}
		r.logger.Error("Failed to get client", "client_id", id, "error", err)
		return nil, errors.NewAppError(errors.GatewayError, "failed to get client").WithDetails(err.Error())
	}

	return &client, nil
}

func (r *clientRepository) ListClients() ([]*domain.Client, error) {
	query := `SELECT id, name, email FROM clients ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list clients", "error", err)
		return nil, errors.NewAppError(errors.GatewayError, "failed to list clients").WithDetails(err.Error())
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Email); err != nil {
			return nil, errors.NewAppError(errors.GatewayError, "failed to scan client").WithDetails(err.Error())
		}
		clients = append(clients, &client)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.GatewayError, "failed to read clients").WithDetails(err.Error())
	}

	return clients, nil
}

func (r *clientRepository) UpdateClient(client *domain.Client) error {
	query := `UPDATE clients SET name = $1, email = $2 WHERE id = $3`

	result, err := r.db.Exec(query, client.Name, client.Email, client.ID)
	if err != nil {
		r.logger.Error("Failed to update client", "client_id", client.ID, "error", err)
		return errors.NewAppError(errors.GatewayError, "failed to update client").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.GatewayError, "failed to get rows affected").WithDetails(err.Error())
	}
	if rowsAffected == 0 {
		return errors.ErrClientNotFound
	}

	return nil
}

func (r *clientRepository) DeleteClient(id int64) error {
	// Accounts and their transactions cascade via foreign keys.
	query := `DELETE FROM clients WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Error("Failed to delete client", "client_id", id, "error", err)
		return errors.NewAppError(errors.GatewayError, "failed to delete client").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.GatewayError, "failed to get rows affected").WithDetails(err.Error())
	}
	if rowsAffected == 0 {
		return errors.ErrClientNotFound
	}

	r.logger.Info("Client deleted", "client_id", id)
	return nil
}
