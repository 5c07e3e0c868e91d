package service

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"solubank/internal/domain"
	"solubank/internal/errors"
)

type ClientService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewClientService(store domain.Store, logger *slog.Logger) *ClientService {
	return &ClientService{
		store:  store,
		logger: logger,
	}
}

func validateClient(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewAppError(errors.InvalidInput, "client name must not be empty")
	}
	if !domain.ValidEmail(email) {
		return errors.NewAppError(errors.InvalidInput, "client email is not a valid address")
	}
	return nil
}

func (s *ClientService) RegisterClient(name, email string) (*domain.Client, error) {
	if err := validateClient(name, email); err != nil {
		return nil, err
	}

	client := &domain.Client{
		Name:  name,
		Email: email,
	}
	if err := s.store.Clients().CreateClient(client); err != nil {
		return nil, err
	}

	s.logger.Info("Client registered", "client_id", client.ID, "name", client.Name)
	return client, nil
}

func (s *ClientService) GetClient(id int64) (*domain.Client, error) {
	return s.store.Clients().GetClient(id)
}

func (s *ClientService) ListClients() ([]*domain.Client, error) {
	return s.store.Clients().ListClients()
}

// SearchClientsByName returns clients whose name contains the given
// fragment, case-insensitively.
func (s *ClientService) SearchClientsByName(name string) ([]*domain.Client, error) {
	clients, err := s.store.Clients().ListClients()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	matches := make([]*domain.Client, 0, len(clients))
	for _, client := range clients {
		if strings.Contains(strings.ToLower(client.Name), needle) {
			matches = append(matches, client)
		}
	}
	return matches, nil
}

func (s *ClientService) UpdateClient(id int64, name, email string) (*domain.Client, error) {
	if err := validateClient(name, email); err != nil {
		return nil, err
	}

	client := &domain.Client{
		ID:    id,
		Name:  name,
		Email: email,
	}
	if err := s.store.Clients().UpdateClient(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) DeleteClient(id int64) error {
	if err := s.store.Clients().DeleteClient(id); err != nil {
		return err
	}
	s.logger.Info("Client deleted with owned accounts", "client_id", id)
	return nil
}

// TotalBalance sums the balances of every account the client owns.
func (s *ClientService) TotalBalance(clientID int64) (decimal.Decimal, error) {
	if _, err := s.store.Clients().GetClient(clientID); err != nil {
		return decimal.Zero, err
	}

	accounts, err := s.store.Accounts().ListAccountsByClient(clientID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, account := range accounts {
		total = total.Add(account.Balance)
	}
	return total, nil
}

func (s *ClientService) CountAccounts(clientID int64) (int, error) {
	if _, err := s.store.Clients().GetClient(clientID); err != nil {
		return 0, err
	}

	accounts, err := s.store.Accounts().ListAccountsByClient(clientID)
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}
