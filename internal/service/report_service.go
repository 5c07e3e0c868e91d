package service

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"solubank/internal/domain"
)

// ReportConfig tunes the anomaly rules. Zero values are replaced with
// the defaults the rules were designed around.
type ReportConfig struct {
	// SuspiciousAmount flags any transaction strictly above it.
	SuspiciousAmount decimal.Decimal
	// HomeCountry marks a transaction suspicious when its location
	// does not contain this fragment (case-insensitive).
	HomeCountry string
	// DormantDays is the inactivity window for dormant accounts.
	DormantDays int
	// DailyLimit is the number of same-day transactions an account may
	// make before all of that day's transactions are flagged.
	DailyLimit int
}

const topClientsLimit = 5

func (c ReportConfig) withDefaults() ReportConfig {
	if c.SuspiciousAmount.IsZero() {
		c.SuspiciousAmount = decimal.NewFromInt(10000)
	}
	if c.HomeCountry == "" {
		c.HomeCountry = "maroc"
	}
	if c.DormantDays == 0 {
		c.DormantDays = 90
	}
	if c.DailyLimit == 0 {
		c.DailyLimit = 3
	}
	return c
}

// ReportService derives rankings, aggregates and anomaly flags over
// the ledger. It never mutates state.
type ReportService struct {
	store  domain.Store
	cfg    ReportConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewReportService(store domain.Store, cfg ReportConfig, logger *slog.Logger) *ReportService {
	return &ReportService{
		store:  store,
		cfg:    cfg.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// ClientBalance pairs a client with the summed balance of their accounts.
type ClientBalance struct {
	Client  *domain.Client  `json:"client"`
	Balance decimal.Decimal `json:"balance"`
}

// TopClientsByBalance ranks clients by total balance across their
// accounts and returns the top five. Accounts whose owner cannot be
// resolved are dropped.
func (s *ReportService) TopClientsByBalance() ([]ClientBalance, error) {
	accounts, err := s.store.Accounts().ListAccounts()
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]decimal.Decimal)
	for _, account := range accounts {
		totals[account.ClientID] = totals[account.ClientID].Add(account.Balance)
	}

	clients, err := s.store.Clients().ListClients()
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Client, len(clients))
	for _, client := range clients {
		byID[client.ID] = client
	}

	ranking := make([]ClientBalance, 0, len(totals))
	for clientID, total := range totals {
		client, ok := byID[clientID]
		if !ok {
			continue
		}
		ranking = append(ranking, ClientBalance{Client: client, Balance: total})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Balance.GreaterThan(ranking[j].Balance)
	})

	if len(ranking) > topClientsLimit {
		ranking = ranking[:topClientsLimit]
	}
	return ranking, nil
}

// TypeStats aggregates one transaction type over a reporting period.
type TypeStats struct {
	Count  int             `json:"count"`
	Volume decimal.Decimal `json:"volume"`
}

// MonthlyReport aggregates transaction count and volume per type over
// the given calendar month.
func (s *ReportService) MonthlyReport(month time.Month, year int) (map[domain.TransactionType]TypeStats, error) {
	transactions, err := s.store.Transactions().ListTransactions()
	if err != nil {
		return nil, err
	}

	report := make(map[domain.TransactionType]TypeStats)
	for _, tx := range transactions {
		ty, tm, _ := tx.Date.Date()
		if ty != year || tm != month {
			continue
		}
		stats := report[tx.Type]
		stats.Count++
		stats.Volume = stats.Volume.Add(tx.Amount)
		report[tx.Type] = stats
	}
	return report, nil
}

// DormantAccounts returns accounts whose latest transaction is older
// than the dormancy window. An account without any transactions is
// dormant by definition.
func (s *ReportService) DormantAccounts() ([]*domain.Account, error) {
	accounts, err := s.store.Accounts().ListAccounts()
	if err != nil {
		return nil, err
	}

	cutoff := s.now().AddDate(0, 0, -s.cfg.DormantDays)

	var dormant []*domain.Account
	for _, account := range accounts {
		transactions, err := s.store.Transactions().ListTransactionsByAccount(account.ID)
		if err != nil {
			return nil, err
		}

		if len(transactions) == 0 {
			dormant = append(dormant, account)
			continue
		}

		latest := transactions[0].Date
		for _, tx := range transactions[1:] {
			if tx.Date.After(latest) {
				latest = tx.Date
			}
		}
		if latest.Before(cutoff) {
			dormant = append(dormant, account)
		}
	}
	return dormant, nil
}

// SuspiciousTransactions flags transactions above the amount threshold
// or occurring outside the home country. The two rules are OR'd.
func (s *ReportService) SuspiciousTransactions() ([]*domain.Transaction, error) {
	transactions, err := s.store.Transactions().ListTransactions()
	if err != nil {
		return nil, err
	}

	home := strings.ToLower(s.cfg.HomeCountry)
	flagged := make([]*domain.Transaction, 0)
	for _, tx := range transactions {
		if tx.Amount.GreaterThan(s.cfg.SuspiciousAmount) ||
			!strings.Contains(strings.ToLower(tx.Location), home) {
			flagged = append(flagged, tx)
		}
	}
	return flagged, nil
}

// ExcessiveFrequency flags every one of today's transactions for any
// account that made more than the daily limit today. Day granularity
// only; this is not a sliding-window detector.
func (s *ReportService) ExcessiveFrequency() ([]*domain.Transaction, error) {
	transactions, err := s.store.Transactions().ListTransactions()
	if err != nil {
		return nil, err
	}

	today := s.now()
	todayByAccount := make(map[int64][]*domain.Transaction)
	for _, tx := range transactions {
		if sameDay(tx.Date, today) {
			todayByAccount[tx.AccountID] = append(todayByAccount[tx.AccountID], tx)
		}
	}

	var flagged []*domain.Transaction
	for accountID, txs := range todayByAccount {
		if len(txs) > s.cfg.DailyLimit {
			s.logger.Warn("Excessive transaction frequency",
				"account_id", accountID,
				"count", len(txs))
			flagged = append(flagged, txs...)
		}
	}
	return flagged, nil
}
