package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"solubank/internal/errors"
	"solubank/internal/service"
)

type LedgerHandler struct {
	ledger *service.LedgerService
}

func NewLedgerHandler(ledger *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

func (h *LedgerHandler) AccountHistory(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "account_id")
	if !ok {
		return
	}

	var err error
	var transactions interface{}
	if r.URL.Query().Get("sort") == "amount" {
		transactions, err = h.ledger.AccountHistoryByAmount(accountID)
	} else {
		transactions, err = h.ledger.AccountHistory(accountID)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

// ListTransactions serves the full ledger, optionally narrowed by one
// of the min_amount, date or location filters.
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if raw := query.Get("min_amount"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid min_amount format"))
			return
		}
		h.respondList(w, func() (interface{}, error) { return h.ledger.FilterByMinAmount(min) })
		return
	}

	if raw := query.Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, errors.NewAppError(errors.InvalidInput, "invalid date format, expected YYYY-MM-DD"))
			return
		}
		h.respondList(w, func() (interface{}, error) { return h.ledger.FilterByDate(date) })
		return
	}

	if location := query.Get("location"); location != "" {
		h.respondList(w, func() (interface{}, error) { return h.ledger.FilterByLocation(location) })
		return
	}

	h.respondList(w, func() (interface{}, error) { return h.ledger.ListTransactions() })
}

func (h *LedgerHandler) respondList(w http.ResponseWriter, list func() (interface{}, error)) {
	transactions, err := list()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *LedgerHandler) GroupedByType(w http.ResponseWriter, r *http.Request) {
	groups, err := h.ledger.GroupByType()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *LedgerHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "transaction_id")
	if !ok {
		return
	}

	tx, err := h.ledger.GetTransaction(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

func (h *LedgerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "transaction_id")
	if !ok {
		return
	}

	if err := h.ledger.DeleteTransaction(id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type averageResponse struct {
	AccountID int64  `json:"account_id"`
	Average   string `json:"average"`
}

func (h *LedgerHandler) AverageAmount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "account_id")
	if !ok {
		return
	}

	average, err := h.ledger.AverageAmount(accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, averageResponse{AccountID: accountID, Average: average.String()})
}

type clientVolumeResponse struct {
	ClientID int64  `json:"client_id"`
	Volume   string `json:"volume"`
}

func (h *LedgerHandler) ClientVolume(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "client_id")
	if !ok {
		return
	}

	volume, err := h.ledger.ClientVolume(clientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clientVolumeResponse{ClientID: clientID, Volume: volume.String()})
}
