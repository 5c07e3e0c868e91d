package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"solubank/internal/domain"
	"solubank/internal/errors"
	"solubank/internal/service"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type openAccountRequest struct {
	ClientID       int64  `json:"client_id"`
	Number         string `json:"number,omitempty"`
	Type           string `json:"type"`
	InitialBalance string `json:"initial_balance"`
	OverdraftLimit string `json:"overdraft_limit,omitempty"`
	InterestRate   string `json:"interest_rate,omitempty"`
}

func parseOptionalDecimal(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.NewAppErrorf(errors.InvalidAmount, "invalid %s format", field)
	}
	return value, nil
}

func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	initialBalance, err := parseOptionalDecimal(req.InitialBalance, "initial_balance")
	if err != nil {
		writeError(w, err)
		return
	}
	overdraftLimit, err := parseOptionalDecimal(req.OverdraftLimit, "overdraft_limit")
	if err != nil {
		writeError(w, err)
		return
	}
	interestRate, err := parseOptionalDecimal(req.InterestRate, "interest_rate")
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := h.accounts.OpenAccount(service.OpenAccountRequest{
		ClientID:       req.ClientID,
		Number:         req.Number,
		Type:           domain.AccountType(req.Type),
		InitialBalance: initialBalance,
		OverdraftLimit: overdraftLimit,
		InterestRate:   interestRate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "account_id")
	if !ok {
		return
	}

	account, err := h.accounts.GetAccount(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	account, err := h.accounts.GetAccountByNumber(number)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "client_id")
	if !ok {
		return
	}

	accounts, err := h.accounts.ListAccountsByClient(clientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

type updateParamsRequest struct {
	OverdraftLimit string `json:"overdraft_limit,omitempty"`
	InterestRate   string `json:"interest_rate,omitempty"`
}

func (h *AccountHandler) UpdateParams(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "account_id")
	if !ok {
		return
	}

	var req updateParamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	overdraftLimit, err := parseOptionalDecimal(req.OverdraftLimit, "overdraft_limit")
	if err != nil {
		writeError(w, err)
		return
	}
	interestRate, err := parseOptionalDecimal(req.InterestRate, "interest_rate")
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := h.accounts.UpdateAccountParams(id, overdraftLimit, interestRate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "account_id")
	if !ok {
		return
	}

	if err := h.accounts.DeleteAccount(id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type extremesResponse struct {
	Highest *domain.Account `json:"highest,omitempty"`
	Lowest  *domain.Account `json:"lowest,omitempty"`
}

func (h *AccountHandler) Extremes(w http.ResponseWriter, r *http.Request) {
	highest, lowest, err := h.accounts.BalanceExtremes()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, extremesResponse{Highest: highest, Lowest: lowest})
}
