package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"solubank/internal/errors"
	"solubank/internal/metrics"
	"solubank/internal/service"
)

type OperationHandler struct {
	operations *service.OperationService
	metrics    *metrics.Metrics
}

func NewOperationHandler(operations *service.OperationService, m *metrics.Metrics) *OperationHandler {
	return &OperationHandler{
		operations: operations,
		metrics:    m,
	}
}

type operationRequest struct {
	Amount   string `json:"amount"`
	Location string `json:"location"`
}

func (h *OperationHandler) decodeOperation(w http.ResponseWriter, r *http.Request) (decimal.Decimal, string, bool) {
	var req operationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return decimal.Zero, "", false
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return decimal.Zero, "", false
	}

	return amount, req.Location, true
}

func (h *OperationHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "account_id")
	if !ok {
		return
	}

	amount, location, ok := h.decodeOperation(w, r)
	if !ok {
		return
	}

	tx, err := h.operations.Deposit(accountID, amount, location)
	if err != nil {
		h.metrics.OperationProcessed("deposit", "failure")
		writeError(w, err)
		return
	}

	h.metrics.OperationProcessed("deposit", "success")
	writeJSON(w, http.StatusCreated, tx)
}

func (h *OperationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "account_id")
	if !ok {
		return
	}

	amount, location, ok := h.decodeOperation(w, r)
	if !ok {
		return
	}

	tx, err := h.operations.Withdraw(accountID, amount, location)
	if err != nil {
		h.metrics.OperationProcessed("withdrawal", "failure")
		writeError(w, err)
		return
	}

	h.metrics.OperationProcessed("withdrawal", "success")
	writeJSON(w, http.StatusCreated, tx)
}

type transferRequest struct {
	SourceAccountID      int64  `json:"source_account_id"`
	DestinationAccountID int64  `json:"destination_account_id"`
	Amount               string `json:"amount"`
}

func (h *OperationHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return
	}

	result, err := h.operations.Transfer(req.SourceAccountID, req.DestinationAccountID, amount)
	if err != nil {
		h.metrics.OperationProcessed("transfer", "failure")
		writeError(w, err)
		return
	}

	h.metrics.OperationProcessed("transfer", "success")
	writeJSON(w, http.StatusCreated, result)
}
