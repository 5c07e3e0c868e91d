package handler

import (
	"net/http"
	"strconv"
	"time"

	"solubank/internal/errors"
	"solubank/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) TopClients(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.reports.TopClientsByBalance()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	month, err := strconv.Atoi(query.Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, errors.NewAppError(errors.InvalidInput, "month must be between 1 and 12"))
		return
	}

	year, err := strconv.Atoi(query.Get("year"))
	if err != nil || year <= 0 {
		writeError(w, errors.NewAppError(errors.InvalidInput, "year must be a positive number"))
		return
	}

	report, err := h.reports.MonthlyReport(time.Month(month), year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) DormantAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.reports.DormantAccounts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *ReportHandler) SuspiciousTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.reports.SuspiciousTransactions()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *ReportHandler) FrequencyAlerts(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.reports.ExcessiveFrequency()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}
