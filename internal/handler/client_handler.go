package handler

import (
	"encoding/json"
	"net/http"

	"solubank/internal/errors"
	"solubank/internal/service"
)

type ClientHandler struct {
	clients *service.ClientService
}

func NewClientHandler(clients *service.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

type clientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *ClientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	client, err := h.clients.RegisterClient(req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "client_id")
	if !ok {
		return
	}

	client, err := h.clients.GetClient(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		clients, err := h.clients.SearchClientsByName(name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, clients)
		return
	}

	clients, err := h.clients.ListClients()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "client_id")
	if !ok {
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	client, err := h.clients.UpdateClient(id, req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "client_id")
	if !ok {
		return
	}

	if err := h.clients.DeleteClient(id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type clientBalanceResponse struct {
	ClientID     int64  `json:"client_id"`
	TotalBalance string `json:"total_balance"`
	AccountCount int    `json:"account_count"`
}

func (h *ClientHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "client_id")
	if !ok {
		return
	}

	total, err := h.clients.TotalBalance(id)
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := h.clients.CountAccounts(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clientBalanceResponse{
		ClientID:     id,
		TotalBalance: total.String(),
		AccountCount: count,
	})
}
