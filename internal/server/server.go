package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"solubank/internal/config"
	"solubank/internal/handler"
	"solubank/internal/metrics"
	"solubank/internal/repository"
	"solubank/internal/service"
)

// Server wires the persistence gateway, the engines and the HTTP
// surface together.
type Server struct {
	router *mux.Router
	server *http.Server
	db     *sql.DB
	logger *slog.Logger
	port   string
}

func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sql.Open("postgres", cfg.GetDBConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("Successfully connected to database")
	}

	store := repository.NewStore(db, logger)

	reportCfg := service.ReportConfig{
		HomeCountry: cfg.HomeCountry,
		DormantDays: cfg.DormantDays,
		DailyLimit:  cfg.DailyTxLimit,
	}
	if threshold, err := decimal.NewFromString(cfg.SuspiciousAmount); err == nil {
		reportCfg.SuspiciousAmount = threshold
	}

	clientService := service.NewClientService(store, logger)
	accountService := service.NewAccountService(store, logger)
	operationService := service.NewOperationService(store, logger)
	ledgerService := service.NewLedgerService(store, logger)
	reportService := service.NewReportService(store, reportCfg, logger)

	m := metrics.New("solubank")

	clientHandler := handler.NewClientHandler(clientService)
	accountHandler := handler.NewAccountHandler(accountService)
	operationHandler := handler.NewOperationHandler(operationService, m)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	reportHandler := handler.NewReportHandler(reportService)

	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))
	router.Use(metricsMiddleware(m))

	// Client routes
	router.HandleFunc("/clients", clientHandler.Register).Methods("POST")
	router.HandleFunc("/clients", clientHandler.List).Methods("GET")
	router.HandleFunc("/clients/{client_id}", clientHandler.Get).Methods("GET")
	router.HandleFunc("/clients/{client_id}", clientHandler.Update).Methods("PUT")
	router.HandleFunc("/clients/{client_id}", clientHandler.Delete).Methods("DELETE")
	router.HandleFunc("/clients/{client_id}/accounts", accountHandler.ListByClient).Methods("GET")
	router.HandleFunc("/clients/{client_id}/balance", clientHandler.Balance).Methods("GET")
	router.HandleFunc("/clients/{client_id}/volume", ledgerHandler.ClientVolume).Methods("GET")

	// Account routes
	router.HandleFunc("/accounts", accountHandler.Open).Methods("POST")
	router.HandleFunc("/accounts", accountHandler.List).Methods("GET")
	router.HandleFunc("/accounts/extremes", accountHandler.Extremes).Methods("GET")
	router.HandleFunc("/accounts/number/{number}", accountHandler.GetByNumber).Methods("GET")
	router.HandleFunc("/accounts/{account_id}", accountHandler.Get).Methods("GET")
	router.HandleFunc("/accounts/{account_id}", accountHandler.UpdateParams).Methods("PUT")
	router.HandleFunc("/accounts/{account_id}", accountHandler.Delete).Methods("DELETE")

	// Operation routes
	router.HandleFunc("/accounts/{account_id}/deposits", operationHandler.Deposit).Methods("POST")
	router.HandleFunc("/accounts/{account_id}/withdrawals", operationHandler.Withdraw).Methods("POST")
	router.HandleFunc("/transfers", operationHandler.Transfer).Methods("POST")

	// Ledger routes
	router.HandleFunc("/accounts/{account_id}/transactions", ledgerHandler.AccountHistory).Methods("GET")
	router.HandleFunc("/accounts/{account_id}/transactions/average", ledgerHandler.AverageAmount).Methods("GET")
	router.HandleFunc("/transactions", ledgerHandler.ListTransactions).Methods("GET")
	router.HandleFunc("/transactions/by-type", ledgerHandler.GroupedByType).Methods("GET")
	router.HandleFunc("/transactions/{transaction_id}", ledgerHandler.GetTransaction).Methods("GET")
	router.HandleFunc("/transactions/{transaction_id}", ledgerHandler.DeleteTransaction).Methods("DELETE")

	// Report routes
	router.HandleFunc("/reports/top-clients", reportHandler.TopClients).Methods("GET")
	router.HandleFunc("/reports/monthly", reportHandler.Monthly).Methods("GET")
	router.HandleFunc("/reports/dormant-accounts", reportHandler.DormantAccounts).Methods("GET")
	router.HandleFunc("/reports/suspicious-transactions", reportHandler.SuspiciousTransactions).Methods("GET")
	router.HandleFunc("/reports/frequency-alerts", reportHandler.FrequencyAlerts).Methods("GET")

	router.Handle("/metrics", m.Handler()).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": "database unavailable"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	return &Server{
		router: router,
		db:     db,
		logger: logger,
	}, nil
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration", time.Since(start),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

func metricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}

			m.RequestObserved(r.Method, route, strconv.Itoa(ww.statusCode), time.Since(start).Seconds())
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start begins serving on the given port; "0" picks a free port.
func (s *Server) Start(port string) (string, error) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return "", err
	}

	addr := listener.Addr().(*net.TCPAddr)
	s.port = strconv.Itoa(addr.Port)

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if s.logger != nil {
		s.logger.Info("Starting server", "port", s.port)
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Error("Server failed", "error", err)
			}
		}
	}()

	return s.port, nil
}

// Stop gracefully shuts down the server and closes the database.
func (s *Server) Stop(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("Shutting down server")
	}

	if s.db != nil {
		s.db.Close()
	}

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) GetPort() string {
	return s.port
}

func (s *Server) GetBaseURL() string {
	return "http://localhost:" + s.port
}

// StartServer builds and starts a Server from the configuration.
func StartServer(cfg *config.Config) (*Server, string, error) {
	var logger *slog.Logger
	if cfg.ServerPort == "0" {
		// Test environment
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	server, err := NewServer(cfg, logger)
	if err != nil {
		return nil, "", err
	}

	port, err := server.Start(cfg.ServerPort)
	if err != nil {
		return nil, "", err
	}

	return server, port, nil
}
