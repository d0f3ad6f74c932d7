package http

import (
	"net/http"
	"time"

	"soldi/internal/log"
	"soldi/internal/prefs"
	"soldi/internal/services"
)

// Server wraps http.Server with the JSON API routes mounted.
type Server struct {
	http.Server
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, records *services.RecordService, summary *services.SummaryService, loans *services.LoanService, preferences *prefs.Preferences, logger *log.Logger) *Server {
	h := &handlers{
		records:     records,
		summary:     summary,
		loans:       loans,
		preferences: preferences,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", h.listTransactions)
	mux.HandleFunc("POST /api/transactions", h.createTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", h.getTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", h.updateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", h.deleteTransaction)

	mux.HandleFunc("GET /api/accounts", h.listAccounts)
	mux.HandleFunc("POST /api/accounts", h.createAccount)
	mux.HandleFunc("PUT /api/accounts/{id}", h.updateAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", h.deleteAccount)
	mux.HandleFunc("GET /api/accounts/{id}/balance", h.accountBalance)

	mux.HandleFunc("GET /api/categories", h.listCategories)
	mux.HandleFunc("POST /api/categories", h.createCategory)
	mux.HandleFunc("PUT /api/categories/{id}", h.updateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", h.deleteCategory)

	mux.HandleFunc("GET /api/objectives", h.listObjectives)
	mux.HandleFunc("POST /api/objectives", h.createObjective)
	mux.HandleFunc("PUT /api/objectives/{id}", h.updateObjective)
	mux.HandleFunc("DELETE /api/objectives/{id}", h.deleteObjective)

	mux.HandleFunc("GET /api/loans", h.listLoans)
	mux.HandleFunc("POST /api/loans", h.createLoan)
	mux.HandleFunc("GET /api/loans/{id}", h.getLoan)
	mux.HandleFunc("PUT /api/loans/{id}", h.updateLoan)
	mux.HandleFunc("DELETE /api/loans/{id}", h.deleteLoan)
	mux.HandleFunc("POST /api/loans/{id}/complete", h.completeLoan)
	mux.HandleFunc("GET /api/summary/loans", h.loanSummary)

	mux.HandleFunc("GET /api/preferences", h.getPreferences)
	mux.HandleFunc("PUT /api/preferences/theme", h.setTheme)
	mux.HandleFunc("POST /api/preferences/pin", h.setPIN)
	mux.HandleFunc("DELETE /api/preferences/pin", h.clearPIN)
	mux.HandleFunc("POST /api/preferences/pin/verify", h.verifyPIN)
	mux.HandleFunc("POST /api/preferences/xp", h.addXP)

	handler := log.RequestMiddleware(logger)(mux)

	return &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
