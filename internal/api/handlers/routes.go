package handlers

import (
	"net/http"
	"time"

	"fjacquet/ledger-import/internal/api/middleware"
)

// NewRouter registers every endpoint on a new ServeMux.
func NewRouter(transactions *TransactionsHandler, profiles *ProfilesHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// Transactions endpoints
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactions.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactions.Analyze(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/import", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactions.Import(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Import profile endpoints
	mux.HandleFunc("/api/import-profiles", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			profiles.ListProfiles(w, r)
		case http.MethodPost:
			profiles.CreateProfile(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return mux
}
