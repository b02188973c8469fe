// Package handlers implements the HTTP endpoints of the import service.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"fjacquet/ledger-import/internal/api/middleware"
	"fjacquet/ledger-import/internal/importer"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"
	"fjacquet/ledger-import/internal/store"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// Analyzer previews a CSV file.
type Analyzer interface {
	Analyze(r io.Reader) (*models.AnalysisResult, error)
}

// Importer runs a full import.
type Importer interface {
	Import(ctx context.Context, r io.Reader, cfg models.ImportConfig) (*importer.Result, error)
}

// TransactionLister reads stored transactions back.
type TransactionLister interface {
	ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
}

// ProfileRepository stores named import configurations.
type ProfileRepository interface {
	List() ([]models.ImportProfile, error)
	Get(name string) (models.ImportProfile, error)
	Create(p models.ImportProfile) error
}

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	analyzer Analyzer
	importer Importer
	lister   TransactionLister
	profiles ProfileRepository
	log      logging.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(analyzer Analyzer, imp Importer, lister TransactionLister, profiles ProfileRepository, log logging.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		analyzer: analyzer,
		importer: imp,
		lister:   lister,
		profiles: profiles,
		log:      log,
	}
}

// Analyze handles POST /api/transactions/analyze
func (h *TransactionsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	file, name, ok := h.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.analyzer.Analyze(file)
	if err != nil {
		var parseErr *parsererror.ParseError
		if errors.As(err, &parseErr) {
			h.log.WithError(err).Warn("CSV analysis failed", logging.Field{Key: logging.FieldFile, Value: name})
			middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.log.WithError(err).Error("Failed to analyze CSV file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to analyze CSV file")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// Import handles POST /api/transactions/import
//
// The form carries the file and either a "config" JSON document or a
// "profile" name together with "bankAccountId".
func (h *TransactionsHandler) Import(w http.ResponseWriter, r *http.Request) {
	file, name, ok := h.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	cfg, status, msg := h.importConfig(r)
	if status != 0 {
		middleware.WriteError(w, status, msg)
		return
	}

	result, err := h.importer.Import(r.Context(), file, cfg)
	if err != nil {
		h.writeImportError(w, err)
		return
	}

	h.log.Info("Transactions imported",
		logging.Field{Key: logging.FieldFile, Value: name},
		logging.Field{Key: logging.FieldAccount, Value: cfg.BankAccountID},
		logging.Field{Key: logging.FieldCount, Value: result.Count})

	if result.Count == 0 {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message": "No valid transactions found in the file to import.",
			"count":   0,
		})
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("Successfully imported %d transactions.", result.Count),
		"count":   result.Count,
	})
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := strings.TrimSpace(r.URL.Query().Get("bankAccountId"))
	if accountID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "bankAccountId is required")
		return
	}

	txs, err := h.lister.ListByAccount(r.Context(), accountID)
	if err != nil {
		h.log.WithError(err).Error("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

// uploadedFile extracts the "file" part. It writes the error response and
// returns ok=false when there is none.
func (h *TransactionsHandler) uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, string, bool) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the upload limit of %d bytes", maxErr.Limit))
			return nil, "", false
		}
		middleware.WriteError(w, http.StatusBadRequest, "CSV file is required")
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "CSV file is required")
		return nil, "", false
	}
	return file, header.Filename, true
}

// importConfig resolves the configuration of an import request. A non-zero
// status means the request is rejected with msg.
func (h *TransactionsHandler) importConfig(r *http.Request) (models.ImportConfig, int, string) {
	if raw := r.FormValue("config"); raw != "" {
		var cfg models.ImportConfig
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return cfg, http.StatusBadRequest, "Configuration Error: Invalid configuration format"
		}
		return cfg, 0, ""
	}

	name := strings.TrimSpace(r.FormValue("profile"))
	if name == "" {
		return models.ImportConfig{}, http.StatusBadRequest, "Import configuration is required"
	}
	p, err := h.profiles.Get(name)
	if errors.Is(err, store.ErrProfileNotFound) {
		return models.ImportConfig{}, http.StatusBadRequest, fmt.Sprintf("Unknown import profile: %s", name)
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to load import profile", logging.Field{Key: logging.FieldProfile, Value: name})
		return models.ImportConfig{}, http.StatusInternalServerError, "Failed to load import profile"
	}
	return p.Config.WithAccount(r.FormValue("bankAccountId")), 0, ""
}

func (h *TransactionsHandler) writeImportError(w http.ResponseWriter, err error) {
	var (
		cfgErr     *parsererror.ConfigError
		missingErr *parsererror.MissingColumnsError
		rowsErr    *parsererror.RowErrorsError
		csvErr     *parsererror.CsvParseError
		limitErr   *parsererror.RowLimitError
		storeErr   *parsererror.StorageError
	)

	switch {
	case errors.As(err, &cfgErr):
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   cfgErr.Error(),
			"details": cfgErr.Problems,
		})
	case errors.As(err, &missingErr):
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   missingErr.Error(),
			"details": missingErr.Columns,
		})
	case errors.As(err, &rowsErr):
		shown := rowsErr.Shown()
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":       fmt.Sprintf("Failed to process %d rows. See details.", rowsErr.Total()),
			"details":     shown,
			"totalErrors": rowsErr.Total(),
			"shown":       len(shown),
		})
	case errors.As(err, &csvErr), errors.As(err, &limitErr):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &storeErr):
		h.log.WithError(err).Error("Failed to import transactions")
		middleware.WriteError(w, http.StatusInternalServerError, storeErr.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		middleware.WriteError(w, http.StatusServiceUnavailable, "Import cancelled")
	default:
		h.log.WithError(err).Error("Unexpected import failure")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to import transactions")
	}
}

// ProfilesHandler handles import profile endpoints.
type ProfilesHandler struct {
	profiles ProfileRepository
	log      logging.Logger
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(profiles ProfileRepository, log logging.Logger) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles, log: log}
}

// ListProfiles handles GET /api/import-profiles
func (h *ProfilesHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List()
	if err != nil {
		h.log.WithError(err).Error("Failed to list import profiles")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list import profiles")
		return
	}
	if profiles == nil {
		profiles = []models.ImportProfile{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// CreateProfile handles POST /api/import-profiles
func (h *ProfilesHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.ImportProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.profiles.Create(p); err != nil {
		var cfgErr *parsererror.ConfigError
		switch {
		case errors.Is(err, store.ErrProfileExists):
			middleware.WriteError(w, http.StatusConflict, err.Error())
		case errors.As(err, &cfgErr):
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":   cfgErr.Error(),
				"details": cfgErr.Problems,
			})
		default:
			h.log.WithError(err).Error("Failed to create import profile")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to create import profile")
		}
		return
	}

	h.log.Info("Import profile created", logging.Field{Key: logging.FieldProfile, Value: p.Name})
	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"name": strings.TrimSpace(p.Name)})
}
