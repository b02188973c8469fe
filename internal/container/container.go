// Package container provides dependency injection for the ledger-import
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"fjacquet/ledger-import/internal/api/handlers"
	"fjacquet/ledger-import/internal/api/middleware"
	"fjacquet/ledger-import/internal/config"
	"fjacquet/ledger-import/internal/importer"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/sniffer"
	"fjacquet/ledger-import/internal/store"
	"fjacquet/ledger-import/internal/transformer"
)

// Container holds all application dependencies and provides methods to access them.
//
// The SQLite store is opened on first use so that commands which never
// touch the ledger (analyze, profiles) do not create a database.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	profiles    *store.ProfileStore
	sniffer     *sniffer.Sniffer
	transformer *transformer.Transformer

	mu           sync.Mutex
	transactions *store.TransactionStore
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	c := &Container{
		logger:      logger,
		config:      cfg,
		profiles:    store.NewProfileStore(cfg.Profiles.File, logger),
		sniffer:     sniffer.New(cfg.Import.PreviewRows, cfg.Import.SniffBytes, logger),
		transformer: transformer.New(cfg.Import.DebitValues),
	}

	logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldFile, Value: cfg.Profiles.File},
		logging.Field{Key: "database", Value: cfg.Storage.DatabasePath})
	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetProfileStore returns the import profile store.
func (c *Container) GetProfileStore() *store.ProfileStore {
	return c.profiles
}

// GetSniffer returns the CSV analyzer.
func (c *Container) GetSniffer() *sniffer.Sniffer {
	return c.sniffer
}

// GetTransactionStore opens the ledger database on first call, applying
// pending migrations.
func (c *Container) GetTransactionStore() (*store.TransactionStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transactions != nil {
		return c.transactions, nil
	}
	s, err := store.NewTransactionStore(c.config.Storage.DatabasePath, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction store: %w", err)
	}
	c.transactions = s
	return s, nil
}

// NewImporter builds an import orchestrator persisting into the ledger
// database.
func (c *Container) NewImporter() (*importer.Importer, error) {
	s, err := c.GetTransactionStore()
	if err != nil {
		return nil, err
	}
	return c.newImporter(s), nil
}

func (c *Container) newImporter(s importer.Store) *importer.Importer {
	return importer.New(s, c.transformer, importer.Options{
		MaxRows:    c.config.Import.MaxRows,
		ErrorCap:   c.config.Import.ErrorDisplayCap,
		Workers:    c.config.Import.Workers,
		SniffBytes: c.config.Import.SniffBytes,
	}, c.logger)
}

// HTTPHandler returns the API router wrapped in the middleware chain.
func (c *Container) HTTPHandler() (http.Handler, error) {
	s, err := c.GetTransactionStore()
	if err != nil {
		return nil, err
	}

	th := handlers.NewTransactionsHandler(c.sniffer, c.newImporter(s), s, c.profiles, c.logger)
	ph := handlers.NewProfilesHandler(c.profiles, c.logger)

	return middleware.Chain(handlers.NewRouter(th, ph),
		middleware.Recovery(c.logger),
		middleware.RequestID,
		middleware.Logger(c.logger),
		middleware.CORS,
		middleware.MaxBytes(c.config.Server.MaxUploadBytes),
	), nil
}

// NewHTTPServer builds the HTTP server for the serve command.
func (c *Container) NewHTTPServer() (*http.Server, error) {
	handler, err := c.HTTPHandler()
	if err != nil {
		return nil, err
	}
	sc := c.config.Server
	return &http.Server{
		Addr:         sc.Addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(sc.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(sc.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(sc.IdleTimeoutSeconds) * time.Second,
	}, nil
}

// Close releases the database handle if it was opened.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transactions == nil {
		return nil
	}
	err := c.transactions.Close()
	c.transactions = nil
	return err
}
