// Package importer runs a full CSV import: parse the file, check the column
// mapping, transform every row and persist the batch in one call. A batch is
// all-or-nothing: a single bad row rejects the whole file.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parser"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/google/uuid"
)

// State is a step of the import state machine.
type State string

const (
	StateIdle         State = "idle"
	StateParsing      State = "parsing"
	StateValidating   State = "validating"
	StateTransforming State = "transforming"
	StatePersisting   State = "persisting"
	StateSucceeded    State = "succeeded"
	StateRejected     State = "rejected"
)

// DefaultErrorCap is how many row errors are shown to the caller.
const DefaultErrorCap = 10

// Store persists a batch atomically: either every transaction is written or
// none is.
type Store interface {
	BulkInsert(ctx context.Context, txs []models.Transaction) (int, error)
}

// RowTransformer converts one raw record into a transaction.
type RowTransformer interface {
	Transform(rec models.RawRecord, rowIndex int, cfg models.ImportConfig) (models.Transaction, error)
}

// Options tunes an Importer. Zero values select the defaults.
type Options struct {
	// MaxRows rejects files with more data rows. 0 means unlimited.
	MaxRows int
	// ErrorCap bounds RowErrorsError.Shown.
	ErrorCap int
	// Workers sizes the transform worker pool.
	Workers    int
	SniffBytes int
	// NewID generates transaction identifiers.
	NewID func() string
}

// Result describes a finished run.
type Result struct {
	State        State
	Count        int
	Transactions []models.Transaction
}

// Importer orchestrates import runs. It keeps no state between runs and can
// serve concurrent imports.
type Importer struct {
	parser.BaseParser
	store       Store
	transformer RowTransformer
	processor   *ConcurrentProcessor
	opts        Options
}

// New creates an Importer.
func New(store Store, transformer RowTransformer, opts Options, logger logging.Logger) *Importer {
	if opts.ErrorCap <= 0 {
		opts.ErrorCap = DefaultErrorCap
	}
	if opts.SniffBytes <= 0 {
		opts.SniffBytes = parser.DefaultSniffBytes
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	base := parser.NewBaseParser(logger)
	return &Importer{
		BaseParser:  base,
		store:       store,
		transformer: transformer,
		processor:   NewConcurrentProcessor(opts.Workers, base.GetLogger()),
		opts:        opts,
	}
}

// run tracks one import through the state machine.
type run struct {
	logger logging.Logger
	state  State
}

func (r *run) enter(s State) {
	r.logger.Debug("Import state change",
		logging.Field{Key: logging.FieldState, Value: string(s)},
		logging.Field{Key: "from", Value: string(r.state)})
	r.state = s
}

func (r *run) reject(err error) (*Result, error) {
	r.enter(StateRejected)
	return &Result{State: StateRejected}, err
}

// Import reads the CSV file from r and persists its rows for
// cfg.BankAccountID. The returned Result is never nil; on rejection err is
// one of the parsererror types, or the context error when ctx is cancelled
// before persisting.
func (im *Importer) Import(ctx context.Context, r io.Reader, cfg models.ImportConfig) (*Result, error) {
	start := time.Now()
	logger := im.GetLogger().WithFields(
		logging.Field{Key: logging.FieldAccount, Value: cfg.BankAccountID})
	ru := &run{logger: logger, state: StateIdle}

	if err := cfg.Validate(); err != nil {
		return ru.reject(err)
	}
	cfg = cfg.Normalized()

	ru.enter(StateParsing)
	headers, records, err := im.parse(ctx, r, cfg)
	if err != nil {
		logger.WithError(err).Warn("CSV parsing failed")
		return ru.reject(err)
	}

	ru.enter(StateValidating)
	if missing := missingColumns(headers, cfg.RequiredColumns()); len(missing) > 0 {
		logger.Warn("Mapped columns missing from file",
			logging.Field{Key: logging.FieldColumns, Value: strings.Join(missing, ", ")})
		return ru.reject(&parsererror.MissingColumnsError{Columns: missing})
	}

	ru.enter(StateTransforming)
	txs, rowErrs := im.transform(ctx, headers, records, cfg)
	if err := ctx.Err(); err != nil {
		return ru.reject(err)
	}
	if len(rowErrs) > 0 {
		logger.Warn("Rows failed validation, rejecting batch",
			logging.Field{Key: logging.FieldTotalErrors, Value: len(rowErrs)},
			logging.Field{Key: logging.FieldCount, Value: len(records)})
		return ru.reject(&parsererror.RowErrorsError{Errors: rowErrs, Cap: im.opts.ErrorCap})
	}

	if len(txs) == 0 {
		ru.enter(StateSucceeded)
		logger.Info("CSV file has no data rows, nothing imported")
		return &Result{State: StateSucceeded}, nil
	}

	ru.enter(StatePersisting)
	if err := ctx.Err(); err != nil {
		return ru.reject(err)
	}
	for i := range txs {
		txs[i].ID = im.opts.NewID()
	}
	count, err := im.store.BulkInsert(ctx, txs)
	if err != nil {
		logger.WithError(err).Error("Bulk insert failed")
		return ru.reject(&parsererror.StorageError{Err: err})
	}

	ru.enter(StateSucceeded)
	logger.Info("Import completed",
		logging.Field{Key: logging.FieldCount, Value: count},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).String()})
	return &Result{State: StateSucceeded, Count: count, Transactions: txs}, nil
}

// parse reads the whole file with strict field counts. Lines in errors are
// physical lines of the original file.
func (im *Importer) parse(ctx context.Context, r io.Reader, cfg models.ImportConfig) ([]string, [][]string, error) {
	text, err := parser.Decode(r, im.opts.SniffBytes)
	if err != nil {
		return nil, nil, &parsererror.CsvParseError{Reason: "unreadable file", Err: err}
	}
	if err := text.SkipLines(cfg.SkipRows); err != nil {
		return nil, nil, &parsererror.CsvParseError{Reason: "unreadable file", Err: err}
	}

	delim, ok := cfg.DelimiterRune()
	if !ok {
		delim = parser.DetectDelimiter(text.SampleAfter(cfg.SkipRows))
	}
	im.GetLogger().Debug("Parsing CSV file",
		logging.Field{Key: logging.FieldDelimiter, Value: parser.DelimiterName(delim)},
		logging.Field{Key: logging.FieldEncoding, Value: text.Encoding})

	cr := parser.NewCSVReader(text.Reader, delim, true)
	headers, err := parser.ReadHeader(cr)
	if errors.Is(err, io.EOF) {
		return nil, nil, &parsererror.CsvParseError{Reason: "file is empty"}
	}
	if err != nil {
		return nil, nil, &parsererror.CsvParseError{Line: lineOf(err, cfg.SkipRows), Reason: "malformed header", Err: err}
	}
	if dups := parser.DuplicateHeaders(headers); len(dups) > 0 {
		return nil, nil, &parsererror.CsvParseError{
			Line:   cfg.SkipRows + 1,
			Reason: fmt.Sprintf("duplicate column names: %s", strings.Join(dups, ", ")),
		}
	}

	var records [][]string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, &parsererror.CsvParseError{Line: lineOf(err, cfg.SkipRows), Reason: "malformed row", Err: err}
		}
		if im.opts.MaxRows > 0 && len(records) >= im.opts.MaxRows {
			return nil, nil, &parsererror.RowLimitError{Limit: im.opts.MaxRows}
		}
		records = append(records, record)
		if len(records)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
	}
	return headers, records, nil
}

func lineOf(err error, skipped int) int {
	if line := parser.ErrorLine(err); line > 0 {
		return line + skipped
	}
	return 0
}

// transform runs every row through the transformer. Row errors come back in
// row order.
func (im *Importer) transform(ctx context.Context, headers []string, records [][]string, cfg models.ImportConfig) ([]models.Transaction, []parsererror.RowError) {
	outcomes := im.processor.Process(ctx, records, func(i int, record []string) (models.Transaction, error) {
		return im.transformer.Transform(models.NewRawRecord(headers, record), i+cfg.SkipRows+1, cfg)
	})

	txs := make([]models.Transaction, 0, len(outcomes))
	var rowErrs []parsererror.RowError
	for i, o := range outcomes {
		if !o.done {
			continue
		}
		if o.err == nil {
			txs = append(txs, o.tx)
			continue
		}
		var rowErr *parsererror.RowError
		if errors.As(o.err, &rowErr) {
			rowErrs = append(rowErrs, *rowErr)
		} else {
			rowErrs = append(rowErrs, parsererror.RowError{
				Row:     i + cfg.SkipRows + 1,
				Reason:  o.err.Error(),
				RawData: parser.RowMap(headers, records[i]),
				Err:     o.err,
			})
		}
	}
	return txs, rowErrs
}

func missingColumns(headers, required []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
