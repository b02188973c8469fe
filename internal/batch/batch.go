// Package batch imports every CSV file of a directory with one import
// configuration. Each file is its own all-or-nothing batch; a rejected file
// does not stop the others.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/ledger-import/internal/importer"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
)

// FileImporter imports a single file.
type FileImporter interface {
	Import(ctx context.Context, r io.Reader, cfg models.ImportConfig) (*importer.Result, error)
}

// FileResult is the outcome of one file.
type FileResult struct {
	File  string
	Count int
	Err   error
}

// Summary collects the outcomes of a directory import in file name order.
type Summary struct {
	Results []FileResult
}

// Imported returns the number of transactions stored across all files.
func (s Summary) Imported() int {
	n := 0
	for _, r := range s.Results {
		n += r.Count
	}
	return n
}

// Failed returns the results of rejected files.
func (s Summary) Failed() []FileResult {
	var failed []FileResult
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// BatchImporter runs directory imports.
type BatchImporter struct {
	importer FileImporter
	logger   logging.Logger
}

// NewBatchImporter creates a new BatchImporter instance
func NewBatchImporter(imp FileImporter, logger logging.Logger) *BatchImporter {
	return &BatchImporter{importer: imp, logger: logger}
}

// ListCSVFiles returns the .csv files directly inside dir, sorted by name.
func ListCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ImportDirectory imports every CSV file in dir. The error is non-nil only
// when the directory cannot be read or ctx is cancelled; per-file
// rejections are reported in the Summary.
func (b *BatchImporter) ImportDirectory(ctx context.Context, dir string, cfg models.ImportConfig) (Summary, error) {
	files, err := ListCSVFiles(dir)
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		b.logger.Warn("No CSV files found in input directory", logging.Field{Key: logging.FieldFile, Value: dir})
		return Summary{}, nil
	}

	b.logger.Info("Found files for processing", logging.Field{Key: logging.FieldCount, Value: len(files)})

	var summary Summary
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res := b.importFile(ctx, file, cfg)
		summary.Results = append(summary.Results, res)
	}

	b.logger.Info("Batch import completed",
		logging.Field{Key: logging.FieldCount, Value: summary.Imported()},
		logging.Field{Key: logging.FieldTotalErrors, Value: len(summary.Failed())})
	return summary, nil
}

func (b *BatchImporter) importFile(ctx context.Context, file string, cfg models.ImportConfig) FileResult {
	logger := b.logger.WithField(logging.FieldFile, file)

	f, err := os.Open(file) // #nosec G304 -- files listed from the input directory
	if err != nil {
		logger.WithError(err).Error("Failed to open file")
		return FileResult{File: file, Err: fmt.Errorf("error opening CSV file: %w", err)}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	result, err := b.importer.Import(ctx, f, cfg)
	if err != nil {
		logger.WithError(err).Warn("File rejected")
		return FileResult{File: file, Err: err}
	}
	return FileResult{File: file, Count: result.Count}
}
