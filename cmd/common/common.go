// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/ledger-import/internal/common"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// LoadImportConfig reads an import configuration file. Files ending in .json
// are decoded as JSON, everything else as YAML.
func LoadImportConfig(path string) (models.ImportConfig, error) {
	var cfg models.ImportConfig

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return cfg, fmt.Errorf("error reading import config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("error parsing import config %s: %w", path, err)
	}
	return cfg, nil
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ReportImportError prints a rejected import for a terminal user. Row errors
// are listed up to their display cap; when errorsOut is set the complete
// list is also written there as CSV.
func ReportImportError(w io.Writer, err error, errorsOut string, logger logging.Logger) error {
	var rowsErr *parsererror.RowErrorsError
	if !errors.As(err, &rowsErr) {
		_, werr := fmt.Fprintf(w, "Import rejected: %v\n", err)
		return werr
	}

	fmt.Fprintf(w, "Import rejected: %d rows failed validation.\n", rowsErr.Total())
	for _, re := range rowsErr.Shown() {
		fmt.Fprintf(w, "  row %d: %s\n", re.Row, re.Reason)
	}
	if rowsErr.Truncated() {
		fmt.Fprintf(w, "  ... %d more\n", rowsErr.Total()-len(rowsErr.Shown()))
	}

	if errorsOut == "" {
		return nil
	}
	if werr := common.WriteRowErrorsToCSV(rowsErr.Errors, errorsOut, logger); werr != nil {
		return werr
	}
	_, werr := fmt.Fprintf(w, "Full error list written to %s\n", errorsOut)
	return werr
}
