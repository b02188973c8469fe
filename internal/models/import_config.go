package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/google/uuid"
)

// ColumnMapping binds logical transaction fields to CSV header names.
// Date, Amount and Description are required; the rest are optional.
type ColumnMapping struct {
	Date        string `json:"date" yaml:"date"`
	Amount      string `json:"amount" yaml:"amount"`
	Description string `json:"description" yaml:"description"`
	Currency    string `json:"currency,omitempty" yaml:"currency,omitempty"`
	SignColumn  string `json:"signColumn,omitempty" yaml:"sign_column,omitempty"`
	Reference   string `json:"reference,omitempty" yaml:"reference,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
}

// ImportConfig describes how to turn the rows of one CSV file into
// transactions for one bank account.
type ImportConfig struct {
	BankAccountID    string        `json:"bankAccountId" yaml:"bank_account_id,omitempty"`
	Mappings         ColumnMapping `json:"mappings" yaml:"mappings"`
	DateFormat       string        `json:"dateFormat" yaml:"date_format"`
	AmountFormat     AmountFormat  `json:"amountFormat" yaml:"amount_format"`
	SignColumn       string        `json:"signColumn,omitempty" yaml:"sign_column,omitempty"`
	SkipRows         int           `json:"skipRows" yaml:"skip_rows"`
	Delimiter        string        `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	DebitValues      []string      `json:"debitValues,omitempty" yaml:"debit_values,omitempty"`
	DecimalSeparator string        `json:"decimalSeparator,omitempty" yaml:"decimal_separator,omitempty"`
}

// Validate checks the configuration and reports every problem at once as a
// *parsererror.ConfigError.
func (c ImportConfig) Validate() error {
	problems := c.problems()
	if strings.TrimSpace(c.BankAccountID) == "" {
		problems = append([]string{"bankAccountId is required"}, problems...)
	} else if _, err := uuid.Parse(c.BankAccountID); err != nil {
		problems = append([]string{"bankAccountId must be a valid UUID"}, problems...)
	}
	if len(problems) > 0 {
		return &parsererror.ConfigError{Problems: problems}
	}
	return nil
}

// ValidateProfile validates a configuration stored as a reusable profile,
// which carries no bank account.
func (c ImportConfig) ValidateProfile() error {
	if problems := c.problems(); len(problems) > 0 {
		return &parsererror.ConfigError{Problems: problems}
	}
	return nil
}

func (c ImportConfig) problems() []string {
	var problems []string

	if strings.TrimSpace(c.Mappings.Date) == "" {
		problems = append(problems, "mappings.date is required")
	}
	if strings.TrimSpace(c.Mappings.Amount) == "" {
		problems = append(problems, "mappings.amount is required")
	}
	if strings.TrimSpace(c.Mappings.Description) == "" {
		problems = append(problems, "mappings.description is required")
	}

	if strings.TrimSpace(c.DateFormat) == "" {
		problems = append(problems, "dateFormat is required")
	} else if err := dateutils.ValidateTemplate(c.DateFormat); err != nil {
		problems = append(problems, fmt.Sprintf("dateFormat is invalid: %v", err))
	}

	switch c.AmountFormat {
	case AmountFormatStandard, AmountFormatNegate:
	case AmountFormatSignColumn:
		if c.SignColumnName() == "" {
			problems = append(problems, "signColumn is required when amountFormat is sign_column")
		}
	case "":
		problems = append(problems, "amountFormat is required")
	default:
		problems = append(problems, fmt.Sprintf("amountFormat %q is not one of standard, negate, sign_column", c.AmountFormat))
	}

	if c.SkipRows < 0 {
		problems = append(problems, "skipRows must not be negative")
	}
	if c.Delimiter != "" {
		if _, ok := c.DelimiterRune(); !ok {
			problems = append(problems, fmt.Sprintf("delimiter %q must be a single character", c.Delimiter))
		}
	}
	switch c.DecimalSeparator {
	case "", ".", ",":
	default:
		problems = append(problems, fmt.Sprintf("decimalSeparator %q must be '.' or ','", c.DecimalSeparator))
	}

	return problems
}

// SignColumnName returns the column holding the sign indicator. The
// top-level SignColumn wins over the mapping entry.
func (c ImportConfig) SignColumnName() string {
	if s := strings.TrimSpace(c.SignColumn); s != "" {
		return s
	}
	return strings.TrimSpace(c.Mappings.SignColumn)
}

// RequiredColumns lists every header the configuration reads, in mapping
// order and without duplicates.
func (c ImportConfig) RequiredColumns() []string {
	candidates := []string{
		c.Mappings.Date,
		c.Mappings.Amount,
		c.Mappings.Description,
		c.Mappings.Currency,
		c.Mappings.Reference,
		c.Mappings.Category,
	}
	if c.AmountFormat == AmountFormatSignColumn {
		candidates = append(candidates, c.SignColumnName())
	}

	seen := make(map[string]bool, len(candidates))
	cols := make([]string, 0, len(candidates))
	for _, col := range candidates {
		col = strings.TrimSpace(col)
		if col == "" || seen[col] {
			continue
		}
		seen[col] = true
		cols = append(cols, col)
	}
	return cols
}

// Normalized returns a copy with surrounding spaces removed from every
// column name, matching the trimmed header row.
func (c ImportConfig) Normalized() ImportConfig {
	m := &c.Mappings
	for _, col := range []*string{&m.Date, &m.Amount, &m.Description, &m.Currency, &m.SignColumn, &m.Reference, &m.Category, &c.SignColumn} {
		*col = strings.TrimSpace(*col)
	}
	c.DebitValues = append([]string(nil), c.DebitValues...)
	return c
}

// DelimiterRune returns the configured delimiter. ok is false when none is
// set or the value is not a single character. "\t" and "tab" denote a tab.
func (c ImportConfig) DelimiterRune() (rune, bool) {
	switch c.Delimiter {
	case "":
		return 0, false
	case `\t`, "tab", "TAB":
		return '\t', true
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, false
	}
	return r, true
}

// DecimalComma reports whether amounts use ',' as decimal separator.
func (c ImportConfig) DecimalComma() bool {
	return c.DecimalSeparator == ","
}

// WithAccount returns a copy bound to the given bank account.
func (c ImportConfig) WithAccount(bankAccountID string) ImportConfig {
	c.BankAccountID = bankAccountID
	c.DebitValues = append([]string(nil), c.DebitValues...)
	return c
}
