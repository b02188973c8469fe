// Package currencyutils normalizes raw bank amounts into signed two-decimal
// values according to an amount-format policy.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

var (
	nonNumeric  = regexp.MustCompile(`[^0-9+\-.]`)
	cleanNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)
)

// AmountOptions carries everything NormalizeAmount needs besides the amount
// cell itself.
type AmountOptions struct {
	Format models.AmountFormat
	// Sign is the sign-column cell, only read by the sign_column policy.
	Sign models.CellValue
	// DebitValues marks a sign cell as a debit. Empty means
	// models.DefaultDebitValues.
	DebitValues  []string
	DecimalComma bool
}

// NormalizeAmount turns an amount cell into a signed decimal rounded half to
// even to two places. Failures are *parsererror.AmountParseError.
func NormalizeAmount(cell models.CellValue, opts AmountOptions) (decimal.Decimal, error) {
	var (
		value decimal.Decimal
		err   error
	)
	if cell.Kind == models.CellNumber && !opts.DecimalComma {
		value = cell.Number
	} else {
		value, err = ParseAmount(cell.Raw, opts.DecimalComma)
		if err != nil {
			return decimal.Zero, err
		}
	}

	switch opts.Format {
	case models.AmountFormatStandard:
	case models.AmountFormatNegate:
		value = value.Neg()
	case models.AmountFormatSignColumn:
		value = value.Abs()
		if IsDebit(opts.Sign.Raw, opts.DebitValues) {
			value = value.Neg()
		}
	default:
		return decimal.Zero, &parsererror.AmountParseError{
			Raw:    cell.Raw,
			Reason: fmt.Sprintf("unknown amount format %q", opts.Format),
		}
	}

	return models.RoundAmount(value), nil
}

// ParseAmount parses a raw amount string. Accounting brackets "(12.50)" and a
// trailing minus "12.50-" mean negative. With decimalComma, '.' is a
// thousands separator and ',' the decimal point; otherwise ',' is a
// thousands separator. Currency symbols, spaces and apostrophes are ignored.
func ParseAmount(raw string, decimalComma bool) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, &parsererror.AmountParseError{Raw: raw, Reason: "empty value"}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	} else if len(s) > 1 && strings.HasSuffix(s, "-") && !strings.ContainsAny(s[:len(s)-1], "+-") {
		negative = true
		s = s[:len(s)-1]
	}

	s = StandardizeAmount(s, decimalComma)
	if !cleanNumber.MatchString(s) {
		return decimal.Zero, &parsererror.AmountParseError{Raw: raw}
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &parsererror.AmountParseError{Raw: raw, Reason: err.Error()}
	}
	if negative {
		value = value.Abs().Neg()
	}
	return value, nil
}

// StandardizeAmount strips separators and symbols so that the result can be
// parsed by decimal.NewFromString. It does not validate the result.
func StandardizeAmount(s string, decimalComma bool) string {
	if decimalComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	return nonNumeric.ReplaceAllString(s, "")
}

// IsDebit reports whether a sign-column value is in the debit vocabulary.
// Matching ignores case and surrounding spaces.
func IsDebit(sign string, debitValues []string) bool {
	if len(debitValues) == 0 {
		debitValues = models.DefaultDebitValues
	}
	sign = strings.ToUpper(strings.TrimSpace(sign))
	if sign == "" {
		return false
	}
	for _, v := range debitValues {
		if strings.ToUpper(strings.TrimSpace(v)) == sign {
			return true
		}
	}
	return false
}

// FormatAmount formats a decimal amount with two places and the currency.
// Returns strings like "CHF 1234.56" or "€1234.56"
func FormatAmount(amount decimal.Decimal, currency string) string {
	formattedAmount := models.FormatAmount(amount)

	switch strings.ToUpper(currency) {
	case "":
		return formattedAmount
	case "EUR":
		return "€" + formattedAmount
	case "USD":
		return "$" + formattedAmount
	case "GBP":
		return "£" + formattedAmount
	case "JPY":
		return "¥" + formattedAmount
	default:
		return strings.ToUpper(currency) + " " + formattedAmount
	}
}
