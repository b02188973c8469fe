package models

// TransactionType is inferred from the sign of a normalized amount.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// AmountFormat selects how the sign of an amount is determined.
type AmountFormat string

const (
	// AmountFormatStandard keeps the sign found in the file.
	AmountFormatStandard AmountFormat = "standard"
	// AmountFormatNegate flips the sign found in the file.
	AmountFormatNegate AmountFormat = "negate"
	// AmountFormatSignColumn takes the magnitude from the amount column and
	// the sign from a separate column.
	AmountFormatSignColumn AmountFormat = "sign_column"
)

// DefaultDebitValues is the sign-column vocabulary that marks a debit when
// neither the server configuration nor the import configuration overrides it.
var DefaultDebitValues = []string{"D", "DEBIT"}

// Amounts are stored with exactly this many decimal places.
const AmountPlaces = 2

// DateLayoutISO is the layout used for dates in storage and JSON.
const DateLayoutISO = "2006-01-02"

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
)
