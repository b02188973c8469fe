// Package transactions lists stored transactions
package transactions

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/common"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"github.com/spf13/cobra"
)

// Lister reads stored transactions back.
type Lister interface {
	ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
}

var (
	account string
	output  string
)

// Cmd represents the transactions command
var Cmd = &cobra.Command{
	Use:   "transactions",
	Short: "List the stored transactions of a bank account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		s, err := c.GetTransactionStore()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), cmd.OutOrStdout(), s, account, output, c.GetLogger())
	},
}

func init() {
	Cmd.Flags().StringVar(&account, "account", "", "Bank account id")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Write the transactions to this CSV file instead of printing them")
	_ = Cmd.MarkFlagRequired("account")
}

// Run prints the transactions of accountID, or exports them to csvFile.
func Run(ctx context.Context, w io.Writer, lister Lister, accountID, csvFile string, log logging.Logger) error {
	txs, err := lister.ListByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	if csvFile != "" {
		return common.WriteTransactionsToCSV(txs, csvFile, log)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tAMOUNT\tCURRENCY\tDESCRIPTION\t")
	for _, t := range txs {
		currency := ""
		if t.Currency != nil {
			currency = *t.Currency
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", t.Date.Format(models.DateLayoutISO), models.FormatAmount(t.Amount), currency, t.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d transactions\n", len(txs))
	return err
}
