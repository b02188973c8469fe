// Package batch handles batch import of a directory of CSV files
package batch

import (
	"context"
	"fmt"
	"io"

	"fjacquet/ledger-import/cmd/common"
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/batch"
	"fjacquet/ledger-import/internal/models"

	"github.com/spf13/cobra"
)

var (
	inputDir   string
	configFile string
	profile    string
	account    string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Import every CSV file of a directory",
	Long: `Import every CSV file found directly inside a directory with the same
import configuration. Each file is validated and stored independently, so a
rejected file does not prevent the others from being imported.

Example:
  ledger-import batch -i statements/ --profile postfinance --account <uuid>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}

		var cfg models.ImportConfig
		if configFile != "" {
			cfg, err = common.LoadImportConfig(configFile)
		} else {
			var p models.ImportProfile
			p, err = c.GetProfileStore().Get(profile)
			cfg = p.Config
		}
		if err != nil {
			return err
		}
		if account != "" {
			cfg = cfg.WithAccount(account)
		}

		imp, err := c.NewImporter()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), cmd.OutOrStdout(), batch.NewBatchImporter(imp, c.GetLogger()), inputDir, cfg)
	},
}

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory containing the CSV files")
	Cmd.Flags().StringVar(&configFile, "config-file", "", "Import configuration file (.yaml or .json)")
	Cmd.Flags().StringVar(&profile, "profile", "", "Name of a saved import profile")
	Cmd.Flags().StringVar(&account, "account", "", "Bank account id (overrides the configuration)")
	_ = Cmd.MarkFlagRequired("input")
	Cmd.MarkFlagsMutuallyExclusive("config-file", "profile")
	Cmd.MarkFlagsOneRequired("config-file", "profile")
}

// Run imports dir and prints one line per file. It fails when any file was
// rejected.
func Run(ctx context.Context, w io.Writer, b *batch.BatchImporter, dir string, cfg models.ImportConfig) error {
	summary, err := b.ImportDirectory(ctx, dir, cfg)
	if err != nil {
		return err
	}

	for _, r := range summary.Results {
		if r.Err != nil {
			fmt.Fprintf(w, "REJECTED  %s: %v\n", r.File, r.Err)
			continue
		}
		fmt.Fprintf(w, "OK        %s: %d transactions\n", r.File, r.Count)
	}
	fmt.Fprintf(w, "Imported %d transactions from %d files.\n", summary.Imported(), len(summary.Results)-len(summary.Failed()))

	if failed := len(summary.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d files rejected", failed, len(summary.Results))
	}
	return nil
}
