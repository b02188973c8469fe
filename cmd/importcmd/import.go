// Package importcmd handles the CSV import command
package importcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/ledger-import/cmd/common"
	"fjacquet/ledger-import/cmd/root"
	internalcommon "fjacquet/ledger-import/internal/common"
	"fjacquet/ledger-import/internal/container"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"github.com/spf13/cobra"
)

// Options are the flags of the import command.
type Options struct {
	Input      string
	ConfigFile string
	Profile    string
	Account    string
	ErrorsOut  string
	Output     string
}

// ErrRejected is returned when the import was rejected and reported.
var ErrRejected = errors.New("import rejected")

var opts Options

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a CSV file into the ledger",
	Long: `Import every row of a CSV file for one bank account. The column mapping
comes from a configuration file (YAML or JSON) or from a saved import profile.
The batch is stored only when every row is valid; otherwise the failing rows
are listed and nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), cmd.OutOrStdout(), c, opts)
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "CSV file to import")
	Cmd.Flags().StringVar(&opts.ConfigFile, "config-file", "", "Import configuration file (.yaml or .json)")
	Cmd.Flags().StringVar(&opts.Profile, "profile", "", "Name of a saved import profile")
	Cmd.Flags().StringVar(&opts.Account, "account", "", "Bank account id (overrides the configuration)")
	Cmd.Flags().StringVar(&opts.ErrorsOut, "errors-out", "", "Write the complete row error list to this CSV file")
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the imported transactions to this CSV file")
	_ = Cmd.MarkFlagRequired("input")
	Cmd.MarkFlagsMutuallyExclusive("config-file", "profile")
	Cmd.MarkFlagsOneRequired("config-file", "profile")
}

// Run imports o.Input using the container's importer.
func Run(ctx context.Context, w io.Writer, c *container.Container, o Options) error {
	log := c.GetLogger()

	cfg, err := resolveConfig(c, o)
	if err != nil {
		return err
	}

	imp, err := c.NewImporter()
	if err != nil {
		return err
	}

	file, err := os.Open(o.Input) // #nosec G304 -- path comes from the command line
	if err != nil {
		return fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	result, err := imp.Import(ctx, file, cfg)
	if err != nil {
		if rerr := common.ReportImportError(w, err, o.ErrorsOut, log); rerr != nil {
			log.WithError(rerr).Error("Failed to report import errors")
		}
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}

	if result.Count == 0 {
		fmt.Fprintln(w, "No valid transactions found in the file to import.")
		return nil
	}
	fmt.Fprintf(w, "Successfully imported %d transactions.\n", result.Count)

	if o.Output != "" {
		if err := internalcommon.WriteTransactionsToCSV(result.Transactions, o.Output, log); err != nil {
			return err
		}
		log.Info("Exported imported transactions", logging.Field{Key: logging.FieldFile, Value: o.Output})
	}
	return nil
}

func resolveConfig(c *container.Container, o Options) (models.ImportConfig, error) {
	var cfg models.ImportConfig
	switch {
	case o.ConfigFile != "":
		loaded, err := common.LoadImportConfig(o.ConfigFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	case o.Profile != "":
		p, err := c.GetProfileStore().Get(strings.TrimSpace(o.Profile))
		if err != nil {
			return cfg, err
		}
		cfg = p.Config
	default:
		return cfg, fmt.Errorf("either --config-file or --profile is required")
	}

	if o.Account != "" {
		cfg = cfg.WithAccount(o.Account)
	}
	return cfg, nil
}
