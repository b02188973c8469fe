// Package analyze handles the CSV analysis command
package analyze

import (
	"fmt"
	"io"
	"os"

	"fjacquet/ledger-import/cmd/common"
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/sniffer"

	"github.com/spf13/cobra"
)

var input string

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Preview the headers and first rows of a CSV file",
	Long: `Detect the delimiter and encoding of a CSV file and print its headers
with a short preview of the first data rows as JSON. Use the output to write
the column mapping of an import configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.OutOrStdout(), c.GetSniffer(), input, root.Log)
	},
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "CSV file to analyze")
	_ = Cmd.MarkFlagRequired("input")
}

// Run analyzes inputFile and prints the result to w.
func Run(w io.Writer, s *sniffer.Sniffer, inputFile string, log logging.Logger) error {
	file, err := os.Open(inputFile) // #nosec G304 -- path comes from the command line
	if err != nil {
		return fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	result, err := s.Analyze(file)
	if err != nil {
		return err
	}
	log.Debug("Analysis complete",
		logging.Field{Key: logging.FieldFile, Value: inputFile},
		logging.Field{Key: logging.FieldDelimiter, Value: result.DetectedDelimiter})
	return common.PrintJSON(w, result)
}
