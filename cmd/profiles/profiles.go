// Package profiles manages saved import profiles
package profiles

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/ledger-import/cmd/common"
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/models"

	"github.com/spf13/cobra"
)

// Repository is the part of the profile store the commands use.
type Repository interface {
	List() ([]models.ImportProfile, error)
	Create(p models.ImportProfile) error
}

var (
	name       string
	configFile string
)

// Cmd represents the profiles command
var Cmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage saved import profiles",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved import profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return List(cmd.OutOrStdout(), c.GetProfileStore())
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Save an import configuration as a named profile",
	Long: `Save the column mapping of an import configuration file under a name.
Any bank account id in the file is dropped; it is supplied at import time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Add(cmd.OutOrStdout(), c.GetProfileStore(), name, configFile)
	},
}

func init() {
	addCmd.Flags().StringVar(&name, "name", "", "Profile name")
	addCmd.Flags().StringVar(&configFile, "config-file", "", "Import configuration file (.yaml or .json)")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("config-file")

	Cmd.AddCommand(listCmd, addCmd)
}

// List prints the saved profiles as a table.
func List(w io.Writer, repo Repository) error {
	profiles, err := repo.List()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		_, err := fmt.Fprintln(w, "No import profiles saved.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDATE FORMAT\tAMOUNT FORMAT\tCOLUMNS")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.Name, p.Config.DateFormat, p.Config.AmountFormat, len(p.Config.RequiredColumns()))
	}
	return tw.Flush()
}

// Add stores the configuration in path under profileName.
func Add(w io.Writer, repo Repository, profileName, path string) error {
	cfg, err := common.LoadImportConfig(path)
	if err != nil {
		return err
	}
	if err := repo.Create(models.ImportProfile{Name: profileName, Config: cfg}); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Saved import profile %q.\n", profileName)
	return err
}
