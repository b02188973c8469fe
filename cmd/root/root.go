// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/ledger-import/internal/config"
	"fjacquet/ledger-import/internal/container"
	"fjacquet/ledger-import/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	ConfigFile string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// AppContainer holds the wired application dependencies
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledger-import",
		Short: "Import bank statement CSV files into a normalized transaction ledger.",
		Long: `ledger-import analyzes bank statement CSV exports and imports them into a
normalized transaction ledger. Files are checked against a column mapping,
every row is validated, and a batch is stored only when every row is valid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup(SharedFlags.ConfigFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			Teardown()
		},
	}

	// SharedFlags holds the flags shared by all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches $HOME/.ledger-import, .ledger-import and .)")
}

// Setup loads .env, the configuration and the dependency container.
func Setup(configFile string) error {
	if envFile := config.LoadEnv(); envFile != "" {
		Log.Debug("Loaded environment file", logging.Field{Key: logging.FieldFile, Value: envFile})
	}

	cfg, err := config.InitializeConfigWithFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// Teardown releases the container resources.
func Teardown() {
	if AppContainer == nil {
		return
	}
	if err := AppContainer.Close(); err != nil {
		Log.WithError(err).Warn("Failed to close application resources")
	}
}

// GetContainer returns the application container, or an error when the
// root command did not initialize it.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application container not initialized")
	}
	return AppContainer, nil
}

// GetConfig returns the loaded configuration, or nil.
func GetConfig() *config.Config {
	return AppConfig
}
