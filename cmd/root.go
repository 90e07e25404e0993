// Package cmd implements the chargefront CLI commands.
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/config"
	"github.com/chargefront/chargefront/internal/logging"
	"github.com/chargefront/chargefront/internal/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chargefront",
	Short: "Terminal client for the charging network backend",
	Long: `Terminal client for the charging network backend.

Browse charging stations, sites, and sessions, start and stop remote
charging, and keep an eye on connectors from your terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.ShutdownGlobal()
	},
}

var (
	flagCloud    string
	flagEndpoint string
	flagTenant   string
	flagDebug    bool
	flagJSON     bool
)

// Execute runs the root command. It is called by main.main().
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		colors.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&flagCloud, "cloud", "", "Backend endpoint cloud (prod, qa, local)")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "Backend endpoint URL, overrides --cloud")
	rootCmd.PersistentFlags().StringVar(&flagTenant, "tenant", "", "Tenant subdomain")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Render lists as JSON")
}

// bootstrap loads configuration, applies flag overrides, and initializes the
// structured logger.
func bootstrap(cmd *cobra.Command) error {
	config.Load()

	if flagDebug || config.GetBool("debug", false) {
		colors.SetDebug(true)
	}

	cfg := logging.Config{
		Enabled:  config.GetBool("logging_enabled", false),
		Level:    config.Get("logging_level", "info"),
		Dir:      filepath.Join(config.Get("state_dir", ""), "logs"),
		MaxFiles: config.GetInt("logging_max_files", 10),
		Command:  cmd.Name(),
	}
	if err := logging.InitGlobal(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	colors.SetLogger(logging.GetGlobal())
	return nil
}

// tenant resolves the tenant subdomain from the flag or the configuration.
func tenant() string {
	if flagTenant != "" {
		return flagTenant
	}
	return config.Get("tenant", "")
}

// endpointURL resolves the backend base URL from flags and configuration.
func endpointURL() string {
	if flagEndpoint != "" {
		return flagEndpoint
	}
	if flagCloud != "" {
		for _, cloud := range config.EndpointClouds {
			if cloud.ID == flagCloud {
				return cloud.Endpoint
			}
		}
	}
	return config.EndpointURL()
}
