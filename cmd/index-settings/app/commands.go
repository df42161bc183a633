// Package app provides the commands of the index-settings CLI.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	syncapp "github.com/stacklok/index-settings-sync/internal/app"
	"github.com/stacklok/index-settings-sync/internal/config"
	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/versions"
)

const (
	flagConfig      = "config"
	flagDebug       = "debug"
	flagSynchronous = "synchronous"
)

// rootOptions carries the global flags to the subcommands
type rootOptions struct {
	v *viper.Viper
}

// NewRootCmd creates the root command with every subcommand attached.
// Global flags can also be set through INDEX_SETTINGS_* environment variables.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	opts := &rootOptions{v: v}

	rootCmd := &cobra.Command{
		Use:               "index-settings",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Synchronize search index settings with local artifacts",
		Long: `index-settings keeps the settings of hosted search indices in sync with
versioned settings files, and reports which side changed since the last sync.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logger.Initialize(logger.Config{Debug: v.GetBool(flagDebug)})
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "Path to configuration file (YAML format)")
	rootCmd.PersistentFlags().Bool(flagDebug, false, "Enable debug mode")
	rootCmd.PersistentFlags().Bool(flagSynchronous, false, "Wait until the search service applied every change")
	for _, name := range []string{flagConfig, flagDebug, flagSynchronous} {
		if err := v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			logger.Fatalf("Failed to bind %s flag: %v", name, err)
		}
	}

	rootCmd.AddCommand(
		newStatusCmd(opts),
		newDownloadCmd(opts),
		newUploadCmd(opts),
		newSearchKeyCmd(opts),
		newDeleteObjectsCmd(opts),
		newServeCmd(opts),
		newMigrateCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// loadConfig reads the configuration file, applies the global flag
// overrides and re-initializes the logger from the logging section
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.v.GetString(flagConfig)
	if path == "" {
		return nil, fmt.Errorf("a configuration file is required, set --%s or %s_CONFIG", flagConfig, config.EnvPrefix)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.v.GetBool(flagSynchronous) {
		cfg.Synchronous = true
	}

	logCfg := logger.Config{Debug: o.v.GetBool(flagDebug)}
	if cfg.Logging != nil {
		logCfg.Level = cfg.Logging.Level
		logCfg.File = cfg.Logging.File
		logCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
		logCfg.MaxBackups = cfg.Logging.MaxBackups
		logCfg.MaxAgeDays = cfg.Logging.MaxAgeDays
	}
	if err := logger.Initialize(logCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Debugf("Loaded configuration from %s (app: %s, storage: %s)", path, cfg.AppName, cfg.GetStorageType())
	return cfg, nil
}

// withComponents loads the configuration, wires the components, runs fn and
// releases them
func (o *rootOptions) withComponents(
	ctx context.Context,
	fn func(ctx context.Context, c *syncapp.Components) error,
	opts ...syncapp.ComponentOption,
) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	c, err := syncapp.BuildComponents(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c)
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}

			if format == "json" {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to format version info as JSON: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "index-settings %s (commit %s, built %s, %s, %s)\n",
				info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
			return err
		},
	}
	cmd.Flags().String("format", "", "Output format (json)")
	return cmd
}
