package app

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stacklok/index-settings-sync/database"
	"github.com/stacklok/index-settings-sync/internal/config"
	"github.com/stacklok/index-settings-sync/internal/logger"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tool",
		Long: `Manage the schema of the database metadata backend (storage.type: database).
Use with 'up' or 'down' subcommands.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}
	cmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to all questions")
	cmd.PersistentFlags().UintP("num-steps", "n", 0, "Number of steps to migrate down (0 = all)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending database migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(cmd, opts, true)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert database migrations",
			Long: `Revert database migrations.
WARNING: reverting the first migration drops every sync record and cached search key.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(cmd, opts, false)
			},
		},
	)
	return cmd
}

func runMigrate(cmd *cobra.Command, opts *rootOptions, up bool) error {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}
	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}
	if numSteps > math.MaxInt32 {
		return fmt.Errorf("number of steps exceeds maximum allowed value")
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	dbCfg := cfg.GetDatabaseConfig()
	if cfg.GetStorageType() != config.StorageTypeDatabase || dbCfg == nil {
		return fmt.Errorf("migrations require storage.type %q with a database section", config.StorageTypeDatabase)
	}

	if !yes {
		prompt := fmt.Sprintf("Apply migrations to %s@%s:%d/%s?", dbCfg.User, dbCfg.Host, dbCfg.Port, dbCfg.Database)
		if !up {
			prompt = migrateDownPrompt(numSteps)
		}
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
			logger.Infof("Migration cancelled")
			return fmt.Errorf("migration cancelled by user")
		}
	}

	connString, err := dbCfg.GetConnectionString()
	if err != nil {
		return fmt.Errorf("failed to build connection string: %w", err)
	}
	m, err := database.NewFromConnectionString(connString)
	if err != nil {
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warnf("Failed to close migrator: source=%v database=%v", srcErr, dbErr)
		}
	}()

	if up {
		logger.Infof("Applying database migrations...")
		err = database.Up(m)
	} else {
		logger.Infof("Reverting database migrations...")
		err = database.Down(m, int(numSteps)) // #nosec G115 -- bounded above
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	displayMigrationVersion(m)
	return nil
}

func migrateDownPrompt(numSteps uint) string {
	if numSteps == 0 {
		return "WARNING: This will revert ALL migrations and delete every sync record. Continue?"
	}
	return fmt.Sprintf("WARNING: This will revert %d migration(s) and may delete sync records. Continue?", numSteps)
}

// confirm asks a yes/no question on out and reads the answer from in
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(out, "%s (yes/no): ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}

func displayMigrationVersion(m database.Migrator) {
	version, dirty, err := m.Version()
	if err != nil {
		logger.Infof("Database schema has no migration applied")
		return
	}
	if dirty {
		logger.Warnf("Current migration version: %d (dirty - manual intervention may be required)", version)
		return
	}
	logger.Infof("Current migration version: %d", version)
}
