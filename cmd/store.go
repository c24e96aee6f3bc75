package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/internal/store"
	"github.com/verdantlab/verdant/schema"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize the store with the loaded config
	if err := store.Init(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create
// tables, allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on persistence management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by analysis commands. This avoids Git repo
// validation and complex config processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the record cache and batch run history",
	Long: `Manage the persistence layer behind record caching and run tracking.

The store holds two kinds of data:
- Cached metric records, keyed by repository and head commit, so an
  unchanged repository is never analyzed twice
- Batch run history (start/end times, configuration, result tallies)

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection details
  clear   - Remove all cached records (run history is kept)
  export  - Export run history to Parquet for analytics
  migrate - Run database schema migrations

Examples:
  # Check store status
  verdant store status

  # Export run history for DuckDB
  verdant store export --output-file runs.parquet`,
}

// storeClearCmd clears the cached records.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached metric records",
	Long: `Delete all cached metric records from the configured backend.

Batch run history is kept; only the record cache is emptied.

Use this when:
- Repository histories were rewritten (rebase, force push)
- Cached records may be stale or corrupted
- Measuring analysis performance without the cache

Examples:
  # Clear the SQLite store (default)
  verdant store clear

  # Clear a MySQL store (set connection string via env variable)
  VERDANT_STORE_BACKEND=mysql VERDANT_STORE_DB_CONNECT="..." verdant store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.Manager.GetStore().Clear(); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the persistence layer.

Displays:
- Backend type and connection status
- Total number of cached records
- Last and oldest cached record timestamps
- Total number of tracked batch runs

Use this to:
- Verify caching is enabled and working
- Monitor data accumulation over time
- Check database connection health

Examples:
  # Check store status
  verdant store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.Manager.GetStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStatus(status)
	},
}

// storeExportCmd exports run history to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export batch run history to Parquet for analytics",
	Long: `Export all tracked batch runs to Parquet format.

Each row covers one batch invocation: when it started and finished, the
runner and worker configuration, the artifact path and the final tally
of succeeded and failed repositories.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools

Requires: --output-file parameter

Examples:
  # Export all run history
  verdant store export --output-file runs.parquet

  # Inspect with DuckDB
  verdant store export --output-file runs.parquet
  duckdb -c "SELECT * FROM read_parquet('runs.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExportRuns(store.Manager.GetStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the store.

Migrations allow:
- Upgrading to new schema versions when verdant is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  verdant store migrate

  # Migrate to specific version
  verdant store migrate --target-version 2

  # Rollback to initial state
  verdant store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := store.Migrate(cfg.StoreBackend, cfg.StoreConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
