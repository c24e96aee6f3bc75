// Package cmd defines the command-line interface for verdant.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().IntP("top", "t", contract.DefaultTopFiles, "Number of per-file rows to display (0 hides the table)")
	rootCmd.PersistentFlags().String("base", "", "Older Git reference bounding the walk (empty = first commit)")
	rootCmd.PersistentFlags().String("head", "", "Newer Git reference bounding the walk (empty = HEAD)")
	rootCmd.PersistentFlags().Int64("max-blob-bytes", schema.DefaultMaxBlobBytes, "Blob size ceiling in bytes; larger files count as skipped")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Bypass the record cache for reads and writes")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of batchCmd to Viper
	batchCmd.Flags().StringSlice("repos", nil, "Repository references to analyze (repeatable, comma-separated)")
	batchCmd.Flags().String("input", "", "CSV file listing repositories to analyze")
	batchCmd.Flags().String("column", schema.DefaultURLColumn, "Header of the CSV column holding repository references")
	batchCmd.Flags().Int("limit", 0, "Maximum number of repositories to analyze (0 = all)")
	batchCmd.Flags().IntP("workers", "w", schema.DefaultWorkers, "Number of concurrent repository tasks")
	batchCmd.Flags().Int("batch-size", schema.DefaultBatchSize, "Number of repositories per batch")
	batchCmd.Flags().Bool("split", false, "Write one artifact per batch instead of a single file")
	batchCmd.Flags().String("runner", string(schema.ProcessRunner), "Task execution model: process or goroutine")
	batchCmd.Flags().String("compression", string(schema.ZstdCompression), "Artifact compression: zstd or snappy or gzip or uncompressed")
	batchCmd.Flags().StringP("output-path", "o", "", "Path of the result artifact (required)")
	batchCmd.Flags().String("repo-progress", "yes", "Print a per-repository progress line (yes/no)")
	batchCmd.Flags().String("batch-progress", "no", "Print a header line per batch (yes/no)")
	batchCmd.Flags().String("show-errors", "yes", "Print a line per failed repository (yes/no)")
	batchCmd.Flags().String("task-timeout", "", "Per-repository deadline (e.g., 5m); empty disables")
	if err := viper.BindPFlags(batchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding batch flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
