package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/internal/store"
	"github.com/verdantlab/verdant/schema"
)

// Build identity, stamped by goreleaser at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the context handed to every command run.
var rootCtx = context.Background()

// cfg holds the validated configuration every command reads.
var cfg = &contract.Config{}

// input collects raw values from config file, environment and flags before
// validation; viper unmarshals into it.
var input = &contract.ConfigRawInput{}

// profile holds the profiling switches.
var profile = &contract.ProfileConfig{}

// storeManager hands commands their persistence handle.
var storeManager contract.StoreManager

// startProfiling begins a CPU profile under the configured prefix. The heap
// profile is written at shutdown by stopProfiling.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	fmt.Printf("Profiling to %s.cpu.prof and %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return nil
}

// stopProfiling ends the CPU profile and writes the heap profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	fmt.Printf("Profiles written. Inspect with 'go tool pprof %s.cpu.prof'.\n", profile.Prefix)
	return nil
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "verdant",
	Short:              "Measure how sustainably Git repositories evolve.",
	Long:               `Verdant walks Git history to compute repository sustainability metrics, from line change entropy to community health files, one repo at a time or thousands per run.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig wires viper to the config file, the VERDANT_* environment and
// the flag defaults.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// .verdant.yaml in the working directory or home directory
		viper.SetConfigName(".verdant")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("VERDANT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("output", string(schema.TextOut))
	viper.SetDefault("color", "yes")
	viper.SetDefault("top", contract.DefaultTopFiles)
	viper.SetDefault("store-backend", string(schema.SQLiteBackend))
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("max-blob-bytes", schema.DefaultMaxBlobBytes)
	viper.SetDefault("column", schema.DefaultURLColumn)
	viper.SetDefault("workers", schema.DefaultWorkers)
	viper.SetDefault("batch-size", schema.DefaultBatchSize)
	viper.SetDefault("runner", string(schema.ProcessRunner))
	viper.SetDefault("compression", string(schema.ZstdCompression))
	viper.SetDefault("repo-progress", "yes")
	viper.SetDefault("batch-progress", "no")
	viper.SetDefault("show-errors", "yes")
}

// sharedSetup resolves configuration from every source and validates it into
// cfg. repoArg is the positional repository reference for single-repository
// commands; repoArgs carries the positional references for batch commands.
func sharedSetup(ctx context.Context, repoArg string, repoArgs []string) error {
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	// A missing config file is fine; defaults, env and flags cover it.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// Positional arguments arrive outside viper.
	input.RepoPathStr = repoArg
	input.RepoArgs = repoArgs

	client := contract.NewLocalGitClient()
	if err := contract.ProcessAndValidate(ctx, cfg, client, input); err != nil {
		return err
	}
	if !cfg.UseColors {
		color.NoColor = true
	}

	// Reconcile the record struct with the embedded metric table before
	// anything computes or caches a record against a drifting schema.
	if err := schema.ValidateRecordSchema(); err != nil {
		return fmt.Errorf("metric table mismatch: %w", err)
	}

	if err := store.Init(cfg.StoreBackend, cfg.StoreConnect); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	return nil
}

// sharedSetupWrapper adapts sharedSetup to Cobra's PreRunE. The lone
// positional argument is the repository reference; it defaults to the
// current directory.
func sharedSetupWrapper(_ *cobra.Command, args []string) error {
	repoArg := "."
	if len(args) == 1 {
		repoArg = args[0]
	}
	return sharedSetup(rootCtx, repoArg, nil)
}

// batchSetupWrapper is sharedSetup for commands whose positional arguments
// are batch repository references rather than one local repository path.
func batchSetupWrapper(_ *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, "", args)
}

// loadConfigFile reads just the config file, for commands that skip the
// full shared setup.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".verdant")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
