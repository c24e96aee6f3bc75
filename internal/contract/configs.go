package contract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verdantlab/verdant/schema"
)

// Default values for configuration.
const (
	DefaultTopFiles = 10
	MaxTopFiles     = 1000
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Config holds the runtime configuration for an invocation.
// This struct remains the "final, validated" config.
type Config struct {
	// Single-repository analysis
	RepoRef  string // Raw positional reference (local path or remote URL)
	RepoPath string // Resolved repository root for local references
	IsRemote bool
	BaseRef  string // Older walk endpoint; empty means the first commit
	HeadRef  string // Newer walk endpoint; empty means HEAD
	TopFiles int

	// Output rendering
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	// Batch orchestration
	Repos             []string // Assembled from positional args and the input table, original order
	InputFile         string
	URLColumn         string
	RepoLimit         int // 0 = analyze every repository
	Workers           int
	BatchSize         int
	SplitOutput       bool
	Runner            schema.RunnerKind
	Compression       schema.Compression
	OutputPath        string
	ShowRepoProgress  bool
	ShowBatchProgress bool
	ShowErrors        bool
	TaskTimeout       time.Duration // 0 = no per-task deadline
	MaxBlobBytes      int64
	NoCache           bool

	StoreBackend schema.DatabaseBackend
	StoreConnect string // Please use env var as this is plaintext
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Repos != nil {
		clone.Repos = make([]string, len(c.Repos))
		copy(clone.Repos, c.Repos)
	}
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	RepoPathStr string
	RepoArgs    []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output       string `mapstructure:"output"`
	OutputFile   string `mapstructure:"output-file"`
	Width        int    `mapstructure:"width"`
	Color        string `mapstructure:"color"`
	Top          int    `mapstructure:"top"`
	StoreBackend string `mapstructure:"store-backend"`
	StoreConnect string `mapstructure:"store-db-connect"`
	NoCache      bool   `mapstructure:"no-cache"`
	MaxBlobBytes int64  `mapstructure:"max-blob-bytes"`

	// --- Fields from reportCmd and compareCmd flags ---
	BaseRef string `mapstructure:"base"`
	HeadRef string `mapstructure:"head"`

	// --- Fields from batchCmd.Flags() ---
	Repos         []string `mapstructure:"repos"`
	Input         string   `mapstructure:"input"`
	Column        string   `mapstructure:"column"`
	Limit         int      `mapstructure:"limit"`
	Workers       int      `mapstructure:"workers"`
	BatchSize     int      `mapstructure:"batch-size"`
	Split         bool     `mapstructure:"split"`
	Runner        string   `mapstructure:"runner"`
	Compression   string   `mapstructure:"compression"`
	OutputPath    string   `mapstructure:"output-path"`
	RepoProgress  string   `mapstructure:"repo-progress"`
	BatchProgress string   `mapstructure:"batch-progress"`
	ShowErrors    string   `mapstructure:"show-errors"`
	TaskTimeout   string   `mapstructure:"task-timeout"`
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processBatchInputs(cfg, input); err != nil {
		return err
	}
	if err := processRepoList(cfg, input); err != nil {
		return err
	}
	if err := resolveRepoReference(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-batch fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.BaseRef = strings.TrimSpace(input.BaseRef)
	cfg.HeadRef = strings.TrimSpace(input.HeadRef)
	cfg.NoCache = input.NoCache

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	// --- 2. TopFiles Validation ---
	if input.Top < 0 || input.Top > MaxTopFiles {
		return fmt.Errorf("top must be between 0 and %d (received %d)", MaxTopFiles, input.Top)
	}
	cfg.TopFiles = input.Top

	// --- 3. Blob Ceiling Validation ---
	if input.MaxBlobBytes <= 0 {
		return fmt.Errorf("max-blob-bytes must be greater than 0 (received %d)", input.MaxBlobBytes)
	}
	cfg.MaxBlobBytes = input.MaxBlobBytes

	// --- 4. Store Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreConnect = input.StoreConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreConnect); err != nil {
		return err
	}

	return nil
}

// processBatchInputs validates the orchestration parameters.
func processBatchInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. BatchSize Validation ---
	if input.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0 (received %d)", input.BatchSize)
	}
	cfg.BatchSize = input.BatchSize

	// --- 3. Limit Validation ---
	if input.Limit < 0 {
		return fmt.Errorf("limit cannot be negative (received %d)", input.Limit)
	}
	cfg.RepoLimit = input.Limit

	// --- 4. Runner Validation ---
	cfg.Runner = schema.RunnerKind(strings.ToLower(input.Runner))
	if _, ok := schema.ValidRunnerKinds[cfg.Runner]; !ok {
		return fmt.Errorf("invalid runner '%s'. must be process, goroutine", input.Runner)
	}

	// --- 5. Compression Validation ---
	cfg.Compression = schema.Compression(strings.ToLower(input.Compression))
	if _, ok := schema.ValidCompressions[cfg.Compression]; !ok {
		return fmt.Errorf("invalid compression '%s'. must be zstd, snappy, gzip, uncompressed", input.Compression)
	}

	cfg.SplitOutput = input.Split
	cfg.InputFile = input.Input
	cfg.OutputPath = input.OutputPath
	cfg.URLColumn = strings.TrimSpace(input.Column)
	if cfg.URLColumn == "" {
		return fmt.Errorf("column cannot be empty")
	}

	// --- 6. Progress Flags ---
	repoProgress, err := ParseBoolString(input.RepoProgress)
	if err != nil {
		return fmt.Errorf("invalid --progress value: %w", err)
	}
	cfg.ShowRepoProgress = repoProgress

	batchProgress, err := ParseBoolString(input.BatchProgress)
	if err != nil {
		return fmt.Errorf("invalid --batch-progress value: %w", err)
	}
	cfg.ShowBatchProgress = batchProgress

	showErrors, err := ParseBoolString(input.ShowErrors)
	if err != nil {
		return fmt.Errorf("invalid --show-errors value: %w", err)
	}
	cfg.ShowErrors = showErrors

	// --- 7. Task Timeout ---
	if input.TaskTimeout != "" {
		timeout, err := time.ParseDuration(input.TaskTimeout)
		if err != nil {
			return fmt.Errorf("invalid --task-timeout value '%s': %w", input.TaskTimeout, err)
		}
		if timeout < 0 {
			return fmt.Errorf("task-timeout cannot be negative (received %s)", timeout)
		}
		cfg.TaskTimeout = timeout
	}

	return nil
}

// processRepoList assembles the batch repository list from positional
// arguments, inline --repos values and the configured column of the input
// table, preserving the order in which references appear.
func processRepoList(cfg *Config, input *ConfigRawInput) error {
	cfg.Repos = append(cfg.Repos, input.RepoArgs...)
	cfg.Repos = append(cfg.Repos, input.Repos...)

	if input.Input == "" {
		return nil
	}

	f, err := os.Open(input.Input)
	if err != nil {
		return fmt.Errorf("cannot open input table %q: %w", input.Input, err)
	}
	defer func() { _ = f.Close() }()

	repos, err := ReadRepoColumn(f, cfg.URLColumn)
	if err != nil {
		return fmt.Errorf("cannot read input table %q: %w", input.Input, err)
	}
	cfg.Repos = append(cfg.Repos, repos...)
	return nil
}

// ReadRepoColumn extracts one named column from CSV content. The first
// row is the header; blank cells are dropped.
func ReadRepoColumn(r io.Reader, column string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input table is empty")
	}
	if err != nil {
		return nil, err
	}

	colIdx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			colIdx = i
			break
		}
	}
	if colIdx == -1 {
		return nil, fmt.Errorf("column %q not found in header %v", column, header)
	}

	var repos []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if colIdx >= len(row) {
			continue
		}
		if url := strings.TrimSpace(row[colIdx]); url != "" {
			repos = append(repos, url)
		}
	}
	return repos, nil
}

// resolveRepoReference resolves the positional repository reference for
// single-repository commands. Remote URLs are left for task acquisition;
// local paths are resolved to their repository root.
func resolveRepoReference(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	cfg.RepoRef = strings.TrimSpace(input.RepoPathStr)
	if cfg.RepoRef == "" {
		return nil
	}

	if IsRemoteURL(cfg.RepoRef) {
		cfg.IsRemote = true
		return nil
	}

	absSearchPath, err := filepath.Abs(cfg.RepoRef)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.RepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}

	cfg.RepoPath = gitRoot
	return nil
}
