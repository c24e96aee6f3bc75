package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/verdantlab/verdant/schema"
)

// Entropy label constants.
const (
	HighValue     = "High"     // Churn split near-evenly between additions and removals
	ElevatedValue = "Elevated" // Strongly mixed churn
	ModerateValue = "Moderate" // Mildly mixed churn
	LowValue      = "Low"      // Churn dominated by one category
)

// Terminal colors for the entropy bands.
var (
	HighColor     = color.New(color.FgRed, color.Bold)
	ElevatedColor = color.New(color.FgMagenta, color.Bold)
	ModerateColor = color.New(color.FgYellow)
	LowColor      = color.New(color.FgCyan)
)

// GetColorLabel colors the plain entropy label for table output.
func GetColorLabel(entropy float64) string {
	text := schema.GetPlainLabel(entropy)

	switch text {
	case HighValue:
		return HighColor.Sprint(text)
	case ElevatedValue:
		return ElevatedColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile opens the named file for output, or hands back stdout
// when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal reports an unrecoverable error on stderr and exits.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn reports a non-fatal problem on stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the
// record cache and run history.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".verdant.db"
	}
	return filepath.Join(homeDir, ".verdant.db")
}

// IsRemoteURL reports whether the repository reference names a remote
// repository rather than a local path.
func IsRemoteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "ssh://") ||
		strings.HasPrefix(ref, "git://") ||
		strings.HasPrefix(ref, "git@")
}

// TruncatePath shortens a path to maxWidth runes, keeping the tail behind
// an ellipsis. Widths of 3 or less leave the path alone since nothing
// useful would survive the prefix.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString reads yes/no style flag values: "yes", "no", "true",
// "false", "1" and "0", case-insensitively.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
