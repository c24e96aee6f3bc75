package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/verdantlab/verdant/internal/contract"
)

// Path column bounds for table output.
const (
	minPathWidth = 15
	maxPathWidth = 70

	// Space taken by the entropy and label columns plus borders and padding.
	fixedColumnWidth = 40
)

// getMaxTablePathWidth sizes the path column for table output from the
// width override or the detected terminal width.
func getMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		termWidth = detectTerminalWidth()
	}

	available := termWidth - fixedColumnWidth
	if available < minPathWidth {
		return minPathWidth
	}
	if available > maxPathWidth {
		return maxPathWidth
	}
	return available
}

// detectTerminalWidth falls back to 80 columns when stdout is not a
// terminal, which covers CI and piped output.
func detectTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
