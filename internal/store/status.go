package store

import (
	"fmt"
	"time"

	"github.com/verdantlab/verdant/schema"
)

// PrintStatus renders store health and contents for the status command.
func PrintStatus(status schema.StoreStatus) {
	fmt.Printf("Backend:   %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}

	fmt.Printf("Record cache: %d entries\n", status.CacheEntries)
	if status.CacheEntries > 0 {
		fmt.Printf("  newest: %s\n", status.LastEntryTime.Format(time.DateTime))
		fmt.Printf("  oldest: %s\n", status.OldestEntryTime.Format(time.DateTime))
	}
	fmt.Printf("Batch runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("  last run: #%d at %s\n", status.LastRunID, status.LastRunTime.Format(time.DateTime))
	}
}
