// main is the entry point for the verdant CLI.
package main

import (
	"fmt"
	"os"

	"github.com/verdantlab/verdant/cmd"
	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/internal/store"
)

func main() {
	cmd.SetStoreManager(store.Manager)

	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Cannot stop profiling cleanly", perr)
	}
	store.CloseStore()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
