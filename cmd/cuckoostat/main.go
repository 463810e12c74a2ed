// Command cuckoostat builds and inspects semi-sort cuckoo filters from
// the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cuckoostat",
		Short:         "Build and inspect semi-sort cuckoo filters",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose diagnostics")
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config with default capacity/bits-per-item")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newCheckCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cuckoostat:", err)
		os.Exit(1)
	}
}
