package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "walks",
		Short: "Random walks on a bounded grid",
		Long: `walks simulates independent random walks on a bounded 2-D grid.

Walks either move freely, or avoid every cell any walk has visited and never
step straight back into the cell they just left. A walk finishes when it
leaves the grid or has nowhere left to go.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (one object per line)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.walks/config.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
