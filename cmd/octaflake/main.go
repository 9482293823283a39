package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "octaflake",
	Short: "Derive print geometry and drive the Octahedroflake generator",
	Long: `octaflake wraps the external Octahedroflake model generator.

It derives the sizing constants (size multiplier, edge size, rib width)
that turn a recursion depth and a desired model height into a printable
fractal, and either runs the generator locally or submits a generation
job to a print farm node.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
