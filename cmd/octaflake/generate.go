package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/printfarm/octaflake/internal/generator"
	"github.com/printfarm/octaflake/internal/geometry"
)

var generateFlags struct {
	iterations     int
	layerHeight    float64
	nozzleDiameter float64
	modelHeight    float64
	generatorPath  string
	convention     string
	workDir        string
	yes            bool
}

// generateCmd derives geometry, confirms it with the operator, and runs
// the external generator
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the external generator for a parameter set",
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := generator.ParseConvention(generateFlags.convention)
		if err != nil {
			return err
		}

		params := geometry.PrintParameters{
			Iterations:     generateFlags.iterations,
			LayerHeight:    generateFlags.layerHeight,
			NozzleDiameter: generateFlags.nozzleDiameter,
			ModelHeight:    generateFlags.modelHeight,
		}

		if generateFlags.yes {
			// Non-interactive: still validate before the generator runs
			if _, err := geometry.Derive(params); err != nil {
				return err
			}
		} else {
			confirmed, _, err := confirmParameters(cmd.InOrStdin(), cmd.OutOrStdout(), params)
			if errors.Is(err, errAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing generated")
				return nil
			}
			if err != nil {
				return err
			}
			params = confirmed
		}

		inv, err := generator.NewInvocation(generateFlags.generatorPath, conv, params)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "running: %s %v\n", inv.GeneratorPath, inv.Args())

		result, err := generator.NewRunner(generateFlags.workDir).Run(cmd.Context(), inv)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("generator exited with code %d: %s",
				result.ExitCode, string(result.Stderr))
		}

		// The generator writes relative to its working directory
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(generateFlags.workDir, inv.OutputPath()))
		return nil
	},
}

func init() {
	addParameterFlags(generateCmd, &generateFlags.iterations, &generateFlags.layerHeight,
		&generateFlags.nozzleDiameter, &generateFlags.modelHeight)
	generateCmd.Flags().StringVar(&generateFlags.generatorPath, "generator", "octahedroflake.py",
		"path to the model generator executable")
	generateCmd.Flags().StringVar(&generateFlags.convention, "convention", string(generator.ConventionMultiplier),
		"generator contract: 'multiplier' passes --size-multiplier, 'desired-height' passes --desired_height")
	generateCmd.Flags().StringVar(&generateFlags.workDir, "workdir", ".",
		"directory the generator runs in")
	generateCmd.Flags().BoolVarP(&generateFlags.yes, "yes", "y", false,
		"skip the confirmation prompt")
	rootCmd.AddCommand(generateCmd)
}
