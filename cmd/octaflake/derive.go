package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/printfarm/octaflake/internal/geometry"
)

var deriveFlags struct {
	iterations     int
	layerHeight    float64
	nozzleDiameter float64
	modelHeight    float64
}

// deriveCmd computes and prints the geometry for a parameter set
var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive sizing constants for a parameter set",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := geometry.Derive(geometry.PrintParameters{
			Iterations:     deriveFlags.iterations,
			LayerHeight:    deriveFlags.layerHeight,
			NozzleDiameter: deriveFlags.nozzleDiameter,
			ModelHeight:    deriveFlags.modelHeight,
		})
		if err != nil {
			return err
		}

		printGeometry(cmd.OutOrStdout(), g)
		return nil
	},
}

func init() {
	addParameterFlags(deriveCmd, &deriveFlags.iterations, &deriveFlags.layerHeight,
		&deriveFlags.nozzleDiameter, &deriveFlags.modelHeight)
	rootCmd.AddCommand(deriveCmd)
}

// addParameterFlags registers the four print parameter flags on a command
func addParameterFlags(cmd *cobra.Command, iterations *int, layerHeight, nozzleDiameter, modelHeight *float64) {
	cmd.Flags().IntVarP(iterations, "iterations", "i", 3, "fractal recursion depth")
	cmd.Flags().Float64VarP(layerHeight, "layer-height", "l", 0.2, "layer height in mm")
	cmd.Flags().Float64VarP(nozzleDiameter, "nozzle-diameter", "n", 0.4, "nozzle diameter in mm")
	cmd.Flags().Float64VarP(modelHeight, "model-height", "m", 60, "desired model height in mm")
}

func printGeometry(w io.Writer, g geometry.DerivedGeometry) {
	fmt.Fprintf(w, "size multiplier: %g\n", g.SizeMultiplier)
	fmt.Fprintf(w, "edge size:       %g mm\n", g.EdgeSize)
	fmt.Fprintf(w, "full size:       %g mm\n", g.FullSize)
	fmt.Fprintf(w, "full height:     %d mm\n", g.FullHeight)
	fmt.Fprintf(w, "rib width:       %g mm\n", g.RibWidth)
	fmt.Fprintf(w, "gap size:        %g mm\n", g.GapSize)
	fmt.Fprintf(w, "pyramid height:  %g mm\n", g.PyramidHeight)
}
