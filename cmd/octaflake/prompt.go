package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/printfarm/octaflake/internal/geometry"
)

// errAborted is returned when the operator quits the confirmation loop.
var errAborted = errors.New("aborted")

// confirmParameters runs the interactive accept-or-replace cycle: derive
// for the candidate parameters, show the geometry, and either return the
// confirmed set or collect a completely fresh one and go around again.
// Parameters are never edited in place; every rejection rebuilds the whole
// set.
func confirmParameters(in io.Reader, out io.Writer, candidate geometry.PrintParameters) (geometry.PrintParameters, geometry.DerivedGeometry, error) {
	reader := bufio.NewReader(in)

	for {
		g, err := geometry.Derive(candidate)
		if err != nil {
			// A replacement set can be invalid; report and re-collect
			// instead of giving up.
			fmt.Fprintf(out, "invalid parameters: %v\n", err)
			candidate, err = collectParameters(reader, out, candidate)
			if err != nil {
				return geometry.PrintParameters{}, geometry.DerivedGeometry{}, err
			}
			continue
		}

		fmt.Fprintf(out, "\niterations:      %d\n", candidate.Iterations)
		fmt.Fprintf(out, "layer height:    %g mm\n", candidate.LayerHeight)
		fmt.Fprintf(out, "nozzle diameter: %g mm\n", candidate.NozzleDiameter)
		fmt.Fprintf(out, "model height:    %g mm\n", candidate.ModelHeight)
		printGeometry(out, g)

		fmt.Fprint(out, "\nGenerate with these values? [y]es / [n]o, re-enter / [q]uit: ")
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return geometry.PrintParameters{}, geometry.DerivedGeometry{}, errAborted
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return candidate, g, nil
		case "q", "quit":
			return geometry.PrintParameters{}, geometry.DerivedGeometry{}, errAborted
		default:
			candidate, err = collectParameters(reader, out, candidate)
			if err != nil {
				return geometry.PrintParameters{}, geometry.DerivedGeometry{}, err
			}
		}
	}
}

// collectParameters prompts for each input, defaulting to the rejected
// candidate's values, and returns a brand-new parameter set.
func collectParameters(reader *bufio.Reader, out io.Writer, previous geometry.PrintParameters) (geometry.PrintParameters, error) {
	iterations, err := promptInt(reader, out, "iterations", previous.Iterations)
	if err != nil {
		return geometry.PrintParameters{}, err
	}
	layerHeight, err := promptFloat(reader, out, "layer height (mm)", previous.LayerHeight)
	if err != nil {
		return geometry.PrintParameters{}, err
	}
	nozzleDiameter, err := promptFloat(reader, out, "nozzle diameter (mm)", previous.NozzleDiameter)
	if err != nil {
		return geometry.PrintParameters{}, err
	}
	modelHeight, err := promptFloat(reader, out, "model height (mm)", previous.ModelHeight)
	if err != nil {
		return geometry.PrintParameters{}, err
	}

	return geometry.PrintParameters{
		Iterations:     iterations,
		LayerHeight:    layerHeight,
		NozzleDiameter: nozzleDiameter,
		ModelHeight:    modelHeight,
	}, nil
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) (int, error) {
	for {
		fmt.Fprintf(out, "%s [%d]: ", label, current)
		line, err := readLine(reader)
		if err != nil {
			return 0, err
		}
		if line == "" {
			return current, nil
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(out, "not an integer: %q\n", line)
			continue
		}
		return v, nil
	}
}

func promptFloat(reader *bufio.Reader, out io.Writer, label string, current float64) (float64, error) {
	for {
		fmt.Fprintf(out, "%s [%g]: ", label, current)
		line, err := readLine(reader)
		if err != nil {
			return 0, err
		}
		if line == "" {
			return current, nil
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			fmt.Fprintf(out, "not a number: %q\n", line)
			continue
		}
		return v, nil
	}
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", errAborted
	}
	return strings.TrimSpace(line), nil
}
