// Package generator builds and runs invocations of the external
// Octahedroflake model generator. The package owns the command-line
// contract, the output file naming scheme, and the part-cache key format;
// the solid-modeling work itself happens in the external program.
package generator

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/printfarm/octaflake/internal/geometry"
)

// Convention selects which side of the command-line contract derives the
// geometry. Two wrapper generations exist in the field and downstream
// generators may expect either.
type Convention string

const (
	// ConventionMultiplier derives geometry in the wrapper and passes the
	// pre-computed --size-multiplier. This is the default: it is the only
	// convention the reference generator accepts.
	ConventionMultiplier Convention = "multiplier"

	// ConventionDesiredHeight passes the raw --desired_height and leaves
	// the derivation to the generator.
	ConventionDesiredHeight Convention = "desired-height"
)

// ParseConvention maps a flag value to a Convention.
func ParseConvention(s string) (Convention, error) {
	switch Convention(s) {
	case ConventionMultiplier, ConventionDesiredHeight:
		return Convention(s), nil
	case "":
		return ConventionMultiplier, nil
	default:
		return "", fmt.Errorf("unknown invocation convention %q (want %q or %q)",
			s, ConventionMultiplier, ConventionDesiredHeight)
	}
}

// Invocation is a fully validated generator command. Geometry is derived
// before the Invocation exists, so a malformed parameter set can never
// reach the external process and leave a broken model file behind.
type Invocation struct {
	GeneratorPath string
	Convention    Convention
	Params        geometry.PrintParameters
	Geometry      geometry.DerivedGeometry
}

// NewInvocation derives geometry for the given parameters and binds it to a
// generator command under the given convention. Derivation errors are
// returned unchanged so callers can distinguish geometry.ErrInvalidParameter
// from geometry.ErrDegenerate.
func NewInvocation(generatorPath string, conv Convention, p geometry.PrintParameters) (*Invocation, error) {
	if generatorPath == "" {
		return nil, fmt.Errorf("generator path is empty")
	}

	// Both conventions validate up front, even when the generator will
	// re-derive on its side.
	g, err := geometry.Derive(p)
	if err != nil {
		return nil, err
	}

	return &Invocation{
		GeneratorPath: generatorPath,
		Convention:    conv,
		Params:        p,
		Geometry:      g,
	}, nil
}

// Args renders the generator's argument vector:
//
//	--iterations N --layer-height F --nozzle-diameter F \
//	  [--size-multiplier F | --desired_height F]
func (inv *Invocation) Args() []string {
	args := []string{
		"--iterations", strconv.Itoa(inv.Params.Iterations),
		"--layer-height", formatFloat(inv.Params.LayerHeight),
		"--nozzle-diameter", formatFloat(inv.Params.NozzleDiameter),
	}

	switch inv.Convention {
	case ConventionDesiredHeight:
		args = append(args, "--desired_height", formatFloat(inv.Params.ModelHeight))
	default:
		args = append(args, "--size-multiplier", formatFloat(inv.Geometry.SizeMultiplier))
	}

	return args
}

// OutputDir returns the directory the generator writes into, keyed by
// nozzle and layer height so runs for different printers never collide.
func (inv *Invocation) OutputDir() string {
	return filepath.Join(
		"output",
		fmt.Sprintf("%smm_nozzle", formatRounded(inv.Params.NozzleDiameter, 2)),
		fmt.Sprintf("%smm_layer_height", formatRounded(inv.Params.LayerHeight, 2)),
	)
}

// OutputName returns the mesh file name the generator produces for this
// invocation.
func (inv *Invocation) OutputName() string {
	name := fmt.Sprintf("Octahedroflake-%d_%dmm_for_%smm_layer_height_and_%smm_nozzle",
		inv.Params.Iterations,
		inv.Geometry.FullHeight,
		formatRounded(inv.Params.LayerHeight, 2),
		formatRounded(inv.Params.NozzleDiameter, 2),
	)
	return stripBlanks(name) + ".stl"
}

// OutputPath joins OutputDir and OutputName.
func (inv *Invocation) OutputPath() string {
	return filepath.Join(inv.OutputDir(), inv.OutputName())
}

// CacheKey returns the part-cache key for a named intermediate part. Keys
// embed every input that changes part geometry, so a cache survives across
// runs but never serves a part derived from different parameters.
func (inv *Invocation) CacheKey(part string, order int) string {
	if order >= 0 {
		part = fmt.Sprintf("%s[%d]", part, order)
	}
	key := strings.Join([]string{
		formatRounded(inv.Geometry.EdgeSize, 2),
		formatRounded(inv.Params.LayerHeight, 2),
		formatRounded(inv.Geometry.GapSize, 2),
		formatFloat(inv.Geometry.HeightFactor),
		formatFloat(inv.Params.NozzleDiameter),
		part,
	}, "-")
	return stripBlanks(key)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRounded(v float64, places int) string {
	return strconv.FormatFloat(roundTo(v, places), 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func stripBlanks(s string) string {
	return strings.Join(strings.Fields(s), "")
}
