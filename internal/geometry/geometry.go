// Package geometry derives the sizing constants for an Octahedroflake print
// from the printer's physical parameters. The derivation is a pure function:
// identical inputs always produce identical outputs and nothing is cached or
// mutated between calls.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

const (
	// HeightFactor is the pyramid height-to-base ratio for a regular
	// octahedron half, approximately 1/sqrt(2).
	HeightFactor = 0.7071

	// GapSize is the clearance in mm between fractal ribs. It is fixed
	// regardless of nozzle or model size.
	GapSize = 0.01

	// baseAllowance is subtracted from the requested model height before
	// deriving: 0.2 mm for the stand base plus stacking slack.
	baseAllowance = 0.5
)

// ErrInvalidParameter reports an input that fails precondition checks:
// a negative or zero dimension, a negative iteration count, or a model
// height at or below the base allowance.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrDegenerate reports an input combination whose derivation divides by
// zero or produces a non-finite value. It is distinct from
// ErrInvalidParameter so callers can tell a bad value shape from a bad
// value combination.
var ErrDegenerate = errors.New("degenerate arithmetic")

// PrintParameters are the manufacturing inputs collected from the operator
// or a printer profile.
type PrintParameters struct {
	Iterations     int     `json:"iterations"`
	LayerHeight    float64 `json:"layer_height"`
	NozzleDiameter float64 `json:"nozzle_diameter"`
	ModelHeight    float64 `json:"model_height"`
}

// DerivedGeometry is the complete set of sizing constants passed to the
// model generator. All float fields are rounded to 6 decimal places to
// match the reference wrapper's fixed-scale arithmetic.
type DerivedGeometry struct {
	HeightFactor   float64 `json:"height_factor"`
	GapSize        float64 `json:"gap_size"`
	RibWidth       float64 `json:"rib_width"`
	SizeMultiplier float64 `json:"size_multiplier"`
	EdgeSize       float64 `json:"edge_size"`
	FullSize       float64 `json:"full_size"`
	PyramidHeight  float64 `json:"pyramid_height"`
	CombinedHeight float64 `json:"combined_height"`
	GapHeight      float64 `json:"gap_height"`
	FullHeight     int     `json:"full_height"`
}

// Validate checks the derivation preconditions and names the offending
// field on failure. A zero nozzle diameter is reported as ErrDegenerate
// because it would divide the multiplier by zero; every other violation is
// ErrInvalidParameter.
func (p PrintParameters) Validate() error {
	if p.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be >= 0, got %d", ErrInvalidParameter, p.Iterations)
	}
	if p.LayerHeight <= 0 {
		return fmt.Errorf("%w: layer height must be positive, got %g", ErrInvalidParameter, p.LayerHeight)
	}
	if p.NozzleDiameter == 0 {
		return fmt.Errorf("%w: nozzle diameter of zero divides the size multiplier by zero", ErrDegenerate)
	}
	if p.NozzleDiameter < 0 {
		return fmt.Errorf("%w: nozzle diameter must be positive, got %g", ErrInvalidParameter, p.NozzleDiameter)
	}
	if p.ModelHeight <= baseAllowance {
		return fmt.Errorf("%w: model height must exceed %g mm, got %g", ErrInvalidParameter, baseAllowance, p.ModelHeight)
	}
	return nil
}

// Derive computes the generator sizing constants from print parameters.
//
// The size multiplier scales a unit fractal edge so the finished model,
// after 2^iterations subdivisions and mirrored stacking, reaches the
// requested height less the base allowance:
//
//	sizeMultiplier = (modelHeight - 0.5) / (2^iterations * nozzleDiameter*4 * HeightFactor * 2)
//
// FullSize is the bounding base edge of the result; projected through the
// stacked height (FullSize * HeightFactor * 2) it lands on the derivation
// target. FullHeight is that projection rounded up to whole millimeters,
// which is what the generator stamps into output file names.
func Derive(p PrintParameters) (DerivedGeometry, error) {
	if err := p.Validate(); err != nil {
		return DerivedGeometry{}, err
	}

	factor := math.Pow(2, float64(p.Iterations))
	multiplier := (p.ModelHeight - baseAllowance) / (factor * (p.NozzleDiameter * 4) * HeightFactor * 2)
	edge := p.NozzleDiameter * 4 * multiplier
	full := factor * edge

	if !isFinite(multiplier) || !isFinite(edge) || !isFinite(full) {
		return DerivedGeometry{}, fmt.Errorf("%w: non-finite result for %+v", ErrDegenerate, p)
	}

	pyramid := round(edge*HeightFactor, 2)

	return DerivedGeometry{
		HeightFactor:   HeightFactor,
		GapSize:        GapSize,
		RibWidth:       p.NozzleDiameter * 2,
		SizeMultiplier: round(multiplier, 6),
		EdgeSize:       round(edge, 6),
		FullSize:       round(full, 6),
		PyramidHeight:  pyramid,
		CombinedHeight: round(pyramid+p.LayerHeight, 6),
		GapHeight:      round(p.LayerHeight+GapSize*HeightFactor, 6),
		FullHeight:     int(math.Ceil(full * HeightFactor * 2)),
	}, nil
}

// TargetHeight is the height the derivation aims for: the requested model
// height minus the base allowance.
func TargetHeight(p PrintParameters) float64 {
	return p.ModelHeight - baseAllowance
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
