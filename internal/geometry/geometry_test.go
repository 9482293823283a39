package geometry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_ReferenceFixture(t *testing.T) {
	// Reference wrapper output for a 200 mm flake on a 0.4 mm nozzle at
	// full model order 6: size multiplier 1.377628.
	g, err := Derive(PrintParameters{
		Iterations:     6,
		LayerHeight:    0.2,
		NozzleDiameter: 0.4,
		ModelHeight:    200.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.8, g.RibWidth)
	assert.InDelta(t, 1.377628, g.SizeMultiplier, 1e-5)
	assert.InDelta(t, 2.204206, g.EdgeSize, 1e-5)
	assert.InDelta(t, 141.069156, g.FullSize, 1e-5)
	assert.Equal(t, 200, g.FullHeight)
	assert.Equal(t, 0.01, g.GapSize)
	assert.Equal(t, 0.7071, g.HeightFactor)
	assert.InDelta(t, 1.56, g.PyramidHeight, 1e-9)
	assert.InDelta(t, 0.207071, g.GapHeight, 1e-6)
}

func TestDerive_HitsTargetHeight(t *testing.T) {
	// The stacked height of the derived structure must land on the
	// requested model height minus the base allowance, for every
	// iteration count and common nozzle size.
	for iterations := 0; iterations <= 10; iterations++ {
		for _, nozzle := range []float64{0.1, 0.25, 0.4} {
			for _, height := range []float64{50, 200, 500} {
				p := PrintParameters{
					Iterations:     iterations,
					LayerHeight:    0.2,
					NozzleDiameter: nozzle,
					ModelHeight:    height,
				}
				t.Run(fmt.Sprintf("i%d_n%g_h%g", iterations, nozzle, height), func(t *testing.T) {
					g, err := Derive(p)
					require.NoError(t, err)

					stacked := g.FullSize * g.HeightFactor * 2
					target := TargetHeight(p)
					assert.InEpsilon(t, target, stacked, 1e-4)
					assert.Equal(t, nozzle*2, g.RibWidth)
					assert.Equal(t, 0.01, g.GapSize)
				})
			}
		}
	}
}

func TestDerive_MonotonicInIterations(t *testing.T) {
	prev, err := Derive(PrintParameters{
		Iterations:     0,
		LayerHeight:    0.2,
		NozzleDiameter: 0.4,
		ModelHeight:    200,
	})
	require.NoError(t, err)

	for iterations := 1; iterations <= 10; iterations++ {
		g, err := Derive(PrintParameters{
			Iterations:     iterations,
			LayerHeight:    0.2,
			NozzleDiameter: 0.4,
			ModelHeight:    200,
		})
		require.NoError(t, err)

		assert.Less(t, g.SizeMultiplier, prev.SizeMultiplier,
			"multiplier must shrink as iterations grow")
		assert.Less(t, g.EdgeSize, prev.EdgeSize,
			"edge size must shrink as iterations grow")
		prev = g
	}
}

func TestDerive_Idempotent(t *testing.T) {
	p := PrintParameters{Iterations: 4, LayerHeight: 0.2, NozzleDiameter: 0.4, ModelHeight: 200}

	first, err := Derive(p)
	require.NoError(t, err)
	second, err := Derive(p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDerive_InvalidInputs(t *testing.T) {
	valid := PrintParameters{Iterations: 3, LayerHeight: 0.2, NozzleDiameter: 0.4, ModelHeight: 60}

	t.Run("baseline is valid", func(t *testing.T) {
		_, err := Derive(valid)
		require.NoError(t, err)
	})

	t.Run("negative iterations", func(t *testing.T) {
		p := valid
		p.Iterations = -1
		_, err := Derive(p)
		require.ErrorIs(t, err, ErrInvalidParameter)
		assert.Contains(t, err.Error(), "iterations")
	})

	t.Run("zero layer height", func(t *testing.T) {
		p := valid
		p.LayerHeight = 0
		_, err := Derive(p)
		require.ErrorIs(t, err, ErrInvalidParameter)
		assert.Contains(t, err.Error(), "layer height")
	})

	t.Run("negative nozzle diameter", func(t *testing.T) {
		p := valid
		p.NozzleDiameter = -0.4
		_, err := Derive(p)
		require.ErrorIs(t, err, ErrInvalidParameter)
		assert.Contains(t, err.Error(), "nozzle diameter")
	})

	t.Run("zero nozzle diameter is degenerate, not invalid", func(t *testing.T) {
		p := valid
		p.NozzleDiameter = 0
		_, err := Derive(p)
		require.ErrorIs(t, err, ErrDegenerate)
		assert.NotErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("model height at the base allowance", func(t *testing.T) {
		p := valid
		p.ModelHeight = 0.5
		_, err := Derive(p)
		require.ErrorIs(t, err, ErrInvalidParameter)
		assert.Contains(t, err.Error(), "model height")
	})

	t.Run("model height below the base allowance", func(t *testing.T) {
		p := valid
		p.ModelHeight = 0.3
		_, err := Derive(p)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestDerive_ZeroIterations(t *testing.T) {
	g, err := Derive(PrintParameters{Iterations: 0, LayerHeight: 0.3, NozzleDiameter: 0.6, ModelHeight: 10})
	require.NoError(t, err)

	// A single octahedron: full size equals edge size.
	assert.Equal(t, g.EdgeSize, g.FullSize)
}
