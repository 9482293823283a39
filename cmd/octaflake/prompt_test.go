package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printfarm/octaflake/internal/geometry"
)

var promptParams = geometry.PrintParameters{
	Iterations:     6,
	LayerHeight:    0.2,
	NozzleDiameter: 0.4,
	ModelHeight:    200,
}

func TestConfirmParameters_Accept(t *testing.T) {
	var out bytes.Buffer
	confirmed, g, err := confirmParameters(strings.NewReader("y\n"), &out, promptParams)
	require.NoError(t, err)

	assert.Equal(t, promptParams, confirmed)
	assert.InDelta(t, 1.377628, g.SizeMultiplier, 1e-5)
	assert.Contains(t, out.String(), "size multiplier")
}

func TestConfirmParameters_Quit(t *testing.T) {
	var out bytes.Buffer
	_, _, err := confirmParameters(strings.NewReader("q\n"), &out, promptParams)
	assert.ErrorIs(t, err, errAborted)
}

func TestConfirmParameters_RejectAndReplace(t *testing.T) {
	// Reject, re-enter with new iterations and model height (blank lines
	// keep the previous value), then accept.
	input := strings.Join([]string{
		"n",   // reject the first candidate
		"4",   // iterations
		"",    // keep layer height
		"",    // keep nozzle diameter
		"120", // model height
		"y",   // accept the rebuilt set
	}, "\n") + "\n"

	var out bytes.Buffer
	confirmed, g, err := confirmParameters(strings.NewReader(input), &out, promptParams)
	require.NoError(t, err)

	assert.Equal(t, 4, confirmed.Iterations)
	assert.Equal(t, 0.2, confirmed.LayerHeight)
	assert.Equal(t, 0.4, confirmed.NozzleDiameter)
	assert.Equal(t, 120.0, confirmed.ModelHeight)

	expected, err := geometry.Derive(confirmed)
	require.NoError(t, err)
	assert.Equal(t, expected, g)
}

func TestConfirmParameters_InvalidReplacementRecollects(t *testing.T) {
	// Replace with a degenerate nozzle, which must loop back into
	// collection rather than reaching the generator.
	input := strings.Join([]string{
		"n",   // reject
		"",    // keep iterations
		"",    // keep layer height
		"0",   // zero nozzle: derivation fails
		"",    // keep model height
		"",    // re-collect: keep iterations
		"",    // keep layer height
		"0.6", // fixed nozzle
		"",    // keep model height
		"y",   // accept
	}, "\n") + "\n"

	var out bytes.Buffer
	confirmed, _, err := confirmParameters(strings.NewReader(input), &out, promptParams)
	require.NoError(t, err)

	assert.Equal(t, 0.6, confirmed.NozzleDiameter)
	assert.Contains(t, out.String(), "invalid parameters")
}

func TestConfirmParameters_EOFAborts(t *testing.T) {
	var out bytes.Buffer
	_, _, err := confirmParameters(strings.NewReader(""), &out, promptParams)
	assert.ErrorIs(t, err, errAborted)
}

func TestPromptInputValidation(t *testing.T) {
	// Non-numeric input re-prompts instead of failing.
	input := "abc\n7\n"
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(input))

	v, err := promptInt(reader, &out, "iterations", 3)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Contains(t, out.String(), "not an integer")
}
