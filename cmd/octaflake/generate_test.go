package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printfarm/octaflake/internal/generator"
	"github.com/printfarm/octaflake/internal/geometry"
)

func TestGenerateCommand_ReportsPathUnderWorkDir(t *testing.T) {
	workDir := t.TempDir()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	// "true" exits 0 regardless of arguments, standing in for the
	// generator so the run reaches the final report
	rootCmd.SetArgs([]string{
		"generate", "--yes",
		"--generator", "true",
		"--workdir", workDir,
		"--iterations", "6",
		"--layer-height", "0.2",
		"--nozzle-diameter", "0.4",
		"--model-height", "200",
	})
	require.NoError(t, rootCmd.Execute())

	params := geometry.PrintParameters{
		Iterations:     6,
		LayerHeight:    0.2,
		NozzleDiameter: 0.4,
		ModelHeight:    200,
	}
	inv, err := generator.NewInvocation("true", generator.ConventionMultiplier, params)
	require.NoError(t, err)

	// The generator ran inside workDir, so the reported path must too
	assert.True(t, strings.Contains(out.String(),
		"wrote "+filepath.Join(workDir, inv.OutputPath())),
		"output was: %s", out.String())
}
