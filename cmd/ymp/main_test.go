package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/ymp/internal/cli"
)

func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	invalidHCL := `
		dataset "toy" {
			type = "mapfile"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, errOut, []string{"--config", filePath, "datasets"})

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, runErr, &exitErr)
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, exitErr.Message, "failed to load configuration")
	require.Contains(t, exitErr.Message, "failed to parse")
	require.Empty(t, out.String())
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_BadFlag(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--no-such-flag"})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}
