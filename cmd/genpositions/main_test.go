package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachcheck/game"
)

func TestEncodeRoundTrip(t *testing.T) {
	ps := game.Generate(3, 12, 7)
	for _, name := range []string{"positions.json", "positions.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			outputPath, numPositions, maxPlies, seed = path, 3, 12, 7
			rootCmd.SetArgs([]string{})
			require.NoError(t, rootCmd.Execute())

			got, err := game.LoadPositions(path)
			require.NoError(t, err)
			assert.Equal(t, ps, got)
		})
	}
}
