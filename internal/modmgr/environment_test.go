package modmgr

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDirIsComputedOnceAndDeterministic(t *testing.T) {
	env := &Environment{CacheRoot: "/cache", Labels: []string{"Debug", "HotReload"}}

	first := env.BuildDir()
	second := env.BuildDir()
	assert.Equal(t, first, second)
	assert.Equal(t, filepath.Join("/cache", "Debug-HotReload"), first)
}

func TestSetLabelsFailsAfterBuildDirFrozen(t *testing.T) {
	env := &Environment{CacheRoot: "/cache"}
	require.NoError(t, env.SetLabels([]string{"Debug"}))

	_ = env.BuildDir()

	err := env.SetLabels([]string{"Release"})
	assert.Error(t, err, "labels must not be mutable once the build directory has been derived from them")
}

func TestResolvedExecutableOutputPathDefaultsToAOut(t *testing.T) {
	env := &Environment{}
	assert.Equal(t, DefaultExecutableOutputPath, env.ResolvedExecutableOutputPath())

	env.ExecutableOutputPath = "./bin/game"
	assert.Equal(t, "./bin/game", env.ResolvedExecutableOutputPath())
}
