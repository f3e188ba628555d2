package modmgr

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cakebuild/internal/buildcache"
	"cakebuild/internal/cmdtemplate"
	"cakebuild/internal/procpool"
)

// writeFakeLinker writes a shell script standing in for a real linker: it
// looks for "-o <path>" in its argv and writes a marker file there.
func writeFakeLinker(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-ld.sh")
	script := `#!/bin/sh
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-o" ]; then
    out="$arg"
  fi
  prev="$arg"
done
if [ -n "$out" ]; then
  echo "linked" > "$out"
fi
exit 0
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func newTestLinker(t *testing.T, fakeLinker string) (*Linker, *Environment) {
	t.Helper()
	env := &Environment{
		CacheRoot: filepath.Join(t.TempDir(), "cache"),
		LinkCommand: cmdtemplate.Template{
			Program: fakeLinker,
			Slots: []cmdtemplate.Slot{
				cmdtemplate.Abstract(cmdtemplate.ExecutableOutput),
				cmdtemplate.Abstract(cmdtemplate.ObjectInput),
			},
		},
		UseCachedFiles:       true,
		MaxParallelProcesses: 2,
	}
	require.NoError(t, os.MkdirAll(env.BuildDir(), 0755))

	cache, err := buildcache.Load(filepath.Join(env.BuildDir(), "build-cache.bin"))
	require.NoError(t, err)

	linker := &Linker{
		Env:   env,
		Pool:  procpool.New(1),
		Cache: cache,
		Log:   nullLogger{},
	}
	return linker, env
}

func TestLinkProducesExecutableAtAdvertisedPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake linker script is POSIX shell")
	}
	dir := t.TempDir()
	fakeLinker := writeFakeLinker(t, dir)
	linker, env := newTestLinker(t, fakeLinker)

	objectPath := filepath.Join(dir, "main.o")
	require.NoError(t, os.WriteFile(objectPath, []byte("fake object\n"), 0644))

	env.ExecutableOutputPath = filepath.Join(dir, "out", "app")
	plan := &BuildPlan{Objects: []*BuildObject{{ObjectPath: objectPath}}}

	require.NoError(t, linker.Link(nil, plan))
	assert.FileExists(t, env.ResolvedExecutableOutputPath())

	info, err := os.Stat(env.ResolvedExecutableOutputPath())
	require.NoError(t, err)
	assert.NotEqual(t, os.FileMode(0), info.Mode()&0111, "linked output must be executable")
}

func TestLinkSkipsRelinkWhenNothingChanged(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake linker script is POSIX shell")
	}
	dir := t.TempDir()
	fakeLinker := writeFakeLinker(t, dir)
	linker, env := newTestLinker(t, fakeLinker)

	objectPath := filepath.Join(dir, "main.o")
	require.NoError(t, os.WriteFile(objectPath, []byte("fake object\n"), 0644))
	env.ExecutableOutputPath = filepath.Join(dir, "app")
	plan := &BuildPlan{Objects: []*BuildObject{{ObjectPath: objectPath}}}

	require.NoError(t, linker.Link(nil, plan))

	path := filepath.Join(env.BuildDir(), "build-cache.bin")
	require.NoError(t, linker.Cache.Save(path))
	reloaded, err := buildcache.Load(path)
	require.NoError(t, err)
	linker.Cache = reloaded

	cachedPath := filepath.Join(env.BuildDir(), filepath.Base(env.ResolvedExecutableOutputPath()))
	beforeStat, err := os.Stat(cachedPath)
	require.NoError(t, err)

	require.NoError(t, linker.Link(nil, plan))

	afterStat, err := os.Stat(cachedPath)
	require.NoError(t, err)
	assert.Equal(t, beforeStat.ModTime(), afterStat.ModTime(), "an unchanged plan must not re-invoke the linker")
}

func TestLinkFailurePropagatesError(t *testing.T) {
	dir := t.TempDir()
	linker, env := newTestLinker(t, "/no/such/linker-cakebuild-test")
	linker.Env.LinkCommand.Program = "/no/such/linker-cakebuild-test"

	objectPath := filepath.Join(dir, "main.o")
	require.NoError(t, os.WriteFile(objectPath, []byte("fake object\n"), 0644))
	env.ExecutableOutputPath = filepath.Join(dir, "app")
	plan := &BuildPlan{Objects: []*BuildObject{{ObjectPath: objectPath}}}

	err := linker.Link(nil, plan)
	assert.Error(t, err)
}

func TestPreLinkHookCanAbortLink(t *testing.T) {
	dir := t.TempDir()
	fakeLinker := writeFakeLinker(t, dir)
	linker, env := newTestLinker(t, fakeLinker)
	env.PreLinkHooks = []PreLinkHook{
		func(manager *ModuleManager, linkCommand *cmdtemplate.Template, values cmdtemplate.SlotValues) bool {
			return false
		},
	}

	objectPath := filepath.Join(dir, "main.o")
	require.NoError(t, os.WriteFile(objectPath, []byte("fake object\n"), 0644))
	env.ExecutableOutputPath = filepath.Join(dir, "app")
	plan := &BuildPlan{Objects: []*BuildObject{{ObjectPath: objectPath}}}

	err := linker.Link(nil, plan)
	assert.Error(t, err)
}
