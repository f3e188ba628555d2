package modmgr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cakebuild/internal/langdefault"
	"cakebuild/internal/pathutil"
)

func TestWriteModuleProducesCppAndHppAtFlattenedPath(t *testing.T) {
	dir := t.TempDir()
	buildDir := filepath.Join(dir, "build")
	require.NoError(t, os.MkdirAll(buildDir, 0755))

	module := &Module{
		CanonicalPath:   filepath.Join(dir, "sub", "main.cake"),
		GeneratorOutput: &langdefault.GeneratorOutput{Lines: []string{"(defun main () 0)"}},
	}

	driver := &WriterDriver{Writer: langdefault.Writer{}, BuildDir: buildDir}
	require.NoError(t, driver.WriteModule(module))

	flattened := pathutil.FlattenForBuildDir(module.CanonicalPath)
	assert.Equal(t, filepath.Join(buildDir, flattened+".cpp"), module.CppOutputPath)
	assert.Equal(t, filepath.Join(buildDir, flattened+".hpp"), module.HppOutputPath)
	assert.FileExists(t, module.CppOutputPath)
	assert.FileExists(t, module.HppOutputPath)

	contents, err := os.ReadFile(module.CppOutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "defun main")
}

func TestWriteModuleFailsWhenWriterRejectsOutput(t *testing.T) {
	dir := t.TempDir()
	module := &Module{
		CanonicalPath:   filepath.Join(dir, "main.cake"),
		GeneratorOutput: "not a *langdefault.GeneratorOutput",
	}

	driver := &WriterDriver{Writer: langdefault.Writer{}, BuildDir: dir}
	assert.Error(t, driver.WriteModule(module))
}

func TestWriteAllStopsOnFirstError(t *testing.T) {
	dir := t.TempDir()
	buildDir := filepath.Join(dir, "build")
	require.NoError(t, os.MkdirAll(buildDir, 0755))

	good := &Module{
		CanonicalPath:   filepath.Join(dir, "good.cake"),
		GeneratorOutput: &langdefault.GeneratorOutput{Lines: []string{"ok"}},
	}
	bad := &Module{
		CanonicalPath:   filepath.Join(dir, "bad.cake"),
		GeneratorOutput: 42,
	}
	unreached := &Module{
		CanonicalPath:   filepath.Join(dir, "unreached.cake"),
		GeneratorOutput: &langdefault.GeneratorOutput{Lines: []string{"never"}},
	}

	driver := &WriterDriver{Writer: langdefault.Writer{}, BuildDir: buildDir}
	err := driver.WriteAll([]*Module{good, bad, unreached})
	assert.Error(t, err)

	assert.NotEmpty(t, good.CppOutputPath, "module preceding the failure must still be written")
	assert.Empty(t, unreached.CppOutputPath, "module after the failure must not be processed")
}
