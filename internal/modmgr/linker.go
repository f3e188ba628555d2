package modmgr

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"cakebuild/internal/buildcache"
	"cakebuild/internal/cmdtemplate"
	"cakebuild/internal/procpool"
)

// Linker materializes the final link command, applies pre-link hooks,
// decides cached-vs-relink, and copies the result to its advertised final
// location — spec §4.9. Modeled on the teacher's single blocking compiler
// invocation in server/cxx-launcher.go's launchServerCompilerForPch, since
// link, unlike compile, is always one process, waited on synchronously.
type Linker struct {
	Env  *Environment
	Pool *procpool.Pool
	Cache *buildcache.Cache
	Log  Logger
}

const linkPoolID = -1

// Link runs the six-step link pass spec §4.9 describes.
func (l *Linker) Link(manager *ModuleManager, plan *BuildPlan) error {
	buildDir := l.Env.BuildDir()
	finalPath := l.Env.ResolvedExecutableOutputPath()
	cachedPath := filepath.Join(buildDir, filepath.Base(finalPath))

	objectsDirty := l.anyObjectNewerThan(plan.Objects, cachedPath)

	dialect := cmdtemplate.DialectForProgram(l.Env.LinkCommand.Program)
	objectPaths := make([]string, 0, len(plan.Objects))
	for _, obj := range plan.Objects {
		objectPaths = append(objectPaths, obj.ObjectPath)
	}

	// compiler-side link flags (e.g. -pthread, -static) are passed bare to
	// the compiler driver, never -Wl,-wrapped: that wrapping is only
	// correct for flags meant for the linker itself.
	values := cmdtemplate.SlotValues{
		cmdtemplate.ExecutableOutput:         dialect.ExecutableOutput(cachedPath),
		cmdtemplate.ObjectInput:              objectPaths,
		cmdtemplate.CompilerLinkFlags:        plan.Link.CompilerLinkFlags,
		cmdtemplate.LibrarySearchDirs:        dialect.LibrarySearchDirs(plan.Link.LibrarySearchDirs),
		cmdtemplate.Libraries:                dialect.Libraries(plan.Link.Libraries),
		cmdtemplate.LibraryRuntimeSearchDirs: dialect.LibraryRuntimeSearchDirs(plan.Link.LibraryRuntimeSearchDirs),
		cmdtemplate.LinkerArguments:          dialect.LinkerArguments(plan.Link.LinkerFlags),
	}

	template := l.Env.LinkCommand

	for _, hook := range l.Env.PreLinkHooks {
		if !hook(manager, &template, values) {
			return fmt.Errorf("pre-link hook aborted the link step")
		}
	}

	argv := cmdtemplate.Expand(template, values)
	crc := buildcache.CommandCRC(argv)

	if !objectsDirty && l.Cache.IsCommandStable(cachedPath, crc) {
		l.Log.Info(0, "link cache hit", cachedPath)
		l.Cache.Record(cachedPath, crc)
		return l.materializeFinalOutput(cachedPath, finalPath)
	}

	l.Log.Info(0, "link", cachedPath)
	l.Pool.RunProcess(linkPoolID, buildDir, argv[0], argv[1:])
	results := l.Pool.WaitForAllClosed()
	if len(results) != 1 || results[0].ExitCode != 0 {
		l.Cache.Forget(cachedPath)
		stderr := ""
		if len(results) == 1 {
			stderr = string(results[0].Stderr)
		}
		return fmt.Errorf("link failed: %s", stderr)
	}

	l.Cache.Record(cachedPath, crc)
	return l.materializeFinalOutput(cachedPath, finalPath)
}

func (l *Linker) anyObjectNewerThan(objects []*BuildObject, cachedPath string) bool {
	cachedStat, err := os.Stat(cachedPath)
	if err != nil {
		return true
	}
	for _, obj := range objects {
		objStat, err := os.Stat(obj.ObjectPath)
		if err != nil || objStat.ModTime().After(cachedStat.ModTime()) {
			return true
		}
	}
	return false
}

// materializeFinalOutput copies cachedPath to finalPath and sets the
// executable bit, plus the sibling .lib copy Windows import libraries need
// (spec §4.9 step 6 / SPEC_FULL.md §C).
func (l *Linker) materializeFinalOutput(cachedPath string, finalPath string) error {
	if err := copyFile(cachedPath, finalPath); err != nil {
		return err
	}
	if err := os.Chmod(finalPath, 0755); err != nil {
		return err
	}

	if runtime.GOOS == "windows" {
		cachedLib := swapExt(cachedPath, ".lib")
		if _, err := os.Stat(cachedLib); err == nil {
			_ = copyFile(cachedLib, swapExt(finalPath, ".lib"))
		}
	}

	return nil
}

func swapExt(path string, newExt string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + newExt
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
