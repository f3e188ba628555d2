package modmgr

import (
	"fmt"
	"os"
	"os/exec"

	"cakebuild/internal/buildcache"
	"cakebuild/internal/includescan"
	"cakebuild/internal/procpool"
)

// ModuleManager ties the store, planner, builder and linker together behind
// the single entry point spec §4.10 / §6 describes: initialize, destroy,
// add-evaluate-file, evaluate-resolve-references, write-generated-output,
// build-and-link, execute-built-outputs.
type ModuleManager struct {
	Env   *Environment
	Store *ModuleStore
	Log   Logger

	Writer       Writer
	SharedHeader string
	SharedFooter string

	cache *buildcache.Cache
	pool  *procpool.Pool
}

// Initialize creates the environment's build directory if needed and loads
// its persisted build cache. Call once before AddEvaluateFile/BuildAndLink.
func (m *ModuleManager) Initialize() error {
	if err := os.MkdirAll(m.Env.BuildDir(), os.ModePerm); err != nil {
		return err
	}

	cache, err := buildcache.Load(m.cachePath())
	if err != nil {
		return err
	}
	m.cache = cache
	return nil
}

func (m *ModuleManager) cachePath() string {
	return m.Env.BuildDir() + "/build-cache.bin"
}

// AddEvaluateFile loads and evaluates one module (spec §4.5).
func (m *ModuleManager) AddEvaluateFile(path string) (*Module, error) {
	return m.Store.AddEvaluateFile(path)
}

// EvaluateResolveReferences closes forward references once all modules are loaded.
func (m *ModuleManager) EvaluateResolveReferences() error {
	if !m.Store.EvaluateResolveReferences() {
		return fmt.Errorf("failed to resolve cross-module references")
	}
	return nil
}

// WriteGeneratedOutput writes every loaded module's .cpp/.hpp pair.
func (m *ModuleManager) WriteGeneratedOutput() error {
	driver := &WriterDriver{
		Writer:       m.Writer,
		BuildDir:     m.Env.BuildDir(),
		SharedHeader: m.SharedHeader,
		SharedFooter: m.SharedFooter,
	}
	return driver.WriteAll(m.Store.Modules())
}

// BuildAndLink sequences planner -> builder -> linker, persisting the cache
// on every exit path (spec §4.10), including after failure, so partial
// successes from this run are remembered by the next one.
func (m *ModuleManager) BuildAndLink() (err error) {
	defer func() {
		if saveErr := m.cache.Save(m.cachePath()); saveErr != nil && err == nil {
			err = saveErr
		}
	}()

	planner := &BuildPlanner{Env: m.Env}
	plan, err := planner.Plan(m, m.Store.Modules())
	if err != nil {
		return err
	}

	pool := procpool.New(m.Env.MaxParallelProcesses)
	m.pool = pool
	scanner := includescan.NewScanner()

	builder := &Builder{
		Env:     m.Env,
		Pool:    pool,
		Cache:   m.cache,
		Scanner: scanner,
		Log:     m.Log,
	}
	if err = builder.Build(plan); err != nil {
		return err
	}

	linker := &Linker{
		Env:   m.Env,
		Pool:  pool,
		Cache: m.cache,
		Log:   m.Log,
	}
	return linker.Link(m, plan)
}

// ExecuteBuiltOutputs runs the freshly linked executable and propagates its
// exit code (spec §6's "execute-built-outputs"); any nonzero child exit is a
// failure.
func (m *ModuleManager) ExecuteBuiltOutputs(args ...string) error {
	finalPath := m.Env.ResolvedExecutableOutputPath()
	cmd := exec.Command(finalPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s exited with error: %w", finalPath, err)
	}
	return nil
}

// Interrupt tears down any in-flight build wave's child processes. It is
// not part of the build algorithm itself (spec §4.4: no cancellation at the
// individual-process level) — it exists for a CLI's Ctrl-C handler to call.
func (m *ModuleManager) Interrupt() {
	if m.pool != nil {
		m.pool.InterruptAll()
	}
}

// Destroy releases module-store state (spec §4.5 Destroy).
func (m *ModuleManager) Destroy(keepDynLibs bool) {
	m.Store.Destroy(keepDynLibs)
}
