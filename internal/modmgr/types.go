// Package modmgr is the module-manager core: it owns the module graph,
// plans build objects from modules and their foreign-source dependencies,
// dispatches compile/link commands through a cached, concurrency-bounded
// pool, and runs user hooks at the pre-build and pre-link points.
//
// It is modeled on the teacher's orchestration style (Client/Session/Daemon
// in nocc) but single-process: one ModuleManager drives one build, the way
// nocc-daemon drives one compilation queue, without the distributed/gRPC
// session layer nocc layers on top for multi-host compilation.
package modmgr

import "cakebuild/internal/cmdtemplate"

// DependencyKind tags the variant a ModuleDependency carries.
type DependencyKind int

const (
	DependencySibling DependencyKind = iota
	DependencyForeignSource
	DependencySystemHeader
)

// BlameToken locates the source token that introduced a dependency or
// decision, for diagnostic attribution.
type BlameToken struct {
	File   string
	Line   int
	Column int
}

// ModuleDependency is one dependency a module carries, tagged by kind. Only
// DependencyForeignSource yields a new build object in the planner;
// DependencySibling is satisfied transitively because every sibling is
// itself a loaded module contributing its own build objects.
type ModuleDependency struct {
	Kind  DependencyKind
	Path  string // sibling module path, or foreign-source path
	Name  string // system-header name, when Kind == DependencySystemHeader
	Blame BlameToken
}

// CommandOverride replaces the environment's default build command for a
// module (and its foreign-source dependencies). Both Executable and
// Arguments must be set together, or neither — spec §4.7 step 2.
type CommandOverride struct {
	Executable string
	Arguments  []string
	IsSet      bool // true once validated: either a full module override, or the environment default
	IsOverride bool // true only for a module-supplied override (as opposed to the environment default)
}

// LinkContributions is what a module adds to the final link invocation.
type LinkContributions struct {
	Libraries              []string
	LibrarySearchDirs      []string
	LibraryRuntimeSearchDirs []string
	LinkerFlags            []string
	CompilerLinkFlags      []string
}

// PreBuildHook runs once per module before planning its build objects.
// Returning false aborts the planner (spec §4.7 step 1 / §6).
type PreBuildHook func(manager *ModuleManager, module *Module) bool

// PreLinkHook runs once, after the link command and its slot values are
// materialized, before the linker is invoked. Hooks may mutate both,
// conventionally additively (spec §4.9 step 4 / §6).
type PreLinkHook func(manager *ModuleManager, linkCommand *cmdtemplate.Template, values cmdtemplate.SlotValues) bool

// Module is a single loaded translation unit: spec §3 "Module".
type Module struct {
	// CanonicalPath is the module's identity: absolute path, '/' separators.
	CanonicalPath string

	// Tokens is the immutable token stream owned by the external tokenizer;
	// opaque to this package, referenced only for lifetime bookkeeping.
	Tokens interface{}

	// GeneratorOutput is the IR the external evaluator attaches references
	// into; owned by the module until the environment is destroyed.
	GeneratorOutput interface{}

	// CppOutputPath / HppOutputPath are the absolute cached paths of the
	// module's generated source/header pair, once written.
	CppOutputPath string
	HppOutputPath string

	BuildCommandOverride CommandOverride
	Dependencies         []ModuleDependency
	ForeignIncludeDirs   []string
	AdditionalOptions    []string
	LinkContributions    LinkContributions
	PreBuildHooks        []PreBuildHook

	// SkipBuild marks a header-only module: it is consumed by siblings but
	// contributes no build object of its own (spec §4.7 step 5).
	SkipBuild bool
}

// BuildObject is one compilation unit planned for this run (spec §3).
type BuildObject struct {
	SourcePath        string
	ObjectPath         string
	BuildCommand       CommandOverride // effective command: override or environment default
	IncludeSearchDirs  []string
	AdditionalOptions  []string
	HeaderSearchDirs   []string // for include scanning; module-local then global, always includes "."

	// OwnerModule is the module this object was planned for — the
	// generated .cpp for the module itself, or a foreign-source dependency
	// of it.
	OwnerModule *Module

	ExitCode  int
	ExitError error
}

// BuildPlan is the planner's output: every object to compile this run, plus
// the aggregated link-side contributions across all modules.
type BuildPlan struct {
	Objects []*BuildObject
	Link    LinkContributions
}
