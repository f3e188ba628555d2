package modmgr

import (
	"fmt"
	"os"

	"cakebuild/internal/pathutil"
)

// BuildPlanner enumerates build objects from modules and their
// foreign-source dependencies, and aggregates link contributions — spec
// §4.7. Modeled on the teacher's per-request aggregation style
// (server/cxx-launcher.go's PrepareServerCompilerCmdLine assembling one
// compiler invocation from many small option lists) generalized here to
// assembling many build objects from many modules.
type BuildPlanner struct {
	Env *Environment
}

// Plan runs the five-step planning pass spec §4.7 describes, in module
// registration order.
func (p *BuildPlanner) Plan(manager *ModuleManager, modules []*Module) (*BuildPlan, error) {
	plan := &BuildPlan{}
	buildDir := p.Env.BuildDir()

	for _, module := range modules {
		for _, hook := range module.PreBuildHooks {
			if !hook(manager, module) {
				return nil, fmt.Errorf("%s: pre-build hook aborted the build", module.CanonicalPath)
			}
		}

		effectiveCommand, err := effectiveBuildCommand(p.Env, module)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", module.CanonicalPath, err)
		}

		headerDirs := headerSearchDirs(module, p.Env, buildDir)

		for _, dep := range module.Dependencies {
			if dep.Kind != DependencyForeignSource {
				continue
			}
			resolved, found := locateForeignSource(dep.Path, module.ForeignIncludeDirs, p.Env.GlobalCSearchDirs)
			if !found {
				return nil, NewLocatedError(dep.Blame, "could not locate foreign source dependency %q on the search path", dep.Path)
			}

			plan.Objects = append(plan.Objects, &BuildObject{
				SourcePath:        resolved,
				ObjectPath:        pathutil.DeriveObjectPath(buildDir, resolved),
				BuildCommand:      effectiveCommand,
				IncludeSearchDirs: includeSearchDirs(module, p.Env),
				AdditionalOptions: module.AdditionalOptions,
				HeaderSearchDirs:  headerDirs,
				OwnerModule:       module,
			})
		}

		aggregateLinkContributions(&plan.Link, module.LinkContributions)

		if !module.SkipBuild {
			plan.Objects = append(plan.Objects, &BuildObject{
				SourcePath:        module.CppOutputPath,
				ObjectPath:        pathutil.DeriveObjectPath(buildDir, module.CppOutputPath),
				BuildCommand:      effectiveCommand,
				IncludeSearchDirs: includeSearchDirs(module, p.Env),
				AdditionalOptions: module.AdditionalOptions,
				HeaderSearchDirs:  headerDirs,
				OwnerModule:       module,
			})
		}
	}

	return plan, nil
}

// effectiveBuildCommand validates a module's command override (spec §4.7
// step 2: partial specification is a user-visible error) and returns either
// it or the environment default.
func effectiveBuildCommand(env *Environment, module *Module) (CommandOverride, error) {
	override := module.BuildCommandOverride
	hasExecutable := override.Executable != ""
	hasArguments := len(override.Arguments) > 0
	if hasExecutable != hasArguments {
		return CommandOverride{}, fmt.Errorf("build-command override must be completely defined: both executable and arguments are required, got executable=%q arguments=%v", override.Executable, override.Arguments)
	}
	if hasExecutable && hasArguments {
		override.IsSet = true
		override.IsOverride = true
		return override, nil
	}
	return CommandOverride{
		Executable: env.BuildCommand.Program,
		IsSet:      true,
	}, nil
}

func includeSearchDirs(module *Module, env *Environment) []string {
	dirs := make([]string, 0, len(module.ForeignIncludeDirs)+len(env.GlobalCSearchDirs))
	dirs = append(dirs, module.ForeignIncludeDirs...)
	dirs = append(dirs, env.GlobalCSearchDirs...)
	return dirs
}

// headerSearchDirs is the scan-priority list spec §4.2 requires:
// module-local, then global, always including "." so generated files in the
// build directory are findable.
func headerSearchDirs(module *Module, env *Environment, buildDir string) []string {
	dirs := make([]string, 0, len(module.ForeignIncludeDirs)+len(env.GlobalCSearchDirs)+2)
	dirs = append(dirs, module.ForeignIncludeDirs...)
	dirs = append(dirs, env.GlobalCSearchDirs...)
	dirs = append(dirs, buildDir, ".")
	return dirs
}

// locateForeignSource searches module-local dirs then global dirs, first
// match wins.
func locateForeignSource(sourcePath string, localDirs []string, globalDirs []string) (string, bool) {
	if fileExists(sourcePath) {
		return sourcePath, true
	}
	for _, dir := range append(append([]string{}, localDirs...), globalDirs...) {
		candidate := dir + "/" + sourcePath
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// aggregateLinkContributions unique-appends each of module's link
// contributions into shared, first-seen order preserved (spec §4.7 step 4).
func aggregateLinkContributions(shared *LinkContributions, module LinkContributions) {
	for _, v := range module.Libraries {
		shared.Libraries = pathutil.UniqueAppend(shared.Libraries, v)
	}
	for _, v := range module.LibrarySearchDirs {
		shared.LibrarySearchDirs = pathutil.UniqueAppend(shared.LibrarySearchDirs, v)
	}
	for _, v := range module.LibraryRuntimeSearchDirs {
		shared.LibraryRuntimeSearchDirs = pathutil.UniqueAppend(shared.LibraryRuntimeSearchDirs, v)
	}
	for _, v := range module.LinkerFlags {
		shared.LinkerFlags = pathutil.UniqueAppend(shared.LinkerFlags, v)
	}
	for _, v := range module.CompilerLinkFlags {
		shared.CompilerLinkFlags = pathutil.UniqueAppend(shared.CompilerLinkFlags, v)
	}
}
