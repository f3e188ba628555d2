package modmgr

import "cakebuild/internal/cmdtemplate"

// DefaultPosixEnvironment returns an Environment wired with gcc/clang-style
// default commands, the Linux branch of the original
// moduleManagerInitialize (original_source/src/ModuleManager.cpp
// sets compileTimeBuildCommand/buildTimeLinkCommand defaults per platform;
// here the same defaults are expressed as cmdtemplate.Template values
// instead of a hand-built ProcessCommand).
func DefaultPosixEnvironment(cacheRoot string) *Environment {
	return &Environment{
		CacheRoot: cacheRoot,
		BuildCommand: cmdtemplate.Template{
			Program: "gcc",
			Slots: []cmdtemplate.Slot{
				cmdtemplate.Lit("-c"),
				cmdtemplate.Abstract(cmdtemplate.SourceInput),
				cmdtemplate.Abstract(cmdtemplate.ObjectOutput),
				cmdtemplate.Abstract(cmdtemplate.IncludeSearchDirs),
				cmdtemplate.Abstract(cmdtemplate.AdditionalOptions),
			},
		},
		LinkCommand: cmdtemplate.Template{
			Program: "gcc",
			Slots: []cmdtemplate.Slot{
				cmdtemplate.Abstract(cmdtemplate.CompilerLinkFlags),
				cmdtemplate.Abstract(cmdtemplate.ExecutableOutput),
				cmdtemplate.Abstract(cmdtemplate.ObjectInput),
				cmdtemplate.Abstract(cmdtemplate.LibrarySearchDirs),
				cmdtemplate.Abstract(cmdtemplate.Libraries),
				cmdtemplate.Abstract(cmdtemplate.LibraryRuntimeSearchDirs),
				cmdtemplate.Abstract(cmdtemplate.LinkerArguments),
			},
		},
		PrecompileCommand: cmdtemplate.Template{
			Program: "gcc",
			Slots: []cmdtemplate.Slot{
				cmdtemplate.Lit("-x"),
				cmdtemplate.Lit("c-header"),
				cmdtemplate.Abstract(cmdtemplate.SourceInput),
				cmdtemplate.Abstract(cmdtemplate.PrecompiledHeaderOutput),
				cmdtemplate.Abstract(cmdtemplate.IncludeSearchDirs),
			},
		},
		UseCachedFiles:       true,
		MaxParallelProcesses: 4,
	}
}

// DefaultMsvcEnvironment mirrors the Windows branch: cl.exe/link.exe.
func DefaultMsvcEnvironment(cacheRoot string) *Environment {
	return &Environment{
		CacheRoot: cacheRoot,
		BuildCommand: cmdtemplate.Template{
			Program: "cl.exe",
			Slots: []cmdtemplate.Slot{
				cmdtemplate.Lit("/nologo"),
				cmdtemplate.Lit("/c"),
				cmdtemplate.Abstract(cmdtemplate.SourceInput),
				cmdtemplate.Abstract(cmdtemplate.ObjectOutput),
				cmdtemplate.Abstract(cmdtemplate.DebugSymbolsOutput),
				cmdtemplate.Abstract(cmdtemplate.IncludeSearchDirs),
				cmdtemplate.Abstract(cmdtemplate.AdditionalOptions),
			},
		},
		LinkCommand: cmdtemplate.Template{
			Program: "link.exe",
			Slots: []cmdtemplate.Slot{
				cmdtemplate.Lit("/nologo"),
				cmdtemplate.Abstract(cmdtemplate.CompilerLinkFlags),
				cmdtemplate.Abstract(cmdtemplate.ExecutableOutput),
				cmdtemplate.Abstract(cmdtemplate.ObjectInput),
				cmdtemplate.Abstract(cmdtemplate.LibrarySearchDirs),
				cmdtemplate.Abstract(cmdtemplate.Libraries),
				cmdtemplate.Abstract(cmdtemplate.LinkerArguments),
			},
		},
		UseCachedFiles:       true,
		MaxParallelProcesses: 4,
	}
}
