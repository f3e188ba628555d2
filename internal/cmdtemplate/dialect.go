package cmdtemplate

import "fmt"

// Dialect formats a collection of values (include dirs, libraries, ...)
// into argv entries, in the compiler-specific way. POSIX-like compilers emit
// two argv entries per value ("-o", "foo.o"); MSVC-like tools join prefix and
// value into a single entry ("/Fofoo.obj").
type Dialect struct {
	joined bool
}

// DialectForProgram selects the formatting dialect for a program by its
// basename, per cmdtemplate.IsMsvcProgram.
func DialectForProgram(program string) Dialect {
	return Dialect{joined: IsMsvcProgram(program)}
}

// format emits prefix+value as one joined argv entry for MSVC dialect, or
// prefix, value as two argv entries for POSIX dialect. An empty prefix
// always yields the bare value.
func (d Dialect) format(prefix, value string) []string {
	if prefix == "" {
		return []string{value}
	}
	if d.joined {
		return []string{prefix + value}
	}
	return []string{prefix, value}
}

func (d Dialect) formatAll(prefix string, values []string) []string {
	out := make([]string, 0, len(values)*2)
	for _, v := range values {
		out = append(out, d.format(prefix, v)...)
	}
	return out
}

// ObjectOutput formats a single object-file output path, e.g. "-o foo.o" vs "/Fofoo.obj".
func (d Dialect) ObjectOutput(objFile string) []string {
	if d.joined {
		return []string{"/Fo" + objFile}
	}
	return []string{"-o", objFile}
}

// ExecutableOutput formats the final executable/DLL output path.
func (d Dialect) ExecutableOutput(exeFile string) []string {
	if d.joined {
		return []string{"/OUT:" + exeFile}
	}
	return []string{"-o", exeFile}
}

// IncludeSearchDirs formats a list of -I / /I include search directories.
func (d Dialect) IncludeSearchDirs(dirs []string) []string {
	if d.joined {
		return d.formatAll("/I", dirs)
	}
	return d.formatAll("-I", dirs)
}

// LibrarySearchDirs formats a list of -L / /LIBPATH: library search dirs.
func (d Dialect) LibrarySearchDirs(dirs []string) []string {
	if d.joined {
		out := make([]string, 0, len(dirs))
		for _, dir := range dirs {
			out = append(out, fmt.Sprintf("/LIBPATH:%s", dir))
		}
		return out
	}
	return d.formatAll("-L", dirs)
}

// Libraries formats a list of libraries to link against.
func (d Dialect) Libraries(libs []string) []string {
	if d.joined {
		out := make([]string, 0, len(libs))
		for _, lib := range libs {
			if hasSuffixLib(lib) {
				out = append(out, lib)
			} else {
				out = append(out, lib+".lib")
			}
		}
		return out
	}
	return d.formatAll("-l", libs)
}

// LibraryRuntimeSearchDirs formats runtime (rpath) search dirs.
func (d Dialect) LibraryRuntimeSearchDirs(dirs []string) []string {
	if d.joined {
		// MSVC has no rpath concept; runtime search dirs are a no-op there.
		return nil
	}
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, "-Wl,-rpath,"+dir)
	}
	return out
}

// DebugSymbolsOutput formats the MSVC-only /Fd<path> program-database
// argument. POSIX compilers have no equivalent flag; callers should not
// populate this slot at all for a POSIX dialect rather than call this.
func (d Dialect) DebugSymbolsOutput(pdbFile string) []string {
	if d.joined {
		return []string{"/Fd" + pdbFile}
	}
	return nil
}

// LinkerArguments passes raw linker flags through, prefixed for the linker
// driver on POSIX (-Wl,<flag>), passed bare on MSVC (link.exe takes its own
// flags directly, with no equivalent wrapping convention).
func (d Dialect) LinkerArguments(flags []string) []string {
	if d.joined {
		out := make([]string, len(flags))
		copy(out, flags)
		return out
	}
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, "-Wl,"+f)
	}
	return out
}

func hasSuffixLib(s string) bool {
	return len(s) >= 4 && s[len(s)-4:] == ".lib"
}
