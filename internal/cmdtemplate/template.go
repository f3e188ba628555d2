// Package cmdtemplate turns an abstract (program, slots) command template
// plus slot values into a concrete argv, the way server.PrepareServerCompilerCmdLine
// builds a compiler invocation from compilerArgs/compilerIDirs in the teacher
// repo — except here the template is declarative instead of hand-assembled
// per call site, since the same template drives compile, link and precompile
// commands for whichever host-compiler family the environment is configured
// with.
package cmdtemplate

import "strings"

// SlotKind identifies one abstract argument position. A slot kind may
// appear at most once per Template: it names a position, not a tag.
type SlotKind int

const (
	SourceInput SlotKind = iota
	ObjectOutput
	DebugSymbolsOutput
	IncludeSearchDirs
	AdditionalOptions
	ObjectInput
	ExecutableOutput
	LibrarySearchDirs
	Libraries
	LibraryRuntimeSearchDirs
	LinkerArguments
	CakelispHeadersInclude
	PrecompiledHeaderInclude
	PrecompiledHeaderOutput
	DynamicLibraryOutput
	ImportLibraries
	ImportLibraryPaths
	CompilerLinkFlags
)

// Slot is one template position: either a literal string or an abstract
// slot kind to be filled in from SlotValues at expansion time.
type Slot struct {
	Literal string
	Kind    SlotKind
	IsSlot  bool // false => Literal is emitted verbatim; true => Kind is looked up
}

func Lit(s string) Slot             { return Slot{Literal: s} }
func Abstract(kind SlotKind) Slot   { return Slot{Kind: kind, IsSlot: true} }

// Template is an ordered list of slots for one program invocation.
type Template struct {
	Program string
	Slots   []Slot
}

// SlotValues supplies zero or more concrete arguments per abstract slot
// kind. A kind referenced by the template but absent here expands to zero
// arguments — not an error, per spec §4.1.
type SlotValues map[SlotKind][]string

// Expand produces argv = [program, ...expanded slots...], pure and
// order-preserving for a given (template, slotValues) pair: this purity is
// what the build cache's CRC identity depends on.
func Expand(template Template, values SlotValues) []string {
	argv := make([]string, 0, len(template.Slots)+1)
	argv = append(argv, template.Program)
	for _, slot := range template.Slots {
		if !slot.IsSlot {
			argv = append(argv, slot.Literal)
			continue
		}
		argv = append(argv, values[slot.Kind]...)
	}
	return argv
}

// IsMsvcProgram reports whether program's basename case-insensitively
// matches one of the MSVC-family tools (cl.exe / link.exe). Dialect
// selection is by program name, not host OS, so cross-dialect invocation
// (e.g. driving cl.exe from a Linux orchestrator for testing) stays correct.
func IsMsvcProgram(program string) bool {
	base := basename(program)
	lower := strings.ToLower(base)
	return lower == "cl.exe" || lower == "link.exe"
}

func basename(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx != -1 {
		return path[idx+1:]
	}
	return path
}
