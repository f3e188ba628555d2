package cmdtemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialectForProgramSelectsByBasename(t *testing.T) {
	assert.False(t, DialectForProgram("gcc").joined)
	assert.False(t, DialectForProgram("/usr/bin/clang++").joined)
	assert.True(t, DialectForProgram("cl.exe").joined)
	assert.True(t, DialectForProgram(`C:\VC\bin\link.exe`).joined)
}

func TestObjectOutputPosixVsMsvc(t *testing.T) {
	posix := Dialect{joined: false}
	assert.Equal(t, []string{"-o", "foo.o"}, posix.ObjectOutput("foo.o"))

	msvc := Dialect{joined: true}
	assert.Equal(t, []string{"/Fofoo.obj"}, msvc.ObjectOutput("foo.obj"))
}

func TestIncludeSearchDirsPosixVsMsvc(t *testing.T) {
	posix := Dialect{joined: false}
	assert.Equal(t, []string{"-I", "a", "-I", "b"}, posix.IncludeSearchDirs([]string{"a", "b"}))

	msvc := Dialect{joined: true}
	assert.Equal(t, []string{"/Ia", "/Ib"}, msvc.IncludeSearchDirs([]string{"a", "b"}))
}

func TestLibrarySearchDirsMsvcUsesLibpath(t *testing.T) {
	msvc := Dialect{joined: true}
	assert.Equal(t, []string{"/LIBPATH:lib1", "/LIBPATH:lib2"}, msvc.LibrarySearchDirs([]string{"lib1", "lib2"}))
}

func TestLibrariesAppendsDotLibOnMsvcOnly(t *testing.T) {
	msvc := Dialect{joined: true}
	assert.Equal(t, []string{"foo.lib", "bar.lib"}, msvc.Libraries([]string{"foo", "bar.lib"}))

	posix := Dialect{joined: false}
	assert.Equal(t, []string{"-l", "foo", "-l", "bar"}, posix.Libraries([]string{"foo", "bar"}))
}

func TestLibraryRuntimeSearchDirsIsNoopOnMsvc(t *testing.T) {
	msvc := Dialect{joined: true}
	assert.Nil(t, msvc.LibraryRuntimeSearchDirs([]string{"/opt/lib"}))

	posix := Dialect{joined: false}
	assert.Equal(t, []string{"-Wl,-rpath,/opt/lib"}, posix.LibraryRuntimeSearchDirs([]string{"/opt/lib"}))
}

func TestLinkerArgumentsWrapsOnPosixOnly(t *testing.T) {
	posix := Dialect{joined: false}
	assert.Equal(t, []string{"-Wl,--gc-sections"}, posix.LinkerArguments([]string{"--gc-sections"}))

	msvc := Dialect{joined: true}
	assert.Equal(t, []string{"/OPT:REF"}, msvc.LinkerArguments([]string{"/OPT:REF"}))
}

func TestDebugSymbolsOutputIsJoinedOnMsvcAndNilOnPosix(t *testing.T) {
	msvc := Dialect{joined: true}
	assert.Equal(t, []string{"/Fdfoo.pdb"}, msvc.DebugSymbolsOutput("foo.pdb"))

	posix := Dialect{joined: false}
	assert.Nil(t, posix.DebugSymbolsOutput("foo.pdb"))
}
