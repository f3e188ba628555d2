package cmdtemplate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestExpandIsDeterministic(t *testing.T) {
	template := Template{
		Program: "gcc",
		Slots: []Slot{
			Lit("-c"),
			Abstract(SourceInput),
			Abstract(ObjectOutput),
			Abstract(IncludeSearchDirs),
		},
	}
	values := SlotValues{
		SourceInput:       {"foo.cpp"},
		ObjectOutput:       {"-o", "foo.o"},
		IncludeSearchDirs: {"-I", "inc"},
	}

	first := Expand(template, values)
	second := Expand(template, values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Expand is not deterministic: %s", diff)
	}

	want := []string{"gcc", "-c", "foo.cpp", "-o", "foo.o", "-I", "inc"}
	assert.Equal(t, want, first)
}

func TestExpandMissingSlotYieldsNoArguments(t *testing.T) {
	template := Template{
		Program: "gcc",
		Slots: []Slot{
			Lit("-c"),
			Abstract(SourceInput),
			Abstract(AdditionalOptions),
		},
	}
	values := SlotValues{
		SourceInput: {"foo.cpp"},
	}

	got := Expand(template, values)
	assert.Equal(t, []string{"gcc", "-c", "foo.cpp"}, got)
}

func TestIsMsvcProgram(t *testing.T) {
	scenarios := []struct {
		program  string
		expected bool
	}{
		{"cl.exe", true},
		{"CL.EXE", true},
		{`C:\VS\bin\link.exe`, true},
		{"gcc", false},
		{"clang++", false},
		{"/usr/bin/gcc", false},
	}

	for _, s := range scenarios {
		assert.Equal(t, s.expected, IsMsvcProgram(s.program), s.program)
	}
}
