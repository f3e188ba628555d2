package modmgr

import (
	"fmt"

	"cakebuild/internal/pathutil"
)

// WriterDriver invokes the external Writer for each module with the
// output-path settings and shared header/footer snippets. It does not
// synthesize the self-#include preamble itself; the Writer emits that.
type WriterDriver struct {
	Writer       Writer
	BuildDir     string
	SharedHeader string
	SharedFooter string
}

// WriteModule produces module's .cpp/.hpp pair in the build directory. The
// flattening rule (pathutil.FlattenForBuildDir) is injective across the set
// of modules in one build, so no two modules collide on their output name.
func (d *WriterDriver) WriteModule(module *Module) error {
	flattened := pathutil.FlattenForBuildDir(module.CanonicalPath)
	cppPath := d.BuildDir + "/" + flattened + ".cpp"
	hppPath := d.BuildDir + "/" + flattened + ".hpp"

	outputSettings := OutputSettings{
		SourceFileName: module.CanonicalPath,
		CppOutputPath:  cppPath,
		HppOutputPath:  hppPath,
		SharedHeader:   d.SharedHeader,
		SharedFooter:   d.SharedFooter,
	}

	if !d.Writer.WriteGeneratorOutput(module.GeneratorOutput, nil, nil, outputSettings) {
		return fmt.Errorf("%s: writer failed to produce generated output", module.CanonicalPath)
	}

	module.CppOutputPath = cppPath
	module.HppOutputPath = hppPath
	return nil
}

// WriteAll writes every module in store order, the self-#include preamble
// of a module's own generated header being the writer's concern (it
// receives SourceFileName/HppOutputPath and is expected to emit
// `#include "<hppOutputPath>"` as the first line of the .cpp it writes).
func (d *WriterDriver) WriteAll(modules []*Module) error {
	for _, module := range modules {
		if err := d.WriteModule(module); err != nil {
			return err
		}
	}
	return nil
}
