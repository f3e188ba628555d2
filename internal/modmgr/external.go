package modmgr

// The interfaces below are the external collaborators spec §6 names: the
// tokenizer, evaluator, writer and dynamic loader that populate and
// serialize a module's generated output. This package treats them as
// opaque plug-ins — it never parses the source language, defines the
// compiler's command set, or provides an in-process compile API (spec §1
// Non-goals). A real language front-end implements these; see
// internal/langdefault for a minimal stand-in used by tests and the CLI's
// smoke-test mode.

// Tokenizer turns one source line into tokens, appended to outTokens.
type Tokenizer interface {
	TokenizeLine(line string, fileName string, lineNo int, outTokens *[]interface{}) error
	Validate(tokens []interface{}) bool
}

// EvaluatorContext marks the scope an evaluation runs under ("module scope,
// required" for a freshly loaded module, per spec §4.5).
type EvaluatorContext struct {
	Scope      string
	IsRequired bool
}

// Evaluator generates a module's output tree from its tokens, and later
// resolves forward references once every module is loaded.
type Evaluator interface {
	EvaluateGenerateAll(ctx EvaluatorContext, tokens []interface{}, startIndex int, outGeneratorOutput *interface{}) (errorCount int)
	ResolveReferences() bool
	DestroyInvalidateTokens()
}

// OutputSettings names where a module's generated source/header pair goes,
// plus shared preamble snippets (spec §4.6).
type OutputSettings struct {
	SourceFileName   string
	CppOutputPath    string
	HppOutputPath    string
	SharedHeader     string
	SharedFooter     string
}

// Writer serializes a module's generated output tree to its .cpp/.hpp pair.
type Writer interface {
	WriteGeneratorOutput(output interface{}, nameSettings interface{}, formatSettings interface{}, outputSettings OutputSettings) bool
}

// DynamicLoader manages compile-time extension libraries loaded during
// evaluation; out of scope beyond this lifecycle hook (spec §1, §4.5).
type DynamicLoader interface {
	CloseAllDynamicLibraries()
}
