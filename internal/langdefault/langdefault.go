// Package langdefault is a minimal stand-in for the tokenizer, evaluator and
// writer spec §6 treats as external collaborators. It exists only so this
// repository's tests and CLI smoke mode can exercise modmgr end-to-end
// without a real source-language front end; a production deployment is
// expected to supply its own implementations of modmgr.Tokenizer,
// modmgr.Evaluator and modmgr.Writer.
//
// Its "language" is intentionally trivial: every non-blank, non-comment
// line becomes one token, and the generator output is just the token list
// echoed back — there is no expression evaluation, matching spec §1's
// Non-goal that the core itself never parses the source language.
package langdefault

import (
	"fmt"
	"strings"

	"cakebuild/internal/common"
	"cakebuild/internal/modmgr"
)

// Token is the unit langdefault's tokenizer produces.
type Token struct {
	Contents string
	FileName string
	Line     int
}

// Tokenizer implements modmgr.Tokenizer.
type Tokenizer struct{}

func (Tokenizer) TokenizeLine(line string, fileName string, lineNo int, outTokens *[]interface{}) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, ";") {
		return nil
	}
	*outTokens = append(*outTokens, Token{Contents: trimmed, FileName: fileName, Line: lineNo})
	return nil
}

func (Tokenizer) Validate(tokens []interface{}) bool {
	return true
}

// GeneratorOutput is the trivial IR langdefault's evaluator produces: the
// token text, ready to be echoed into a comment in the generated .cpp.
type GeneratorOutput struct {
	Lines []string
}

// Evaluator implements modmgr.Evaluator. It does not resolve cross-module
// references (there's nothing to resolve in this trivial language), so
// ResolveReferences is a no-op that always succeeds.
type Evaluator struct{}

func (Evaluator) EvaluateGenerateAll(ctx modmgr.EvaluatorContext, tokens []interface{}, startIndex int, outGeneratorOutput *interface{}) int {
	output := &GeneratorOutput{}
	for _, t := range tokens[startIndex:] {
		if tok, ok := t.(Token); ok {
			output.Lines = append(output.Lines, tok.Contents)
		}
	}
	*outGeneratorOutput = output
	return 0
}

func (Evaluator) ResolveReferences() bool { return true }

func (Evaluator) DestroyInvalidateTokens() {}

// Writer implements modmgr.Writer, emitting a .cpp that self-#includes its
// own .hpp, then the shared header, every source line commented out, and the
// shared footer; the .hpp holds only "#pragma once".
type Writer struct{}

func (Writer) WriteGeneratorOutput(output interface{}, nameSettings interface{}, formatSettings interface{}, outputSettings modmgr.OutputSettings) bool {
	gen, ok := output.(*GeneratorOutput)
	if !ok {
		return false
	}

	var cpp strings.Builder
	fmt.Fprintf(&cpp, "#include \"%s\"\n", outputSettings.HppOutputPath)
	if outputSettings.SharedHeader != "" {
		cpp.WriteString(outputSettings.SharedHeader)
		cpp.WriteByte('\n')
	}
	for _, line := range gen.Lines {
		fmt.Fprintf(&cpp, "// %s\n", line)
	}
	if outputSettings.SharedFooter != "" {
		cpp.WriteString(outputSettings.SharedFooter)
		cpp.WriteByte('\n')
	}

	var hpp strings.Builder
	hpp.WriteString("#pragma once\n")

	if err := common.WriteFile(outputSettings.CppOutputPath, []byte(cpp.String())); err != nil {
		return false
	}
	if err := common.WriteFile(outputSettings.HppOutputPath, []byte(hpp.String())); err != nil {
		return false
	}
	return true
}

// DynamicLoader implements modmgr.DynamicLoader with no-op behavior: this
// default language never loads compile-time extensions.
type DynamicLoader struct{}

func (DynamicLoader) CloseAllDynamicLibraries() {}
