package modmgr

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"cakebuild/internal/pathutil"
)

// ModuleStore owns the set of loaded modules and enforces single-load per
// canonical path, the way the teacher's ClientsStorage owns the set of
// connected clients keyed by clientID (internal/server/clients-storage.go)
// — generalized from a concurrent RWMutex-guarded map (nocc serves many
// clients concurrently) to a plain map here, since module loading in this
// core happens sequentially on the orchestrator thread (spec §5: "no shared
// in-process mutable state accessed from multiple OS threads").
type ModuleStore struct {
	byPath map[string]*Module
	order  []*Module

	tokenizer     Tokenizer
	evaluator     Evaluator
	dynamicLoader DynamicLoader
}

func NewModuleStore(tokenizer Tokenizer, evaluator Evaluator, dynamicLoader DynamicLoader) *ModuleStore {
	return &ModuleStore{
		byPath:        make(map[string]*Module),
		tokenizer:     tokenizer,
		evaluator:     evaluator,
		dynamicLoader: dynamicLoader,
	}
}

// Modules returns every loaded module in registration order — the order
// that determines planning order, argv construction order, and link order
// (spec §5).
func (s *ModuleStore) Modules() []*Module {
	return s.order
}

// AddEvaluateFile canonicalizes path, returning the already-loaded module if
// one matches by canonical-path equality (idempotent load, spec §4.5/§8);
// otherwise it reads, tokenizes and evaluates a new module.
func (s *ModuleStore) AddEvaluateFile(path string) (*Module, error) {
	canonical, err := pathutil.Canonicalize(path)
	if err != nil {
		return nil, err
	}

	if existing, ok := s.byPath[canonical]; ok {
		return existing, nil
	}

	contents, err := readSourceSkippingShebang(canonical)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(contents)) == 0 {
		return nil, fmt.Errorf("%s: empty file", canonical)
	}

	var tokens []interface{}
	for lineNo, line := range strings.Split(contents, "\n") {
		if err := s.tokenizer.TokenizeLine(line, canonical, lineNo+1, &tokens); err != nil {
			return nil, fmt.Errorf("%s:%d: %v", canonical, lineNo+1, err)
		}
	}
	if !s.tokenizer.Validate(tokens) {
		return nil, fmt.Errorf("%s: token validation failed", canonical)
	}

	module := &Module{CanonicalPath: canonical, Tokens: tokens}

	var generatorOutput interface{}
	ctx := EvaluatorContext{Scope: "module", IsRequired: true}
	if errCount := s.evaluator.EvaluateGenerateAll(ctx, tokens, 0, &generatorOutput); errCount > 0 {
		return nil, fmt.Errorf("%s: %d evaluation error(s)", canonical, errCount)
	}
	module.GeneratorOutput = generatorOutput

	s.byPath[canonical] = module
	s.order = append(s.order, module)
	return module, nil
}

// EvaluateResolveReferences delegates to the evaluator once every module is
// loaded, closing forward references across modules (spec §4.5).
func (s *ModuleStore) EvaluateResolveReferences() bool {
	return s.evaluator.ResolveReferences()
}

// Destroy releases per-module state; if keepDynLibs is false, also unloads
// any compile-time dynamic libraries acquired during evaluation.
func (s *ModuleStore) Destroy(keepDynLibs bool) {
	s.evaluator.DestroyInvalidateTokens()
	if !keepDynLibs && s.dynamicLoader != nil {
		s.dynamicLoader.CloseAllDynamicLibraries()
	}
	s.byPath = make(map[string]*Module)
	s.order = nil
}

// readSourceSkippingShebang reads path and drops a leading "#!" line, the
// module preamble rule spec §6 names.
func readSourceSkippingShebang(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first && strings.HasPrefix(line, "#!") {
			first = false
			continue
		}
		first = false
		b.WriteString(line)
		b.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}
