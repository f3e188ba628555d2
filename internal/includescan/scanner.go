// Package includescan computes the transitive header modification-time
// upper bound for a source file, the way the teacher's
// client/includes-collector.go collects dependent includes — except here
// the scan is a plain textual walk, not a shelled-out `cxx -M`, since the
// core has no compiler collaborator of its own (spec §4.2).
package includescan

import (
	"bufio"
	"os"
	"regexp"
	"strings"
	"time"
)

var includeRe = regexp.MustCompile(`^\s*#\s*include\s*(?:"([^"]+)"|<([^>]+)>)`)

// Scanner memoizes resolved include paths and their mtimes across every
// object built in one run, so repeated lookups of a shared header are free.
// Cycles are broken per MaxIncludeMtime call: within one call each file is
// scanned at most once, and every call walks its full include graph.
type Scanner struct {
	resolved map[string]string    // (dirs, include text) -> resolved absolute path ("" => unresolved / system header)
	mtimes   map[string]time.Time // resolved absolute path -> mtime
	visited  map[string]bool      // resolved absolute path -> already walked its own includes in the current call
}

func NewScanner() *Scanner {
	return &Scanner{
		resolved: make(map[string]string),
		mtimes:   make(map[string]time.Time),
		visited:  make(map[string]bool),
	}
}

// MaxIncludeMtime returns the maximum mtime among sourceFile and every
// header transitively reachable from it via #include, searching dirs in
// priority order (module-local first, then global; "." should already be
// present in dirs by the caller so generated build-dir files are findable).
func (s *Scanner) MaxIncludeMtime(sourceFile string, dirs []string) (time.Time, error) {
	sourceAbs, sourceMtime, err := statMtime(sourceFile)
	if err != nil {
		return time.Time{}, err
	}

	max := sourceMtime
	s.visited = make(map[string]bool)
	s.walk(sourceAbs, dirs, &max)
	return max, nil
}

func (s *Scanner) walk(file string, dirs []string, max *time.Time) {
	if s.visited[file] {
		return
	}
	s.visited[file] = true

	f, err := os.Open(file)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := includeRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		includeText := m[1]
		if includeText == "" {
			includeText = m[2]
		}

		resolved, ok := s.resolvedPath(includeText, dirs)
		if !ok {
			// Not found on the search path: treated as a system header, assumed stable.
			continue
		}

		mtime, ok := s.mtimeOf(resolved)
		if !ok {
			continue
		}
		if mtime.After(*max) {
			*max = mtime
		}
		s.walk(resolved, dirs, max)
	}
}

// resolveKey binds the cache entry to both the include text and the exact
// search-dir list: two objects that #include "foo.h" over different
// ForeignIncludeDirs must not share a resolved path just because the first
// resolution happened to be cached under the bare include text.
func resolveKey(includeText string, dirs []string) string {
	return strings.Join(dirs, "\x00") + "\x00\x00" + includeText
}

func (s *Scanner) resolvedPath(includeText string, dirs []string) (string, bool) {
	key := resolveKey(includeText, dirs)
	if resolved, ok := s.resolved[key]; ok {
		return resolved, resolved != ""
	}

	for _, dir := range dirs {
		candidate := joinPath(dir, includeText)
		if _, err := os.Stat(candidate); err == nil {
			s.resolved[key] = candidate
			return candidate, true
		}
	}
	s.resolved[key] = ""
	return "", false
}

func (s *Scanner) mtimeOf(path string) (time.Time, bool) {
	if t, ok := s.mtimes[path]; ok {
		return t, true
	}
	_, mtime, err := statMtime(path)
	if err != nil {
		return time.Time{}, false
	}
	s.mtimes[path] = mtime
	return mtime, true
}

func statMtime(path string) (string, time.Time, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, err
	}
	return path, stat.ModTime(), nil
}

func joinPath(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	if dir[len(dir)-1] == '/' {
		return dir + name
	}
	return dir + "/" + name
}
