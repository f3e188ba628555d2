// Package pathutil normalizes, compares and canonicalizes module/source
// paths, and derives build-directory output filenames from them.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Normalize replaces Windows-style separators with '/', so a module's
// identity doesn't depend on which separator the caller used.
func Normalize(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// Canonicalize resolves path to an absolute, cleaned, normalized form. This
// is the identity used for module-store lookups: two input strings that
// canonicalize identically refer to the same module.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return Normalize(filepath.Clean(abs)), nil
}

// SameFile reports whether two paths canonicalize to the same module identity.
func SameFile(a, b string) bool {
	ca, errA := Canonicalize(a)
	cb, errB := Canonicalize(b)
	if errA != nil || errB != nil {
		return false
	}
	return ca == cb
}

// ReplaceExt swaps a file's extension, e.g. ReplaceExt("foo.cake", ".cpp") == "foo.cpp".
func ReplaceExt(fileName string, newExt string) string {
	oldExt := filepath.Ext(fileName)
	return fileName[0:len(fileName)-len(oldExt)] + newExt
}

// FlattenForBuildDir maps a canonical absolute source path to a single,
// build-directory-local file name: the leading separator is dropped, every
// other '/' becomes '_', and '%', '_' and ':' are percent-escaped ("%25",
// "%5F", "%3A"). So "/a/b/c.cake" becomes "a_b_c.cake" and "/a/b_c.cake"
// becomes "a_b%5Fc.cake". Every '_' in the result stands for a separator,
// which keeps the mapping injective across absolute paths.
func FlattenForBuildDir(canonicalSourcePath string) string {
	return flattenReplacer.Replace(strings.TrimPrefix(canonicalSourcePath, "/"))
}

var flattenReplacer = strings.NewReplacer("%", "%25", "_", "%5F", ":", "%3A", "/", "_")

// DeriveObjectPath computes the absolute object-file path for a source file
// compiled into buildDir, e.g. "/proj/a/b.c" -> "<buildDir>/proj_a_b.c.o".
func DeriveObjectPath(buildDir string, sourcePath string) string {
	return filepath.Join(buildDir, FlattenForBuildDir(sourcePath)+".o")
}

// BuildDirForLabels derives the single per-configuration build directory
// from cacheRoot and an ordered list of configuration labels. With no
// labels, the directory is "<cacheRoot>/default"; label order is
// significant ("Debug-HotReload" != "HotReload-Debug").
func BuildDirForLabels(cacheRoot string, labels []string) string {
	if len(labels) == 0 {
		return filepath.Join(cacheRoot, "default")
	}
	return filepath.Join(cacheRoot, strings.Join(labels, "-"))
}

// UniqueAppend appends value to list iff it isn't already present
// (first-seen order preserved), the de-duplication rule spec §4.7 step 4
// requires for link contributions.
func UniqueAppend(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
