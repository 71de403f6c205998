package scanner

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultPackagePatterns match directories that are presented to users as a
// single document. Their contents are not enumerated.
var DefaultPackagePatterns = []string{
	"*.app",
	"*.bundle",
	"*.framework",
	"*.kext",
	"*.plugin",
	"*.pkg",
	"*.photoslibrary",
	"*.musiclibrary",
	"*.sparsebundle",
	"*.rtfd",
	"*.pages",
	"*.numbers",
	"*.key",
	"*.xcodeproj",
	"*.xcworkspace",
}

// Filter decides which entries take part in a scan
type Filter struct {
	packages []glob.Glob
	excludes []glob.Glob
}

// NewFilter compiles package patterns (matched against lower-cased directory
// names) and exclude patterns (matched against slash separated relative paths). A nil
// packages slice selects DefaultPackagePatterns.
func NewFilter(packages, excludes []string) (*Filter, error) {
	if packages == nil {
		packages = DefaultPackagePatterns
	}

	f := &Filter{}
	var err error
	if f.packages, err = compile(packages, nil); err != nil {
		return nil, err
	}
	if f.excludes, err = compile(excludes, []rune{'/'}); err != nil {
		return nil, err
	}
	return f, nil
}

func compile(patterns []string, separators []rune) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, separators...)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// IsHiddenName reports whether a name follows the dot-file convention
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

// IsPackage reports whether a directory name is a bundle-like package
func (f *Filter) IsPackage(name string) bool {
	if f == nil {
		return false
	}
	lower := strings.ToLower(name)
	for _, g := range f.packages {
		if g.Match(lower) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether a relative path, or its final element, matches
// an exclude pattern
func (f *Filter) IsExcluded(relPath string) bool {
	if f == nil {
		return false
	}
	name := relPath
	if i := strings.LastIndexByte(relPath, '/'); i >= 0 {
		name = relPath[i+1:]
	}
	for _, g := range f.excludes {
		if g.Match(relPath) || g.Match(name) {
			return true
		}
	}
	return false
}
