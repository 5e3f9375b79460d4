// File: pkg/collect/match.go
package collect

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides whether a file name belongs to the match set.
type Matcher interface {
	Matches(path string) bool
}

// suffixGlob matches the base name of a path against `*.<ext>`.
type suffixGlob struct {
	pattern string
}

// NewMatcher returns a Matcher for files named `*.<extension>`.
// Glob metacharacters in the extension keep their meaning, so "{java,kt}"
// matches both suffixes.
func NewMatcher(extension string) Matcher {
	return suffixGlob{pattern: "*." + extension}
}

func (m suffixGlob) Matches(path string) bool {
	ok, err := doublestar.Match(m.pattern, filepath.Base(path))
	return err == nil && ok
}
