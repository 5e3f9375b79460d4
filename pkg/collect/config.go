// File: pkg/collect/config.go
package collect

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Defaults applied when a flag or environment variable is not set.
const (
	DefaultExtension = "java"
	DefaultOutput    = "collected_code.txt"
)

// Arguments holds the configuration options for a collection run.
// It is built once from parsed flags and passed by value, so a running
// Collector never observes changes to it.
type Arguments struct {
	Root             string // Directory to walk. Empty means the working directory.
	Extension        string // Extension to match, without the leading dot.
	Output           string // Destination path for the collected output.
	RemoveEmptyLines bool   // Drop whitespace-only lines from each collected file.
}

// DefaultArguments returns the arguments used when nothing is configured.
func DefaultArguments() Arguments {
	return Arguments{
		Extension: DefaultExtension,
		Output:    DefaultOutput,
	}
}

// Pattern returns the glob every collected file name must match.
func (a Arguments) Pattern() string {
	return "*." + a.Extension
}

// Normalize trims surrounding whitespace and a single leading dot from the extension.
func (a Arguments) Normalize() Arguments {
	a.Extension = strings.TrimPrefix(strings.TrimSpace(a.Extension), ".")
	a.Output = strings.TrimSpace(a.Output)
	return a
}

// Validate reports malformed values as a *UsageError.
func (a Arguments) Validate() error {
	switch {
	case a.Extension == "":
		return &UsageError{Flag: "extension", Reason: "must not be empty"}
	case strings.ContainsRune(a.Extension, '/') || strings.ContainsRune(a.Extension, filepath.Separator):
		return &UsageError{Flag: "extension", Reason: fmt.Sprintf("%q must not contain a path separator", a.Extension)}
	case !doublestar.ValidatePattern(a.Pattern()):
		return &UsageError{Flag: "extension", Reason: fmt.Sprintf("%q is not a valid glob suffix", a.Extension)}
	case a.Output == "":
		return &UsageError{Flag: "output", Reason: "must not be empty"}
	}
	return nil
}

// Resolve returns a copy with Root and Output made absolute against cwd.
func (a Arguments) Resolve(cwd string) Arguments {
	if a.Root == "" {
		a.Root = cwd
	}
	if !filepath.IsAbs(a.Root) {
		a.Root = filepath.Join(cwd, a.Root)
	}
	if !filepath.IsAbs(a.Output) {
		a.Output = filepath.Join(cwd, a.Output)
	}
	a.Root = filepath.Clean(a.Root)
	a.Output = filepath.Clean(a.Output)
	return a
}
