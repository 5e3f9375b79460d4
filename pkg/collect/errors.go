package collect

import "fmt"

// NoMatchError is returned when the walk finishes without a single matching file.
type NoMatchError struct {
	Extension string
	Root      string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no files with extension %q found under %s", e.Extension, e.Root)
}

// UsageError reports a malformed configuration value.
type UsageError struct {
	Flag   string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid --%s: %s", e.Flag, e.Reason)
}
