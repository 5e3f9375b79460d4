// File: pkg/collect/filter.go
package collect

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strings"
)

// isBlankLine reports whether a line holds nothing but whitespace.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// RemoveBlankLines yields the lines that are not blank, unchanged and in order.
func RemoveBlankLines(lines iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range lines {
			if isBlankLine(line) {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// copyNonBlank streams src to dst through RemoveBlankLines.
// Kept lines are written with their original terminator.
func copyNonBlank(dst io.Writer, src io.Reader) (int64, error) {
	var readErr error
	lines := func(yield func(string) bool) {
		reader := bufio.NewReaderSize(src, ChunkSize)
		for {
			line, err := reader.ReadString('\n')
			if line != "" && !yield(line) {
				return
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr = err
				}
				return
			}
		}
	}

	var written int64
	for line := range RemoveBlankLines(lines) {
		n, err := io.WriteString(dst, line)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, readErr
}
