// File: pkg/collect/traversal.go
package collect

import (
	"errors"
	"iter"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// errStopWalk unwinds afero.Walk once the consumer stops iterating.
var errStopWalk = errors.New("walk stopped")

// Matches walks root and yields the path of every regular file accepted by
// matcher, in walk order. Paths in skip are never yielded.
//
// Each range over the sequence starts a fresh walk.
// A walk error is yielded once with an empty path and ends the sequence.
func Matches(fsys afero.Fs, root string, matcher Matcher, skip []string, logger *zap.Logger) iter.Seq2[string, error] {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[filepath.Clean(p)] = struct{}{}
	}

	return func(yield func(string, error) bool) {
		logger.Debug("Starting file traversal", zap.String("root", root))

		err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				logger.Error("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			if _, ok := skipped[filepath.Clean(path)]; ok {
				logger.Debug("Skipping staging file during traversal", zap.String("filePath", path))
				return nil
			}
			if !matcher.Matches(path) {
				return nil
			}

			logger.Debug("Matched file during traversal", zap.String("filePath", path))
			if !yield(path, nil) {
				return errStopWalk
			}
			return nil
		})

		if err != nil && !errors.Is(err, errStopWalk) {
			yield("", err)
		}
	}
}
