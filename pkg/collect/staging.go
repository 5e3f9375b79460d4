// File: pkg/collect/staging.go
package collect

import (
	"bufio"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// staging accumulates output in a temporary file beside the destination.
// Nothing reaches the destination until commit renames the file into place.
type staging struct {
	fs     afero.Fs
	file   afero.File
	writer *bufio.Writer
	dest   string
	logger *zap.Logger
	closed bool
}

// newStaging creates a hidden temporary file in the directory of dest.
// Staying in the same directory keeps the final rename on one filesystem.
func newStaging(fsys afero.Fs, dest string, logger *zap.Logger) (*staging, error) {
	dir := filepath.Dir(dest)
	file, err := afero.TempFile(fsys, dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		logger.Error("Failed to create staging file", zap.String("dir", dir), zap.Error(err))
		return nil, fmt.Errorf("failed to create staging file in %s: %w", dir, err)
	}
	logger.Debug("Created staging file", zap.String("staging", file.Name()), zap.String("output", dest))

	return &staging{
		fs:     fsys,
		file:   file,
		writer: bufio.NewWriterSize(file, ChunkSize),
		dest:   dest,
		logger: logger,
	}, nil
}

// Name returns the path of the staging file.
func (s *staging) Name() string {
	return s.file.Name()
}

// Write appends to the staging buffer.
func (s *staging) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *staging) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

// commit flushes and closes the staging file, then moves it onto dest.
func (s *staging) commit() error {
	if err := s.writer.Flush(); err != nil {
		s.logger.Error("Failed to flush staging file", zap.String("staging", s.Name()), zap.Error(err))
		return fmt.Errorf("failed to flush staging file: %w", err)
	}
	if err := s.close(); err != nil {
		s.logger.Error("Failed to close staging file", zap.String("staging", s.Name()), zap.Error(err))
		return fmt.Errorf("failed to close staging file: %w", err)
	}
	if err := s.fs.Chmod(s.Name(), OutputPerm); err != nil {
		s.logger.Error("Failed to set output permissions", zap.String("staging", s.Name()), zap.Error(err))
		return fmt.Errorf("failed to set permissions on %s: %w", s.Name(), err)
	}
	if err := s.fs.Rename(s.Name(), s.dest); err != nil {
		s.logger.Error("Failed to move staging file into place",
			zap.String("staging", s.Name()),
			zap.String("output", s.dest),
			zap.Error(err))
		return fmt.Errorf("failed to rename %s to %s: %w", s.Name(), s.dest, err)
	}
	s.logger.Debug("Committed staging file", zap.String("output", s.dest))
	return nil
}

// discard closes and removes the staging file. Safe to call after commit
// fails part way.
func (s *staging) discard() error {
	err := s.close()
	if rmErr := s.fs.Remove(s.Name()); rmErr != nil {
		if exists, _ := afero.Exists(s.fs, s.Name()); exists {
			err = multierr.Append(err, rmErr)
		}
	}
	if err != nil {
		s.logger.Warn("Failed to discard staging file", zap.String("staging", s.Name()), zap.Error(err))
		return fmt.Errorf("failed to discard staging file %s: %w", s.Name(), err)
	}
	s.logger.Debug("Discarded staging file", zap.String("staging", s.Name()))
	return nil
}
