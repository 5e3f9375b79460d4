package collect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Collector concatenates every file under Arguments.Root whose name matches
// `*.<Arguments.Extension>` into Arguments.Output.
type Collector struct {
	fs      afero.Fs
	args    Arguments
	matcher Matcher
	logger  *zap.Logger
}

// New returns a Collector. args must already be resolved to absolute paths.
func New(fsys afero.Fs, args Arguments, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		fs:      fsys,
		args:    args,
		matcher: NewMatcher(args.Extension),
		logger:  logger,
	}
}

// Run walks the root, writes one block per matching file into a staging
// file and moves it onto the output path. With no matches it returns a
// *NoMatchError and leaves the output path untouched. On any failure the
// staging file is removed.
func (c *Collector) Run(ctx context.Context) (res Result, err error) {
	startTime := time.Now()
	c.logger.Info("Starting collection",
		zap.String("root", c.args.Root),
		zap.String("pattern", c.args.Pattern()),
		zap.String("output", c.args.Output),
		zap.Bool("removeEmptyLines", c.args.RemoveEmptyLines))

	stage, err := newStaging(c.fs, c.args.Output, c.logger)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, stage.discard())
		}
	}()

	var files []string
	for path, walkErr := range Matches(c.fs, c.args.Root, c.matcher, []string{stage.Name()}, c.logger) {
		if walkErr != nil {
			return Result{}, fmt.Errorf("failed to walk %s: %w", c.args.Root, walkErr)
		}
		if err := ctx.Err(); err != nil {
			c.logger.Warn("Collection interrupted", zap.Int("collectedFiles", len(files)), zap.Error(err))
			return Result{}, err
		}
		if err := c.appendFile(stage, path); err != nil {
			return Result{}, err
		}
		files = append(files, path)
	}

	if len(files) == 0 {
		c.logger.Warn("No files matched", zap.String("root", c.args.Root), zap.String("pattern", c.args.Pattern()))
		return Result{}, &NoMatchError{Extension: c.args.Extension, Root: c.args.Root}
	}

	if err := ctx.Err(); err != nil {
		c.logger.Warn("Collection interrupted before commit", zap.Error(err))
		return Result{}, err
	}
	if err := stage.commit(); err != nil {
		return Result{}, err
	}

	c.logger.Info("Collection completed",
		zap.String("output", c.args.Output),
		zap.Int("totalFiles", len(files)),
		zap.Duration("elapsed", time.Since(startTime)))
	return Result{Output: c.args.Output, Files: files}, nil
}

// appendFile writes the marker line, the content and the separator for path.
func (c *Collector) appendFile(w io.Writer, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		c.logger.Warn("Failed to resolve absolute path, using walk path", zap.String("filePath", path), zap.Error(err))
		absPath = path
	}

	if _, err := io.WriteString(w, MarkerTag+absPath+"\n"); err != nil {
		c.logger.Error("Failed to write marker line", zap.String("filePath", absPath), zap.Error(err))
		return fmt.Errorf("failed to write marker for %s: %w", absPath, err)
	}

	src, err := c.fs.Open(path)
	if err != nil {
		c.logger.Error("Failed to open file", zap.String("filePath", path), zap.Error(err))
		return fmt.Errorf("error reading file %s: %w", path, err)
	}
	defer src.Close()

	var n int64
	if c.args.RemoveEmptyLines {
		n, err = copyNonBlank(w, src)
	} else {
		n, err = io.Copy(w, src)
	}
	if err != nil {
		c.logger.Error("Failed to copy file content", zap.String("filePath", path), zap.Error(err))
		return fmt.Errorf("error reading file %s: %w", path, err)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write separator after %s: %w", absPath, err)
	}

	c.logger.Debug("Collected file", zap.String("filePath", absPath), zap.Int64("contentSizeBytes", n))
	return nil
}

// IsNoMatch reports whether err is a *NoMatchError.
func IsNoMatch(err error) bool {
	var noMatch *NoMatchError
	return errors.As(err, &noMatch)
}
