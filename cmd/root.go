package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"collector/pkg/collect"
	"collector/pkg/logging"
	"collector/pkg/version"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrHelpRequested is returned by Execute after usage was printed for -h/--help.
var ErrHelpRequested = errors.New("help requested")

type rootOptions struct {
	fs     afero.Fs
	getwd  func() (string, error)
	logger func(debug bool) (*zap.Logger, error)
}

// Option configures the root command.
type Option func(*rootOptions)

// WithFs replaces the filesystem the collector walks and writes to.
func WithFs(fsys afero.Fs) Option {
	return func(o *rootOptions) {
		o.fs = fsys
	}
}

// WithWorkingDir pins the directory relative paths are resolved against.
func WithWorkingDir(dir string) Option {
	return func(o *rootOptions) {
		o.getwd = func() (string, error) { return dir, nil }
	}
}

// WithLogger uses logger instead of building one from the --debug flag.
func WithLogger(logger *zap.Logger) Option {
	return func(o *rootOptions) {
		o.logger = func(bool) (*zap.Logger, error) { return logger, nil }
	}
}

func defaultLogger(debug bool) (*zap.Logger, error) {
	if err := logging.Setup(debug, "collector", version.Version); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logging.Logger, nil
}

// NewRootCmd builds the collector command. The returned flag pointer is set
// once cobra prints help, so callers can turn it into a failing exit.
func NewRootCmd(opts ...Option) (*cobra.Command, *bool) {
	o := &rootOptions{
		fs:     afero.NewOsFs(),
		getwd:  os.Getwd,
		logger: defaultLogger,
	}
	for _, opt := range opts {
		opt(o)
	}

	cmd := &cobra.Command{
		Use:   "collector",
		Short: "Concatenate all files with one extension into a single file",
		Long: heredoc.Doc(`
			collector walks a directory tree, finds every file named *.<extension>
			and writes their contents into one output file. Each file's content is
			preceded by a "[FILE_PATH] <absolute path>" line and followed by an
			empty line.

			The output is staged in a temporary file and only moved into place
			once the whole tree has been collected.

			Every flag can also be set through the environment as COLLECTOR_<FLAG>,
			for example COLLECTOR_EXTENSION=py.
		`),
		Example: `  collector
  collector -e py -o python.txt -r
  collector -e go -d ./src -o /tmp/sources.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vip, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}

			args := argumentsFrom(vip).Normalize()
			if err := args.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			cwd, err := o.getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			args = args.Resolve(cwd)

			logger, err := o.logger(vip.GetBool("debug"))
			if err != nil {
				return err
			}

			res, err := collect.New(o.fs, args, logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Output file: %s\n", res.Output)
			return nil
		},
	}

	configureFlags(cmd)
	cmd.AddCommand(newVersionCmd())

	helpShown := new(bool)
	help := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		*helpShown = true
		help(c, args)
	})

	return cmd, helpShown
}

// Execute runs the root command against the real filesystem.
func Execute(ctx context.Context, opts ...Option) error {
	root, helpShown := NewRootCmd(opts...)
	if err := root.ExecuteContext(ctx); err != nil {
		return err
	}
	if *helpShown {
		return ErrHelpRequested
	}
	return nil
}
