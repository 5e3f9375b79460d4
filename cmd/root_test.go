package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"collector/pkg/collect"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type cmdResult struct {
	err       error
	stdout    string
	stderr    string
	helpShown bool
}

func runRoot(t *testing.T, fsys afero.Fs, args ...string) cmdResult {
	t.Helper()
	root, helpShown := NewRootCmd(
		WithFs(fsys),
		WithWorkingDir("/home/u/proj"),
		WithLogger(zaptest.NewLogger(t)),
	)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return cmdResult{err: err, stdout: stdout.String(), stderr: stderr.String(), helpShown: *helpShown}
}

func projectFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/home/u/proj/a.txt", []byte("hello\n\nworld\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/home/u/proj/b.txt", []byte("foo\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/home/u/proj/Main.java", []byte("class Main {}\n"), 0o644))
	return fsys
}

func TestRoot_relativeOutput(t *testing.T) {
	fsys := projectFs(t)

	res := runRoot(t, fsys, "-e", "txt", "-o", "out.txt")
	require.NoError(t, res.err)

	assert.Equal(t, "Output file: /home/u/proj/out.txt\n", res.stdout)
	data, err := afero.ReadFile(fsys, "/home/u/proj/out.txt")
	require.NoError(t, err)
	assert.Equal(t,
		"[FILE_PATH] /home/u/proj/a.txt\nhello\n\nworld\n\n[FILE_PATH] /home/u/proj/b.txt\nfoo\n\n",
		string(data))
}

func TestRoot_removeEmptyLines(t *testing.T) {
	fsys := projectFs(t)

	res := runRoot(t, fsys, "-e", "txt", "-r", "-o", "/tmp/out.txt")
	require.NoError(t, res.err)

	data, err := afero.ReadFile(fsys, "/tmp/out.txt")
	require.NoError(t, err)
	assert.Contains(t, string(data), "[FILE_PATH] /home/u/proj/a.txt\nhello\nworld\n\n")
}

func TestRoot_defaults(t *testing.T) {
	fsys := projectFs(t)

	res := runRoot(t, fsys)
	require.NoError(t, res.err)

	assert.Equal(t, "Output file: /home/u/proj/collected_code.txt\n", res.stdout)
	data, err := afero.ReadFile(fsys, "/home/u/proj/collected_code.txt")
	require.NoError(t, err)
	assert.Equal(t, "[FILE_PATH] /home/u/proj/Main.java\nclass Main {}\n\n", string(data))
}

func TestRoot_environment(t *testing.T) {
	fsys := projectFs(t)
	t.Setenv("COLLECTOR_EXTENSION", "txt")
	t.Setenv("COLLECTOR_REMOVE_EMPTY_LINES", "true")
	t.Setenv("COLLECTOR_OUTPUT", "env.txt")

	res := runRoot(t, fsys)
	require.NoError(t, res.err)
	assert.Equal(t, "Output file: /home/u/proj/env.txt\n", res.stdout)

	data, err := afero.ReadFile(fsys, "/home/u/proj/env.txt")
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello\nworld\n")
}

func TestRoot_flagOverridesEnvironment(t *testing.T) {
	fsys := projectFs(t)
	t.Setenv("COLLECTOR_EXTENSION", "txt")

	res := runRoot(t, fsys, "-e", "java", "-o", "out.txt")
	require.NoError(t, res.err)

	data, err := afero.ReadFile(fsys, "/home/u/proj/out.txt")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "a.txt")
	assert.Contains(t, string(data), "Main.java")
}

func TestRoot_noMatch(t *testing.T) {
	fsys := projectFs(t)

	res := runRoot(t, fsys, "-e", "py")
	require.Error(t, res.err)
	assert.True(t, collect.IsNoMatch(res.err))
	assert.Contains(t, res.stderr, `"py"`)
	assert.NotContains(t, res.stdout, "Usage:")

	exists, err := afero.Exists(fsys, "/home/u/proj/collected_code.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRoot_dir(t *testing.T) {
	fsys := projectFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/srv/lib/x.go", []byte("package x\n"), 0o644))

	res := runRoot(t, fsys, "-d", "/srv", "-e", "go", "-o", "go.txt")
	require.NoError(t, res.err)

	data, err := afero.ReadFile(fsys, "/home/u/proj/go.txt")
	require.NoError(t, err)
	assert.Equal(t, "[FILE_PATH] /srv/lib/x.go\npackage x\n\n", string(data))
}

func TestRoot_help(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"--help"}} {
		res := runRoot(t, projectFs(t), args...)
		require.NoError(t, res.err)
		assert.True(t, res.helpShown)
		assert.Contains(t, res.stdout, "Usage:")
		assert.Contains(t, res.stdout, "--extension")
	}
}

func TestRoot_helpExamplesIndented(t *testing.T) {
	res := runRoot(t, projectFs(t), "-h")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Examples:\n  collector\n  collector -e py -o python.txt -r\n")
}

func TestExecute_helpRequested(t *testing.T) {
	old := os.Args
	t.Cleanup(func() { os.Args = old })

	for _, flag := range []string{"-h", "--help"} {
		os.Args = []string{"collector", flag}
		err := Execute(context.Background(), WithFs(afero.NewMemMapFs()), WithLogger(zaptest.NewLogger(t)))
		assert.ErrorIs(t, err, ErrHelpRequested)
	}

	os.Args = []string{"collector", "-x"}
	err := Execute(context.Background(), WithFs(afero.NewMemMapFs()), WithLogger(zaptest.NewLogger(t)))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrHelpRequested)
}

func TestRoot_usageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown_flag", []string{"-x"}},
		{"missing_flag_value", []string{"-e"}},
		{"positional_argument", []string{"stray"}},
		{"empty_extension", []string{"-e", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := projectFs(t)
			res := runRoot(t, fsys, tt.args...)
			require.Error(t, res.err)
			assert.False(t, res.helpShown)

			exists, err := afero.Exists(fsys, "/home/u/proj/collected_code.txt")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestRoot_usageErrorPrintsUsage(t *testing.T) {
	res := runRoot(t, projectFs(t), "-e", "")
	require.Error(t, res.err)

	var usageErr *collect.UsageError
	require.True(t, errors.As(res.err, &usageErr))
	assert.Equal(t, "extension", usageErr.Flag)
	assert.Contains(t, res.stdout+res.stderr, "Usage:")
}

func TestVersion(t *testing.T) {
	res := runRoot(t, afero.NewMemMapFs(), "version", "--short")
	require.NoError(t, res.err)
	assert.Equal(t, "dev\n", res.stdout)

	res = runRoot(t, afero.NewMemMapFs(), "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "collector version dev")
}
