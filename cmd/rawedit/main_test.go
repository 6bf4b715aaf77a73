package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/rawedit/config"
	"github.com/lixenwraith/rawedit/input"
	"github.com/lixenwraith/rawedit/terminal"
)

// testCmd builds the root command around runFn, isolated from the user's config
func testCmd(t *testing.T, runFn func(context.Context, config.Config) error, args ...string) *cobra.Command {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd(runFn)
	cmd.SetArgs(args)
	return cmd
}

// execute runs the root command with args and returns the config handed to run
func execute(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	var got config.Config
	cmd := testCmd(t, func(_ context.Context, cfg config.Config) error {
		got = cfg
		return nil
	}, args...)
	err := cmd.ExecuteContext(context.Background())
	return got, err
}

func TestRootCmd_Defaults(t *testing.T) {
	cfg, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestRootCmd_FlagOverrides(t *testing.T) {
	cfg, err := execute(t, "--timeout", "200ms", "--quit-key", "escape", "-d")
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, cfg.InputTimeout.Duration)
	assert.Equal(t, input.KeyEscape, cfg.Quit())
	assert.True(t, cfg.Log.Debug)
}

func TestRootCmd_ConfigFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rawedit.toml")
	require.NoError(t, os.WriteFile(path, []byte("quit_key = \"ctrl_x\"\nrow_marker = \"#\"\n"), 0o644))

	cfg, err := execute(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, input.CtrlKey('x'), cfg.Quit())
	assert.Equal(t, byte('#'), cfg.Marker())

	// Flag wins over file
	cfg, err = execute(t, "-c", path, "--quit-key", "q")
	require.NoError(t, err)
	assert.Equal(t, input.Literal('q'), cfg.Quit())
	assert.Equal(t, byte('#'), cfg.Marker())
}

func TestRootCmd_Errors(t *testing.T) {
	_, err := execute(t, "--quit-key", "hyper_q")
	assert.ErrorContains(t, err, "quit_key")

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = execute(t, "file.txt")
	assert.Error(t, err)
}

func TestNeedsReset(t *testing.T) {
	assert.True(t, needsReset(&terminal.Error{Op: terminal.OpRead, Err: errors.New("EIO")}))
	assert.True(t, needsReset(&terminal.Error{Op: terminal.OpWindowSize, Err: terminal.ErrBadCursorReport}))
	assert.True(t, needsReset(context.Canceled))
	assert.False(t, needsReset(&terminal.Error{Op: terminal.OpNotTTY, Err: terminal.ErrNotTerminal}))
	assert.False(t, needsReset(errors.New("unknown quit_key")))
}

func TestRunMain_QuitExitsZero(t *testing.T) {
	terminal.RunExitHooks()

	var out, errOut bytes.Buffer
	cmd := testCmd(t, func(context.Context, config.Config) error { return nil })

	assert.Equal(t, 0, runMain(context.Background(), cmd, &out, &errOut))
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestRunMain_FatalOrder(t *testing.T) {
	terminal.RunExitHooks()
	defer terminal.RunExitHooks()

	// stdout, hooks and stderr share one trace so ordering is visible
	var trace bytes.Buffer
	terminal.OnExit(func() { trace.WriteString("<restore>") })

	cmd := testCmd(t, func(context.Context, config.Config) error {
		return &terminal.Error{Op: terminal.OpRead, Err: errors.New("input/output error")}
	})

	code := runMain(context.Background(), cmd, &trace, &trace)
	assert.Equal(t, 1, code)
	assert.Equal(t, "\x1b[2J\x1b[H\x1b[?25h"+"<restore>"+"rawedit: read: input/output error\n", trace.String())
}

func TestRunMain_SignalCancel(t *testing.T) {
	terminal.RunExitHooks()

	var out, errOut bytes.Buffer
	cmd := testCmd(t, func(ctx context.Context, _ config.Config) error {
		<-ctx.Done()
		return ctx.Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 1, runMain(ctx, cmd, &out, &errOut))
	assert.Equal(t, "\x1b[2J\x1b[H\x1b[?25h", out.String())
	assert.Equal(t, "rawedit: terminated by signal\n", errOut.String())
}

func TestRunMain_ConfigErrorSkipsReset(t *testing.T) {
	terminal.RunExitHooks()

	var out, errOut bytes.Buffer
	ran := false
	cmd := testCmd(t, func(context.Context, config.Config) error {
		ran = true
		return nil
	}, "--quit-key", "hyper_q")

	assert.Equal(t, 1, runMain(context.Background(), cmd, &out, &errOut))
	assert.False(t, ran)
	assert.Empty(t, out.String(), "nothing was drawn, nothing to reset")
	assert.Contains(t, errOut.String(), "rawedit: unknown quit_key")
}

func TestRunMain_NotTerminalSkipsReset(t *testing.T) {
	terminal.RunExitHooks()

	var out, errOut bytes.Buffer
	cmd := testCmd(t, func(context.Context, config.Config) error {
		return &terminal.Error{Op: terminal.OpNotTTY, Err: terminal.ErrNotTerminal}
	})

	assert.Equal(t, 1, runMain(context.Background(), cmd, &out, &errOut))
	assert.Empty(t, out.String())
	assert.Equal(t, "rawedit: isatty: stdin is not a terminal\n", errOut.String())
}
