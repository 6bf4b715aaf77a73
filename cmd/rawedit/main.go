package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/rawedit/config"
	"github.com/lixenwraith/rawedit/editor"
	"github.com/lixenwraith/rawedit/render"
	"github.com/lixenwraith/rawedit/terminal"
)

// options holds command-line overrides; zero values mean "use config"
type options struct {
	configPath string
	debug      bool
	timeout    time.Duration
	quitKey    string
}

func main() {
	// Panic Recovery: Ensure terminal is reset even if the editor crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			// Use \r\n in case the restore did not take and OPOST is still off
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mRAWEDIT CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	// ISIG is off in raw mode, so these only arrive from outside the tty
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	terminal.Exit(runMain(ctx, newRootCmd(run), os.Stdout, os.Stderr))
}

// runMain executes cmd and maps the outcome to a process exit status
func runMain(ctx context.Context, cmd *cobra.Command, stdout, stderr io.Writer) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		return fatal(err, stdout, stderr)
	}
	return 0
}

func newRootCmd(runFn func(context.Context, config.Config) error) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "rawedit [flags]",
		Short: "Raw-mode terminal editor shell",
		Long: `rawedit switches the terminal to raw mode and redraws the full screen
after every key press. Arrow keys move the cursor; the quit key (Ctrl-Q by
default) clears the screen and exits.`,
		Example: `  # Start with defaults
  rawedit

  # Quit with Escape and write a debug log to ./logs
  rawedit --quit-key escape -d`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runFn(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to TOML config (default "+config.DefaultPath()+")")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging to the log directory")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", terminal.DefaultReadTimeout, "Input read timeout (VTIME, 100ms granularity)")
	cmd.Flags().StringVar(&opts.quitKey, "quit-key", "ctrl_q", "Key that exits (e.g. ctrl_q, escape, q)")

	return cmd
}

// loadConfig reads the config file and applies flags the user actually set
func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	path, explicit := opts.configPath, opts.configPath != ""
	if !explicit {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Log.Debug = opts.debug
	}
	if flags.Changed("timeout") {
		cfg.InputTimeout.Duration = opts.timeout
	}
	if flags.Changed("quit-key") {
		cfg.QuitKey = opts.quitKey
	}
	return cfg, cfg.Validate()
}

// run owns the terminal from raw mode entry to the end of the editor loop
// Every failure is returned; fatal decides what to clean up
func run(ctx context.Context, cfg config.Config) error {
	if logFile := setupLogging(cfg.Log.Debug, cfg.Log.Dir); logFile != nil {
		terminal.OnExit(func() { logFile.Close() })
	}

	dev := terminal.Stdio()
	if !dev.IsTerminal() {
		return &terminal.Error{Op: terminal.OpNotTTY, Err: terminal.ErrNotTerminal}
	}

	ctl := terminal.NewController(dev.InFd(), cfg.InputTimeout.Duration)
	if err := ctl.Capture(); err != nil {
		return err
	}
	if err := ctl.EnableRaw(); err != nil {
		return err
	}

	rows, cols, err := terminal.ResolveGeometry(dev, dev)
	if err != nil {
		return err
	}
	log.Printf("geometry: %d rows, %d cols", rows, cols)

	st, err := editor.NewState(rows, cols)
	if err != nil {
		return &terminal.Error{Op: terminal.OpWindowSize, Err: err}
	}

	ed := editor.New(dev, st,
		editor.WithQuitKey(cfg.Quit()),
		editor.WithRenderer(&render.Renderer{Marker: cfg.Marker(), MaxFrameBytes: cfg.MaxFrameBytes}),
	)
	return ed.Run(ctx)
}

// fatal is the single exit path for errors: best-effort screen reset,
// terminal restore, diagnostic. Returns the exit status
func fatal(err error, stdout, stderr io.Writer) int {
	if needsReset(err) {
		terminal.ResetScreen(stdout)
	}
	log.Printf("fatal: %v", err)
	terminal.RunExitHooks()

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "rawedit: terminated by signal")
	} else {
		fmt.Fprintf(stderr, "rawedit: %v\n", err)
	}
	return 1
}

// needsReset reports whether err can have left the screen mid-frame
// Config and flag errors happen before anything is drawn
func needsReset(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	op := terminal.Op(err)
	return op != "" && op != terminal.OpNotTTY
}
