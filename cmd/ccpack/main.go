package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ccpack/ccpack/internal/archive2"
	"github.com/ccpack/ccpack/internal/config"
	"github.com/ccpack/ccpack/internal/engine"
	"github.com/ccpack/ccpack/internal/event"
	"github.com/ccpack/ccpack/internal/plugins"
	"github.com/ccpack/ccpack/internal/stats"
	"github.com/ccpack/ccpack/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// cliOptions are the persistent flags shared by every subcommand, resolved
// against the optional config file before a command runs.
type cliOptions struct {
	gameDir     string
	toolPath    string
	pluginsFile string
	ceilingStr  string
	verify      bool
	quiet       bool
	verbose     bool
	logFile     string
}

func run() int {
	var (
		opts        cliOptions
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "ccpack",
		Short: "Merge Creation Club archives into a small merged set, reversibly",
		Long: `ccpack merges the many small Creation Club cc*.ba2 archives in a
Fallout 4 installation into a handful of merged archives, keeping the
game under its plugin and archive limits. Every merge starts with a
full backup, and restore reverts the Data directory to it exactly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "ccpack %s\n", version)
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.gameDir, "game-dir", "g", ".", "game installation root (contains Data)")
	pf.StringVar(&opts.toolPath, "archive2", "", "path to the Archive2 executable (default: <game-dir>/Tools/Archive2/Archive2.exe)")
	pf.StringVar(&opts.pluginsFile, "plugins-file", "", "plugin activation file (default: auto-detect)")
	pf.StringVar(&opts.ceilingStr, "ceiling", "", "uncompressed input limit per texture archive (e.g. 7G)")
	pf.BoolVar(&opts.verify, "verify", false, "verify created archives after packing")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")

	rootCmd.AddCommand(mergeCmd(&opts))
	rootCmd.AddCommand(restoreCmd(&opts))
	rootCmd.AddCommand(checkCmd(&opts))
	rootCmd.AddCommand(docsCmd)

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func mergeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Back up and merge all cc*.ba2 archives in Data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEngine(cmd, opts, engine.Merge)
		},
	}
}

func restoreCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Revert Data to the most recent backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEngine(cmd, opts, engine.Restore)
		},
	}
}

// runEngine wires flags, config file, logging, and the presenter around one
// engine operation. Merge and restore share everything but the operation.
func runEngine(cmd *cobra.Command, opts *cliOptions, op func(context.Context, engine.Config) engine.Result) error {
	fileCfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "error", err)
	}
	applyConfigDefaults(cmd.Flags(), fileCfg.Defaults, opts)

	cleanup, err := configureLogging(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	var ceiling int64
	if opts.ceilingStr != "" {
		ceiling, err = config.ParseSize(opts.ceilingStr)
		if err != nil {
			return fmt.Errorf("invalid --ceiling: %w", err)
		}
	}

	registryPath := opts.pluginsFile
	if registryPath == "" {
		registryPath = plugins.DefaultPath()
	}
	toolPath := opts.toolPath
	if toolPath == "" {
		toolPath = filepath.Join(opts.gameDir, "Tools", "Archive2", "Archive2.exe")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// With --log, tee events through a goroutine that writes structured
	// records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if opts.logFile != "" {
		teed := make(chan event.Event, 256)
		go func() {
			for ev := range events {
				attrs := []slog.Attr{
					slog.String("type", ev.Type.String()),
					slog.String("name", ev.Name),
					slog.Int64("size", ev.Size),
				}
				if ev.Error != nil {
					attrs = append(attrs, slog.String("error", ev.Error.Error()))
				}
				slog.LogAttrs(context.Background(), slog.LevelInfo, "ccpack.event", attrs...)
				teed <- ev
			}
			close(teed)
		}()
		presenterEvents = teed
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Stats:     collector,
		Quiet:     opts.quiet,
		Verbose:   opts.verbose,
	})

	engineCfg := engine.Config{
		GameDir:        opts.gameDir,
		Tool:           archive2.NewRunner(toolPath),
		Registry:       plugins.Registry{Path: registryPath},
		Events:         events,
		Stats:          collector,
		Ceiling:        ceiling,
		VerifyArchives: opts.verify,
	}

	slog.Debug("starting",
		"command", cmd.Name(),
		"game_dir", opts.gameDir,
		"tool", toolPath,
		"registry", registryPath,
	)

	var presenterErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := op(ctx, engineCfg)
	stop()
	close(events)
	wg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
	}

	if !opts.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(os.Stderr, summary)
		}
	}

	if result.Err != nil {
		slog.Error(cmd.Name()+" failed", "error", result.Err)
		var toolErr *archive2.ToolError
		if errors.As(result.Err, &toolErr) {
			fmt.Fprintln(os.Stderr, toolErr.Diagnose())
		}
		return &exitError{code: 1}
	}
	return nil
}

// configureLogging installs the default slog logger: text to stderr at a
// level derived from the verbosity flags, plus JSON to --log when set.
func configureLogging(opts *cliOptions) (func(), error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	cleanup := func() {}
	var handler slog.Handler = textHandler
	if opts.logFile != "" {
		lf, err := os.Create(opts.logFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cleanup = func() { lf.Close() }
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		handler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// applyConfigDefaults applies config file defaults for flags not explicitly
// set on the CLI.
func applyConfigDefaults(flags *pflag.FlagSet, defaults config.DefaultsConfig, opts *cliOptions) {
	if !flags.Changed("game-dir") && defaults.GameDir != nil {
		opts.gameDir = *defaults.GameDir
	}
	if !flags.Changed("archive2") && defaults.Archive2 != nil {
		opts.toolPath = *defaults.Archive2
	}
	if !flags.Changed("plugins-file") && defaults.PluginsFile != nil {
		opts.pluginsFile = *defaults.PluginsFile
	}
	if !flags.Changed("verify") && defaults.Verify != nil {
		opts.verify = *defaults.Verify
	}
	if !flags.Changed("ceiling") && defaults.Ceiling != nil {
		opts.ceilingStr = *defaults.Ceiling
	}
	if !flags.Changed("quiet") && defaults.Quiet != nil {
		opts.quiet = *defaults.Quiet
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
