// Command aides bundles the Aides-Territoires export tools: two JSON to CSV
// converters and a perimeter downloader.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/giygas/aides-extras/config"
	"github.com/giygas/aides-extras/logging"
	"github.com/giygas/aides-extras/metrics"
	"github.com/spf13/cobra"
)

// app carries what the commands share for one invocation
type app struct {
	cfg         *config.Config
	stderr      io.Writer
	loggerReady bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "aides",
		Short: "Aides-Territoires export tools",
		Long: `Converts Aides-Territoires JSON exports to CSV and downloads the
perimeter list of the Aides-Territoires API.

Configuration is read from the environment and from an optional .env file.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.AddCommand(
		newConvertCmd(),
		newConvertLegacyCmd(),
		newFetchPerimetersCmd(a),
	)
	return root
}

// setup loads the configuration and installs the logger
func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	err = logging.InitLogger(logging.Options{
		Level:          cfg.LogLevel,
		Dir:            cfg.LogDir,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
		Console:        a.stderr,
	})
	a.loggerReady = true
	if err != nil {
		logging.Warn("File logging disabled", "dir", cfg.LogDir, "error", err)
	}

	logging.Debug("Configuration loaded", "env", cfg.Env.String(), "log_level", cfg.LogLevel)
	return nil
}

// finish writes the metrics textfile and closes the log file
func (a *app) finish() {
	if a.cfg != nil {
		if err := metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			logging.Warn("Failed to write metrics", "error", err)
		}
	}
	if a.loggerReady {
		if err := logging.Close(); err != nil {
			fmt.Fprintf(a.stderr, "failed to close log file: %v\n", err)
		}
	}
}

// run executes the command line args and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if len(args) == 0 {
		_ = root.Usage()
		return 1
	}

	err := root.ExecuteContext(ctx)
	a.finish()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
