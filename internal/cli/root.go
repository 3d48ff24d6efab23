// Package cli implements the tuiporal command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/atomicstack/tuiporal/internal/app"
	"github.com/atomicstack/tuiporal/internal/config"
	"github.com/atomicstack/tuiporal/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// Exit codes returned by Execute.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Runner starts the dashboard.
type Runner func(ctx context.Context, cfg config.Config) error

// Options configures the root command.
type Options struct {
	Environ []string
	Stdout  io.Writer
	Stderr  io.Writer
	Run     Runner
}

// usageError marks bad flags or values; it maps to ExitUsage.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// NewRootCommand builds the command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Run == nil {
		opts.Run = app.Run
	}
	root := &cobra.Command{
		Use:   "tuiporal",
		Short: "Terminal dashboard for Temporal workflows",
		Long: `tuiporal browses workflow executions, their event histories and
namespaces of a Temporal cluster, and can terminate, cancel or signal
workflows. Connection profiles are read from ~/.tuiporal/config.yaml.`,
		Version:       Version,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.SetVersionTemplate(`{{printf "tuiporal version %s\n" .Version}}`)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	values := config.Bind(root.PersistentFlags(), opts.Environ)
	resolve := func(args []string) (config.Config, error) {
		cfg, err := values.Resolve(args)
		if err != nil {
			return config.Config{}, &usageError{err: err}
		}
		return cfg, nil
	}

	root.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolve(rawArgs(cmd))
		if err != nil {
			return err
		}
		logging.Configure(cfg.Logging.FilePath)
		logging.SetTraceEnabled(cfg.Logging.Trace)
		traceStartup(cfg)
		if err := opts.Run(cmd.Context(), cfg); err != nil {
			logging.Error(err)
			return err
		}
		return nil
	}

	root.AddCommand(
		newProfilesCmd(resolve),
		newAuditCmd(resolve),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, opts Options) int {
	root := NewRootCommand(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	var usage *usageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	return ExitError
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// rawArgs reconstructs the flags set on the command line for tracing.
func rawArgs(cmd *cobra.Command) []string {
	var args []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		args = append(args, "--"+f.Name+"="+f.Value.String())
	})
	return args
}
