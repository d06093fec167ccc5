// Command up-harness validates a planning solver executable against the
// reference problem corpus.
//
// The solver is launched once per problem instance:
//
//	<executable> --address <addr> --file-path <problem>
//
// Instances run strictly in order and the run halts at the first instance
// that does not produce a plan. Exit status is 0 when every instance passes,
// 1 otherwise.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/upf-go/sdk/harness"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath    string
		executable    string
		address       string
		problemsDir   string
		extension     string
		instances     []string
		timeout       time.Duration
		buildCommand  []string
		buildArtifact string
		buildTarget   string
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "up-harness",
		Short: "Validate a planning solver against the reference problem corpus",
		Long: `up-harness drives a solver executable through a fixed corpus of planning
problems, one instance at a time and strictly in order. The first instance
the solver cannot plan for halts the run and fails it.

Example:
  up-harness --executable ./bin/up-server --problems-dir ./problems
  up-harness --config harness.yaml`,
		Version: version,
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			cfg, err := resolveConfig(configPath, fileOverrides{
				executable:    executable,
				address:       address,
				problemsDir:   problemsDir,
				extension:     extension,
				instances:     instances,
				timeout:       timeout,
				buildCommand:  buildCommand,
				buildArtifact: buildArtifact,
			})
			if err != nil {
				return err
			}
			cfg.BuildTarget = buildTarget
			cfg.Logger = logger

			h, err := harness.New(cfg)
			if err != nil {
				return err
			}

			report, err := h.Run(ctx)
			printReport(cmd.OutOrStdout(), report)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML run configuration file")
	cmd.Flags().StringVarP(&executable, "executable", "e", "", "solver executable to validate")
	cmd.Flags().StringVarP(&address, "address", "a", "", "endpoint address passed to the solver (default "+harness.DefaultAddress+")")
	cmd.Flags().StringVarP(&problemsDir, "problems-dir", "p", "", "directory holding serialized problem files")
	cmd.Flags().StringVar(&extension, "extension", "", "problem file extension (default .bin)")
	cmd.Flags().StringSliceVar(&instances, "instances", nil, "instance names to run, in order (default: full reference corpus)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-instance solve timeout (0 = none)")
	cmd.Flags().StringSliceVar(&buildCommand, "build-command", nil, "build command to run before validation")
	cmd.Flags().StringVar(&buildArtifact, "build-artifact", "", "executable the build command produces")
	cmd.Flags().StringVar(&buildTarget, "build-target", "", "target name appended to the build command")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

// fileOverrides carries flag values that override the config file.
type fileOverrides struct {
	executable    string
	address       string
	problemsDir   string
	extension     string
	instances     []string
	timeout       time.Duration
	buildCommand  []string
	buildArtifact string
}

func resolveConfig(configPath string, o fileOverrides) (harness.Config, error) {
	fc := harness.FileConfig{}
	if configPath != "" {
		loaded, err := harness.LoadFile(configPath)
		if err != nil {
			return harness.Config{}, err
		}
		fc = loaded
	}

	if o.executable != "" {
		fc.Executable = o.executable
	}
	if o.address != "" {
		fc.Address = o.address
	}
	if o.problemsDir != "" {
		fc.ProblemsDir = o.problemsDir
	}
	if o.extension != "" {
		fc.Extension = o.extension
	}
	if len(o.instances) > 0 {
		fc.Instances = o.instances
	}
	if o.timeout > 0 {
		fc.Timeout = o.timeout.String()
	}
	if len(o.buildCommand) > 0 {
		fc.BuildCommand = o.buildCommand
	}
	if o.buildArtifact != "" {
		fc.BuildArtifact = o.buildArtifact
	}

	return fc.Config()
}

func printReport(w io.Writer, report *harness.Report) {
	if report == nil {
		return
	}
	for _, r := range report.Results {
		mark := "PASS"
		if !r.Outcome.Success() {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "%s  %-45s %-12s %s\n", mark, r.Instance, r.Outcome.Status, r.Duration.Round(time.Millisecond))
	}
	if report.Failed != nil {
		fmt.Fprintf(w, "\nrun %s failed at %q", report.RunID, report.Failed.Instance)
		if report.Failed.Command != "" {
			fmt.Fprintf(w, "\n  command: %s", report.Failed.Command)
		}
		if report.Failed.Outcome.Reason != "" {
			fmt.Fprintf(w, "\n  reason:  %s", report.Failed.Outcome.Reason)
		}
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "\nrun %s passed (%d instances, %s)\n",
		report.RunID, len(report.Results), report.Duration.Round(time.Millisecond))
}
