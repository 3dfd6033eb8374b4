package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vk/aecgrid/internal/app"
	"github.com/vk/aecgrid/internal/descriptor"
)

// main is the entrypoint for the aecbuild orchestrator.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	modulesPath string
	logLevel    string
	logFormat   string
	target      descriptor.Target
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	exitCode := 0
	root := newRootCmd(stdout, stderr, &exitCode)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return exitCode
}

func newRootCmd(stdout, stderr io.Writer, exitCode *int) *cobra.Command {
	opts := &options{}
	var a *app.App

	root := &cobra.Command{
		Use:           "aecbuild",
		Short:         "Build and run the modules declared in module.hcl files",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.NewConfig(app.Config{
				ModulesPath: opts.modulesPath,
				LogLevel:    opts.logLevel,
				LogFormat:   opts.logFormat,
				Target:      opts.target,
			})
			if err != nil {
				return err
			}
			a = app.NewApp(cmd.Context(), stderr, cfg, nil)
			return a.LoadModules()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.modulesPath, "modules", "modules", "Path to the directory containing module.hcl files")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Logging level: verbose, debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log output format: text or json")
	flags.StringVar(&opts.target.OS, "target-os", "", "Target operating system (default: host)")
	flags.StringVar(&opts.target.Arch, "target-arch", "", "Target architecture (default: host)")
	flags.StringVar(&opts.target.Mode, "mode", descriptor.ModeRelease, "Build mode: debug or release")

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the declared modules",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tKIND\tDEPENDS\tDESCRIPTION")
				for _, d := range a.Modules() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Kind, strings.Join(d.Depends, ","), d.Description)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "describe NAME",
			Short: "Print a module descriptor in canonical form",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := a.Describe(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "# %s\n", d.Location())
				_, err = stdout.Write(descriptor.Encode(d))
				return err
			},
		},
		&cobra.Command{
			Use:   "build TARGET",
			Short: "Resolve, compile and link a BINARY module",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				bin, report, err := a.Build(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "built %s (%d modules, %d sources)\n", bin.Name, len(report.Modules), len(bin.Sources))
				for _, src := range bin.Sources {
					fmt.Fprintf(stdout, "  %s\n", src)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "run TARGET [-- ARGS...]",
			Short: "Build a BINARY module and run it with ARGS",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				target, binArgs := args[0], args[1:]
				if dash := cmd.ArgsLenAtDash(); dash > 1 {
					return fmt.Errorf("unexpected argument %q before --", args[1])
				}
				code, err := a.Run(target, binArgs, stdout, stderr)
				if err != nil {
					return err
				}
				*exitCode = code
				return nil
			},
		},
	)

	return root
}
