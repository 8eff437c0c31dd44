package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/marcelocantos/reason/internal/audit"
	"github.com/marcelocantos/reason/internal/cli"
	"github.com/marcelocantos/reason/internal/command/builtin"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/mcp"
	"github.com/marcelocantos/reason/internal/shell"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(&app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr})
	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "reason: %v\n", err)
		os.Exit(cli.ExitError)
	}
}

// exitError carries a non-zero exit code out of a command that has already
// reported its failure.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func exitCode(code int) error {
	if code == cli.ExitOK {
		return nil
	}
	return &exitError{code: code}
}

type app struct {
	cfgFile string
	verbose bool
	line    string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "reason",
		Short: "A command shell for a collection of research papers",
		Long: `reason keeps a collection of research papers and lets you query and edit it
with small commands chained by pipes:

  ls by Chung | tag energy
  add 'Zeus: GPU Energy' by 'Jie You' at NSDI in 2023 as zeus
  where 'year >= 2020 and "gpu" in tags' | sort -r year | head 5

Without arguments reason reads command lines from stdin.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.setup()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("command") {
				sess, err := a.session(cfg, logger, "oneshot")
				if err != nil {
					return err
				}
				return exitCode(cli.RunOnce(cmd.Context(), sess, cfg.Display, a.line, a.stdout, a.stderr))
			}
			sess, err := a.session(cfg, logger, "shell")
			if err != nil {
				return err
			}
			return exitCode(cli.RunShell(cmd.Context(), sess, a.stdin, a.stdout, a.stderr))
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/reason/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")
	root.Flags().StringVarP(&a.line, "command", "c", "", "run one command line and exit")

	root.AddCommand(a.mcpCmd(), a.commandsCmd(), a.auditCmd())
	return root
}

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the shell to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, logger, err := a.setup()
			if err != nil {
				return err
			}
			sess, err := a.session(cfg, logger, "mcp")
			if err != nil {
				return err
			}
			logger.Info("serving MCP on stdio", "state", cfg.StatePath)
			return mcp.New(sess, version).Serve()
		},
	}
}

func (a *app) commandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the shell commands",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return exitCode(cli.RunCommands(builtin.NewRegistry(), a.stdout))
		},
	}
}

func (a *app) auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit log of executed lines",
	}

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Check the hash chain of the audit log",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, _, err := a.setup()
			if err != nil {
				return err
			}
			return exitCode(cli.RunAuditVerify(a.stdout, cfg.Audit.Path))
		},
	}

	var n int
	show := &cobra.Command{
		Use:     "show",
		Aliases: []string{"tail"},
		Short:   "Show the most recent audit entries",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, _, err := a.setup()
			if err != nil {
				return err
			}
			return exitCode(cli.RunAuditShow(a.stdout, cfg.Audit.Path, n, cfg.Display))
		},
	}
	show.Flags().IntVarP(&n, "lines", "n", 20, "number of entries to show")

	cmd.AddCommand(verify, show)
	return cmd
}

// setup loads the configuration and builds the diagnostic logger.
func (a *app) setup() (*config.Config, *log.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.cfgFile != "" {
		cfg, err = config.LoadFrom(a.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if a.verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: "reason",
		Level:  level,
	})
	return cfg, logger, nil
}

// session opens the store and, when enabled, the audit log. An audit log
// that cannot be opened is reported and skipped.
func (a *app) session(cfg *config.Config, logger *log.Logger, source string) (*shell.Session, error) {
	opts := []shell.Option{shell.WithLogger(logger), shell.WithSource(source)}
	if cfg.Audit.Enabled {
		al, err := audit.NewLogger(cfg.Audit.Path)
		if err != nil {
			logger.Warn("audit disabled", "err", err)
		} else {
			opts = append(opts, shell.WithAudit(al))
		}
	}

	sess, err := shell.Open(builtin.NewRegistry(), cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	logger.Debug("session ready", "state", cfg.StatePath, "source", source)
	return sess, nil
}
