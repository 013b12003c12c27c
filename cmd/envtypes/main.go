package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"envtypes/internal/audit"
	"envtypes/internal/settings"
)

// Version information (set via ldflags during build)
var Version = "dev"

// Exit codes.
const (
	exitOK       = 0
	exitFindings = 1 // schema, environment or drift problems
	exitUsage    = 2
	exitLoad     = 3 // config or env file could not be read
	exitWrite    = 4 // generated or scaffolded files could not be written
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitLoad)
	}

	code := run(ctx, os.Args[1:], os.Environ(), osfs.New(wd), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// exitCode carries a process exit status out of a command.
// Commands log their own findings before returning it.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// app holds what every command needs. fs is rooted at the working directory.
type app struct {
	fs      billy.Filesystem
	environ []string
	stdout  io.Writer
	stderr  io.Writer

	settings settings.Settings
	audit    *audit.Logger

	// Global flags
	configPath string
	logLevel   string
	auditLog   string
}

// run executes the CLI and returns the process exit code.
// It is separated from main() to enable testing.
func run(ctx context.Context, args []string, environ []string, fs billy.Filesystem, stdout, stderr io.Writer) int {
	s, err := settings.Load(environ)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitUsage
	}

	a := &app{
		fs:       fs,
		environ:  environ,
		stdout:   stdout,
		stderr:   stderr,
		settings: s,
	}

	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err = root.ExecuteContext(ctx)

	var code exitCode
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &code):
		return int(code)
	default:
		// Anything cobra itself rejects is a usage problem.
		fmt.Fprintln(stderr, "Error:", err)
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.CommandPath())
		return exitUsage
	}
}

func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "envtypes",
		Short: "Typed environment variable schemas",
		Long: `envtypes reads a schema of environment variables per environment and

  - validates .env files against it
  - reports drift between environments
  - generates typed accessors for TypeScript, Go and Python`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.newLogger()
			if err != nil {
				return err
			}
			if path := a.auditPath(); path != "" {
				a.audit = audit.New(a.fs, path)
			}
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return exitCode(exitUsage)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file path (default $ENVTYPES_CONFIG or envtypes.config.json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default $ENVTYPES_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&a.auditLog, "audit-log", "", "append a JSON line per command to this file (default $ENVTYPES_AUDIT_LOG)")

	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newValidateCommand())
	root.AddCommand(a.newDiffCommand())
	root.AddCommand(a.newGenerateCommand())
	root.AddCommand(a.newDoctorCommand())
	root.AddCommand(a.newSchemaCommand())
	root.AddCommand(a.newTelemetryCommand())

	return root
}

// newLogger builds the stderr logger from settings and flags.
func (a *app) newLogger() (zerolog.Logger, error) {
	level := a.settings.Level()
	if a.logLevel != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(a.logLevel))
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("invalid --log-level %q", a.logLevel)
		}
		level = lvl
	}

	var w io.Writer = a.stderr
	if a.settings.LogFormat != settings.FormatJSON {
		_, isFile := a.stderr.(*os.File)
		w = zerolog.ConsoleWriter{
			Out:        a.stderr,
			NoColor:    !isFile || getEnvBool(a.environ, "NO_COLOR"),
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// config returns the config path: flag, then ENVTYPES_CONFIG, then the default.
func (a *app) config() string {
	if a.configPath != "" {
		return a.configPath
	}
	return a.settings.ConfigPath
}

func (a *app) auditPath() string {
	if a.auditLog != "" {
		return a.auditLog
	}
	return a.settings.AuditLog
}

// record writes an audit event; failures are logged and otherwise ignored.
func (a *app) record(ctx context.Context, event string, metadata map[string]any) {
	if err := a.audit.Record(event, metadata); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("audit_log", a.audit.Path()).Msg("failed to record audit event")
	}
}

// getEnvBool checks if an environment variable is set to a truthy value
func getEnvBool(environ []string, name string) bool {
	prefix := name + "="
	for _, env := range environ {
		if strings.HasPrefix(env, prefix) {
			val := strings.ToLower(strings.TrimPrefix(env, prefix))
			return val == "true" || val == "1" || val == "yes"
		}
	}
	return false
}
