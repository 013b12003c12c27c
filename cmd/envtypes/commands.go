package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"envtypes/internal/drift"
	"envtypes/internal/emitter"
	"envtypes/internal/envfile"
	"envtypes/internal/scaffold"
	"envtypes/internal/schema"
	"envtypes/internal/validator"
)

const telemetryNote = "Telemetry is opt-in. Set ENVTYPES_TELEMETRY=1 to emit anonymous usage counts."

// loadConfig loads the config or logs why it could not.
func (a *app) loadConfig(ctx context.Context) (schema.Config, error) {
	path := a.config()
	cfg, err := schema.LoadConfig(a.fs, path)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("config", path).Msg("failed to load config")
		return schema.Config{}, exitCode(exitLoad)
	}
	return cfg, nil
}

// environment returns the environment flag value, falling back to ENVTYPES_ENV.
func (a *app) environment(flag string) string {
	if flag != "" {
		return flag
	}
	return a.settings.Environment
}

func warnUndeclared(logger *zerolog.Logger, cfg schema.Config, names ...string) {
	for _, name := range names {
		if _, ok := cfg.Environment(name); !ok {
			logger.Warn().
				Str("environment", name).
				Strs("declared", cfg.EnvironmentNames()).
				Msg("environment is not declared in config")
		}
	}
}

func (a *app) newInitCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold config and env templates",
		Long: `Write a starter config, create an empty .env.<environment> file for each
template environment that lacks one, and add env files and generated output
to .gitignore. An existing config file is overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			if path == "" {
				path = a.config()
			}

			result, err := scaffold.Init(a.fs, path)
			if err != nil {
				logger.Error().Err(err).Msg("failed to scaffold project")
				return exitCode(exitWrite)
			}

			logger.Info().
				Str("config", result.ConfigPath).
				Strs("env_files", result.CreatedEnvFiles).
				Bool("gitignore_updated", result.GitignoreUpdated).
				Msg("initialized config and .env templates")

			a.record(ctx, "init", map[string]any{
				"config":   result.ConfigPath,
				"envFiles": result.CreatedEnvFiles,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "where to write the config (default: the --config path)")

	return cmd
}

func (a *app) newValidateCommand() *cobra.Command {
	var (
		envPath   string
		envName   string
		driftWith string
		dotenv    bool
		ci        bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an env file against the schema",
		Long: `Validate the config schema, then validate an env file against the variables
declared for one environment. Optionally report drift against another
environment. Every problem is reported; the exit status is 1 if any was found.

A missing env file is treated as empty.`,
		Example: `  # Validate .env.development against the development environment
  envtypes validate

  # Validate a production file and compare with staging
  envtypes validate --environment production --env .env.prod --drift-with staging`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			cfg, err := a.loadConfig(ctx)
			if err != nil {
				return err
			}

			name := a.environment(envName)
			if envPath == "" {
				envPath = scaffold.EnvFileName(name)
			}
			ciMode := ci || getEnvBool(a.environ, "CI")

			var findings []string

			ok, schemaErrs := schema.ValidateSchema(cfg)
			if !ok {
				logger.Error().Str("config", a.config()).Msg("schema validation failed")
			}
			findings = append(findings, schemaErrs...)

			dialect := envfile.DialectPlain
			if dotenv {
				dialect = envfile.DialectDotenv
			}
			values, found, err := envfile.Load(a.fs, envPath, dialect)
			if err != nil {
				logger.Error().Err(err).Str("file", envPath).Msg("failed to read env file")
				return exitCode(exitLoad)
			}
			if !found {
				logger.Warn().Str("file", envPath).Msg("env file not found; treating it as empty")
			}

			warnUndeclared(logger, cfg, name)
			warnDeprecated(logger, cfg, name, values)

			result := validator.Validate(cfg, name, values)
			findings = append(findings, validator.FormatErrors(result)...)

			if driftWith != "" {
				warnUndeclared(logger, cfg, driftWith)
				findings = append(findings, drift.Diff(cfg, name, driftWith)...)
			}

			for _, msg := range findings {
				if ciMode {
					fmt.Fprintf(a.stderr, "::error file=%s::%s\n", envPath, msg)
					continue
				}
				logger.Error().Str("environment", name).Str("file", envPath).Msg(msg)
			}

			a.record(ctx, "validate", map[string]any{
				"environment": name,
				"envFile":     envPath,
				"driftWith":   driftWith,
				"errors":      len(findings),
			})

			if len(findings) > 0 {
				if ciMode {
					fmt.Fprintf(a.stderr, "\nValidation failed: %d error(s)\n", len(findings))
				}
				return exitCode(exitFindings)
			}

			logger.Info().Str("environment", name).Str("file", envPath).Msg("environment is valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&envPath, "env", "", "env file to validate (default .env.<environment>)")
	cmd.Flags().StringVarP(&envName, "environment", "e", "", "environment to validate against (default $ENVTYPES_ENV or development)")
	cmd.Flags().StringVar(&driftWith, "drift-with", "", "also report variables not declared in both this and the given environment")
	cmd.Flags().BoolVar(&dotenv, "dotenv", false, "parse the env file with dotenv rules (quotes, export, inline comments)")
	cmd.Flags().BoolVar(&ci, "ci", false, "print findings as CI annotations (also enabled by CI=true)")

	return cmd
}

// warnDeprecated logs deprecated variables that are still provided.
func warnDeprecated(logger *zerolog.Logger, cfg schema.Config, envName string, values map[string]string) {
	env, ok := cfg.Environment(envName)
	if !ok {
		return
	}
	for _, name := range env.Names() {
		v, _ := env.Lookup(name)
		if _, provided := values[name]; provided && v.Deprecated {
			logger.Warn().Str("environment", envName).Str("variable", name).Msg("deprecated variable is still set")
		}
	}
}

func (a *app) newDiffCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "diff <environment> <environment>",
		Short: "Report variables declared in only one of two environments",
		Long: `Compare the variable names declared for two environments. Types and other
attributes of variables declared in both are not compared. The exit status
is 1 when the environments differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := a.loadConfig(ctx)
			if err != nil {
				return err
			}
			warnUndeclared(zerolog.Ctx(ctx), cfg, args[0], args[1])

			report := drift.Detect(cfg, args[0], args[1])

			if jsonOutput {
				out, err := drift.FormatJSON(report)
				if err != nil {
					zerolog.Ctx(ctx).Error().Err(err).Msg("failed to format drift report")
					return exitCode(exitWrite)
				}
				fmt.Fprintln(a.stdout, out)
			} else if report.HasDrift {
				fmt.Fprint(a.stdout, drift.FormatCLI(report))
			} else {
				fmt.Fprintf(a.stdout, "No drift between %s and %s.\n", args[0], args[1])
			}

			a.record(ctx, "diff", map[string]any{
				"left":    args[0],
				"right":   args[1],
				"changes": len(report.Changes),
			})

			if report.HasDrift {
				return exitCode(exitFindings)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the drift report as JSON")

	return cmd
}

func (a *app) newGenerateCommand() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate typed bindings",
		Long: `Generate typed accessors for every target in the config from the variables
of one environment. Targets with an unsupported language are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := a.loadConfig(ctx)
			if err != nil {
				return err
			}

			name := a.environment(envName)
			results, err := emitter.Generate(ctx, a.fs, emitter.DefaultRegistry(), cfg, name)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("generation failed")
				return exitCode(exitWrite)
			}

			var written []string
			for _, r := range results {
				if !r.Skipped {
					written = append(written, r.Path)
				}
			}
			a.record(ctx, "generate", map[string]any{
				"environment": name,
				"files":       written,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&envName, "environment", "e", "", "environment whose variables are generated (default $ENVTYPES_ENV or development)")

	return cmd
}

func (a *app) newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			cfg, err := a.loadConfig(ctx)
			if err != nil {
				return err
			}

			ok, errs := schema.ValidateSchema(cfg)
			for _, msg := range errs {
				logger.Error().Str("config", a.config()).Msg(msg)
			}

			a.record(ctx, "doctor", map[string]any{"errors": len(errs)})

			if !ok {
				return exitCode(exitFindings)
			}
			logger.Info().Str("config", a.config()).Msg("config schema looks good")
			return nil
		},
	}
}

func (a *app) newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the config file format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schema.JSONSchema()
			if err != nil {
				zerolog.Ctx(cmd.Context()).Error().Err(err).Msg("failed to build JSON Schema")
				return exitCode(exitWrite)
			}
			fmt.Fprintln(a.stdout, string(data))
			return nil
		},
	}
}

func (a *app) newTelemetryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "telemetry",
		Short: "Describe telemetry controls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.stdout, telemetryNote)
			state := "disabled"
			if a.settings.Telemetry {
				state = "enabled"
			}
			fmt.Fprintf(a.stdout, "Telemetry is currently %s.\n", state)
			return nil
		},
	}
}
