// Package cli wires the forecast engine to a cobra command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rpgo/forecast-engine/internal/calculation"
	"github.com/rpgo/forecast-engine/internal/config"
	"github.com/rpgo/forecast-engine/internal/domain"
	"github.com/rpgo/forecast-engine/internal/logging"
	"github.com/rpgo/forecast-engine/internal/output"
	"github.com/rpgo/forecast-engine/pkg/dateutil"
)

// App is the forecast command-line application.
type App struct {
	rootCmd *cobra.Command
	version string
	// logOut receives log lines; nil means stderr.
	logOut io.Writer
}

// NewApp builds the command tree.
func NewApp(version string) *App {
	app := &App{version: version}

	root := &cobra.Command{
		Use:           "forecast",
		Short:         "Period-based patient and product forecasting",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "forecast version: %s\n" .Version}}`)
	root.PersistentFlags().String("env-file", "", "Load settings from this .env file")

	root.AddCommand(
		app.runCommand(),
		app.axisCommand(),
		app.exampleCommand(),
		app.validateCommand(),
		app.formatsCommand(),
	)
	app.rootCmd = root
	return app
}

// Execute runs the application against os.Args.
func (app *App) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteArgs runs the application with explicit arguments and output,
// reporting any error the same way Main does.
func (app *App) ExecuteArgs(args []string, out, errOut io.Writer) error {
	app.rootCmd.SetArgs(args)
	app.rootCmd.SetOut(out)
	app.rootCmd.SetErr(errOut)
	app.logOut = errOut
	err := app.rootCmd.Execute()
	if err != nil {
		PrintError(errOut, err)
	}
	return err
}

// PrintError writes err in bold red.
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(w, "Error: %v\n", err)
}

func (app *App) settings(cmd *cobra.Command) (*config.Settings, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile == "" {
		return config.LoadSettings()
	}
	return config.LoadSettings(envFile)
}

func (app *App) runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a forecast and write its reports",
		RunE:  app.run,
	}
	cmd.Flags().StringP("config", "c", "", "Path to a YAML, JSON, or TOML forecast configuration (required)")
	cmd.Flags().StringSliceP("format", "f", nil, "Report formats, comma-separated, or \"all\" (default: from configuration)")
	cmd.Flags().StringP("output", "o", "", "Directory for report files (default: from configuration or FORECAST_OUTPUT_DIR)")
	cmd.Flags().IntP("precision", "p", 0, "Decimal places in rendered numbers")
	cmd.Flags().String("request-id", "", "Identifier attached to logs and reports (default: random)")
	cmd.Flags().Bool("quiet", false, "Do not print the console report")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func (app *App) run(cmd *cobra.Command, _ []string) error {
	settings, err := app.settings(cmd)
	if err != nil {
		return err
	}
	logOut := app.logOut
	if logOut == nil {
		logOut = os.Stderr
	}
	log := logging.New(logging.Options{
		Level:       settings.LogLevel,
		Environment: settings.Environment,
		Output:      logOut,
	})

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return err
	}

	requestID, _ := cmd.Flags().GetString("request-id")
	rc := calculation.NewRunContext(cmd.Context(), requestID, nil)
	entry := logging.ForRequest(log, rc.RequestID, cfg.Name)
	rc.Logger = entry

	engine := calculation.NewForecastEngine()
	engine.SetLogger(entry)
	result, err := engine.Run(rc, cfg)
	if err != nil {
		return err
	}

	opts := output.Options{Precision: resolvePrecision(cmd, cfg, settings)}
	formats, _ := cmd.Flags().GetStringSlice("format")
	if len(formats) == 0 {
		formats = cfg.Output.Formats
	}
	dir, _ := cmd.Flags().GetString("output")
	if dir == "" {
		dir = cfg.Output.Directory
	}
	if dir == "" {
		dir = settings.OutputDir
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	var files []string
	for _, name := range formats {
		if output.NormalizeFormatName(name) == "console" {
			continue
		}
		files = append(files, name)
	}
	wantConsole := len(formats) == 0 || len(files) < len(formats) || containsAll(formats)
	if wantConsole && !quiet {
		b, err := output.ConsoleFormatter{Precision: opts.Precision}.Format(result)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
	}

	if len(files) > 0 {
		paths, err := output.GenerateReport(result, files, opts, dir)
		for _, p := range paths {
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
		}
		if err != nil {
			return err
		}
	}
	entry.Infof("run finished in %s", rc.Elapsed())
	return nil
}

// resolvePrecision prefers the flag, then the configuration, then settings.
func resolvePrecision(cmd *cobra.Command, cfg *domain.Configuration, settings *config.Settings) int {
	if cmd.Flags().Changed("precision") {
		p, _ := cmd.Flags().GetInt("precision")
		return p
	}
	if cfg.Output.Precision > 0 {
		return cfg.Output.Precision
	}
	return settings.Precision
}

func containsAll(formats []string) bool {
	for _, f := range formats {
		if strings.EqualFold(strings.TrimSpace(f), "all") {
			return true
		}
	}
	return false
}

func (app *App) axisCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "axis",
		Short: "Print the period end dates of a forecast horizon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			startYear, _ := cmd.Flags().GetInt("start-year")
			years, _ := cmd.Flags().GetInt("years")
			month, _ := cmd.Flags().GetString("start-month")
			gran, _ := cmd.Flags().GetString("granularity")

			fm, err := dateutil.ParseMonth(month)
			if err != nil {
				return fmt.Errorf("%w: start month: %v", domain.ErrInvalidArgument, err)
			}
			g, err := domain.ParseGranularity(gran)
			if err != nil {
				return err
			}
			axis, err := calculation.GeneratePeriodAxis(startYear, years, fm, g)
			if err != nil {
				return err
			}
			for i := 0; i < axis.Len(); i++ {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, axis.At(i).Format("2006-01-02"))
			}
			return nil
		},
	}
	cmd.Flags().Int("start-year", 2026, "First forecast year")
	cmd.Flags().Int("years", 1, "Number of forecast years")
	cmd.Flags().String("start-month", "1", "Fiscal start month, as a number or name")
	cmd.Flags().StringP("granularity", "g", "month", "Period granularity: month or year")
	return cmd
}

func (app *App) exampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example forecast configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("output")
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if err := output.SaveConfiguration(cfg, out); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "forecast.yaml", "File to write (.yaml, .yml or .json)")
	return cmd
}

func (app *App) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Check a forecast configuration without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s: configuration %q is valid\n", args[0], cfg.Name)
			return nil
		},
	}
}

func (app *App) formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List report formats",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "formats: %s\n", strings.Join(output.AvailableFormatterNames(), ", "))
			fmt.Fprintf(w, "aliases: %s\n", strings.Join(output.AvailableFormatAliases(), ", "))
		},
	}
}

// Main is the process entry point; it returns the exit code.
func Main(ctx context.Context, version string) int {
	app := NewApp(version)
	if err := app.rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(os.Stderr, err)
		return 1
	}
	return 0
}
