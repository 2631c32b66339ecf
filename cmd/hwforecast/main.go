// Package main is the entry point for the Holt-Winters forecasting CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sartorproj/goholtwinters/internal/config"
	"github.com/sartorproj/goholtwinters/internal/metrics"
	"github.com/sartorproj/goholtwinters/internal/report"
	"github.com/sartorproj/goholtwinters/internal/runner"
	"github.com/sartorproj/goholtwinters/internal/server"
	"github.com/sartorproj/goholtwinters/internal/store"
	"github.com/sartorproj/goholtwinters/stats"
	"github.com/sartorproj/goholtwinters/timeseries"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set by build flags).
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	case "run":
		err = cmdRun(os.Args[2:])
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "serve":
		err = cmdServe(os.Args[2:])
	case "history":
		err = cmdHistory(os.Args[2:])
	case "inspect":
		err = cmdInspect(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hwforecast - Holt-Winters multiplicative forecasting

Usage:
  hwforecast <command> [options]

Commands:
  run        Forecast a series from a CSV file
  validate   Validate configuration file
  serve      Start the HTTP API
  history    List stored forecast runs
  inspect    Suggest a season length for a CSV series
  version    Show version information
  help       Show this help message

Examples:
  hwforecast run --data data/hsales.csv --season 12 --periods 12
  hwforecast run --config hwforecast.yaml --format json
  hwforecast serve --config hwforecast.yaml
  hwforecast history --limit 5
  hwforecast inspect --data data/hsales.csv --max-period 24

Use "hwforecast <command> --help" for more information about a command.`)
}

func cmdVersion() {
	fmt.Printf("hwforecast version %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"data":    "input.path",
	"column":  "input.value_column",
	"season":  "model.season_length",
	"periods": "model.forecast_periods",
	"alpha1":  "model.alpha1",
	"alpha2":  "model.alpha2",
	"alpha3":  "model.alpha3",
	"policy":  "model.numeric_policy",
	"strict":  "model.strict",
	"format":  "output.format",
	"store":   "store.enabled",
	"db":      "store.path",
	"port":    "server.port",
}

// loadConfig reads the configuration file and applies every flag the user
// set explicitly on top of it.
func loadConfig(fs *flag.FlagSet, path string) (*config.Config, error) {
	v, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlags(v, fs)
	return config.Decode(v)
}

func applyFlags(v *viper.Viper, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})
}

func openStore(cfg *config.Config) (store.Repository, error) {
	if !cfg.Store.Enabled {
		return nil, nil
	}
	return store.NewSQLiteRepository(cfg.Store.Path)
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	fs.String("data", "", "Path to CSV data file")
	fs.String("column", "", "Value column name")
	fs.Int("season", 0, "Season length")
	fs.Int("periods", 0, "Forecast periods")
	fs.Float64("alpha1", 0, "Level smoothing coefficient")
	fs.Float64("alpha2", 0, "Trend smoothing coefficient")
	fs.Float64("alpha3", 0, "Seasonal smoothing coefficient")
	fs.String("policy", "", "Numeric policy: fail_fast, propagate")
	fs.Bool("strict", false, "Reject coefficients outside [0, 1]")
	fs.String("format", "", "Output format: text, json, yaml, csv")
	fs.Bool("store", false, "Persist the run")
	fs.String("db", "", "Path to the run database")
	fs.Parse(args)

	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		return err
	}
	if cfg.Input.Path == "" {
		fs.Usage()
		return errors.New("--data or input.path is required")
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	series, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	repo, err := openStore(cfg)
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
	}

	opts := cfg.Options()
	run, err := runner.New(logger, repo, nil).Run(context.Background(), runner.Job{
		Name:            series.Name,
		Values:          series.Values,
		SeasonLength:    cfg.Model.SeasonLength,
		ForecastPeriods: cfg.Model.ForecastPeriods,
		Coefficients:    cfg.Coefficients(),
		Policy:          opts.Policy,
		Strict:          opts.Strict,
	})
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	return report.Render(os.Stdout, report.FromRun(run, cfg.Output.Precision), format)
}

func loadSeries(cfg *config.Config) (*timeseries.Series, error) {
	opts := timeseries.DefaultCSVOptions()
	opts.ValueColumn = cfg.Input.ValueColumn
	opts.DateColumn = cfg.Input.DateColumn
	opts.IDColumn = cfg.Input.IDColumn
	opts.IDFilter = cfg.Input.IDFilter

	series, err := timeseries.LoadCSV(cfg.Input.Path, opts)
	if err != nil {
		return nil, err
	}
	if cfg.Input.Scale != 1 {
		series = series.Scale(cfg.Input.Scale)
	}
	return series, nil
}

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	fs.Parse(args)

	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		return err
	}

	c := cfg.Coefficients()
	fmt.Println("Configuration is valid!")
	fmt.Printf("  Season length: %d\n", cfg.Model.SeasonLength)
	fmt.Printf("  Forecast periods: %d\n", cfg.Model.ForecastPeriods)
	fmt.Printf("  Coefficients: alpha1=%g alpha2=%g alpha3=%g\n", c.Level, c.Trend, c.Seasonal)
	fmt.Printf("  Numeric policy: %s\n", cfg.Options().Policy)
	fmt.Printf("  Store: %t (%s)\n", cfg.Store.Enabled, cfg.Store.Path)
	return nil
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	fs.Int("port", 0, "Listen port")
	fs.Bool("store", false, "Persist runs")
	fs.String("db", "", "Path to the run database")
	fs.Parse(args)

	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	repo, err := openStore(cfg)
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(reg)

	srv := server.New(cfg.Server, server.Deps{
		Runner:    runner.New(logger, repo, recorder),
		Repo:      repo,
		Recorder:  recorder,
		Gatherer:  reg,
		Logger:    logger,
		Precision: cfg.Output.Precision,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func cmdHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	limit := fs.Int("limit", 10, "Number of runs to show")
	fs.String("db", "", "Path to the run database")
	fs.String("format", "", "Output format: text, json, yaml, csv")
	fs.Parse(args)

	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		return err
	}

	repo, err := store.NewSQLiteRepository(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer repo.Close()

	runs, err := repo.ListRuns(context.Background(), *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	for i := range runs {
		if format == report.FormatText {
			fmt.Printf("== %s (%s)\n", runs[i].ID, runs[i].CreatedAt.Format(time.RFC3339))
		}
		if err := report.Render(os.Stdout, report.FromRun(&runs[i], cfg.Output.Precision), format); err != nil {
			return err
		}
	}
	return nil
}

func cmdInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	fs.String("data", "", "Path to CSV data file")
	fs.String("column", "", "Value column name")
	maxPeriod := fs.Int("max-period", 24, "Longest season length to consider")
	fs.Parse(args)

	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		return err
	}
	if cfg.Input.Path == "" {
		fs.Usage()
		return errors.New("--data or input.path is required")
	}

	series, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	d := stats.Inspect(series, *maxPeriod)
	fmt.Printf("Observations: %d (%.2f to %.2f, mean %.2f)\n", d.NObs, d.Min, d.Max, d.Mean)
	if !d.StrictlyPositive {
		fmt.Println("  Warning: series has non-positive values; multiplicative seasonality will degenerate")
	}
	if d.SeasonLength == 0 {
		fmt.Printf("  No significant seasonality up to period %d\n", *maxPeriod)
		return nil
	}
	fmt.Printf("  Suggested season length: %d (acf %.3f, %d full cycles)\n", d.SeasonLength, d.SeasonalACF, d.Cycles)
	if d.Cycles < 2 {
		fmt.Println("  Warning: at least two full cycles are needed to initialize the model")
	}
	return nil
}
