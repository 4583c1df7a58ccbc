package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/retirement-forecast/internal/cache"
	"github.com/iwvelando/retirement-forecast/internal/config"
	"github.com/iwvelando/retirement-forecast/internal/server"
	"github.com/iwvelando/retirement-forecast/internal/simulation"
	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/output"
	"github.com/iwvelando/retirement-forecast/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	solve := flag.Bool("max-withdrawal", false, "search for the maximum sustainable annual spending instead of simulating the configured spending")
	serve := flag.Bool("serve", false, "run the HTTP API server instead of a one-shot forecast")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file (with -serve)")
	flag.Parse()

	if *serve {
		runServer(*serverConfigLocation, *logLevel)
		return
	}

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Open the durable result cache when configured. Cache failures are
	// non-fatal; we fall back to direct computation.
	var resultCache *cache.Cache
	if conf.Cache.Enabled && !*solve {
		store, err := cache.NewSQLiteStore(conf.Cache.Path)
		if err != nil {
			logger.Warn("failed to open result cache, continuing without it",
				zap.String("op", "main"),
				zap.Error(err),
			)
		} else {
			defer func() {
				_ = store.Close()
			}()
			resultCache = cache.New(logger, store, conf.Cache.TTL())
		}
	}

	// Run every active plan.
	var reports []output.Report
	for _, plan := range conf.ActivePlans() {
		ctx := config.NewPlanningContext(plan)
		if !ctx.IsReady() {
			logger.Fatal("plan is missing required inputs",
				zap.String("op", "main"),
				zap.String("plan", plan.Name),
				zap.String("missing", strings.Join(ctx.MissingInputs(), ", ")),
			)
		}

		input, err := ctx.SimulationInput()
		if err != nil {
			logger.Fatal("failed to assemble simulation input",
				zap.String("op", "main"),
				zap.String("plan", plan.Name),
				zap.Error(err),
			)
		}

		report := output.Report{Name: plan.Name}

		if *solve {
			// Solver results are what-if queries and are never cached.
			result, err := simulation.FindMaxWithdrawal(logger, input, simulation.SolverConfig{
				TargetSuccessRate: conf.Solver.TargetSuccessRate,
				Precision:         conf.Solver.Precision,
				Trials:            conf.Solver.Trials,
			})
			if err != nil {
				logger.Fatal("max withdrawal search failed",
					zap.String("op", "main"),
					zap.String("plan", plan.Name),
					zap.Error(err),
				)
			}
			report.MaxWithdrawal = &result
		} else {
			results, cached, err := runWithCache(logger, resultCache, input)
			if err != nil {
				logger.Fatal("failed to compute simulation",
					zap.String("op", "main"),
					zap.String("plan", plan.Name),
					zap.Error(err),
				)
			}
			report.Results = *results
			report.Cached = cached
		}

		reports = append(reports, report)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(reports)
	case constants.OutputFormatCSV:
		output.CsvFormat(reports)
	case constants.OutputFormatJSON:
		if err := output.JSONFormat(reports); err != nil {
			logger.Fatal("failed to encode JSON output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}

// runWithCache consults the result cache before simulating, and stores the
// aggregate on a miss.
func runWithCache(logger *zap.Logger, resultCache *cache.Cache, input simulation.Input) (*simulation.AggregatedResult, bool, error) {
	if resultCache == nil {
		agg, err := simulation.Run(logger, input)
		if err != nil {
			return nil, false, err
		}
		return &agg, false, nil
	}

	hash := cache.Fingerprint(input)
	if cached, ok := resultCache.Lookup(hash); ok {
		logger.Debug("returning cached simulation results",
			zap.String("op", "main.runWithCache"),
			zap.String("inputsHash", hash),
		)
		return cached, true, nil
	}

	agg, err := simulation.Run(logger, input)
	if err != nil {
		return nil, false, err
	}
	resultCache.Put(hash, agg)
	return &agg, false, nil
}

// runServer starts the HTTP API with its own configuration file.
func runServer(configPath, logLevelOverride string) {
	serverConf, err := server.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", configPath, err)
		return
	}

	logger, err := initializeLogger(serverConf.Logging, logLevelOverride)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	var resultCache *cache.Cache
	if serverConf.Cache.Enabled {
		store, err := cache.NewSQLiteStore(serverConf.Cache.Path)
		if err != nil {
			logger.Warn("failed to open result cache, continuing without it",
				zap.String("op", "main.runServer"),
				zap.Error(err),
			)
		} else {
			defer func() {
				_ = store.Close()
			}()
			resultCache = cache.New(logger, store, serverConf.Cache.TTL())
		}
	}

	handler := server.NewHandler(logger, resultCache, serverConf.MaxUploadSize, version)

	logger.Info("starting HTTP server",
		zap.String("op", "main.runServer"),
		zap.String("address", serverConf.Address),
	)
	if err := http.ListenAndServe(serverConf.Address, handler); err != nil {
		logger.Fatal("HTTP server failed",
			zap.String("op", "main.runServer"),
			zap.Error(err),
		)
	}
}
