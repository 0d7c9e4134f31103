// Package main provides the blockdrive command, which drives a Blockly-style
// editor in a real browser through named scenarios and reports the outcome.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/blockdrive/pkg/config"
	"github.com/entrhq/blockdrive/pkg/harness"
	"github.com/entrhq/blockdrive/pkg/logging"
	"github.com/entrhq/blockdrive/pkg/remote"
	"github.com/entrhq/blockdrive/pkg/scenario"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	Root        string
	Run         string
	Verbosity   string
	Timeout     time.Duration
	Headless    bool
	CI          bool
	SkipInstall bool
	List        bool
	ShowVersion bool
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("blockdrive v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	ok, err := run(ctx, cli)
	cancel()
	if err != nil {
		log.Fatalf("blockdrive: %v", err)
	}
	if !ok {
		os.Exit(1)
	}
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cli.Root, "root", "", "Editor checkout to test (defaults to $BLOCKDRIVE_EDITOR_ROOT)")
	flag.StringVar(&cli.Run, "run", "", "Comma-separated scenario name patterns; prefix with ! to exclude")
	flag.StringVar(&cli.Verbosity, "verbosity", "", "Console verbosity: quiet, normal, verbose, debug")
	flag.DurationVar(&cli.Timeout, "timeout", 10*time.Minute, "Overall run timeout")
	flag.BoolVar(&cli.Headless, "headless", false, "Run the browser without a window")
	flag.BoolVar(&cli.CI, "ci", false, "Use CI launch flags (implies -headless)")
	flag.BoolVar(&cli.SkipInstall, "skip-install", false, "Do not install the browser driver before launching")
	flag.BoolVar(&cli.List, "list", false, "List matching scenarios and exit")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "blockdrive - browser scenarios for block editors\n\n")
		fmt.Fprintf(os.Stderr, "Usage: blockdrive [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Run every scenario against a local checkout\n")
		fmt.Fprintf(os.Stderr, "  blockdrive -root ~/src/blockly\n\n")
		fmt.Fprintf(os.Stderr, "  # Run the drag scenarios headless, skipping RTL\n")
		fmt.Fprintf(os.Stderr, "  blockdrive -headless -run '*/drag-*,!rtl/*'\n\n")
	}

	flag.Parse()
	return cli
}

// loadConfig builds the run configuration: file, then environment, then flags.
func loadConfig(cli *CLIConfig) (*config.Config, error) {
	cfg, err := config.Load(cli.ConfigFile)
	if err != nil {
		return nil, err
	}
	if cli.Root != "" {
		cfg.Targets.Root = cli.Root
	}
	cfg.ApplyEnv(os.Getenv)
	if cli.Headless {
		cfg.Browser.Headless = true
	}
	if cli.CI {
		cfg.Browser.CI = true
	}
	if cli.Verbosity != "" {
		cfg.Logging.Verbosity = cli.Verbosity
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// run executes the selected scenarios and reports whether all of them passed.
func run(ctx context.Context, cli *CLIConfig) (bool, error) {
	matcher, err := scenario.ParseMatcher(cli.Run)
	if err != nil {
		return false, err
	}
	selected := matcher.Select(scenario.All())

	if cli.List {
		for _, sc := range selected {
			fmt.Printf("%-28s %s\n", sc.Name, sc.Description)
		}
		return true, nil
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return false, err
	}
	if cfg.Targets.Root == "" {
		return false, fmt.Errorf("no editor root: pass -root or set BLOCKDRIVE_EDITOR_ROOT")
	}

	logger, err := logging.NewLogger("blockdrive")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to stderr: %v\n", err)
	}
	defer logger.Close()
	logger.SetLevel(logging.ParseLevel(cfg.Logging.Verbosity))
	logger.Infof("Running %d scenario(s) against %s", len(selected), cfg.Targets.Root)

	launcher := remote.NewPlaywrightLauncher()
	if cli.SkipInstall {
		launcher.SkipInstall()
	}

	ctx, cancel := context.WithTimeout(ctx, cli.Timeout)
	defer cancel()

	runner := &scenario.Runner{
		Manager:  harness.NewSessionManager(cfg, launcher, logger),
		Targets:  harness.NewTargets(cfg.Targets.Root),
		Reporter: scenario.NewReporter(os.Stdout, scenario.ParseLevel(cfg.Logging.Verbosity)),
		Logger:   logger,
	}
	report := runner.Run(ctx, selected)

	writer := scenario.NewArtifactWriter(cfg.Report.OutputDir)
	if err := writer.WriteAll(report, cfg.Report.JSON, cfg.Report.Markdown); err != nil {
		return false, fmt.Errorf("failed to write reports: %w", err)
	}
	if cfg.Report.JSON || cfg.Report.Markdown {
		logger.Infof("Reports written to %s", cfg.Report.OutputDir)
	}

	return report.OK(), nil
}
