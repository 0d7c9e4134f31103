package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the harness configuration
type Config struct {
	// Browser launch settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Bounded wait windows
	Timeouts TimeoutConfig `yaml:"timeouts" json:"timeouts"`

	// Pointer gesture shape
	Gesture GestureConfig `yaml:"gesture" json:"gesture"`

	// Location of the editor documents under test
	Targets TargetConfig `yaml:"targets" json:"targets"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Scenario run reports
	Report ReportConfig `yaml:"report" json:"report"`
}

// BrowserConfig defines how the remote browser is launched
type BrowserConfig struct {
	// CI switches to headless, sandbox-disabled launch flags
	CI bool `yaml:"ci" json:"ci"`

	// Headless forces headless mode outside CI
	Headless bool `yaml:"headless" json:"headless"`

	// ExtraArgs are appended to the launch flags
	ExtraArgs []string `yaml:"extra_args" json:"extra_args"`

	ViewportWidth  int `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height" json:"viewport_height"`

	// SlowMo slows every remote operation down, for watching a headed run
	SlowMo time.Duration `yaml:"slow_mo" json:"slow_mo"`
}

// TimeoutConfig defines the bounded wait windows
type TimeoutConfig struct {
	// Wait bounds every element-appears and post-gesture settle poll
	Wait time.Duration `yaml:"wait" json:"wait"`

	// PollInterval is the delay between poll attempts
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`

	// Navigation bounds a document load
	Navigation time.Duration `yaml:"navigation" json:"navigation"`
}

// GestureConfig defines pointer gesture behavior
type GestureConfig struct {
	// Steps is the number of intermediate pointer moves in a drag
	Steps int `yaml:"steps" json:"steps"`
}

// TargetConfig locates the editor checkout whose demo documents are opened
type TargetConfig struct {
	Root string `yaml:"root" json:"root"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// ReportConfig defines scenario report generation
type ReportConfig struct {
	OutputDir string `yaml:"output_dir" json:"output_dir"`
	JSON      bool   `yaml:"json" json:"json"`
	Markdown  bool   `yaml:"markdown" json:"markdown"`
}

// Launch flags shared by every session
const (
	flagAllowFileAccess = "--allow-file-access-from-files"
	flagNoSandbox       = "--no-sandbox"
	flagDisableDevShm   = "--disable-dev-shm-usage"
	flagDisableGPU      = "--disable-gpu"
)

// LaunchArgs returns the browser command-line flags for this configuration.
// CI runs get the sandbox-disabled set; everything else disables the GPU,
// which keeps Chrome from hanging on Linux hosts with old NVIDIA drivers.
func (b BrowserConfig) LaunchArgs() []string {
	args := []string{flagAllowFileAccess}
	if b.CI {
		args = append(args, flagNoSandbox, flagDisableDevShm)
	} else {
		args = append(args, flagDisableGPU)
	}
	return append(args, b.ExtraArgs...)
}

// IsHeadless reports whether the browser runs without a window.
func (b BrowserConfig) IsHeadless() bool {
	return b.CI || b.Headless
}

// ApplyEnv folds process environment into the configuration.
// A non-empty CI variable enables CI launch flags.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("CI"); v != "" && v != "false" && v != "0" {
		c.Browser.CI = true
	}
	if root := getenv("BLOCKDRIVE_EDITOR_ROOT"); root != "" && c.Targets.Root == "" {
		c.Targets.Root = root
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Browser.ViewportWidth < 100 || c.Browser.ViewportWidth > 5000 {
		return fmt.Errorf("viewport_width must be between 100 and 5000 pixels")
	}
	if c.Browser.ViewportHeight < 100 || c.Browser.ViewportHeight > 5000 {
		return fmt.Errorf("viewport_height must be between 100 and 5000 pixels")
	}
	if c.Browser.SlowMo < 0 {
		return fmt.Errorf("slow_mo cannot be negative")
	}

	if c.Timeouts.Wait <= 0 {
		return fmt.Errorf("timeouts.wait must be positive")
	}
	if c.Timeouts.PollInterval <= 0 {
		return fmt.Errorf("timeouts.poll_interval must be positive")
	}
	if c.Timeouts.PollInterval > c.Timeouts.Wait {
		return fmt.Errorf("timeouts.poll_interval (%v) exceeds timeouts.wait (%v)", c.Timeouts.PollInterval, c.Timeouts.Wait)
	}
	if c.Timeouts.Navigation < 0 {
		return fmt.Errorf("timeouts.navigation cannot be negative")
	}

	if c.Gesture.Steps < 1 {
		return fmt.Errorf("gesture.steps must be at least 1")
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	if (c.Report.JSON || c.Report.Markdown) && c.Report.OutputDir == "" {
		return fmt.Errorf("report.output_dir is required when a report format is enabled")
	}

	return nil
}

// DefaultConfig returns a default configuration suitable for local runs
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			ViewportWidth:  1280,
			ViewportHeight: 720,
		},
		Timeouts: TimeoutConfig{
			Wait:         5 * time.Second,
			PollInterval: 50 * time.Millisecond,
			Navigation:   30 * time.Second,
		},
		Gesture: GestureConfig{
			Steps: 10,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
		Report: ReportConfig{
			OutputDir: ".blockdrive/reports",
			JSON:      true,
			Markdown:  true,
		},
	}
}

// Load reads a YAML configuration file over the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if unmarshalErr := yaml.Unmarshal(data, config); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	return config, nil
}
