package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Gesture.Steps)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Wait)
	assert.False(t, cfg.Browser.IsHeadless())
}

func TestLaunchArgs(t *testing.T) {
	tests := []struct {
		name    string
		browser BrowserConfig
		want    []string
	}{
		{
			name:    "local run disables gpu",
			browser: BrowserConfig{},
			want:    []string{"--allow-file-access-from-files", "--disable-gpu"},
		},
		{
			name:    "ci run disables sandbox",
			browser: BrowserConfig{CI: true},
			want:    []string{"--allow-file-access-from-files", "--no-sandbox", "--disable-dev-shm-usage"},
		},
		{
			name:    "extra args appended",
			browser: BrowserConfig{ExtraArgs: []string{"--lang=en"}},
			want:    []string{"--allow-file-access-from-files", "--disable-gpu", "--lang=en"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.browser.LaunchArgs())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantCI   bool
		wantRoot string
	}{
		{name: "no env", env: map[string]string{}},
		{name: "ci true", env: map[string]string{"CI": "true"}, wantCI: true},
		{name: "ci false", env: map[string]string{"CI": "false"}},
		{name: "ci zero", env: map[string]string{"CI": "0"}},
		{name: "editor root", env: map[string]string{"BLOCKDRIVE_EDITOR_ROOT": "/src/blockly"}, wantRoot: "/src/blockly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ApplyEnv(func(k string) string { return tt.env[k] })
			assert.Equal(t, tt.wantCI, cfg.Browser.CI)
			assert.Equal(t, tt.wantCI, cfg.Browser.IsHeadless())
			assert.Equal(t, tt.wantRoot, cfg.Targets.Root)
		})
	}
}

func TestApplyEnvKeepsConfiguredRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Targets.Root = "/from/file"
	cfg.ApplyEnv(func(string) string { return "/from/env" })
	assert.Equal(t, "/from/file", cfg.Targets.Root)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError string
	}{
		{
			name:        "viewport too small",
			mutate:      func(c *Config) { c.Browser.ViewportWidth = 50 },
			expectError: "viewport_width",
		},
		{
			name:        "zero wait",
			mutate:      func(c *Config) { c.Timeouts.Wait = 0 },
			expectError: "timeouts.wait",
		},
		{
			name:        "interval longer than wait",
			mutate:      func(c *Config) { c.Timeouts.PollInterval = time.Minute },
			expectError: "exceeds",
		},
		{
			name:        "zero steps",
			mutate:      func(c *Config) { c.Gesture.Steps = 0 },
			expectError: "gesture.steps",
		},
		{
			name:        "bad verbosity",
			mutate:      func(c *Config) { c.Logging.Verbosity = "loud" },
			expectError: "invalid logging verbosity",
		},
		{
			name:        "report without dir",
			mutate:      func(c *Config) { c.Report.OutputDir = "" },
			expectError: "report.output_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateDefaultsVerbosity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Verbosity = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "normal", cfg.Logging.Verbosity)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blockdrive.yaml")
	content := `browser:
  headless: true
  viewport_width: 1600
timeouts:
  wait: 2s
  poll_interval: 25ms
gesture:
  steps: 4
targets:
  root: /src/blockly
logging:
  verbosity: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1600, cfg.Browser.ViewportWidth)
	assert.Equal(t, 720, cfg.Browser.ViewportHeight, "unset fields keep defaults")
	assert.Equal(t, 2*time.Second, cfg.Timeouts.Wait)
	assert.Equal(t, 25*time.Millisecond, cfg.Timeouts.PollInterval)
	assert.Equal(t, 4, cfg.Gesture.Steps)
	assert.Equal(t, "/src/blockly", cfg.Targets.Root)
	assert.Equal(t, "debug", cfg.Logging.Verbosity)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: [unterminated"), 0600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
