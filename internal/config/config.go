package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the gateway configuration. It is loaded once at startup and never mutated.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Tools     ToolsConfig     `yaml:"tools"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	CORS      CORSConfig      `yaml:"cors"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	File       string `yaml:"file"`  // optional rotated log file, stderr only when empty
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds cross-origin response header settings.
type CORSConfig struct {
	AllowedOrigin string `yaml:"allowed_origin"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxBodyBytes    int64 `yaml:"max_body_bytes"`
}

// ToolsConfig locates the external converter and search executables.
type ToolsConfig struct {
	Dir           string `yaml:"dir"`       // default: directory of the running binary
	Converter     string `yaml:"converter"` // relative names resolve against Dir
	Search        string `yaml:"search"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	MaxConcurrent int    `yaml:"max_concurrent"`
	DefaultLimit  int    `yaml:"default_limit"`
}

// WorkspaceConfig holds scratch directory settings.
type WorkspaceConfig struct {
	Dir              string `yaml:"dir"` // default: $TMPDIR/ai-chronicle
	SweepIntervalSec int    `yaml:"sweep_interval_sec"`
	SweepMaxAgeSec   int    `yaml:"sweep_max_age_sec"`
}

// ConverterPath returns the absolute-or-relative path of the converter executable.
func (t ToolsConfig) ConverterPath() string { return t.resolve(t.Converter) }

// SearchPath returns the path of the search executable.
func (t ToolsConfig) SearchPath() string { return t.resolve(t.Search) }

func (t ToolsConfig) resolve(name string) string {
	if filepath.IsAbs(name) || t.Dir == "" {
		return name
	}
	return filepath.Join(t.Dir, name)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A missing file is not an error: the gateway then runs on defaults.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references, applying defaults and validating.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3777
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 32 << 20
	}
	if c.Tools.Dir == "" {
		c.Tools.Dir = executableDir()
	}
	if c.Tools.Converter == "" {
		c.Tools.Converter = "md2json"
	}
	if c.Tools.Search == "" {
		c.Tools.Search = "aiquery"
	}
	if c.Tools.TimeoutSec <= 0 {
		c.Tools.TimeoutSec = 30
	}
	if c.Tools.MaxConcurrent <= 0 {
		c.Tools.MaxConcurrent = 4
	}
	if c.Tools.DefaultLimit <= 0 {
		c.Tools.DefaultLimit = 10
	}
	if c.Workspace.Dir == "" {
		c.Workspace.Dir = filepath.Join(os.TempDir(), "ai-chronicle")
	}
	if c.Workspace.SweepIntervalSec <= 0 {
		c.Workspace.SweepIntervalSec = 300
	}
	if c.Workspace.SweepMaxAgeSec <= 0 {
		c.Workspace.SweepMaxAgeSec = 3600
	}
	if c.CORS.AllowedOrigin == "" {
		c.CORS.AllowedOrigin = "*"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 28
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Tools.Converter == c.Tools.Search {
		return fmt.Errorf("tools.converter and tools.search must differ, both are %q", c.Tools.Converter)
	}
	if strings.ContainsAny(c.CORS.AllowedOrigin, "\r\n") {
		return fmt.Errorf("cors.allowed_origin must be a single header value")
	}
	if c.Tools.TimeoutSec >= c.HTTP.WriteTimeoutSec {
		return fmt.Errorf(
			"tools.timeout_sec (%d) must be shorter than http.write_timeout_sec (%d)",
			c.Tools.TimeoutSec, c.HTTP.WriteTimeoutSec,
		)
	}
	if c.Workspace.SweepMaxAgeSec < c.Tools.TimeoutSec {
		return fmt.Errorf(
			"workspace.sweep_max_age_sec (%d) must not be shorter than tools.timeout_sec (%d)",
			c.Workspace.SweepMaxAgeSec, c.Tools.TimeoutSec,
		)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check next to the binary
	if path := filepath.Join(executableDir(), "config", filename); fileExists(path) {
		return path
	}

	// 3. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 4. Fallback to ./config/
	return filepath.Join("config", filename)
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
