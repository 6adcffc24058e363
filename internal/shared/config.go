package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Source   SourceConfig   `toml:"source"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Output   OutputConfig   `toml:"output"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
}

// SourceConfig describes the HTTP API serving users and employees.
type SourceConfig struct {
	BaseURL        string  `toml:"base_url"`
	UsersPath      string  `toml:"users_path"`
	EmployeesPath  string  `toml:"employees_path"`
	UsersKey       string  `toml:"users_key"`
	EmployeesKey   string  `toml:"employees_key"`
	RateLimit      float64 `toml:"rate_limit"`      // requests per second, 0 disables
	TimeoutSeconds int     `toml:"timeout_seconds"` // 0 keeps the transport default
}

// PipelineConfig contains join, padding and reproducibility settings.
type PipelineConfig struct {
	JoinKey    string `toml:"join_key"`
	TargetRows int    `toml:"target_rows"`
	Seed       uint64 `toml:"seed"` // 0 seeds from the clock
	Now        string `toml:"now"`  // RFC 3339; empty uses the wall clock
}

// OutputConfig contains the CSV destination.
type OutputConfig struct {
	Path string `toml:"path"`
}

// DatabaseConfig contains run ledger connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	RecordRuns   bool   `toml:"record_runs"`
}

// ServerConfig contains fixture server settings.
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	FixtureRows int    `toml:"fixture_rows"`
	Keyed       bool   `toml:"keyed"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports the first setting that would make a pipeline run meaningless.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Source.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: source.base_url %q is not an absolute URL", ErrInvalidConfig, c.Source.BaseURL)
	}
	if strings.TrimSpace(c.Pipeline.JoinKey) == "" {
		return fmt.Errorf("%w: pipeline.join_key is empty", ErrInvalidConfig)
	}
	if c.Pipeline.TargetRows < 0 {
		return fmt.Errorf("%w: pipeline.target_rows must not be negative", ErrInvalidConfig)
	}
	if c.Source.RateLimit < 0 {
		return fmt.Errorf("%w: source.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Source.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: source.timeout_seconds must not be negative", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		return fmt.Errorf("%w: output.path is empty", ErrInvalidConfig)
	}
	if _, err := c.Clock(); err != nil {
		return err
	}
	return nil
}

// Clock returns the pipeline's notion of "now": a fixed instant when pipeline.now is set, the wall clock otherwise.
func (c *Config) Clock() (func() time.Time, error) {
	if strings.TrimSpace(c.Pipeline.Now) == "" {
		return time.Now, nil
	}
	at, err := time.Parse(time.RFC3339, c.Pipeline.Now)
	if err != nil {
		return nil, fmt.Errorf("%w: pipeline.now: %v", ErrInvalidConfig, err)
	}
	return func() time.Time { return at }, nil
}

// HTTPTimeout converts source.timeout_seconds to a [time.Duration].
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Source.TimeoutSeconds) * time.Second
}

// ServerAddress returns the host:port pair the fixture server binds to.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
