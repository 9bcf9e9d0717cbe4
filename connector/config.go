package connector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents database connection configuration.
type Config struct {
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database" yaml:"database"`
	Username       string            `json:"username" yaml:"username"`
	Password       string            `json:"password" yaml:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration     `json:"query_timeout" yaml:"query_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen         int           `json:"max_open" yaml:"max_open"`
	MaxIdle         int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime     time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime     time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
	HealthCheckFreq time.Duration `json:"health_check_freq" yaml:"health_check_freq"`
}

// RetryConfig defines connection retry behavior. Backoff multiplies the
// delay after each failed attempt; values at or below 1 fall back to 2.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff"`
}

// ClusterConfig defines primary-replica database cluster configuration.
type ClusterConfig struct {
	Primary       Config        `json:"primary" yaml:"primary"`
	Replicas      []Config      `json:"replicas" yaml:"replicas"`
	ReadStrategy  string        `json:"read_strategy" yaml:"read_strategy"`
	WriteStrategy string        `json:"write_strategy" yaml:"write_strategy"`
	FailoverDelay time.Duration `json:"failover_delay" yaml:"failover_delay"`
}

// Validate checks that the config names a reachable endpoint. Providers
// that dial file paths rather than hosts skip it.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// WithDefaults returns a copy of the pool settings with zero values
// replaced by the defaults providers apply before opening a pool.
func (p PoolConfig) WithDefaults() PoolConfig {
	if p.MaxOpen <= 0 {
		p.MaxOpen = 10
	}
	if p.MaxIdle < 0 {
		p.MaxIdle = 5
	}
	if p.MaxLifetime == 0 {
		p.MaxLifetime = time.Hour
	}
	if p.MaxIdleTime == 0 {
		p.MaxIdleTime = 30 * time.Minute
	}
	return p
}

// Validate validates cluster configuration.
func (cc *ClusterConfig) Validate() error {
	if cc.Primary.Host == "" {
		return fmt.Errorf("primary host is required")
	}

	validStrategies := map[string]bool{
		"round_robin": true,
		"random":      true,
		"primary":     true,
	}

	if cc.ReadStrategy != "" && !validStrategies[cc.ReadStrategy] {
		return fmt.Errorf("invalid read strategy: %s", cc.ReadStrategy)
	}

	if cc.WriteStrategy != "" && cc.WriteStrategy != "primary" {
		return fmt.Errorf("invalid write strategy: %s (only 'primary' supported)", cc.WriteStrategy)
	}

	return nil
}

// LoadConfig reads a connection config from a yaml or json file, picking
// the format by extension. Duration fields accept Go duration strings in
// yaml ("30s", "5m") and nanosecond integers in json.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse json config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
	return cfg, nil
}

// LoadClusterConfig reads a cluster config the same way LoadConfig does.
func LoadClusterConfig(path string) (ClusterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClusterConfig{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg ClusterConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ClusterConfig{}, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return ClusterConfig{}, fmt.Errorf("parse json config: %w", err)
		}
	default:
		return ClusterConfig{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
	return cfg, nil
}
