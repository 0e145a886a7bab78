package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ProblematicPolicy controls which extraction misses mark a record as
// problematic. The current audit policy flags a record when either the order
// number or the address is missing; the stricter historical policy required
// both to be missing.
type ProblematicPolicy string

const (
	PolicyAnyMissing ProblematicPolicy = "any-missing"
	PolicyAllMissing ProblematicPolicy = "all-missing"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Workers  WorkersConfig  `yaml:"workers"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type RedisConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Password       string `yaml:"password"`
	DB             int    `yaml:"db"`
	PoolSize       int    `yaml:"pool_size"`
	IngestionQueue string `yaml:"ingestion_queue"`
	DLQSuffix      string `yaml:"dlq_suffix"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	UseSSL       bool   `yaml:"use_ssl"`
	UploadPrefix string `yaml:"upload_prefix"`
}

type WorkersConfig struct {
	Ingestion IngestionWorkerConfig `yaml:"ingestion"`
}

type IngestionWorkerConfig struct {
	Count     int `yaml:"count"`
	QueueSize int `yaml:"queue_size"`
}

// AnalysisConfig carries the audit policy knobs. The thresholds and policy
// switches used to live as inline constants in earlier revisions of the
// checker; they materially change reported counts, so they are explicit
// configuration now.
type AnalysisConfig struct {
	// InstallationThreshold is the payout above which an otherwise
	// unclassified record counts as an installation. Business rule
	// inherited from the historical payout sheets.
	InstallationThreshold float64 `yaml:"installation_threshold"`
	// ProblematicPolicy selects any-missing (default) or all-missing.
	ProblematicPolicy ProblematicPolicy `yaml:"problematic_policy"`
	// NormalizeAddressKeys compares addresses case/whitespace-insensitively
	// when clustering. Raw comparison is kept only for reproducing old
	// reports.
	NormalizeAddressKeys *bool `yaml:"normalize_address_keys"`
	// SampleLimit caps how many clusters each report section embeds.
	SampleLimit int `yaml:"sample_limit"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 20 << 20
	}
	if c.Workers.Ingestion.Count == 0 {
		c.Workers.Ingestion.Count = 2
	}
	if c.Workers.Ingestion.QueueSize == 0 {
		c.Workers.Ingestion.QueueSize = c.Workers.Ingestion.Count * 2
	}
	c.Analysis.applyDefaults()
}

func (a *AnalysisConfig) applyDefaults() {
	if a.InstallationThreshold == 0 {
		a.InstallationThreshold = 5000
	}
	if a.ProblematicPolicy == "" {
		a.ProblematicPolicy = PolicyAnyMissing
	}
	if a.NormalizeAddressKeys == nil {
		t := true
		a.NormalizeAddressKeys = &t
	}
	if a.SampleLimit == 0 {
		a.SampleLimit = 30
	}
}

// DefaultAnalysis returns the canonical analysis settings used when no
// config file is in play (tests, library use).
func DefaultAnalysis() AnalysisConfig {
	var a AnalysisConfig
	a.applyDefaults()
	return a
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.Charset, c.Database.ParseTime, c.Database.Loc)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
