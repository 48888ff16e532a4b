// Package config handles configuration loading for fundlens.
// It supports YAML config files, a .env file and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FUNDLENS_API_PORT.
const EnvPrefix = "FUNDLENS"

// Config represents the complete application configuration.
type Config struct {
	API        APIConfig        `mapstructure:"api"        yaml:"api"        json:"api"`
	Data       DataConfig       `mapstructure:"data"       yaml:"data"       json:"data"`
	Remote     RemoteConfig     `mapstructure:"remote"     yaml:"remote"     json:"remote"`
	News       NewsConfig       `mapstructure:"news"       yaml:"news"       json:"news"`
	Sync       SyncConfig       `mapstructure:"sync"       yaml:"sync"       json:"sync"`
	Calculator CalculatorConfig `mapstructure:"calculator" yaml:"calculator" json:"calculator"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"    json:"logging"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-" json:"config_file,omitempty"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host           string   `mapstructure:"host"            yaml:"host"            json:"host"`
	Port           int      `mapstructure:"port"            yaml:"port"            json:"port"`
	CORSOrigins    []string `mapstructure:"cors_origins"    yaml:"cors_origins"    json:"cors_origins"`
	RequestTimeout int      `mapstructure:"request_timeout" yaml:"request_timeout" json:"request_timeout"` // seconds
}

// Addr returns host:port for the listener.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// Data source kinds for DataConfig.Source.
const (
	SourceCurated   = "curated"
	SourceGenerated = "generated"
	SourceCSV       = "csv"
	SourceHTML      = "html"
	SourceSQLite    = "sqlite"
)

// DataConfig selects where the local fund repository is loaded from.
type DataConfig struct {
	Source        string `mapstructure:"source"         yaml:"source"         json:"source"` // curated, generated, csv, html, sqlite
	Path          string `mapstructure:"path"           yaml:"path"           json:"path"`   // file for csv/html
	GenerateCount int    `mapstructure:"generate_count" yaml:"generate_count" json:"generate_count"`
	Seed          int64  `mapstructure:"seed"           yaml:"seed"           json:"seed"`
}

// RemoteConfig holds the remote fund API settings.
type RemoteConfig struct {
	Enabled    bool    `mapstructure:"enabled"      yaml:"enabled"      json:"enabled"`
	BaseURL    string  `mapstructure:"base_url"     yaml:"base_url"     json:"base_url"` // e.g. http://localhost:8000/api
	APIKey     string  `mapstructure:"api_key"      yaml:"api_key"      json:"-"`
	TimeoutSec int     `mapstructure:"timeout_sec"  yaml:"timeout_sec"  json:"timeout_sec"` // 0 = no client timeout
	RatePerSec float64 `mapstructure:"rate_per_sec" yaml:"rate_per_sec" json:"rate_per_sec"`
}

// NewsFeed is one RSS feed.
type NewsFeed struct {
	Name string `mapstructure:"name" yaml:"name" json:"name"`
	URL  string `mapstructure:"url"  yaml:"url"  json:"url"`
}

// NewsConfig holds fund news settings.
type NewsConfig struct {
	Enabled  bool       `mapstructure:"enabled"   yaml:"enabled"   json:"enabled"`
	Feeds    []NewsFeed `mapstructure:"feeds"     yaml:"feeds"     json:"feeds"`
	CacheTTL int        `mapstructure:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl"` // seconds
	Limit    int        `mapstructure:"limit"     yaml:"limit"     json:"limit"`
}

// SyncConfig holds the scheduled remote-to-store sync settings.
type SyncConfig struct {
	Enabled   bool   `mapstructure:"enabled"    yaml:"enabled"    json:"enabled"`
	Schedule  string `mapstructure:"schedule"   yaml:"schedule"   json:"schedule"` // cron expression
	StorePath string `mapstructure:"store_path" yaml:"store_path" json:"store_path"`
}

// CalculatorConfig holds projection settings.
type CalculatorConfig struct {
	TaxRate float64 `mapstructure:"tax_rate" yaml:"tax_rate" json:"tax_rate"` // fraction, 0.10 = 10%
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  json:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml
//  2. ~/.fundlens/config.yaml
//  3. /etc/fundlens/config.yaml
//
// A .env file in the working directory is loaded first. Environment
// variables override file values: FUNDLENS_<SECTION>_<KEY>.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".fundlens"))
	v.AddConfigPath("/etc/fundlens")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourceCurated, SourceGenerated, SourceSQLite:
	case SourceCSV, SourceHTML:
		if c.Data.Path == "" {
			return fmt.Errorf("data.path is required for source %q", c.Data.Source)
		}
	default:
		return fmt.Errorf("unknown data.source %q", c.Data.Source)
	}
	if c.Remote.Enabled && c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url is required when remote is enabled")
	}
	if c.Calculator.TaxRate < 0 || c.Calculator.TaxRate > 1 {
		return fmt.Errorf("calculator.tax_rate %v outside 0..1", c.Calculator.TaxRate)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8000)
	v.SetDefault("api.cors_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("api.request_timeout", 30)

	// Data defaults
	v.SetDefault("data.source", SourceCurated)
	v.SetDefault("data.generate_count", 100)
	v.SetDefault("data.seed", 42)

	// Remote defaults (off: the catalog is served from local data)
	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.base_url", "http://localhost:8000/api")
	v.SetDefault("remote.timeout_sec", 10)
	v.SetDefault("remote.rate_per_sec", 5.0)

	// News defaults
	v.SetDefault("news.enabled", true)
	v.SetDefault("news.cache_ttl", 600) // 10 minutes
	v.SetDefault("news.limit", 10)
	v.SetDefault("news.feeds", []map[string]string{
		{"name": "Moneycontrol Mutual Funds", "url": "https://www.moneycontrol.com/rss/mfnews.xml"},
		{"name": "Economic Times Mutual Funds", "url": "https://economictimes.indiatimes.com/mf/rssfeeds/359241701.cms"},
		{"name": "LiveMint Mutual Funds", "url": "https://www.livemint.com/rss/money"},
	})

	// Sync defaults
	v.SetDefault("sync.enabled", false)
	v.SetDefault("sync.schedule", "@every 6h")
	v.SetDefault("sync.store_path", filepath.Join(homeDir(), ".fundlens", "fundlens.db"))

	// Calculator defaults
	v.SetDefault("calculator.tax_rate", 0.10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads secrets from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv(EnvPrefix + "_REMOTE_API_KEY"); key != "" {
		cfg.Remote.APIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
