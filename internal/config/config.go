package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ExtractConfig configures batching and call behavior.
type ExtractConfig struct {
	MaxPagesPerBatch  int `yaml:"max_pages_per_batch" mapstructure:"max_pages_per_batch"`
	RetryLimit        int `yaml:"retry_limit" mapstructure:"retry_limit"`
	TimeoutSecs       int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	CacheTTLHours     int `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// ScorerConfig holds the section weights of the quality score.
type ScorerConfig struct {
	WeightSubmitterSpouse float64 `yaml:"weight_submitter_spouse" mapstructure:"weight_submitter_spouse"`
	WeightStatements      float64 `yaml:"weight_statements" mapstructure:"weight_statements"`
	WeightAssets          float64 `yaml:"weight_assets" mapstructure:"weight_assets"`
	WeightRelatives       float64 `yaml:"weight_relatives" mapstructure:"weight_relatives"`
}

// BatchConfig configures run concurrency.
type BatchConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// ServerConfig configures the status server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NACC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "digitize.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 8192)
	v.SetDefault("extract.max_pages_per_batch", 25)
	v.SetDefault("extract.retry_limit", 3)
	v.SetDefault("extract.timeout_secs", 180)
	v.SetDefault("extract.requests_per_minute", 30)
	v.SetDefault("extract.cache_ttl_hours", 168)
	v.SetDefault("scorer.weight_submitter_spouse", 0.25)
	v.SetDefault("scorer.weight_statements", 0.30)
	v.SetDefault("scorer.weight_assets", 0.30)
	v.SetDefault("scorer.weight_relatives", 0.15)
	v.SetDefault("batch.max_concurrent_documents", 4)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return eris.New("config: store.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required for the postgres driver")
		}
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}

	if c.Extract.MaxPagesPerBatch <= 0 {
		return eris.New("config: extract.max_pages_per_batch must be positive")
	}
	sum := c.Scorer.WeightSubmitterSpouse + c.Scorer.WeightStatements +
		c.Scorer.WeightAssets + c.Scorer.WeightRelatives
	if sum < 0.999999 || sum > 1.000001 {
		return eris.Errorf("config: scorer weights must sum to 1.0, got %.6f", sum)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
