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
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds Anthropic API settings for the two pipeline stages.
type AnthropicConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	RouterModel       string  `yaml:"router_model" mapstructure:"router_model"`
	ExtractModel      string  `yaml:"extract_model" mapstructure:"extract_model"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	BaseRetryDelayMS  int     `yaml:"base_retry_delay_ms" mapstructure:"base_retry_delay_ms"`
	SnippetBudget     int     `yaml:"snippet_budget" mapstructure:"snippet_budget"`
	RequestsPerSecond float64 `yaml:"rps" mapstructure:"rps"`
}

// NotionConfig holds Notion API credentials and the deal tracker database ID.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	DealDB string `yaml:"deal_db" mapstructure:"deal_db"`
}

// ServerConfig configures the push notification server. SourceURL points
// at the mailbox bridge that resolves a history cursor into messages;
// without it the push endpoint is disabled and only direct ingestion works.
type ServerConfig struct {
	Port      int    `yaml:"port" mapstructure:"port"`
	SourceURL string `yaml:"source_url" mapstructure:"source_url"`
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
	v.SetEnvPrefix("DEALFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "dealflow.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.router_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.extract_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_retries", 3)
	v.SetDefault("anthropic.base_retry_delay_ms", 500)
	v.SetDefault("anthropic.snippet_budget", 1000)
	v.SetDefault("anthropic.rps", 5)

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

// Validate checks that the settings a command depends on are present.
// mode is the command name: "run", "serve", "export", or "migrate".
func (c *Config) Validate(mode string) error {
	var problems []string

	needsAnthropic := mode == "run" || mode == "serve"
	needsStore := mode == "serve" || mode == "export" || mode == "migrate"

	if needsAnthropic && c.Anthropic.Key == "" {
		problems = append(problems, "anthropic.key is required")
	}
	if needsStore {
		switch c.Store.Driver {
		case "postgres":
			if c.Store.DatabaseURL == "" {
				problems = append(problems, "store.database_url is required for driver postgres")
			}
		case "sqlite":
			if c.Store.Path == "" {
				problems = append(problems, "store.path is required for driver sqlite")
			}
		default:
			problems = append(problems, "store.driver must be postgres or sqlite")
		}
	}

	switch mode {
	case "run":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "export":
		if c.Notion.Token == "" {
			problems = append(problems, "notion.token is required")
		}
		if c.Notion.DealDB == "" {
			problems = append(problems, "notion.deal_db is required")
		}
	case "migrate":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Anthropic.SnippetBudget < 0 {
		problems = append(problems, "anthropic.snippet_budget must be >= 0")
	}
	if c.Anthropic.MaxRetries < 0 {
		problems = append(problems, "anthropic.max_retries must be >= 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
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
