package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort          int           `mapstructure:"APP_PORT"`
	AnthropicAPIKey  string        `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string        `mapstructure:"ANTHROPIC_BASE_URL"`
	Model            string        `mapstructure:"ANTHROPIC_MODEL"`
	ChatMaxTokens    int64         `mapstructure:"CHAT_MAX_TOKENS"`
	LearnMaxTokens   int64         `mapstructure:"LEARN_MAX_TOKENS"`
	ProfilePath      string        `mapstructure:"PROFILE_PATH"`
	StaticDir        string        `mapstructure:"STATIC_DIR"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

const (
	DefaultModel          = "claude-haiku-4-5-20251001"
	DefaultChatMaxTokens  = 1024
	DefaultLearnMaxTokens = 200
)

// LoadConfig reads configuration from defaults, an optional .env file and the
// environment, in increasing order of precedence. A missing ANTHROPIC_API_KEY
// is not an error here: the relay reports it per request.
func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 3000)
	viper.SetDefault("ANTHROPIC_API_KEY", "")
	viper.SetDefault("ANTHROPIC_BASE_URL", "")
	viper.SetDefault("ANTHROPIC_MODEL", DefaultModel)
	viper.SetDefault("CHAT_MAX_TOKENS", DefaultChatMaxTokens)
	viper.SetDefault("LEARN_MAX_TOKENS", DefaultLearnMaxTokens)
	viper.SetDefault("PROFILE_PATH", "")
	viper.SetDefault("STATIC_DIR", "")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.ChatMaxTokens <= 0 {
		cfg.ChatMaxTokens = DefaultChatMaxTokens
	}
	if cfg.LearnMaxTokens <= 0 {
		cfg.LearnMaxTokens = DefaultLearnMaxTokens
	}

	return &cfg, nil
}
