package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort        int    `mapstructure:"APP_PORT"`
	StorageBackend string `mapstructure:"STORAGE_BACKEND"` // file | sqlite | redis
	DataDir        string `mapstructure:"DATA_DIR"`
	DatabasePath   string `mapstructure:"DATABASE_PATH"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`

	LLMURL   string `mapstructure:"LLM_URL"` // OpenAI-compatible base URL
	LLMModel string `mapstructure:"LLM_MODEL"`

	AuthMode         string `mapstructure:"AUTH_MODE"` // remote | jwt
	AuthURL          string `mapstructure:"AUTH_URL"`
	AuthTokenHeader  string `mapstructure:"AUTH_TOKEN_HEADER"`
	AuthAllowedUsers string `mapstructure:"AUTH_ALLOWED_USERS"` // comma-separated emails
	AuthTestBypass   bool   `mapstructure:"AUTH_TEST_BYPASS"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// AllowedUsers returns the configured allow-list as a slice of
// lowercased email addresses.
func (c *Config) AllowedUsers() []string {
	if c.AuthAllowedUsers == "" {
		return nil
	}
	parts := strings.Split(c.AuthAllowedUsers, ",")
	users := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			users = append(users, p)
		}
	}
	return users
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 3000)
	viper.SetDefault("STORAGE_BACKEND", "file")
	viper.SetDefault("DATA_DIR", "/data/chats")
	viper.SetDefault("DATABASE_PATH", "/data/lovelace.db")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("LLM_URL", "http://127.0.0.1:11434/v1")
	viper.SetDefault("LLM_MODEL", "gemma3:4b")
	viper.SetDefault("AUTH_MODE", "remote")
	viper.SetDefault("AUTH_URL", "")
	viper.SetDefault("AUTH_TOKEN_HEADER", "X-Auth-Token")
	viper.SetDefault("AUTH_ALLOWED_USERS", "")
	viper.SetDefault("AUTH_TEST_BYPASS", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("LOG_LEVEL", "INFO")

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

	return &cfg, nil
}
