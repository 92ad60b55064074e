package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Identity IdentityConfig
	Reminder ReminderConfig
}

type ServerConfig struct {
	Port      string
	Mode      string
	RateLimit float64
	RateBurst int
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdleConns   int
}

type RedisConfig struct {
	URL string
}

type IdentityConfig struct {
	URL      string
	Realm    string
	ClientID string
}

type ReminderConfig struct {
	Interval    time.Duration
	PopTimeout  time.Duration
	DedupWindow time.Duration
}

func Load() (*Config, error) {
	// Local development convenience, ignored when no .env exists
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvPrefix("SUBTRACK")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.ratelimit", 20)
	viper.SetDefault("server.rateburst", 40)
	viper.SetDefault("database.maxconnections", 25)
	viper.SetDefault("database.maxidleconns", 5)
	viper.SetDefault("reminder.interval", "1h")
	viper.SetDefault("reminder.poptimeout", "5s")
	viper.SetDefault("reminder.dedupwindow", "24h")

	var cfg Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Override with environment variables
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.Redis.URL = url
	}
	if url := os.Getenv("IDENTITY_URL"); url != "" {
		cfg.Identity.URL = url
	}

	return &cfg, nil
}
