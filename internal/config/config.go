package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Farm      FarmConfig
	RateLimit RateLimitConfig
	Modules   ModulesConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	Enabled   bool
	JWTSecret string
}

type FarmConfig struct {
	// WebserviceURL is the base URL of the render farm webservice.
	// Empty means no farm is configured and the stub client is used.
	WebserviceURL  string
	TimeoutSeconds int
}

type RateLimitConfig struct {
	RequestsPerMin int
}

type ModulesConfig struct {
	Deadline  ModuleConfig
	Transfers ModuleConfig
	Users     ModuleConfig
}

type ModuleConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.jwt_secret", "change-me-in-production")
	viper.SetDefault("farm.webservice_url", "")
	viper.SetDefault("farm.timeout_seconds", 10)
	viper.SetDefault("ratelimit.requests_per_min", 120)
	viper.SetDefault("modules.deadline.enabled", true)
	viper.SetDefault("modules.transfers.enabled", true)
	viper.SetDefault("modules.users.enabled", true)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			Enabled:   viper.GetBool("auth.enabled"),
			JWTSecret: viper.GetString("auth.jwt_secret"),
		},
		Farm: FarmConfig{
			WebserviceURL:  viper.GetString("farm.webservice_url"),
			TimeoutSeconds: viper.GetInt("farm.timeout_seconds"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMin: viper.GetInt("ratelimit.requests_per_min"),
		},
		Modules: ModulesConfig{
			Deadline:  ModuleConfig{Enabled: viper.GetBool("modules.deadline.enabled")},
			Transfers: ModuleConfig{Enabled: viper.GetBool("modules.transfers.enabled")},
			Users:     ModuleConfig{Enabled: viper.GetBool("modules.users.enabled")},
		},
	}

	return cfg, nil
}
