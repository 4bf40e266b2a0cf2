package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey        string `mapstructure:"secret_key"`
		Algorithm        string `mapstructure:"algorithm"`
		AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
		RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
	} `mapstructure:"jwt"`
	Security struct {
		MaxFailedAttempts    int    `mapstructure:"max_failed_attempts"`
		LockoutPeriodSeconds int    `mapstructure:"lockout_period_seconds"`
		StoreTimeoutSeconds  int    `mapstructure:"store_timeout_seconds"`
		PasswordHasher       string `mapstructure:"password_hasher"`
	} `mapstructure:"security"`
	// RateLimits maps a route key (e.g. "login") to a limit string
	// such as "15/minute". Routes without an entry use DefaultRateLimit.
	RateLimits       map[string]string `mapstructure:"rate_limits"`
	DefaultRateLimit string            `mapstructure:"default_rate_limit"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("jwt.algorithm", "HS256")
	viper.SetDefault("jwt.access_ttl_minutes", 30)
	viper.SetDefault("jwt.refresh_ttl_days", 7)
	viper.SetDefault("security.max_failed_attempts", 5)
	viper.SetDefault("security.lockout_period_seconds", 900)
	viper.SetDefault("security.store_timeout_seconds", 5)
	viper.SetDefault("security.password_hasher", "bcrypt")
	viper.SetDefault("default_rate_limit", "30/minute")
}
