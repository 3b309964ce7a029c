package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	Port            string `mapstructure:"PORT"`
	StoreDriver     string `mapstructure:"STORE_DRIVER"`
	SQLitePath      string `mapstructure:"SQLITE_PATH"`
	DatabaseURL     string `mapstructure:"DATABASE_URL"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	ProfileKey      string `mapstructure:"PROFILE_KEY"`
	Timezone        string `mapstructure:"TIMEZONE"`
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	DeviceSecret    string `mapstructure:"DEVICE_SECRET"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	CleanupSchedule string `mapstructure:"CLEANUP_SCHEDULE"`
}

var defaults = map[string]string{
	"PORT":             "8080",
	"STORE_DRIVER":     "sqlite",
	"SQLITE_PATH":      "wordpace.db",
	"DATABASE_URL":     "",
	"REDIS_ADDR":       "",
	"REDIS_PASSWORD":   "",
	"PROFILE_KEY":      "wordpace.profile",
	"TIMEZONE":         "Local",
	"JWT_SECRET":       "",
	"DEVICE_SECRET":    "",
	"LOG_LEVEL":        "info",
	"CLEANUP_SCHEDULE": "@every 15m",
}

// Load reads .env (when present) and the environment into Settings, falling
// back to defaults for anything unset.
func Load() (Settings, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Location resolves the configured timezone. Unknown names fall back to the
// host's local zone.
func (s Settings) Location() *time.Location {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
