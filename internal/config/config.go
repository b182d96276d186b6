/**
 * @description
 * This package handles the configuration management for the service. It uses
 * the Viper library to read configuration from environment variables,
 * providing a centralized and straightforward way to manage application
 * settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for Silver Bank.
// These values are loaded from environment variables.
type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	RedisURL           string `mapstructure:"REDIS_URL"`
	RedisRevokedPrefix string `mapstructure:"REDIS_REVOKED_PREFIX"`
	RabbitMQURL        string `mapstructure:"RABBITMQ_URL"`
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	SessionTTLMinutes  int    `mapstructure:"SESSION_TTL_MINUTES"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// SessionTTL returns the configured session lifetime.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// AllowedOrigins splits the comma-separated CORS origin list.
func (c Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SESSION_TTL_MINUTES", 60)
	viper.SetDefault("REDIS_REVOKED_PREFIX", "silverbank:revoked")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_REVOKED_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("SESSION_TTL_MINUTES")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// Platform-provided PORT wins over SERVER_PORT.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RabbitMQURL = strings.TrimSpace(config.RabbitMQURL)
	config.RedisRevokedPrefix = strings.TrimSpace(config.RedisRevokedPrefix)
	if config.RedisRevokedPrefix == "" {
		config.RedisRevokedPrefix = "silverbank:revoked"
	}
	if config.SessionTTLMinutes <= 0 {
		log.Printf("level=warn component=config msg=\"non-positive session ttl; using default\" minutes=%d", config.SessionTTLMinutes)
		config.SessionTTLMinutes = 60
	}

	return
}
